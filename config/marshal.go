package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/luxfi/icefrost/dkg"
	"github.com/luxfi/icefrost/pkg/party"
)

// wireConfig is the intermediate, curve-agnostic representation both
// MarshalJSON and the CBOR codec encode to: every scalar and point is its
// canonical byte encoding, so decoding only needs c.Group to already be set.
type wireConfig struct {
	ID         uint32            `json:"id" cbor:"id"`
	Threshold  int               `json:"threshold" cbor:"threshold"`
	Generation uint64            `json:"generation" cbor:"generation"`
	Secret     []byte            `json:"secret" cbor:"secret"`
	GroupKey   []byte            `json:"group_key" cbor:"group_key"`
	Public     map[uint32][]byte `json:"public" cbor:"public"`
	Context    []byte            `json:"context" cbor:"context"`
}

func (c *Config) toWire() wireConfig {
	public := make(map[uint32][]byte, len(c.Public))
	for id, pub := range c.Public {
		public[uint32(id)] = pub.Share.Bytes()
	}
	return wireConfig{
		ID:         uint32(c.ID),
		Threshold:  c.Threshold,
		Generation: c.Generation,
		Secret:     c.Secret.Key.Bytes(),
		GroupKey:   c.GroupKey.Point.Bytes(),
		Public:     public,
		Context:    c.Context,
	}
}

func (c *Config) fromWire(w wireConfig) error {
	if c.Group == nil {
		return fmt.Errorf("config: group must be set before unmarshalling")
	}

	c.ID = party.ID(w.ID)
	c.Threshold = w.Threshold
	c.Generation = w.Generation
	c.Context = w.Context

	secret, err := c.Group.NewScalar().SetBytes(w.Secret)
	if err != nil {
		return fmt.Errorf("config: decoding secret share: %w", err)
	}
	c.Secret = &dkg.SecretKey{Index: party.ID(w.ID), Key: secret}

	groupKey, err := c.Group.NewPoint().SetBytes(w.GroupKey)
	if err != nil {
		return fmt.Errorf("config: decoding group key: %w", err)
	}
	c.GroupKey = &dkg.GroupKey{Point: groupKey}

	c.Public = make(map[party.ID]*dkg.IndividualPublicKey, len(w.Public))
	for idRaw, shareBytes := range w.Public {
		id := party.ID(idRaw)
		share, err := c.Group.NewPoint().SetBytes(shareBytes)
		if err != nil {
			return fmt.Errorf("config: decoding public share for %s: %w", id, err)
		}
		c.Public[id] = &dkg.IndividualPublicKey{Index: id, Share: share}
	}
	return nil
}

// MarshalJSON implements json.Marshaler, base64-encoding every byte field
// for readability in a text config file.
func (c *Config) MarshalJSON() ([]byte, error) {
	w := c.toWire()
	return json.Marshal(struct {
		ID         uint32            `json:"id"`
		Threshold  int               `json:"threshold"`
		Generation uint64            `json:"generation"`
		Secret     string            `json:"secret"`
		GroupKey   string            `json:"group_key"`
		Public     map[string]string `json:"public"`
		Context    string            `json:"context"`
	}{
		ID:         w.ID,
		Threshold:  w.Threshold,
		Generation: w.Generation,
		Secret:     base64.StdEncoding.EncodeToString(w.Secret),
		GroupKey:   base64.StdEncoding.EncodeToString(w.GroupKey),
		Public:     encodePublicB64(w.Public),
		Context:    base64.StdEncoding.EncodeToString(w.Context),
	})
}

func encodePublicB64(public map[uint32][]byte) map[string]string {
	out := make(map[string]string, len(public))
	for id, b := range public {
		out[fmt.Sprintf("%d", id)] = base64.StdEncoding.EncodeToString(b)
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler. c.Group must already be set.
func (c *Config) UnmarshalJSON(data []byte) error {
	var in struct {
		ID         uint32            `json:"id"`
		Threshold  int               `json:"threshold"`
		Generation uint64            `json:"generation"`
		Secret     string            `json:"secret"`
		GroupKey   string            `json:"group_key"`
		Public     map[string]string `json:"public"`
		Context    string            `json:"context"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	w := wireConfig{
		ID:         in.ID,
		Threshold:  in.Threshold,
		Generation: in.Generation,
		Public:     make(map[uint32][]byte, len(in.Public)),
	}
	var err error
	if w.Secret, err = base64.StdEncoding.DecodeString(in.Secret); err != nil {
		return fmt.Errorf("config: decoding secret share: %w", err)
	}
	if w.GroupKey, err = base64.StdEncoding.DecodeString(in.GroupKey); err != nil {
		return fmt.Errorf("config: decoding group key: %w", err)
	}
	if w.Context, err = base64.StdEncoding.DecodeString(in.Context); err != nil {
		return fmt.Errorf("config: decoding context: %w", err)
	}
	for idStr, b64 := range in.Public {
		var id uint32
		if _, err := fmt.Sscanf(idStr, "%d", &id); err != nil {
			return fmt.Errorf("config: malformed party index %q: %w", idStr, err)
		}
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return fmt.Errorf("config: decoding public share for %q: %w", idStr, err)
		}
		w.Public[id] = raw
	}

	return c.fromWire(w)
}

// MarshalCBOR encodes the config in a compact binary form, for storage
// contexts where JSON's text bloat matters.
func (c *Config) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(c.toWire())
}

// UnmarshalCBOR decodes a record produced by MarshalCBOR. c.Group must
// already be set.
func (c *Config) UnmarshalCBOR(data []byte) error {
	var w wireConfig
	if err := cbor.Unmarshal(data, &w); err != nil {
		return err
	}
	return c.fromWire(w)
}

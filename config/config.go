// Package config implements long-term storage for one party's output of a
// DKG or resharing run: its secret share, the group's public key, and every
// party's individual public key share, bundled with enough metadata
// (threshold, generation, session context) to validate the bundle and to
// participate in a later resharing.
package config

import (
	"errors"
	"fmt"

	"github.com/luxfi/icefrost/dkg"
	"github.com/luxfi/icefrost/pkg/curve"
	"github.com/luxfi/icefrost/pkg/party"
	"github.com/luxfi/icefrost/pkg/polynomial"
)

// Config is the long-term storage for one DKG participant.
type Config struct {
	// ID is this party's index within the group.
	ID party.ID

	// Group fixes the elliptic curve this config's keys live on.
	Group curve.Curve

	// Threshold is the minimum number of shares needed to reconstruct the
	// group secret or recover any individual public key.
	Threshold int

	// Generation counts how many times this group's secret has been moved
	// via Reshare; it is advisory metadata the library never reads back —
	// callers use it to reject a config from the wrong resharing epoch.
	Generation uint64

	// Secret is this party's long-lived share of the group secret.
	Secret *dkg.SecretKey

	// GroupKey is the group's public key.
	GroupKey *dkg.GroupKey

	// Public maps every party's index to its individual public key share.
	Public map[party.ID]*dkg.IndividualPublicKey

	// Context is the domain-separation string this config's DKG instance
	// was run under; a resharing must reuse it so proofs from both
	// generations bind to the same session.
	Context []byte
}

// Empty constructs a Config with only its group fixed, ready for
// unmarshalling.
func Empty(group curve.Curve) *Config {
	return &Config{
		Group:  group,
		Public: make(map[party.ID]*dkg.IndividualPublicKey),
	}
}

// PartyIDs returns the sorted indices of every party with a known public
// share.
func (c *Config) PartyIDs() party.IDSlice {
	ids := make(party.IDSlice, 0, len(c.Public))
	for id := range c.Public {
		ids = append(ids, id)
	}
	return ids.Sorted()
}

// Validate checks that the config is internally well-formed: every field is
// present, the threshold is satisfiable by the known public shares, and this
// party's own share agrees with its published public key.
func (c *Config) Validate() error {
	if c.Group == nil {
		return errors.New("config: missing group")
	}
	if c.ID == 0 {
		return errors.New("config: missing party ID")
	}
	if c.Secret == nil || c.Secret.Key == nil {
		return errors.New("config: missing secret share")
	}
	if c.GroupKey == nil || c.GroupKey.Point == nil {
		return errors.New("config: missing group key")
	}
	if c.Threshold < 1 {
		return errors.New("config: invalid threshold")
	}
	if c.Threshold > len(c.Public) {
		return fmt.Errorf("config: threshold %d exceeds known party count %d", c.Threshold, len(c.Public))
	}

	own, ok := c.Public[c.ID]
	if !ok {
		return fmt.Errorf("config: no published public share for own index %s", c.ID)
	}
	if !own.Share.Equal(c.Secret.Key.ActOnBase()) {
		return errors.New("config: own public share does not match own secret share")
	}

	for id, pub := range c.Public {
		if pub == nil || pub.Share == nil {
			return fmt.Errorf("config: missing public share for %s", id)
		}
	}
	return nil
}

// Copy returns a deep copy of c, suitable for handing to a resharing run
// without letting it mutate the original.
func (c *Config) Copy() *Config {
	out := &Config{
		ID:         c.ID,
		Group:      c.Group,
		Threshold:  c.Threshold,
		Generation: c.Generation,
		GroupKey:   &dkg.GroupKey{Point: c.Group.NewPoint().Set(c.GroupKey.Point)},
		Public:     make(map[party.ID]*dkg.IndividualPublicKey, len(c.Public)),
		Context:    append([]byte(nil), c.Context...),
	}
	if c.Secret != nil {
		out.Secret = &dkg.SecretKey{Index: c.Secret.Index, Key: c.Group.NewScalar().Set(c.Secret.Key)}
	}
	for id, pub := range c.Public {
		out.Public[id] = &dkg.IndividualPublicKey{Index: pub.Index, Share: c.Group.NewPoint().Set(pub.Share)}
	}
	return out
}

// FromFinish builds a Config from one participant's Finish result, recovering
// an individual public key for every index that keys commitments (the
// dealers that produced the group key, which in a plain DKG are the parties
// themselves).
func FromFinish(group curve.Curve, threshold int, ctx []byte, groupKey *dkg.GroupKey, secret *dkg.SecretKey, commitments map[party.ID]*polynomial.Commitment) (*Config, error) {
	public := make(map[party.ID]*dkg.IndividualPublicKey, len(commitments))
	for id := range commitments {
		pub, err := dkg.GenerateIndividualPublicKey(group, id, commitments)
		if err != nil {
			return nil, fmt.Errorf("config: recovering public share for %s: %w", id, err)
		}
		public[id] = pub
	}

	return &Config{
		ID:        secret.Index,
		Group:     group,
		Threshold: threshold,
		Secret:    secret,
		GroupKey:  groupKey,
		Public:    public,
		Context:   append([]byte(nil), ctx...),
	}, nil
}

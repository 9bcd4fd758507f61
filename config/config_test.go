package config_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/icefrost/config"
	"github.com/luxfi/icefrost/dkg"
	"github.com/luxfi/icefrost/pkg/curve"
	"github.com/luxfi/icefrost/pkg/party"
	"github.com/luxfi/icefrost/pkg/polynomial"
)

var testGroup = curve.Secp256k1

func TestConfigValidateRejectsIncompleteConfig(t *testing.T) {
	cfg := config.Empty(testGroup)
	cfg.ID = 1
	cfg.Threshold = 2
	assert.Error(t, cfg.Validate())
}

func TestConfigRoundTrip(t *testing.T) {
	ctx := []byte("config-round-trip")
	params, err := dkg.NewParameters(2, 3)
	require.NoError(t, err)
	ids := party.IDSlice{1, 2, 3}

	participants := make(map[party.ID]*dkg.Participant, len(ids))
	dhSKs := make(map[party.ID]*dkg.DHPrivateKey, len(ids))
	coeffs := make(map[party.ID]*polynomial.Coefficients, len(ids))

	for _, id := range ids {
		secret, err := testGroup.RandomScalar(rand.Reader)
		require.NoError(t, err)
		p, c, dhSK, err := dkg.NewDealer(testGroup, id, params, secret, ctx, rand.Reader)
		require.NoError(t, err)
		participants[id] = p
		dhSKs[id] = dhSK
		coeffs[id] = c
	}

	rounds := make(map[party.ID]*dkg.RoundOne, len(ids))
	for _, id := range ids {
		var peers []*dkg.Participant
		for _, other := range ids {
			if other != id {
				peers = append(peers, participants[other])
			}
		}
		r1, err := dkg.NewInitial(testGroup, params, id, dhSKs[id], coeffs[id], peers, ctx, rand.Reader)
		require.NoError(t, err)
		rounds[id] = r1
	}

	// Every bundle is collected before any transition: ToRoundTwo drops the
	// caller's own outbound shares.
	inbound := make(map[party.ID][]*dkg.EncryptedSecretShare, len(ids))
	for _, id := range ids {
		for _, other := range ids {
			shares, err := rounds[other].TheirEncryptedSecretShares()
			require.NoError(t, err)
			inbound[id] = append(inbound[id], shares[id])
		}
	}

	var groupKey *dkg.GroupKey
	secretKeys := make(map[party.ID]*dkg.SecretKey, len(ids))
	for _, id := range ids {
		r2, err := rounds[id].ToRoundTwo(inbound[id])
		require.NoError(t, err)
		gk, sk, err := r2.Finish()
		require.NoError(t, err)
		groupKey = gk
		secretKeys[id] = sk
	}

	commitments := make(map[party.ID]*polynomial.Commitment, len(ids))
	for id, p := range participants {
		commitments[id] = p.Commitment
	}

	own := secretKeys[1]
	cfg, err := config.FromFinish(testGroup, params.T, ctx, groupKey, own, commitments)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, party.IDSlice{1, 2, 3}, cfg.PartyIDs())

	jsonBytes, err := cfg.MarshalJSON()
	require.NoError(t, err)

	decodedJSON := config.Empty(testGroup)
	require.NoError(t, decodedJSON.UnmarshalJSON(jsonBytes))
	assert.True(t, decodedJSON.GroupKey.Point.Equal(cfg.GroupKey.Point))
	assert.True(t, decodedJSON.Secret.Key.Equal(cfg.Secret.Key))
	require.NoError(t, decodedJSON.Validate())

	cborBytes, err := cfg.MarshalCBOR()
	require.NoError(t, err)

	decodedCBOR := config.Empty(testGroup)
	require.NoError(t, decodedCBOR.UnmarshalCBOR(cborBytes))
	assert.True(t, decodedCBOR.GroupKey.Point.Equal(cfg.GroupKey.Point))
	assert.True(t, decodedCBOR.Secret.Key.Equal(cfg.Secret.Key))
	require.NoError(t, decodedCBOR.Validate())
}

func TestConfigCopyIsIndependent(t *testing.T) {
	cfg := config.Empty(testGroup)
	cfg.ID = 1
	cfg.Threshold = 2
	cfg.GroupKey = &dkg.GroupKey{Point: testGroup.NewPoint()}
	secret, err := testGroup.RandomScalar(rand.Reader)
	require.NoError(t, err)
	cfg.Secret = &dkg.SecretKey{Index: 1, Key: secret}
	cfg.Public[1] = &dkg.IndividualPublicKey{Index: 1, Share: secret.ActOnBase()}

	cp := cfg.Copy()
	cp.Threshold = 9
	assert.Equal(t, 2, cfg.Threshold)
}

package dkg_test

import (
	"crypto/rand"

	"github.com/luxfi/icefrost/dkg"
	"github.com/luxfi/icefrost/pkg/curve"
	"github.com/luxfi/icefrost/pkg/party"
	"github.com/luxfi/icefrost/pkg/polynomial"
)

var testGroup = curve.Secp256k1

func testPartyIDs(n int) party.IDSlice {
	ids := make(party.IDSlice, n)
	for i := range ids {
		ids[i] = party.ID(i + 1)
	}
	return ids
}

// dealerFixture bundles everything one simulated dealer needs to carry
// across rounds.
type dealerFixture struct {
	Index       party.ID
	Participant *dkg.Participant
	Coeffs      *polynomial.Coefficients
	DHSK        *dkg.DHPrivateKey
	RoundOne    *dkg.RoundOne
}

// buildDealers constructs n honest dealers, each with its own fresh secret.
func buildDealers(params dkg.Parameters, ids party.IDSlice, ctx []byte) []*dealerFixture {
	fixtures := make([]*dealerFixture, len(ids))
	for i, id := range ids {
		secret, err := testGroup.RandomScalar(rand.Reader)
		if err != nil {
			panic(err)
		}
		p, coeffs, dhSK, err := dkg.NewDealer(testGroup, id, params, secret, ctx, rand.Reader)
		if err != nil {
			panic(err)
		}
		fixtures[i] = &dealerFixture{Index: id, Participant: p, Coeffs: coeffs, DHSK: dhSK}
	}
	return fixtures
}

// peersExcluding returns the published Participant records for every
// fixture other than the one at skipIdx.
func peersExcluding(fixtures []*dealerFixture, skip party.ID) []*dkg.Participant {
	out := make([]*dkg.Participant, 0, len(fixtures)-1)
	for _, f := range fixtures {
		if f.Index != skip {
			out = append(out, f.Participant)
		}
	}
	return out
}

// runRoundOne drives NewInitial for every fixture.
func runRoundOne(params dkg.Parameters, fixtures []*dealerFixture, ctx []byte) {
	for _, f := range fixtures {
		r1, err := dkg.NewInitial(testGroup, params, f.Index, f.DHSK, f.Coeffs, peersExcluding(fixtures, f.Index), ctx, rand.Reader)
		if err != nil {
			panic(err)
		}
		f.RoundOne = r1
	}
}

// inboundFor collects every dealer's share addressed to recipient, as
// published by runRoundOne.
func inboundFor(fixtures []*dealerFixture, recipient party.ID) []*dkg.EncryptedSecretShare {
	inbound := make([]*dkg.EncryptedSecretShare, 0, len(fixtures))
	for _, f := range fixtures {
		shares, err := f.RoundOne.TheirEncryptedSecretShares()
		if err != nil {
			panic(err)
		}
		inbound = append(inbound, shares[recipient])
	}
	return inbound
}

func allCommitments(fixtures []*dealerFixture) map[party.ID]*polynomial.Commitment {
	out := make(map[party.ID]*polynomial.Commitment, len(fixtures))
	for _, f := range fixtures {
		out[f.Index] = f.Participant.Commitment
	}
	return out
}

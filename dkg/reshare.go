package dkg

import (
	"io"

	"github.com/luxfi/icefrost/pkg/curve"
	"github.com/luxfi/icefrost/pkg/party"
	"github.com/luxfi/icefrost/pkg/polynomial"
)

// Reshare moves an existing secret share to a new shareholder set without
// ever reconstructing the group secret: it builds a fresh degree
// newParams.T-1 polynomial whose constant term is the caller's existing
// share, then runs round one in the dealer role against the new signer
// set. Because every new party's reconstructed value is
// sum_i lambda_i(0)*f'_i(own_index) and sum_i lambda_i(0)*old_share_i
// equals the original group secret, the new set ends up holding shares of
// the same group key without any party (old or new) ever seeing it in the
// clear.
//
// newSigners is the published Participant list for the new set (signer-
// only entries, built via NewSigner); it must have length newParams.N.
func Reshare(grp curve.Curve, newParams Parameters, ownIndex party.ID, oldSecret *SecretKey, newSigners []*Participant, ctx []byte, rng io.Reader) (*Participant, *RoundOne, error) {
	dealerParticipant, coeffs, dhSK, err := NewDealer(grp, ownIndex, newParams, oldSecret.Key, ctx, rng)
	if err != nil {
		return nil, nil, err
	}

	// newSigners are signer-only records (built via NewSigner): they carry
	// a DH key and its proof but no VSS commitment, since the new set
	// hasn't run its own round one yet.
	r1, err := newRoundOne(grp, newParams, ownIndex, dhSK, coeffs, newSigners, newParams.N, newParams.T, ctx, rng, false)
	if err != nil {
		return nil, nil, err
	}

	return dealerParticipant, r1, nil
}

// CommitmentsFromDealers collects the VSS commitments published by a set
// of reshare dealers, keyed by dealer index, as required by
// GenerateIndividualPublicKey and config.FromFinish.
func CommitmentsFromDealers(dealers []*Participant) map[party.ID]*polynomial.Commitment {
	out := make(map[party.ID]*polynomial.Commitment, len(dealers))
	for _, d := range dealers {
		if d.Commitment != nil {
			out[d.Index] = d.Commitment
		}
	}
	return out
}

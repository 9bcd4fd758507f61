package dkg

import (
	"github.com/luxfi/icefrost/pkg/curve"
	"github.com/luxfi/icefrost/pkg/party"
	"github.com/luxfi/icefrost/pkg/polynomial"
)

// Finish consumes RoundTwo, reconstructing this participant's long-lived
// secret share and the group public key. Both interpolate at x=0: the
// Shamir/Feldman reconstruction point, never the participant's own index.
// A second call returns ErrStateConsumed.
func (rt *RoundTwo) Finish() (*GroupKey, *SecretKey, error) {
	if rt.consumed {
		return nil, nil, ErrStateConsumed
	}
	rt.consumed = true
	defer func() {
		for _, s := range rt.mySecretShares {
			s.Zeroize()
		}
	}()

	if len(rt.mySecretShares) == 0 {
		return nil, nil, ErrInvalidGroupKey
	}

	dealers := make(party.IDSlice, len(rt.mySecretShares))
	for i, s := range rt.mySecretShares {
		dealers[i] = s.Sender
	}

	lambdas, err := polynomial.Lagrange(rt.grp, dealers)
	if err != nil {
		return nil, nil, err
	}

	secretKey := rt.grp.NewScalar().SetUint32(0)
	for _, s := range rt.mySecretShares {
		term := rt.grp.NewScalar().Mul(lambdas[s.Sender], s.Value)
		secretKey = rt.grp.NewScalar().Add(secretKey, term)
	}

	groupPoint := rt.grp.NewPoint()
	for _, id := range dealers {
		commitment, ok := rt.peerCommitments[id]
		if !ok {
			return nil, nil, ErrInvalidGroupKey
		}
		contribution := lambdas[id].Act(commitment.PublicKey())
		groupPoint = rt.grp.NewPoint().Add(groupPoint, contribution)
	}

	return &GroupKey{Point: groupPoint}, &SecretKey{Index: rt.ownIndex, Key: secretKey}, nil
}

// GenerateIndividualPublicKey recovers the IndividualPublicKey of
// participant l from the full set of dealer commitments, without any
// cooperation from l: share_l = sum_i lambda_i(0) * (sum_j l^j * phi_i,j).
// A holder of the matching SecretKey can cross-check the result against
// key*B; the two must agree, per the group-key invariant.
func GenerateIndividualPublicKey(grp curve.Curve, l party.ID, commitments map[party.ID]*polynomial.Commitment) (*IndividualPublicKey, error) {
	dealers := make(party.IDSlice, 0, len(commitments))
	for id := range commitments {
		dealers = append(dealers, id)
	}

	lambdas, err := polynomial.Lagrange(grp, dealers)
	if err != nil {
		return nil, err
	}

	lScalar := l.Scalar(grp)
	share := grp.NewPoint()
	for _, id := range dealers {
		evalAtL := polynomial.EvaluateCommitment(grp, lScalar, commitments[id])
		contribution := lambdas[id].Act(evalAtL)
		share = grp.NewPoint().Add(share, contribution)
	}

	return &IndividualPublicKey{Index: l, Share: share}, nil
}

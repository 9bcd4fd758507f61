package nizk

import (
	"fmt"
	"io"

	"github.com/luxfi/icefrost/pkg/curve"
)

// EqualityProof is a non-interactive Chaum-Pedersen proof that dh_pk and a
// pairwise DH key K share the same discrete log relative to the bases B
// and the counterparty's DH public key, respectively. It backs the
// complaint protocol: the maker of a complaint proves they derived K
// honestly, so any third party can re-check whether the accused's share
// was actually malformed.
type EqualityProof struct {
	A1 curve.Point
	A2 curve.Point
	Z  curve.Scalar
}

// ProveEquality is run by the complaint's maker, who knows dh_sk (the
// discrete log of dhPK relative to B, and of dhKey relative to counterpartyPK).
func ProveEquality(grp curve.Curve, dhPK, counterpartyPK, dhKey curve.Point, dhSK curve.Scalar, rng io.Reader) (*EqualityProof, error) {
	r, err := grp.RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("nizk: sampling nonce: %w", err)
	}
	defer r.Zeroize()

	a1 := r.ActOnBase()
	a2 := r.Act(counterpartyPK)

	h := equalityChallenge(grp, dhPK, counterpartyPK, dhKey, a1, a2)

	// z = r + h*dh_sk
	z := grp.NewScalar().Add(r, grp.NewScalar().Mul(h, dhSK))

	return &EqualityProof{A1: a1, A2: a2, Z: z}, nil
}

// VerifyEquality checks that a1 + h*dhPK == z*B and a2 + h*dhKey == z*counterpartyPK.
func VerifyEquality(grp curve.Curve, dhPK, counterpartyPK, dhKey curve.Point, proof *EqualityProof) error {
	h := equalityChallenge(grp, dhPK, counterpartyPK, dhKey, proof.A1, proof.A2)

	lhs1 := grp.NewPoint().Add(proof.A1, h.Act(dhPK))
	rhs1 := proof.Z.ActOnBase()
	if !lhs1.Equal(rhs1) {
		return ErrComplaintVerification
	}

	lhs2 := grp.NewPoint().Add(proof.A2, h.Act(dhKey))
	rhs2 := proof.Z.Act(counterpartyPK)
	if !lhs2.Equal(rhs2) {
		return ErrComplaintVerification
	}

	return nil
}

func equalityChallenge(grp curve.Curve, dhPK, counterpartyPK, dhKey, a1, a2 curve.Point) curve.Scalar {
	return grp.HashToScalar(dhPK.Bytes(), counterpartyPK.Bytes(), dhKey.Bytes(), a1.Bytes(), a2.Bytes())
}

// Bytes returns the canonical a1 || a2 || z encoding of the proof.
func (p *EqualityProof) Bytes() []byte {
	out := make([]byte, 0, len(p.A1.Bytes())*2+len(p.Z.Bytes()))
	out = append(out, p.A1.Bytes()...)
	out = append(out, p.A2.Bytes()...)
	out = append(out, p.Z.Bytes()...)
	return out
}

// EqualityProofFromBytes decodes a proof previously produced by Bytes.
func EqualityProofFromBytes(grp curve.Curve, data []byte) (*EqualityProof, error) {
	pn, sn := grp.PointSize(), grp.ScalarSize()
	if len(data) != 2*pn+sn {
		return nil, fmt.Errorf("nizk: equality proof must be %d bytes, got %d", 2*pn+sn, len(data))
	}
	a1, err := grp.NewPoint().SetBytes(data[:pn])
	if err != nil {
		return nil, fmt.Errorf("nizk: decoding a1: %w", err)
	}
	a2, err := grp.NewPoint().SetBytes(data[pn : 2*pn])
	if err != nil {
		return nil, fmt.Errorf("nizk: decoding a2: %w", err)
	}
	z, err := grp.NewScalar().SetBytes(data[2*pn:])
	if err != nil {
		return nil, fmt.Errorf("nizk: decoding z: %w", err)
	}
	return &EqualityProof{A1: a1, A2: a2, Z: z}, nil
}

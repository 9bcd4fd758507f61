// Package nizk implements the non-interactive zero-knowledge proofs this
// module relies on: a Schnorr proof of knowledge of a discrete log, bound
// to a participant index and a domain-separating context string, and a
// Chaum-Pedersen equality-of-discrete-logs proof used by the complaint
// protocol.
package nizk

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/luxfi/icefrost/pkg/curve"
	"github.com/luxfi/icefrost/pkg/party"
)

// SchnorrProof is a non-interactive proof of knowledge of the discrete log
// x of a public point P = x*B, bound to the prover's index and a context
// string so that a proof minted for one DKG instance cannot be replayed
// into another.
type SchnorrProof struct {
	S curve.Scalar
	R curve.Scalar
}

// ProveSchnorr produces a proof that the prover knows x such that p = x*B,
// as asserted at the given index under ctx. x is not retained by the
// returned proof; the caller remains responsible for zeroising it.
func ProveSchnorr(grp curve.Curve, index party.ID, x curve.Scalar, p curve.Point, ctx []byte, rng io.Reader) (*SchnorrProof, error) {
	k, err := grp.RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("nizk: sampling nonce: %w", err)
	}
	defer k.Zeroize()

	m := k.ActOnBase()

	s := schnorrChallenge(grp, index, p, m, ctx)

	// r = k + s*x
	r := grp.NewScalar().Add(k, grp.NewScalar().Mul(s, x))

	return &SchnorrProof{S: s, R: r}, nil
}

// VerifySchnorr checks a SchnorrProof against the claimed public point p,
// index, and context string.
func VerifySchnorr(grp curve.Curve, index party.ID, p curve.Point, ctx []byte, proof *SchnorrProof) error {
	// M' = r*B - s*P = r*B + (-s)*P
	rB := proof.R.ActOnBase()
	negSP := grp.NewScalar().Negate(proof.S).Act(p)
	mPrime := grp.NewPoint().Add(rB, negSP)

	want := schnorrChallenge(grp, index, p, mPrime, ctx)
	if !want.Equal(proof.S) {
		return ErrInvalidProofOfKnowledge
	}
	return nil
}

func schnorrChallenge(grp curve.Curve, index party.ID, p, m curve.Point, ctx []byte) curve.Scalar {
	var idxLE [4]byte
	binary.LittleEndian.PutUint32(idxLE[:], uint32(index))

	return grp.HashToScalar(ctx, idxLE[:], p.Bytes(), m.Bytes())
}

// Bytes returns the canonical s || r encoding of the proof.
func (p *SchnorrProof) Bytes() []byte {
	out := make([]byte, 0, len(p.S.Bytes())+len(p.R.Bytes()))
	out = append(out, p.S.Bytes()...)
	out = append(out, p.R.Bytes()...)
	return out
}

// SchnorrProofFromBytes decodes a proof previously produced by Bytes.
func SchnorrProofFromBytes(grp curve.Curve, data []byte) (*SchnorrProof, error) {
	n := grp.ScalarSize()
	if len(data) != 2*n {
		return nil, fmt.Errorf("nizk: proof must be %d bytes, got %d", 2*n, len(data))
	}
	s, err := grp.NewScalar().SetBytes(data[:n])
	if err != nil {
		return nil, fmt.Errorf("nizk: decoding s: %w", err)
	}
	r, err := grp.NewScalar().SetBytes(data[n:])
	if err != nil {
		return nil, fmt.Errorf("nizk: decoding r: %w", err)
	}
	return &SchnorrProof{S: s, R: r}, nil
}

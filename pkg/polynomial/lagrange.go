package polynomial

import (
	"math/big"

	"github.com/luxfi/icefrost/pkg/curve"
	"github.com/luxfi/icefrost/pkg/party"
)

// Lagrange computes, for every node in nodes, the Lagrange basis coefficient
// of that node's polynomial evaluated at x=0:
//
//	l_i(0) = prod_{j != i} (0 - x_j) / (x_i - x_j) = prod_{j != i} x_j / (x_j - x_i)
//
// Reconstructing a shared secret (or a group key from per-dealer public
// contributions) always interpolates at x=0: every participant's polynomial
// is defined so that f(0) is the secret value being shared. This is the one
// evaluation point the rest of this package uses for interpolation; no
// other point is ever reconstructed.
func Lagrange(grp curve.Curve, nodes party.IDSlice) (map[party.ID]curve.Scalar, error) {
	coeffs := make(map[party.ID]curve.Scalar, len(nodes))

	for i, xi := range nodes {
		for j, xj := range nodes {
			if i != j && xi == xj {
				return nil, ErrDuplicateNode
			}
		}

		num := grp.NewScalar().SetUint32(1)
		den := grp.NewScalar().SetUint32(1)

		xiScalar := xi.Scalar(grp)
		for _, xj := range nodes {
			if xj == xi {
				continue
			}
			xjScalar := xj.Scalar(grp)
			num = grp.NewScalar().Mul(num, xjScalar)
			diff := grp.NewScalar().Sub(xjScalar, xiScalar)
			den = grp.NewScalar().Mul(den, diff)
		}

		denInv, err := invert(grp, den)
		if err != nil {
			return nil, err
		}
		coeffs[xi] = grp.NewScalar().Mul(num, denInv)
	}

	return coeffs, nil
}

// invert computes the multiplicative inverse of s in F_q. The curve
// contract exposes no inversion primitive of its own, so this drops to
// math/big's modular inverse over the canonical byte encoding: one
// extended-Euclidean computation on two 256-bit integers costs nothing next
// to the elliptic-curve scalar multiplications Lagrange reconstruction
// already does.
func invert(grp curve.Curve, s curve.Scalar) (curve.Scalar, error) {
	if s.IsZero() {
		return nil, ErrZeroDivisor
	}

	v := new(big.Int).SetBytes(s.Bytes())
	inv := new(big.Int).ModInverse(v, grp.Order())
	if inv == nil {
		return nil, ErrZeroDivisor
	}

	var be [64]byte
	inv.FillBytes(be[:grp.ScalarSize()])

	result, err := grp.NewScalar().SetBytes(be[:grp.ScalarSize()])
	if err != nil {
		return nil, err
	}
	return result, nil
}

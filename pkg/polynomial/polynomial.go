// Package polynomial implements the secret-sharing polynomial and its
// Feldman commitment: evaluation via Horner's method, coefficient
// commitments, and Lagrange interpolation at zero.
package polynomial

import (
	"fmt"
	"io"

	"github.com/luxfi/icefrost/pkg/curve"
	"github.com/luxfi/icefrost/pkg/party"
)

// Coefficients holds the t secret coefficients (a0, ..., a{t-1}) of one
// dealer's polynomial, ordered from the constant term up. a0 is the
// contributed secret. The dealer is the only party that ever holds these;
// Zeroize must be called once the dealer is done broadcasting commitments
// and computing shares.
type Coefficients struct {
	values []curve.Scalar
}

// NewCoefficients wraps an ordered slice of scalars as a Coefficients
// value. The caller transfers ownership of values: Coefficients.Zeroize
// will scrub them.
func NewCoefficients(values []curve.Scalar) *Coefficients {
	return &Coefficients{values: values}
}

// Generate samples t uniformly random coefficients using rng, forcing the
// constant term to secret (the dealer's contribution to the group secret).
func Generate(c curve.Curve, t int, secret curve.Scalar, rng io.Reader) (*Coefficients, error) {
	values := make([]curve.Scalar, t)
	values[0] = c.NewScalar().Set(secret)
	for j := 1; j < t; j++ {
		s, err := c.RandomScalar(rng)
		if err != nil {
			return nil, fmt.Errorf("polynomial: sampling coefficient %d: %w", j, err)
		}
		values[j] = s
	}
	return &Coefficients{values: values}, nil
}

// Len returns t, the number of coefficients (one more than the polynomial's
// degree).
func (c *Coefficients) Len() int { return len(c.values) }

// At returns the j-th coefficient, a_j.
func (c *Coefficients) At(j int) curve.Scalar { return c.values[j] }

// Secret returns a0, the polynomial's constant term.
func (c *Coefficients) Secret() curve.Scalar { return c.values[0] }

// Zeroize overwrites every coefficient in place.
func (c *Coefficients) Zeroize() {
	for _, v := range c.values {
		if v != nil {
			v.Zeroize()
		}
	}
	c.values = nil
}

// Evaluate computes f(x) = sum_j a_j x^j via Horner's method, iterating the
// coefficients from the highest degree down to the constant term.
func (c *Coefficients) Evaluate(grp curve.Curve, x curve.Scalar) curve.Scalar {
	sum := grp.NewScalar().SetUint32(0)
	for j := len(c.values) - 1; j >= 0; j-- {
		sum = grp.NewScalar().Add(sum, c.values[j])
		if j != 0 {
			sum = grp.NewScalar().Mul(sum, x)
		}
	}
	return sum
}

// Commitment is a participant's Feldman VSS commitment: the index of the
// dealer and the ordered sequence of group-element commitments to each of
// that dealer's t coefficients (phi_j = a_j * B).
type Commitment struct {
	Index  party.ID
	Points []curve.Point
}

// Commit produces the Feldman commitment to coefficients, phi_j = a_j*B for
// every j in [0, t).
func Commit(grp curve.Curve, index party.ID, c *Coefficients) *Commitment {
	points := make([]curve.Point, c.Len())
	for j := 0; j < c.Len(); j++ {
		points[j] = c.values[j].ActOnBase()
	}
	return &Commitment{Index: index, Points: points}
}

// PublicKey returns phi_0 = a_0*B, the dealer's public contribution to the
// group key. It is nil only for a zero-length (malformed) commitment.
func (c *Commitment) PublicKey() curve.Point {
	if len(c.Points) == 0 {
		return nil
	}
	return c.Points[0]
}

// VerifyShare checks that the share value v, allegedly f(receiver) for the
// polynomial committed to by c, is consistent with that commitment:
// v*B == sum_j receiver^j * phi_j, evaluated via Horner over the reversed
// point sequence. This function does not itself check subgroup membership
// of the commitment points; Point.SetBytes rejects points outside the
// prime-order subgroup when a commitment is decoded.
func VerifyShare(grp curve.Curve, receiver party.ID, v curve.Scalar, c *Commitment) error {
	lhs := v.ActOnBase()

	term := receiver.Scalar(grp)
	rhs := grp.NewPoint()
	for idx := len(c.Points) - 1; idx >= 0; idx-- {
		rhs = grp.NewPoint().Add(rhs, c.Points[idx])
		if idx != 0 {
			rhs = term.Act(rhs)
		}
	}

	if !lhs.Equal(rhs) {
		return ErrShareVerification
	}
	return nil
}

// EvaluateCommitment computes sum_j x^j * phi_j for an arbitrary evaluation
// point x, i.e. the public commitment to f(x) without knowing f. It is used
// by individual-public-key recovery (x = an arbitrary participant's index);
// VerifyShare computes the same sum inline for x = receiver.
func EvaluateCommitment(grp curve.Curve, x curve.Scalar, c *Commitment) curve.Point {
	rhs := grp.NewPoint()
	for idx := len(c.Points) - 1; idx >= 0; idx-- {
		rhs = grp.NewPoint().Add(rhs, c.Points[idx])
		if idx != 0 {
			rhs = x.Act(rhs)
		}
	}
	return rhs
}

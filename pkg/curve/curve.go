// Package curve provides the abstract prime-order group contract that the
// rest of this module is built against: a scalar field, a generator, and
// canonical compressed encodings for both. The DKG, VSS and NIZK packages
// never reach for a concrete curve directly; they only ever see a Scalar
// and a Point.
package curve

import (
	"io"
	"math/big"
)

// Scalar is an element of the group's scalar field F_q. All arithmetic
// methods are receiver-mutating: they write the result into the receiver
// and return it, which keeps allocations down in the hot paths of
// polynomial evaluation and Lagrange interpolation.
type Scalar interface {
	Add(a, b Scalar) Scalar
	Sub(a, b Scalar) Scalar
	Mul(a, b Scalar) Scalar
	Negate(a Scalar) Scalar
	Set(a Scalar) Scalar
	SetUint32(v uint32) Scalar
	IsZero() bool

	// Equal reports whether the receiver and b represent the same field
	// element. Implementations compare canonical encodings in constant time.
	Equal(b Scalar) bool

	// Bytes returns the canonical big-endian encoding of the scalar. This
	// module treats the byte-level curve choice as an implementation detail
	// (the group contract above is what every other package depends on), so
	// it follows secp256k1's native big-endian scalar representation rather
	// than the little-endian convention of an Edwards curve.
	Bytes() []byte

	// SetBytes decodes a canonical big-endian scalar encoding into the
	// receiver. It must reject encodings that are not the unique reduced
	// representative of their residue class.
	SetBytes(data []byte) (Scalar, error)

	// ActOnBase returns scalar*B, where B is the group generator.
	ActOnBase() Point

	// Act returns scalar*p.
	Act(p Point) Point

	// Zeroize overwrites the scalar's internal representation with zeroes.
	// Callers holding long-lived secrets (coefficients, secret shares, DH
	// private keys) must call this once the value is no longer needed.
	Zeroize()
}

// Point is an element of the prime-order group G = <B>.
type Point interface {
	Add(a, b Point) Point
	Set(a Point) Point
	IsIdentity() bool

	// Equal reports whether the receiver and b are the same group element,
	// comparing canonical compressed encodings in constant time.
	Equal(b Point) bool

	// Bytes returns the canonical compressed encoding of the point.
	Bytes() []byte

	// SetBytes decodes a canonical compressed point encoding into the
	// receiver. It must fail both for malformed input and for points
	// outside the prime-order subgroup.
	SetBytes(data []byte) (Point, error)
}

// Curve is a prime-order group G = <B> together with its factory methods.
// It is a pure algebraic abstraction: nothing above this package
// ever touches the concrete curve equations.
type Curve interface {
	Name() string

	NewScalar() Scalar
	NewPoint() Point

	// RandomScalar samples a scalar uniformly from F_q using r as an
	// entropy source. r must be cryptographically secure.
	RandomScalar(r io.Reader) (Scalar, error)

	// HashToScalar wide-reduces SHA-512(data...) modulo q, implementing the
	// H_q construction used throughout the NIZK and complaint proofs.
	HashToScalar(data ...[]byte) Scalar

	// ScalarSize and PointSize report the canonical encoded length, in
	// bytes, of a scalar and a point respectively, for this curve.
	ScalarSize() int
	PointSize() int

	// Order returns the scalar field's modulus q. Lagrange interpolation is
	// the only caller: it needs q to compute modular inverses of the
	// differences between participant indices.
	Order() *big.Int
}

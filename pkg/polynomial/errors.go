package polynomial

import "errors"

// ErrShareVerification is returned when a secret share does not match its
// dealer's published Feldman commitment.
var ErrShareVerification = errors.New("polynomial: share does not match commitment")

// ErrDuplicateNode is returned when Lagrange coefficients are requested over
// a node set containing the same index twice.
var ErrDuplicateNode = errors.New("polynomial: duplicate node in interpolation set")

// ErrZeroDivisor is returned when a Lagrange denominator reduces to zero,
// which can only happen if two interpolation nodes coincide.
var ErrZeroDivisor = errors.New("polynomial: zero divisor in interpolation")

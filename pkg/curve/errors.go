package curve

import "errors"

// ErrInvalidPoint is returned when a decoded byte string does not encode a
// point of the prime-order subgroup.
var ErrInvalidPoint = errors.New("point is not in the prime-order subgroup")

// ErrNonCanonicalScalar is returned when a decoded byte string is not the
// unique canonical big-endian encoding of its residue class mod q.
var ErrNonCanonicalScalar = errors.New("scalar encoding is not canonical")

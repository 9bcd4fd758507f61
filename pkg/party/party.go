// Package party defines the participant-index type used throughout the
// DKG. Indices are the nonzero uint32 values the spec calls for, rather
// than the free-form string identifiers used elsewhere in this stack's
// other protocols: a DKG participant's index doubles as the x-coordinate
// at which their share of each dealer's polynomial is evaluated, so it
// must be an element of the scalar field, never an opaque label.
package party

import (
	"fmt"
	"sort"

	"github.com/luxfi/icefrost/pkg/curve"
)

// ID identifies a participant within one DKG instance. The zero value is
// never a valid participant: evaluating a dealer's polynomial at x=0 would
// hand that participant the dealer's secret outright.
type ID uint32

// Scalar returns the field element corresponding to this index, for use as
// the evaluation point of a Feldman polynomial or as a Lagrange node.
func (id ID) Scalar(c curve.Curve) curve.Scalar {
	return c.NewScalar().SetUint32(uint32(id))
}

func (id ID) String() string {
	return fmt.Sprintf("P%d", uint32(id))
}

// IDSlice is a sortable list of participant indices.
type IDSlice []ID

func (s IDSlice) Len() int           { return len(s) }
func (s IDSlice) Less(i, j int) bool { return s[i] < s[j] }
func (s IDSlice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Sorted returns a sorted copy of s.
func (s IDSlice) Sorted() IDSlice {
	out := make(IDSlice, len(s))
	copy(out, s)
	sort.Sort(out)
	return out
}

// Contains reports whether id appears in s.
func (s IDSlice) Contains(id ID) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

package dkg

import (
	"io"

	"github.com/luxfi/icefrost/pkg/curve"
	"github.com/luxfi/icefrost/pkg/party"
)

// EncryptShareForTest exposes the package-private share cipher to the
// external e2e test suite, which needs to fabricate a malicious share
// encrypted under a genuine pairwise key.
func EncryptShareForTest(grp curve.Curve, dhPoint curve.Point, value curve.Scalar, rng io.Reader) ([16]byte, [32]byte, error) {
	return encryptShare(grp, dhPoint, value, rng)
}

// NewComplaintForTest exposes complaint construction to the external e2e
// test suite, which needs to fabricate a frivolous complaint against an
// honest share.
func NewComplaintForTest(grp curve.Curve, maker, accused party.ID, makerDHPK, accusedDHPK, dhKey curve.Point, makerDHSK curve.Scalar, rng io.Reader) (*Complaint, error) {
	return newComplaint(grp, maker, accused, makerDHPK, accusedDHPK, dhKey, makerDHSK, rng)
}

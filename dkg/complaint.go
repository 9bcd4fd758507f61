package dkg

import (
	"io"

	"github.com/luxfi/icefrost/nizk"
	"github.com/luxfi/icefrost/pkg/curve"
	"github.com/luxfi/icefrost/pkg/party"
	"github.com/luxfi/icefrost/pkg/polynomial"
)

// Complaint is a publicly-verifiable accusation that the share maker
// received from accused was either undecodable or failed Feldman
// verification. It proves only that the maker derived the pairwise DH key
// honestly; a third party re-checks the accused's share independently via
// Blame.
type Complaint struct {
	Maker   party.ID
	Accused party.ID
	DHKey   curve.Point
	Proof   *nizk.EqualityProof
}

// newComplaint builds a Complaint asserting that dhKey is the genuine
// pairwise key between maker and accused, proved via Chaum-Pedersen
// equality against maker's own DH public key.
func newComplaint(grp curve.Curve, maker, accused party.ID, makerDHPK, accusedDHPK, dhKey curve.Point, makerDHSK curve.Scalar, rng io.Reader) (*Complaint, error) {
	proof, err := nizk.ProveEquality(grp, makerDHPK, accusedDHPK, dhKey, makerDHSK, rng)
	if err != nil {
		return nil, err
	}
	return &Complaint{Maker: maker, Accused: accused, DHKey: dhKey, Proof: proof}, nil
}

// Verify checks a complaint's equality proof against the publicly known DH
// public keys of its maker and accused. It does not determine fault — only
// that the asserted shared key is genuine. Fault is Blame's job.
func (c *Complaint) Verify(grp curve.Curve, makerDHPK, accusedDHPK curve.Point) error {
	if err := nizk.VerifyEquality(grp, makerDHPK, accusedDHPK, c.DHKey, c.Proof); err != nil {
		return ErrComplaintVerification
	}
	return nil
}

// Blame adjudicates a complaint, returning the index of the party at
// fault: the accused if their share was genuinely bad, or the maker if the
// complaint itself was frivolous or malformed. It follows a fixed
// four-step cascade so the outcome never depends on anything but public
// inputs:
//
//  1. Missing commitment or DH public keys: blame the maker.
//  2. The complaint's own equality proof fails: blame the maker.
//  3. The accused's share is undecodable under the asserted key: blame the
//     accused.
//  4. The decrypted share passes Feldman verification against the
//     accused's commitment: blame the maker (a frivolous complaint).
//     Otherwise: blame the accused.
func Blame(grp curve.Curve, es *EncryptedSecretShare, complaint *Complaint, accusedCommitment *polynomial.Commitment, makerDHPK, accusedDHPK curve.Point) party.ID {
	if accusedCommitment == nil || makerDHPK == nil || accusedDHPK == nil {
		return complaint.Maker
	}

	if err := complaint.Verify(grp, makerDHPK, accusedDHPK); err != nil {
		return complaint.Maker
	}

	var nonce [16]byte
	var ct [32]byte
	if es != nil {
		nonce, ct = es.Nonce, es.Ciphertext
	}

	value, err := decryptShare(grp, complaint.DHKey, nonce, ct)
	if err != nil {
		return complaint.Accused
	}

	if err := polynomial.VerifyShare(grp, complaint.Maker, value, accusedCommitment); err == nil {
		return complaint.Maker
	}
	return complaint.Accused
}

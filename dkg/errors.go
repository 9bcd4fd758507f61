package dkg

import (
	"errors"
	"fmt"

	"github.com/luxfi/icefrost/pkg/party"
)

var (
	// ErrSerialisation reports a malformed byte record. No function in this
	// package returns it: the dkg types have no byte decoders.
	ErrSerialisation = errors.New("dkg: malformed byte record")

	// ErrInvalidPoint reports a decoded group element that fails subgroup
	// membership. No function in this package returns it; point decoding
	// reports that case as curve.ErrInvalidPoint.
	ErrInvalidPoint = errors.New("dkg: invalid point")

	// ErrDecryption is returned when a decrypted share is not a canonical
	// scalar encoding.
	ErrDecryption = errors.New("dkg: decryption error")

	// ErrShareVerification reports a share that fails its VSS equation. No
	// function in this package returns it: ToRoundTwo turns a failed share
	// into a Complaint inside a ComplaintError, and polynomial.VerifyShare
	// reports the failure as polynomial.ErrShareVerification.
	ErrShareVerification = errors.New("dkg: share verification failed")

	// ErrInvalidProofOfKnowledge reports a participant whose NIZK of secret
	// key or of DH key fails to verify. No function in this package returns
	// it: round one lists such a peer in ParticipantList.Misbehaving and
	// returns TooManyInvalidParticipantsError only when too few peers remain.
	ErrInvalidProofOfKnowledge = errors.New("dkg: invalid proof of knowledge")

	// ErrComplaintVerification is returned when a complaint's proof fails
	// to verify.
	ErrComplaintVerification = errors.New("dkg: complaint verification failed")

	// ErrInvalidGroupKey is returned when a group key cannot be assembled,
	// e.g. because the dealer set is empty.
	ErrInvalidGroupKey = errors.New("dkg: invalid group key")

	// ErrMissingShares is returned when the round-two transition is called
	// with the wrong number of inbound encrypted shares.
	ErrMissingShares = errors.New("dkg: missing shares")

	// ErrNoEncryptedShares is returned when a signer-only caller asks for
	// its outbound encrypted shares, or when they are asked for after
	// ToRoundTwo has consumed the round.
	ErrNoEncryptedShares = errors.New("dkg: no encrypted shares: signer-only participant")

	// ErrStateConsumed is returned when a typestate value is used a second
	// time after its single valid transition has already consumed it.
	ErrStateConsumed = errors.New("dkg: state already consumed")

	// ErrDuplicateParticipant is returned when two participants share an
	// index.
	ErrDuplicateParticipant = errors.New("dkg: duplicate participant index")

	// ErrZeroIndex is returned when a participant index of zero is used:
	// evaluating a dealer's polynomial at x=0 would hand that participant
	// the dealer's secret outright.
	ErrZeroIndex = errors.New("dkg: participant index must be nonzero")
)

// InvalidNumberOfParticipantsError reports a round-one construction called
// with a peer list of the wrong size.
type InvalidNumberOfParticipantsError struct {
	Got, Expected int
}

func (e *InvalidNumberOfParticipantsError) Error() string {
	return fmt.Sprintf("dkg: invalid number of participants: got %d, expected %d", e.Got, e.Expected)
}

// TooManyInvalidParticipantsError reports that NIZK verification in round
// one left fewer than t valid participants.
type TooManyInvalidParticipantsError struct {
	Misbehaving party.IDSlice
}

func (e *TooManyInvalidParticipantsError) Error() string {
	return fmt.Sprintf("dkg: too many invalid participants: %v misbehaved", e.Misbehaving)
}

// ComplaintError carries the complaints accumulated during the round-two
// transition. Its presence means round two was not produced; the caller
// must adjudicate each complaint with Blame and retry without the
// offending party.
type ComplaintError struct {
	Complaints []*Complaint
}

func (e *ComplaintError) Error() string {
	return fmt.Sprintf("dkg: %d complaint(s) raised during round two", len(e.Complaints))
}

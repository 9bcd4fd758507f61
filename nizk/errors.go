package nizk

import "errors"

// ErrInvalidProofOfKnowledge is returned when a Schnorr proof of knowledge
// fails to verify.
var ErrInvalidProofOfKnowledge = errors.New("nizk: invalid proof of knowledge")

// ErrComplaintVerification is returned when a Chaum-Pedersen equality proof
// fails to verify.
var ErrComplaintVerification = errors.New("nizk: complaint proof verification failed")

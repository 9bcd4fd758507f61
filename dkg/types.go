// Package dkg implements the two-round Pedersen distributed key generation
// protocol: dealers commit to a secret-sharing polynomial and prove
// knowledge of it, shares travel pairwise-encrypted under a
// Diffie-Hellman key, recipients Feldman-verify what they receive, and any
// failure surfaces as a publicly-verifiable complaint rather than a silent
// drop. It also implements static resharing: moving an existing group
// secret to a new shareholder set without ever reconstructing it.
package dkg

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/luxfi/icefrost/internal/zeroize"
	"github.com/luxfi/icefrost/nizk"
	"github.com/luxfi/icefrost/pkg/curve"
	"github.com/luxfi/icefrost/pkg/party"
	"github.com/luxfi/icefrost/pkg/polynomial"
)

// ErrInvalidParameters is returned by NewParameters when 1 <= t <= n does
// not hold.
var ErrInvalidParameters = errors.New("dkg: parameters must satisfy 1 <= t <= n")

// Parameters fixes the threshold t and total participant count n for one
// DKG instance. 1 <= t <= n is enforced at construction.
type Parameters struct {
	T, N int
}

// NewParameters validates and constructs a Parameters value.
func NewParameters(t, n int) (Parameters, error) {
	if t < 1 || t > n {
		return Parameters{}, ErrInvalidParameters
	}
	return Parameters{T: t, N: n}, nil
}

// DHPrivateKey is the scalar half of a participant's pairwise
// Diffie-Hellman keypair, used only to derive share-encryption keys — it
// is independent of any VSS secret. It must be zeroised once the DKG
// instance holding it is done.
type DHPrivateKey struct {
	Scalar curve.Scalar
}

// DHPublicKey is the public half of a DHPrivateKey.
type DHPublicKey struct {
	Point curve.Point
}

// Zeroize scrubs the private scalar.
func (k *DHPrivateKey) Zeroize() {
	if k.Scalar != nil {
		k.Scalar.Zeroize()
	}
}

// GenerateDHKeyPair samples a fresh DH keypair.
func GenerateDHKeyPair(grp curve.Curve, rng io.Reader) (*DHPrivateKey, *DHPublicKey, error) {
	s, err := grp.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}
	return &DHPrivateKey{Scalar: s}, &DHPublicKey{Point: s.ActOnBase()}, nil
}

// Participant is one party's published identity within a DKG instance: its
// index, its DH public key (with proof of knowledge), and — if it acts as
// a dealer — its VSS commitment and a proof of knowledge of the
// commitment's secret. A signer-only participant (as used on the receiving
// side of a reshare) carries nil Commitment and ProofOfSecretKey.
//
// A Participant is published once and is immutable thereafter.
type Participant struct {
	Index            party.ID
	DHPublicKey      *DHPublicKey
	Commitment       *polynomial.Commitment
	ProofOfSecretKey *nizk.SchnorrProof
	ProofOfDHKey     *nizk.SchnorrProof
}

// NewDealer builds a Participant that both contributes a polynomial and
// expects to be a shareholder: it samples fresh coefficients and a DH
// keypair, commits to the former, and proves knowledge of both secrets.
// The returned Coefficients are the caller's to retain for share
// computation and to Zeroize once ToRoundTwo has returned: the RoundOne
// built from them reads them again there to recompute this dealer's own
// commitment.
func NewDealer(grp curve.Curve, index party.ID, params Parameters, secret curve.Scalar, ctx []byte, rng io.Reader) (*Participant, *polynomial.Coefficients, *DHPrivateKey, error) {
	if index == 0 {
		return nil, nil, nil, ErrZeroIndex
	}

	coeffs, err := polynomial.Generate(grp, params.T, secret, rng)
	if err != nil {
		return nil, nil, nil, err
	}
	commitment := polynomial.Commit(grp, index, coeffs)

	dhSK, dhPK, err := GenerateDHKeyPair(grp, rng)
	if err != nil {
		return nil, nil, nil, err
	}

	pokSK, err := nizk.ProveSchnorr(grp, index, coeffs.Secret(), commitment.PublicKey(), ctx, rng)
	if err != nil {
		return nil, nil, nil, err
	}
	pokDH, err := nizk.ProveSchnorr(grp, index, dhSK.Scalar, dhPK.Point, ctx, rng)
	if err != nil {
		return nil, nil, nil, err
	}

	p := &Participant{
		Index:            index,
		DHPublicKey:      dhPK,
		Commitment:       commitment,
		ProofOfSecretKey: pokSK,
		ProofOfDHKey:     pokDH,
	}
	return p, coeffs, dhSK, nil
}

// NewSigner builds a signer-only Participant: it has no polynomial of its
// own, only a DH keypair and its proof of knowledge, as used by a new
// shareholder entering via resharing.
func NewSigner(grp curve.Curve, index party.ID, ctx []byte, rng io.Reader) (*Participant, *DHPrivateKey, error) {
	if index == 0 {
		return nil, nil, ErrZeroIndex
	}
	dhSK, dhPK, err := GenerateDHKeyPair(grp, rng)
	if err != nil {
		return nil, nil, err
	}
	pokDH, err := nizk.ProveSchnorr(grp, index, dhSK.Scalar, dhPK.Point, ctx, rng)
	if err != nil {
		return nil, nil, err
	}
	p := &Participant{
		Index:        index,
		DHPublicKey:  dhPK,
		ProofOfDHKey: pokDH,
	}
	return p, dhSK, nil
}

// SecretShare is one dealer's evaluation of its polynomial at a receiver's
// index: (sender, receiver, f_sender(receiver)). It is secret and must be
// zeroised once consumed.
type SecretShare struct {
	Sender   party.ID
	Receiver party.ID
	Value    curve.Scalar
}

// Zeroize scrubs the share value.
func (s *SecretShare) Zeroize() {
	if s.Value != nil {
		s.Value.Zeroize()
	}
}

// EncryptedSecretShare is a SecretShare after pairwise encryption: public
// in transit, since its confidentiality depends only on the recipient
// holding the matching DH private key.
type EncryptedSecretShare struct {
	Sender     party.ID
	Receiver   party.ID
	Nonce      [16]byte
	Ciphertext [32]byte
}

// Zeroize scrubs the ciphertext and nonce. Useful when an
// EncryptedSecretShare that was never delivered is discarded.
func (e *EncryptedSecretShare) Zeroize() {
	zeroize.Bytes(e.Nonce[:])
	zeroize.Bytes(e.Ciphertext[:])
}

// SecretKey is a participant's long-lived share of the group secret,
// reconstructed at the end of round two. It must be zeroised on drop.
type SecretKey struct {
	Index party.ID
	Key   curve.Scalar
}

// Zeroize scrubs the key scalar.
func (s *SecretKey) Zeroize() {
	if s.Key != nil {
		s.Key.Zeroize()
	}
}

// GroupKey is the group's public key, identical across every honest
// participant that finishes the same DKG instance.
type GroupKey struct {
	Point curve.Point
}

// IndividualPublicKey is the public counterpart of a SecretKey: share =
// key*B. Anyone holding the dealer commitments can recompute it for any
// participant without that participant's cooperation.
type IndividualPublicKey struct {
	Index party.ID
	Share curve.Point
}

// DefaultRNG is crypto/rand.Reader, used where callers do not supply their
// own entropy source explicitly.
var DefaultRNG io.Reader = rand.Reader

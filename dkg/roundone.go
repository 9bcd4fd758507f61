package dkg

import (
	"io"
	"sort"

	"github.com/luxfi/icefrost/nizk"
	"github.com/luxfi/icefrost/pkg/curve"
	"github.com/luxfi/icefrost/pkg/party"
	"github.com/luxfi/icefrost/pkg/polynomial"
)

// ParticipantList partitions the peers offered to round one into those
// whose proofs checked out and those that didn't, so the caller can make
// an out-of-band exclusion decision (or simply observe that enough peers
// survived to keep the run above threshold).
type ParticipantList struct {
	Valid       party.IDSlice
	Misbehaving party.IDSlice
}

// RoundOne is the DKG state after every peer's proofs have been checked
// and, if the caller contributed a polynomial, every outbound share has
// been pre-computed and encrypted. It is a one-shot typestate value: the
// single call to ToRoundTwo consumes it.
type RoundOne struct {
	grp    curve.Curve
	params Parameters
	ctx    []byte

	ownIndex party.ID
	ownDHSK  *DHPrivateKey
	ownDHPK  *DHPublicKey

	ownCoefficients *polynomial.Coefficients

	peerCommitments map[party.ID]*polynomial.Commitment
	peerDHKeys      map[party.ID]*DHPublicKey

	outbound map[party.ID]*EncryptedSecretShare

	// expectedInboundShares is how many encrypted shares ToRoundTwo must
	// see before it can decide the round: one per valid dealer, plus one
	// more if the caller is itself a dealer (NewInitial) contributing a
	// share to itself. It is NOT always params.N: under New, the signer-
	// only entry used when joining via resharing, the dealer set's size
	// can differ from the new group's N.
	expectedInboundShares int

	List ParticipantList

	consumed bool
}

// NewInitial starts a plain DKG round one: the caller both contributes a
// polynomial (ownCoefficients must be non-nil, produced by NewDealer) and
// expects to be a shareholder. peers is every other participant's
// published Participant record (self excluded, hence params.N-1 of them);
// all of them are dealers too.
func NewInitial(grp curve.Curve, params Parameters, ownIndex party.ID, ownDHSK *DHPrivateKey, ownCoefficients *polynomial.Coefficients, peers []*Participant, ctx []byte, rng io.Reader) (*RoundOne, error) {
	// The caller is itself always a valid dealer (it never appears in
	// peers), so only t-1 of the peers need to check out.
	return newRoundOne(grp, params, ownIndex, ownDHSK, ownCoefficients, peers, params.N-1, params.T-1, ctx, rng, true)
}

// New starts a signer-only DKG round one, as used by a new shareholder
// entering via resharing: the caller has no polynomial of its own. peers
// are the dealer set it must ingest shares from (the reshare outputs from
// each old shareholder). dealerCount is that set's size — the old
// shareholder count, which need not equal params.N when reshare also
// changes the threshold or total.
func New(grp curve.Curve, params Parameters, ownIndex party.ID, ownDHSK *DHPrivateKey, peers []*Participant, dealerCount, dealerThreshold int, ctx []byte, rng io.Reader) (*RoundOne, error) {
	return newRoundOne(grp, params, ownIndex, ownDHSK, nil, peers, dealerCount, dealerThreshold, ctx, rng, true)
}

func newRoundOne(grp curve.Curve, params Parameters, ownIndex party.ID, ownDHSK *DHPrivateKey, ownCoefficients *polynomial.Coefficients, peers []*Participant, requiredPeerCount, minValid int, ctx []byte, rng io.Reader, peersAreDealers bool) (*RoundOne, error) {
	if ownIndex == 0 {
		return nil, ErrZeroIndex
	}
	if len(peers) != requiredPeerCount {
		return nil, &InvalidNumberOfParticipantsError{Got: len(peers), Expected: requiredPeerCount}
	}

	r := &RoundOne{
		grp:             grp,
		params:          params,
		ctx:             ctx,
		ownIndex:        ownIndex,
		ownDHSK:         ownDHSK,
		ownDHPK:         &DHPublicKey{Point: ownDHSK.Scalar.ActOnBase()},
		ownCoefficients: ownCoefficients,
		peerCommitments: make(map[party.ID]*polynomial.Commitment),
		peerDHKeys:      make(map[party.ID]*DHPublicKey),
	}

	seen := map[party.ID]bool{ownIndex: true}
	for _, p := range peers {
		if p.Index == 0 {
			r.List.Misbehaving = append(r.List.Misbehaving, p.Index)
			continue
		}
		if seen[p.Index] {
			return nil, ErrDuplicateParticipant
		}
		seen[p.Index] = true

		ok := verifyPeer(grp, p, ctx, peersAreDealers)
		if !ok {
			r.List.Misbehaving = append(r.List.Misbehaving, p.Index)
			continue
		}

		r.List.Valid = append(r.List.Valid, p.Index)
		r.peerDHKeys[p.Index] = p.DHPublicKey
		if peersAreDealers {
			r.peerCommitments[p.Index] = p.Commitment
		}
	}

	if len(r.List.Valid) < minValid {
		return nil, &TooManyInvalidParticipantsError{Misbehaving: r.List.Misbehaving}
	}

	sort.Sort(r.List.Valid)
	sort.Sort(r.List.Misbehaving)

	r.expectedInboundShares = len(r.List.Valid)
	if ownCoefficients != nil {
		r.expectedInboundShares++

		outbound, err := computeOutboundShares(grp, ownIndex, ownCoefficients, r.peerDHKeys, ownDHSK, rng)
		if err != nil {
			return nil, err
		}
		r.outbound = outbound
	}

	return r, nil
}

func verifyPeer(grp curve.Curve, p *Participant, ctx []byte, peersAreDealers bool) bool {
	if p.ProofOfDHKey == nil || p.DHPublicKey == nil {
		return false
	}
	if err := nizk.VerifySchnorr(grp, p.Index, p.DHPublicKey.Point, ctx, p.ProofOfDHKey); err != nil {
		return false
	}

	if peersAreDealers {
		if p.Commitment == nil || p.ProofOfSecretKey == nil {
			return false
		}
		if len(p.Commitment.Points) == 0 {
			return false
		}
		if err := nizk.VerifySchnorr(grp, p.Index, p.Commitment.PublicKey(), ctx, p.ProofOfSecretKey); err != nil {
			return false
		}
	}
	return true
}

func computeOutboundShares(grp curve.Curve, ownIndex party.ID, coeffs *polynomial.Coefficients, peerDHKeys map[party.ID]*DHPublicKey, ownDHSK *DHPrivateKey, rng io.Reader) (map[party.ID]*EncryptedSecretShare, error) {
	out := make(map[party.ID]*EncryptedSecretShare, len(peerDHKeys)+1)

	// Self always receives a share too: an honest dealer is also its own
	// shareholder under new_initial, and under a signer-only entry
	// ownCoefficients is nil so this function is never called.
	recipients := make(map[party.ID]*DHPublicKey, len(peerDHKeys)+1)
	for id, pk := range peerDHKeys {
		recipients[id] = pk
	}
	recipients[ownIndex] = &DHPublicKey{Point: ownDHSK.Scalar.ActOnBase()}

	for recipient, pk := range recipients {
		value := coeffs.Evaluate(grp, recipient.Scalar(grp))
		dhPoint := ownDHSK.Scalar.Act(pk.Point)

		nonce, ct, err := encryptShare(grp, dhPoint, value, rng)
		value.Zeroize()
		if err != nil {
			return nil, err
		}
		out[recipient] = &EncryptedSecretShare{
			Sender:     ownIndex,
			Receiver:   recipient,
			Nonce:      nonce,
			Ciphertext: ct,
		}
	}
	return out, nil
}

// TheirEncryptedSecretShares returns copies of the outbound shares this
// participant computed for its peers (and itself), keyed by receiver. The
// copies are independent of the records ToRoundTwo scrubs when it consumes
// this round. It is an error to call this on a signer-only round one, or
// after ToRoundTwo has consumed this round.
func (r *RoundOne) TheirEncryptedSecretShares() (map[party.ID]*EncryptedSecretShare, error) {
	if r.outbound == nil {
		return nil, ErrNoEncryptedShares
	}
	out := make(map[party.ID]*EncryptedSecretShare, len(r.outbound))
	for id, es := range r.outbound {
		cp := *es
		out[id] = &cp
	}
	return out, nil
}

// zeroizeOutbound scrubs every outbound share's ciphertext and drops the
// map, called once ToRoundTwo consumes this round.
func (r *RoundOne) zeroizeOutbound() {
	for _, es := range r.outbound {
		es.Zeroize()
	}
	r.outbound = nil
}

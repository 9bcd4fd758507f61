package dkg

import (
	"github.com/luxfi/icefrost/pkg/curve"
	"github.com/luxfi/icefrost/pkg/party"
	"github.com/luxfi/icefrost/pkg/polynomial"
)

// ToRoundTwo consumes r, ingesting the bundle of encrypted shares
// addressed to this participant. It is a one-shot typestate transition:
// calling it a second time on the same RoundOne returns ErrStateConsumed.
//
// Every inbound share is decrypted under the pairwise key re-derived from
// the sender's published DH key and Feldman-verified against the sender's
// commitment. A failure of either check produces a complaint rather than
// an error return for that single share; only once every inbound share has
// been examined does the function decide between yielding RoundTwo (zero
// complaints) or a ComplaintError (at least one).
func (r *RoundOne) ToRoundTwo(inbound []*EncryptedSecretShare) (*RoundTwo, error) {
	if r.consumed {
		return nil, ErrStateConsumed
	}
	r.consumed = true
	defer r.zeroizeOutbound()

	if len(inbound) != r.expectedInboundShares {
		return nil, ErrMissingShares
	}

	var complaints []*Complaint
	mine := make([]*SecretShare, 0, len(inbound))

	for _, es := range inbound {
		senderPoint := r.senderDHPoint(es.Sender)

		dhPoint := r.ownDHSK.Scalar.Act(senderPoint)

		value, err := decryptShare(r.grp, dhPoint, es.Nonce, es.Ciphertext)
		if err != nil {
			complaints = append(complaints, r.complainAgainst(es, senderPoint, dhPoint))
			continue
		}

		commitment := r.commitmentFor(es.Sender)
		if commitment == nil {
			value.Zeroize()
			complaints = append(complaints, r.complainAgainst(es, senderPoint, dhPoint))
			continue
		}

		if err := polynomial.VerifyShare(r.grp, r.ownIndex, value, commitment); err != nil {
			value.Zeroize()
			complaints = append(complaints, r.complainAgainst(es, senderPoint, dhPoint))
			continue
		}

		mine = append(mine, &SecretShare{Sender: es.Sender, Receiver: r.ownIndex, Value: value})
	}

	if len(complaints) > 0 {
		for _, s := range mine {
			s.Zeroize()
		}
		return nil, &ComplaintError{Complaints: complaints}
	}

	commitments := make(map[party.ID]*polynomial.Commitment, len(r.peerCommitments)+1)
	for id, c := range r.peerCommitments {
		commitments[id] = c
	}
	if r.ownCoefficients != nil {
		commitments[r.ownIndex] = polynomial.Commit(r.grp, r.ownIndex, r.ownCoefficients)
	}

	return &RoundTwo{
		grp:             r.grp,
		ownIndex:        r.ownIndex,
		peerCommitments: commitments,
		mySecretShares:  mine,
	}, nil
}

// senderDHPoint looks up sender's published DH public key, falling back to
// the group identity when sender is unknown (excluded in round one, or
// never a real participant). The identity is never a genuine DH key, so
// any share "encrypted" against it will fail to decrypt or to verify,
// naturally routing into a complaint rather than a panic.
func (r *RoundOne) senderDHPoint(sender party.ID) curve.Point {
	if sender == r.ownIndex {
		return r.ownDHPK.Point
	}
	if pk, ok := r.peerDHKeys[sender]; ok {
		return pk.Point
	}
	return r.grp.NewPoint()
}

func (r *RoundOne) commitmentFor(sender party.ID) *polynomial.Commitment {
	if sender == r.ownIndex && r.ownCoefficients != nil {
		return polynomial.Commit(r.grp, r.ownIndex, r.ownCoefficients)
	}
	return r.peerCommitments[sender]
}

// complainAgainst builds the Complaint this participant publishes against
// es.Sender, asserting dhKey as the (claimed) pairwise key derived from
// senderPoint.
func (r *RoundOne) complainAgainst(es *EncryptedSecretShare, senderPoint, dhKey curve.Point) *Complaint {
	c, err := newComplaint(r.grp, r.ownIndex, es.Sender, r.ownDHPK.Point, senderPoint, dhKey, r.ownDHSK.Scalar, DefaultRNG)
	if err != nil {
		// Equality-proof generation over already-validated scalars/points
		// cannot fail except through a broken RNG, which this package
		// treats as fatal everywhere it samples randomness.
		panic(err)
	}
	return c
}

// RoundTwo is the DKG state after every inbound share has been decrypted
// and Feldman-verified with zero complaints. Finish consumes it.
type RoundTwo struct {
	grp             curve.Curve
	ownIndex        party.ID
	peerCommitments map[party.ID]*polynomial.Commitment
	mySecretShares  []*SecretShare

	consumed bool
}

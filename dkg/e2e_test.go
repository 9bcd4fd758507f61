package dkg_test

import (
	"crypto/rand"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/luxfi/icefrost/dkg"
	"github.com/luxfi/icefrost/pkg/curve"
	"github.com/luxfi/icefrost/pkg/party"
	"github.com/luxfi/icefrost/pkg/polynomial"
)

var _ = Describe("Pedersen DKG", func() {
	ctx := []byte("icefrost-dkg-e2e")

	It("E1: 2-of-3 happy path yields one group key and matching individual keys", func() {
		params, err := dkg.NewParameters(2, 3)
		Expect(err).NotTo(HaveOccurred())
		ids := testPartyIDs(3)

		fixtures := buildDealers(params, ids, ctx)
		runRoundOne(params, fixtures, ctx)

		commitments := allCommitments(fixtures)

		// Every bundle is collected before any transition: ToRoundTwo drops
		// the caller's own outbound shares.
		inbound := make(map[party.ID][]*dkg.EncryptedSecretShare, len(fixtures))
		for _, f := range fixtures {
			inbound[f.Index] = inboundFor(fixtures, f.Index)
		}

		var groupKeys []*dkg.GroupKey
		for _, f := range fixtures {
			r2, err := f.RoundOne.ToRoundTwo(inbound[f.Index])
			Expect(err).NotTo(HaveOccurred())

			gk, sk, err := r2.Finish()
			Expect(err).NotTo(HaveOccurred())
			groupKeys = append(groupKeys, gk)

			ipk, err := dkg.GenerateIndividualPublicKey(testGroup, f.Index, commitments)
			Expect(err).NotTo(HaveOccurred())
			Expect(sk.Key.ActOnBase().Equal(ipk.Share)).To(BeTrue())
		}

		for i := 1; i < len(groupKeys); i++ {
			Expect(groupKeys[i].Point.Equal(groupKeys[0].Point)).To(BeTrue())
		}
	})

	It("E2: 5-party, 3-of-5 full reconstruction matches the group key", func() {
		params, err := dkg.NewParameters(3, 5)
		Expect(err).NotTo(HaveOccurred())
		ids := testPartyIDs(5)

		fixtures := buildDealers(params, ids, ctx)
		runRoundOne(params, fixtures, ctx)

		inbound := make(map[party.ID][]*dkg.EncryptedSecretShare, len(fixtures))
		for _, f := range fixtures {
			inbound[f.Index] = inboundFor(fixtures, f.Index)
		}

		var groupKey *dkg.GroupKey
		secretKeys := make(map[party.ID]*dkg.SecretKey, len(fixtures))
		for _, f := range fixtures {
			r2, err := f.RoundOne.ToRoundTwo(inbound[f.Index])
			Expect(err).NotTo(HaveOccurred())
			gk, sk, err := r2.Finish()
			Expect(err).NotTo(HaveOccurred())
			groupKey = gk
			secretKeys[f.Index] = sk
		}

		lambdas, err := polynomial.Lagrange(testGroup, ids)
		Expect(err).NotTo(HaveOccurred())

		reconstructed := testGroup.NewScalar().SetUint32(0)
		for _, id := range ids {
			term := testGroup.NewScalar().Mul(lambdas[id], secretKeys[id].Key)
			reconstructed = testGroup.NewScalar().Add(reconstructed, term)
		}

		Expect(reconstructed.ActOnBase().Equal(groupKey.Point)).To(BeTrue())
	})

	It("E3: a corrupted nonce produces a complaint that blame resolves to the sender", func() {
		params, err := dkg.NewParameters(2, 3)
		Expect(err).NotTo(HaveOccurred())
		ids := testPartyIDs(3)

		fixtures := buildDealers(params, ids, ctx)
		runRoundOne(params, fixtures, ctx)

		inbound := inboundFor(fixtures, party.ID(2))
		for _, es := range inbound {
			if es.Sender == party.ID(1) {
				for i := range es.Nonce {
					es.Nonce[i] = 0x2a
				}
			}
		}

		receiver := fixtureByIndex(fixtures, 2)
		_, err = receiver.RoundOne.ToRoundTwo(inbound)
		Expect(err).To(HaveOccurred())

		var complaintErr *dkg.ComplaintError
		Expect(errors.As(err, &complaintErr)).To(BeTrue())
		Expect(complaintErr.Complaints).To(HaveLen(1))
		Expect(complaintErr.Complaints[0].Maker).To(Equal(party.ID(2)))
		Expect(complaintErr.Complaints[0].Accused).To(Equal(party.ID(1)))

		sender := fixtureByIndex(fixtures, 1)
		var tampered *dkg.EncryptedSecretShare
		for _, es := range inbound {
			if es.Sender == party.ID(1) {
				tampered = es
			}
		}
		offender := dkg.Blame(testGroup, tampered, complaintErr.Complaints[0], sender.Participant.Commitment, receiver.Participant.DHPublicKey.Point, sender.Participant.DHPublicKey.Point)
		Expect(offender).To(Equal(party.ID(1)))
	})

	It("E4: a corrupted ciphertext produces a complaint that blame resolves to the sender", func() {
		params, err := dkg.NewParameters(2, 3)
		Expect(err).NotTo(HaveOccurred())
		ids := testPartyIDs(3)

		fixtures := buildDealers(params, ids, ctx)
		runRoundOne(params, fixtures, ctx)

		inbound := inboundFor(fixtures, party.ID(2))
		for _, es := range inbound {
			if es.Sender == party.ID(1) {
				for i := range es.Ciphertext {
					es.Ciphertext[i] = 0x2a
				}
			}
		}

		receiver := fixtureByIndex(fixtures, 2)
		_, err = receiver.RoundOne.ToRoundTwo(inbound)
		Expect(err).To(HaveOccurred())

		var complaintErr *dkg.ComplaintError
		Expect(errors.As(err, &complaintErr)).To(BeTrue())
		Expect(complaintErr.Complaints[0].Accused).To(Equal(party.ID(1)))

		sender := fixtureByIndex(fixtures, 1)
		var tampered *dkg.EncryptedSecretShare
		for _, es := range inbound {
			if es.Sender == party.ID(1) {
				tampered = es
			}
		}
		offender := dkg.Blame(testGroup, tampered, complaintErr.Complaints[0], sender.Participant.Commitment, receiver.Participant.DHPublicKey.Point, sender.Participant.DHPublicKey.Point)
		Expect(offender).To(Equal(party.ID(1)))
	})

	It("E5: a malicious sender's mis-evaluated share is caught and blamed", func() {
		params, err := dkg.NewParameters(2, 3)
		Expect(err).NotTo(HaveOccurred())
		ids := testPartyIDs(3)

		fixtures := buildDealers(params, ids, ctx)
		runRoundOne(params, fixtures, ctx)

		inbound := inboundFor(fixtures, party.ID(2))

		sender := fixtureByIndex(fixtures, 1)
		receiver := fixtureByIndex(fixtures, 2)

		badValue := testGroup.NewScalar().SetUint32(42)
		dhPoint := sender.DHSK.Scalar.Act(receiver.Participant.DHPublicKey.Point)
		badNonce, badCT := reencryptShare(dhPoint, badValue)

		for _, es := range inbound {
			if es.Sender == party.ID(1) {
				es.Nonce = badNonce
				es.Ciphertext = badCT
			}
		}

		_, err = receiver.RoundOne.ToRoundTwo(inbound)
		Expect(err).To(HaveOccurred())

		var complaintErr *dkg.ComplaintError
		Expect(errors.As(err, &complaintErr)).To(BeTrue())
		Expect(complaintErr.Complaints[0].Accused).To(Equal(party.ID(1)))

		var tampered *dkg.EncryptedSecretShare
		for _, es := range inbound {
			if es.Sender == party.ID(1) {
				tampered = es
			}
		}
		offender := dkg.Blame(testGroup, tampered, complaintErr.Complaints[0], sender.Participant.Commitment, receiver.Participant.DHPublicKey.Point, sender.Participant.DHPublicKey.Point)
		Expect(offender).To(Equal(party.ID(1)))
	})

	It("E6: blame rejects a frivolous complaint against a genuinely valid share", func() {
		params, err := dkg.NewParameters(2, 3)
		Expect(err).NotTo(HaveOccurred())
		ids := testPartyIDs(3)

		fixtures := buildDealers(params, ids, ctx)
		runRoundOne(params, fixtures, ctx)

		sender := fixtureByIndex(fixtures, 1)
		receiver := fixtureByIndex(fixtures, 2)

		genuine := findShare(fixtures, 1, 2)

		dhPoint := receiver.DHSK.Scalar.Act(sender.Participant.DHPublicKey.Point)
		complaint, err := dkg.NewComplaintForTest(testGroup, party.ID(2), party.ID(1), receiver.Participant.DHPublicKey.Point, sender.Participant.DHPublicKey.Point, dhPoint, receiver.DHSK.Scalar, rand.Reader)
		Expect(err).NotTo(HaveOccurred())

		offender := dkg.Blame(testGroup, genuine, complaint, sender.Participant.Commitment, receiver.Participant.DHPublicKey.Point, sender.Participant.DHPublicKey.Point)
		Expect(offender).To(Equal(party.ID(2)))
	})

	It("E7: resharing from 2-of-3 to 3-of-4 preserves the group key", func() {
		oldParams, err := dkg.NewParameters(2, 3)
		Expect(err).NotTo(HaveOccurred())
		oldIDs := testPartyIDs(3)

		oldFixtures := buildDealers(oldParams, oldIDs, ctx)
		runRoundOne(oldParams, oldFixtures, ctx)

		oldInbound := make(map[party.ID][]*dkg.EncryptedSecretShare, len(oldFixtures))
		for _, f := range oldFixtures {
			oldInbound[f.Index] = inboundFor(oldFixtures, f.Index)
		}

		var originalGroupKey *dkg.GroupKey
		oldSecretKeys := make(map[party.ID]*dkg.SecretKey, len(oldFixtures))
		for _, f := range oldFixtures {
			r2, err := f.RoundOne.ToRoundTwo(oldInbound[f.Index])
			Expect(err).NotTo(HaveOccurred())
			gk, sk, err := r2.Finish()
			Expect(err).NotTo(HaveOccurred())
			originalGroupKey = gk
			oldSecretKeys[f.Index] = sk
		}

		newParams, err := dkg.NewParameters(3, 4)
		Expect(err).NotTo(HaveOccurred())
		// Disjoint from oldIDs: round one treats its own index as already
		// taken, so a new signer sharing an index with an old dealer would
		// make Reshare and New fail with ErrDuplicateParticipant.
		newIDs := party.IDSlice{11, 12, 13, 14}

		newSigners := make([]*dkg.Participant, len(newIDs))
		newDHSKs := make([]*dkg.DHPrivateKey, len(newIDs))
		for i, id := range newIDs {
			p, dhSK, err := dkg.NewSigner(testGroup, id, ctx, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			newSigners[i] = p
			newDHSKs[i] = dhSK
		}

		reshareDealers := make([]*dkg.Participant, len(oldFixtures))
		reshareRoundOnes := make([]*dkg.RoundOne, len(oldFixtures))
		for i, f := range oldFixtures {
			dealer, r1, err := dkg.Reshare(testGroup, newParams, f.Index, oldSecretKeys[f.Index], newSigners, ctx, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			reshareDealers[i] = dealer
			reshareRoundOnes[i] = r1
		}

		for newIdx, newID := range newIDs {
			inbound := make([]*dkg.EncryptedSecretShare, 0, len(reshareRoundOnes))
			for _, r1 := range reshareRoundOnes {
				shares, err := r1.TheirEncryptedSecretShares()
				Expect(err).NotTo(HaveOccurred())
				inbound = append(inbound, shares[newID])
			}

			signerR1, err := dkg.New(testGroup, newParams, newID, newDHSKs[newIdx], reshareDealers, len(reshareDealers), oldParams.T, ctx, rand.Reader)
			Expect(err).NotTo(HaveOccurred())

			r2, err := signerR1.ToRoundTwo(inbound)
			Expect(err).NotTo(HaveOccurred())

			gk, _, err := r2.Finish()
			Expect(err).NotTo(HaveOccurred())

			Expect(gk.Point.Equal(originalGroupKey.Point)).To(BeTrue())
		}
	})

	It("E8: a flipped NIZK challenge is excluded, and too many exclusions reject the round", func() {
		params, err := dkg.NewParameters(2, 3)
		Expect(err).NotTo(HaveOccurred())
		ids := testPartyIDs(3)

		fixtures := buildDealers(params, ids, ctx)

		peers := peersExcluding(fixtures, party.ID(2))
		for _, p := range peers {
			if p.Index == party.ID(3) {
				p.ProofOfDHKey.S = testGroup.NewScalar().Add(p.ProofOfDHKey.S, testGroup.NewScalar().SetUint32(1))
			}
		}

		r1, err := dkg.NewInitial(testGroup, params, party.ID(2), fixtureByIndex(fixtures, 2).DHSK, fixtureByIndex(fixtures, 2).Coeffs, peers, ctx, rand.Reader)
		Expect(err).NotTo(HaveOccurred())
		Expect(r1.List.Misbehaving).To(ContainElement(party.ID(3)))
		Expect(r1.List.Valid).To(ContainElement(party.ID(1)))

		// Now push valid count below threshold: with only 1 peer remaining
		// (party 1) and it also excluded, t=2 cannot be met.
		peers2 := peersExcluding(fixtures, party.ID(2))
		for _, p := range peers2 {
			p.ProofOfDHKey.S = testGroup.NewScalar().Add(p.ProofOfDHKey.S, testGroup.NewScalar().SetUint32(1))
		}
		_, err = dkg.NewInitial(testGroup, params, party.ID(2), fixtureByIndex(fixtures, 2).DHSK, fixtureByIndex(fixtures, 2).Coeffs, peers2, ctx, rand.Reader)
		Expect(err).To(HaveOccurred())
		var tooMany *dkg.TooManyInvalidParticipantsError
		Expect(errors.As(err, &tooMany)).To(BeTrue())
	})
})

func reencryptShare(dhPoint curve.Point, value curve.Scalar) ([16]byte, [32]byte) {
	nonce, ct, err := dkg.EncryptShareForTest(testGroup, dhPoint, value, rand.Reader)
	if err != nil {
		panic(err)
	}
	return nonce, ct
}

func fixtureByIndex(fixtures []*dealerFixture, idx int) *dealerFixture {
	for _, f := range fixtures {
		if f.Index == party.ID(idx) {
			return f
		}
	}
	return nil
}

func findShare(fixtures []*dealerFixture, sender, receiver int) *dkg.EncryptedSecretShare {
	f := fixtureByIndex(fixtures, sender)
	shares, err := f.RoundOne.TheirEncryptedSecretShares()
	if err != nil {
		panic(err)
	}
	return shares[party.ID(receiver)]
}


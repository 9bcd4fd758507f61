package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/icefrost/config"
	"github.com/luxfi/icefrost/dkg"
	"github.com/luxfi/icefrost/pkg/curve"
	"github.com/luxfi/icefrost/pkg/party"
	"github.com/luxfi/icefrost/pkg/polynomial"
)

func keygenCmd() *cobra.Command {
	var (
		n, threshold int
		session      string
		outDir       string
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Run a simulated DKG among n in-process participants",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeygen(n, threshold, session, outDir)
		},
	}
	cmd.Flags().IntVarP(&n, "parties", "n", 3, "total number of participants")
	cmd.Flags().IntVarP(&threshold, "threshold", "t", 2, "reconstruction threshold")
	cmd.Flags().StringVarP(&session, "session", "s", "icefrost-dkg-demo", "session label, used to derive the NIZK domain-separation context")
	cmd.Flags().StringVarP(&outDir, "out", "o", "./icefrost-data", "directory to write one config file per participant")
	return cmd
}

// sessionContext derives the byte string every proof in one DKG instance
// must bind to, so two unrelated sessions can never be confused for each
// other even if they happen to reuse participant indices.
func sessionContext(session string) []byte {
	out := make([]byte, 32)
	blake3.DeriveKey("icefrost-dkg session context v1", []byte(session), out)
	return out
}

func runKeygen(n, threshold int, session, outDir string) error {
	grp := curve.Secp256k1
	params, err := dkg.NewParameters(threshold, n)
	if err != nil {
		return fmt.Errorf("parameters: %w", err)
	}
	ctx := sessionContext(session)

	ids := make(party.IDSlice, n)
	for i := range ids {
		ids[i] = party.ID(i + 1)
	}

	participants := make(map[party.ID]*dkg.Participant, n)
	dhSKs := make(map[party.ID]*dkg.DHPrivateKey, n)
	coeffs := make(map[party.ID]*polynomial.Coefficients, n)

	for _, id := range ids {
		secret, err := grp.RandomScalar(rand.Reader)
		if err != nil {
			return fmt.Errorf("party %s: sampling secret: %w", id, err)
		}
		p, c, dhSK, err := dkg.NewDealer(grp, id, params, secret, ctx, rand.Reader)
		if err != nil {
			return fmt.Errorf("party %s: new dealer: %w", id, err)
		}
		participants[id] = p
		dhSKs[id] = dhSK
		coeffs[id] = c
	}

	rounds := make(map[party.ID]*dkg.RoundOne, n)
	for _, id := range ids {
		var peers []*dkg.Participant
		for _, other := range ids {
			if other != id {
				peers = append(peers, participants[other])
			}
		}
		r1, err := dkg.NewInitial(grp, params, id, dhSKs[id], coeffs[id], peers, ctx, rand.Reader)
		if err != nil {
			return fmt.Errorf("party %s: round one: %w", id, err)
		}
		rounds[id] = r1
	}

	commitments := make(map[party.ID]*polynomial.Commitment, n)
	for id, p := range participants {
		commitments[id] = p.Commitment
	}

	// Every bundle is collected before any transition: ToRoundTwo drops the
	// caller's own outbound shares.
	inbounds := make(map[party.ID][]*dkg.EncryptedSecretShare, n)
	for _, id := range ids {
		for _, other := range ids {
			shares, err := rounds[other].TheirEncryptedSecretShares()
			if err != nil {
				return fmt.Errorf("party %s: %w", other, err)
			}
			inbounds[id] = append(inbounds[id], shares[id])
		}
	}

	configs := make(map[party.ID]*config.Config, n)
	var groupKey *dkg.GroupKey
	for _, id := range ids {
		inbound := inbounds[id]

		r2, err := rounds[id].ToRoundTwo(inbound)
		if err != nil {
			reportComplaints(os.Stderr, grp, err, participants, inbound)
			return fmt.Errorf("party %s: round two: %w", id, err)
		}

		gk, sk, err := r2.Finish()
		if err != nil {
			return fmt.Errorf("party %s: finish: %w", id, err)
		}
		groupKey = gk

		cfg, err := config.FromFinish(grp, params.T, ctx, gk, sk, commitments)
		if err != nil {
			return fmt.Errorf("party %s: building config: %w", id, err)
		}
		configs[id] = cfg
	}

	if err := os.MkdirAll(outDir, 0o700); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var eg errgroup.Group
	for id, cfg := range configs {
		id, cfg := id, cfg
		eg.Go(func() error {
			data, err := cfg.MarshalJSON()
			if err != nil {
				return fmt.Errorf("party %s: marshalling config: %w", id, err)
			}
			path := filepath.Join(outDir, fmt.Sprintf("party-%d.json", id))
			return os.WriteFile(path, data, 0o600)
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("writing configs: %w", err)
	}

	fmt.Printf("DKG complete: %d-of-%d, group key %x\n", threshold, n, groupKey.Point.Bytes())
	fmt.Printf("configs written to %s\n", outDir)
	return nil
}

// reportComplaints adjudicates and prints every complaint raised during
// round two, so the operator running the simulation can see which party
// was at fault without inspecting the returned error by hand.
func reportComplaints(w *os.File, grp curve.Curve, err error, participants map[party.ID]*dkg.Participant, inbound []*dkg.EncryptedSecretShare) {
	var complaintErr *dkg.ComplaintError
	if !errors.As(err, &complaintErr) {
		return
	}
	byAccuser := make(map[party.ID]*dkg.EncryptedSecretShare, len(inbound))
	for _, es := range inbound {
		byAccuser[es.Sender] = es
	}

	for _, c := range complaintErr.Complaints {
		accused := participants[c.Accused]
		maker := participants[c.Maker]
		if accused == nil || maker == nil {
			continue
		}
		offender := dkg.Blame(grp, byAccuser[c.Accused], c, accused.Commitment, maker.DHPublicKey.Point, accused.DHPublicKey.Point)
		fmt.Fprintf(w, "complaint by %s against %s: %s is at fault\n", c.Maker, c.Accused, offender)
	}
}

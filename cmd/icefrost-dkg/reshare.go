package main

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/luxfi/icefrost/config"
	"github.com/luxfi/icefrost/dkg"
	"github.com/luxfi/icefrost/pkg/curve"
	"github.com/luxfi/icefrost/pkg/party"
)

func reshareCmd() *cobra.Command {
	var (
		inDir             string
		outDir            string
		newN, newThreshold int
	)

	cmd := &cobra.Command{
		Use:   "reshare",
		Short: "Move an existing group secret from the configs in --in to a fresh t-of-n signer set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReshare(inDir, outDir, newThreshold, newN)
		},
	}
	cmd.Flags().StringVarP(&inDir, "in", "i", "./icefrost-data", "directory of existing party-*.json configs")
	cmd.Flags().StringVarP(&outDir, "out", "o", "./icefrost-data-reshared", "directory to write the new configs")
	cmd.Flags().IntVarP(&newN, "parties", "n", 4, "new total participant count")
	cmd.Flags().IntVarP(&newThreshold, "threshold", "t", 3, "new reconstruction threshold")
	return cmd
}

func runReshare(inDir, outDir string, newThreshold, newN int) error {
	grp := curve.Secp256k1

	oldConfigs, err := loadConfigs(inDir, grp)
	if err != nil {
		return fmt.Errorf("loading existing configs: %w", err)
	}
	if len(oldConfigs) == 0 {
		return fmt.Errorf("no configs found in %s", inDir)
	}

	var ctx []byte
	for _, c := range oldConfigs {
		ctx = c.Context
		break
	}

	newParams, err := dkg.NewParameters(newThreshold, newN)
	if err != nil {
		return fmt.Errorf("new parameters: %w", err)
	}

	// New signer indices are offset well past any plausible old dealer
	// index: round one identifies "is this sender me?" purely by index
	// equality, so the two generations must never collide.
	const newGenerationOffset = 1000
	newIDs := make(party.IDSlice, newN)
	for i := range newIDs {
		newIDs[i] = party.ID(newGenerationOffset + i + 1)
	}

	newSigners := make([]*dkg.Participant, newN)
	newDHSKs := make(map[party.ID]*dkg.DHPrivateKey, newN)
	for i, id := range newIDs {
		p, dhSK, err := dkg.NewSigner(grp, id, ctx, rand.Reader)
		if err != nil {
			return fmt.Errorf("new signer %s: %w", id, err)
		}
		newSigners[i] = p
		newDHSKs[id] = dhSK
	}

	dealers := make([]*dkg.Participant, 0, len(oldConfigs))
	dealerRounds := make(map[party.ID]*dkg.RoundOne, len(oldConfigs))
	for oldID, c := range oldConfigs {
		dealer, r1, err := dkg.Reshare(grp, newParams, oldID, c.Secret, newSigners, ctx, rand.Reader)
		if err != nil {
			return fmt.Errorf("dealer %s: reshare: %w", oldID, err)
		}
		dealers = append(dealers, dealer)
		dealerRounds[oldID] = r1
	}

	if err := os.MkdirAll(outDir, 0o700); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var groupKey *dkg.GroupKey
	for _, id := range newIDs {
		var inbound []*dkg.EncryptedSecretShare
		for _, r1 := range dealerRounds {
			shares, err := r1.TheirEncryptedSecretShares()
			if err != nil {
				return err
			}
			inbound = append(inbound, shares[id])
		}

		signerR1, err := dkg.New(grp, newParams, id, newDHSKs[id], dealers, len(dealers), oldThresholdOf(oldConfigs), ctx, rand.Reader)
		if err != nil {
			return fmt.Errorf("signer %s: round one: %w", id, err)
		}

		r2, err := signerR1.ToRoundTwo(inbound)
		if err != nil {
			return fmt.Errorf("signer %s: round two: %w", id, err)
		}

		gk, sk, err := r2.Finish()
		if err != nil {
			return fmt.Errorf("signer %s: finish: %w", id, err)
		}
		groupKey = gk

		newCommitments := dkg.CommitmentsFromDealers(dealers)
		cfg, err := config.FromFinish(grp, newParams.T, ctx, gk, sk, newCommitments)
		if err != nil {
			return fmt.Errorf("signer %s: building config: %w", id, err)
		}
		// FromFinish keys Public by the dealers' (old) indices; the new
		// group's parties are the new signers.
		cfg.Public = make(map[party.ID]*dkg.IndividualPublicKey, len(newIDs))
		for _, pid := range newIDs {
			pub, err := dkg.GenerateIndividualPublicKey(grp, pid, newCommitments)
			if err != nil {
				return fmt.Errorf("signer %s: recovering public share for %s: %w", id, pid, err)
			}
			cfg.Public[pid] = pub
		}
		cfg.Generation = oldGenerationOf(oldConfigs) + 1

		data, err := cfg.MarshalJSON()
		if err != nil {
			return fmt.Errorf("signer %s: marshalling config: %w", id, err)
		}
		path := filepath.Join(outDir, fmt.Sprintf("party-%d.json", id))
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return err
		}
	}

	fmt.Printf("reshare complete: %d-of-%d, group key %x (unchanged)\n", newThreshold, newN, groupKey.Point.Bytes())
	fmt.Printf("configs written to %s\n", outDir)
	return nil
}

func oldThresholdOf(configs map[party.ID]*config.Config) int {
	for _, c := range configs {
		return c.Threshold
	}
	return 0
}

func oldGenerationOf(configs map[party.ID]*config.Config) uint64 {
	var max uint64
	for _, c := range configs {
		if c.Generation > max {
			max = c.Generation
		}
	}
	return max
}

func loadConfigs(dir string, grp curve.Curve) (map[party.ID]*config.Config, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make(map[party.ID]*config.Config)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		cfg := config.Empty(grp)
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		out[cfg.ID] = cfg
	}
	return out, nil
}

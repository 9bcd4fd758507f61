// Command icefrost-dkg simulates a Pedersen DKG run (and an optional
// resharing step afterward) entirely in-process, for exercising and
// demonstrating the protocol without a network transport. It is not a
// signing or aggregation tool: it stops once every simulated participant has
// a config file on disk.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "icefrost-dkg:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "icefrost-dkg",
		Short: "Simulate Pedersen DKG and resharing runs",
	}
	root.AddCommand(keygenCmd())
	root.AddCommand(reshareCmd())
	return root
}

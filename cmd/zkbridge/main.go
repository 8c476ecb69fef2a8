// zkbridge is the operator CLI for the light-client bridge verifier:
// genesis initialization, verification-key governance, and update
// submission against a local database.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

var rootCmd = &cobra.Command{
	Use:          "zkbridge",
	Short:        "Ethereum light-client bridge verifier",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "config.yaml", "path to the operator config file")

	rootCmd.AddCommand(genesisCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(setKeysCmd())
	rootCmd.AddCommand(stepCmd())
	rootCmd.AddCommand(rotateCmd())
	rootCmd.AddCommand(buildRotateCmd())
	rootCmd.AddCommand(devKeysCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/protolambda/zrnt/eth2/configs"
	"github.com/spf13/cobra"

	"github.com/kysee/zk-bridge/types"
)

// buildRotateCmd assembles a submittable rotate update from raw beacon
// data: it counts participation from the aggregate bits, validates the
// signing keys, and computes the next committee's SSZ root. The result
// feeds straight into `zkbridge rotate`.
func buildRotateCmd() *cobra.Command {
	var srcPath, outPath string
	cmd := &cobra.Command{
		Use:   "build-rotate",
		Short: "Assemble a rotate update from raw committee data",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(srcPath)
			if err != nil {
				return err
			}
			var src types.RotateUpdateSource
			if err := json.Unmarshal(raw, &src); err != nil {
				return fmt.Errorf("failed to parse source file: %w", err)
			}

			update, err := types.BuildRotateUpdate(configs.Mainnet, &src)
			if err != nil {
				return err
			}
			log.Info().
				Uint16("participation", update.Step.Participation).
				Stringer("sync_committee_ssz", update.SyncCommitteeSSZ).
				Msg("rotate update assembled")

			out, err := json.MarshalIndent(update, "", "  ")
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Println(string(out))
				return nil
			}
			return os.WriteFile(outPath, out, 0644)
		},
	}
	cmd.Flags().StringVar(&srcPath, "source", "", "path to the rotate source JSON")
	cmd.Flags().StringVar(&outPath, "out", "", "output path (stdout if empty)")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

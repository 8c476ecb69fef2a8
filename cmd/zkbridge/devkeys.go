package main

import (
	"os"
	"path/filepath"

	"github.com/consensys/gnark/frontend"
	"github.com/spf13/cobra"

	"github.com/kysee/zk-bridge/keygen"
)

// devKeysCmd generates development verification keys for all three
// proof flavors: setup the dev circuits, export snarkjs JSON. The proving
// keys are discarded; dev proofs are minted by the tests and tooling
// that need them.
func devKeysCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "devkeys",
		Short: "Generate development verification keys (snarkjs JSON)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(outDir, 0755); err != nil {
				return err
			}

			circuits := map[string]frontend.Circuit{
				"step_vk.json":    &keygen.StepCircuit{},
				"rotate_vk.json":  &keygen.RotateCircuit{},
				"fulfill_vk.json": &keygen.FulfillCircuit{},
			}
			for name, circuit := range circuits {
				artifacts, err := keygen.Setup(circuit)
				if err != nil {
					return err
				}
				path := filepath.Join(outDir, name)
				if err := os.WriteFile(path, artifacts.VKJSON, 0644); err != nil {
					return err
				}
				log.Info().Str("path", path).
					Int("bytes", len(artifacts.VKJSON)).
					Msg("verification key written")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "devkeys", "output directory")
	return cmd
}

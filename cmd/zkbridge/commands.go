package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/ethdb/pebble"
	"github.com/spf13/cobra"

	"github.com/kysee/zk-bridge/config"
	"github.com/kysee/zk-bridge/lightclient"
	"github.com/kysee/zk-bridge/types"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

func openPallet(cfg *config.Config) (*lightclient.Pallet, func() error, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, err
	}
	db, err := pebble.New(filepath.Join(cfg.DataDir, "lightclient"), 16, 16, "zkbridge", false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	pallet := lightclient.New(db, lightclient.WithLogger(log))
	return pallet, db.Close, nil
}

func genesisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genesis",
		Short: "Initialize the light-client database from the config's genesis section",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			genesis, err := cfg.Genesis.ToGenesisConfig()
			if err != nil {
				return err
			}
			pallet, closeDB, err := openPallet(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			return pallet.BuildGenesis(genesis)
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the light-client state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			pallet, closeDB, err := openPallet(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			state, err := pallet.State()
			if err != nil {
				return err
			}
			headerRoot, err := pallet.Header(state.Head)
			if err != nil {
				return err
			}
			fmt.Printf("head:       %d\n", state.Head)
			fmt.Printf("header:     %s\n", headerRoot)
			fmt.Printf("updater:    %s\n", state.Updater)
			fmt.Printf("consistent: %t\n", state.Consistent)
			return nil
		},
	}
}

func setKeysCmd() *cobra.Command {
	var stepPath, rotatePath string
	cmd := &cobra.Command{
		Use:   "set-keys",
		Short: "Install step/rotate verification keys (root governance)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			pallet, closeDB, err := openPallet(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			if stepPath != "" {
				raw, err := os.ReadFile(stepPath)
				if err != nil {
					return err
				}
				if err := pallet.SetupStepVerification(lightclient.RootOrigin(), string(raw)); err != nil {
					return fmt.Errorf("step key rejected: %w", err)
				}
			}
			if rotatePath != "" {
				raw, err := os.ReadFile(rotatePath)
				if err != nil {
					return err
				}
				if err := pallet.SetupRotateVerification(lightclient.RootOrigin(), string(raw)); err != nil {
					return fmt.Errorf("rotate key rejected: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&stepPath, "step", "", "path to the step verification key JSON")
	cmd.Flags().StringVar(&rotatePath, "rotate", "", "path to the rotate verification key JSON")
	return cmd
}

func stepCmd() *cobra.Command {
	var updatePath string
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Submit a step update from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			updater, err := cfg.UpdaterAccount()
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(updatePath)
			if err != nil {
				return err
			}
			var update types.LightClientStep
			if err := json.Unmarshal(raw, &update); err != nil {
				return fmt.Errorf("failed to parse update file: %w", err)
			}
			pallet, closeDB, err := openPallet(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			return pallet.Step(lightclient.SignedOrigin(updater), update)
		},
	}
	cmd.Flags().StringVar(&updatePath, "update", "", "path to the step update JSON")
	_ = cmd.MarkFlagRequired("update")
	return cmd
}

func rotateCmd() *cobra.Command {
	var updatePath string
	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Submit a rotate update from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			updater, err := cfg.UpdaterAccount()
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(updatePath)
			if err != nil {
				return err
			}
			var update types.LightClientRotate
			if err := json.Unmarshal(raw, &update); err != nil {
				return fmt.Errorf("failed to parse update file: %w", err)
			}
			pallet, closeDB, err := openPallet(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			return pallet.Rotate(lightclient.SignedOrigin(updater), update)
		},
	}
	cmd.Flags().StringVar(&updatePath, "update", "", "path to the rotate update JSON")
	_ = cmd.MarkFlagRequired("update")
	return cmd
}

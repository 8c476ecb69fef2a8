// Package config loads operator configuration for the bridge verifier
// CLI from a file (YAML, TOML or JSON, decided by extension).
package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/viper"

	"github.com/kysee/zk-bridge/lightclient"
)

type Config struct {
	// DataDir is the directory holding the light-client database.
	DataDir string `mapstructure:"dataDir"`
	// Updater is the account the operator submits with; it must match
	// the on-chain updater for step/rotate to be accepted.
	Updater string          `mapstructure:"updater"`
	Genesis GenesisSettings `mapstructure:"genesis"`
}

// GenesisSettings mirrors lightclient.GenesisConfig in file-friendly
// form. All times are unix seconds; secondsPerSlot is 12 on Ethereum
// mainnet.
type GenesisSettings struct {
	Updater               string `mapstructure:"updater"`
	GenesisValidatorsRoot string `mapstructure:"genesisValidatorsRoot"`
	GenesisTime           uint64 `mapstructure:"genesisTime"`
	SecondsPerSlot        uint64 `mapstructure:"secondsPerSlot"`
	SlotsPerPeriod        uint64 `mapstructure:"slotsPerPeriod"`
	SourceChainID         uint32 `mapstructure:"sourceChainId"`
	FinalityThreshold     uint16 `mapstructure:"finalityThreshold"`
	// SyncCommitteePoseidon is the period-0 commitment, decimal or 0x-hex.
	SyncCommitteePoseidon string `mapstructure:"syncCommitteePoseidon"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	return &cfg, nil
}

// UpdaterAccount parses the operator's submitting identity, falling back
// to the genesis updater.
func (c *Config) UpdaterAccount() (common.Hash, error) {
	s := c.Updater
	if s == "" {
		s = c.Genesis.Updater
	}
	if len(common.FromHex(s)) != common.HashLength {
		return common.Hash{}, fmt.Errorf("updater %q is not a 32-byte hex identity", s)
	}
	return common.HexToHash(s), nil
}

// ToGenesisConfig validates and converts the file settings.
func (g *GenesisSettings) ToGenesisConfig() (lightclient.GenesisConfig, error) {
	cfg := lightclient.DefaultGenesisConfig()

	if len(common.FromHex(g.Updater)) != common.HashLength {
		return cfg, fmt.Errorf("genesis updater %q is not a 32-byte hex identity", g.Updater)
	}
	cfg.Updater = common.HexToHash(g.Updater)
	if g.GenesisValidatorsRoot != "" {
		cfg.GenesisValidatorsRoot = common.HexToHash(g.GenesisValidatorsRoot)
	}
	if g.GenesisTime != 0 {
		cfg.GenesisTime = g.GenesisTime
	}
	if g.SecondsPerSlot != 0 {
		cfg.SecondsPerSlot = g.SecondsPerSlot
	}
	if g.SlotsPerPeriod != 0 {
		cfg.SlotsPerPeriod = g.SlotsPerPeriod
	}
	if g.SourceChainID != 0 {
		cfg.SourceChainID = g.SourceChainID
	}
	if g.FinalityThreshold != 0 {
		cfg.FinalityThreshold = g.FinalityThreshold
	}
	if g.SyncCommitteePoseidon != "" {
		poseidon, err := parseU256(g.SyncCommitteePoseidon)
		if err != nil {
			return cfg, fmt.Errorf("invalid syncCommitteePoseidon: %w", err)
		}
		cfg.SyncCommitteePoseidon = poseidon
	}
	return cfg, nil
}

func parseU256(s string) (*uint256.Int, error) {
	if len(s) > 1 && (s[:2] == "0x" || s[:2] == "0X") {
		return uint256.FromHex(s)
	}
	return uint256.FromDecimal(s)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
dataDir: /tmp/zkbridge-test
updater: "0x00000000000000000000000000000000000000000000000000000000000000aa"
genesis:
  updater: "0x00000000000000000000000000000000000000000000000000000000000000aa"
  genesisValidatorsRoot: "0xd8ea171f3c94aea21ebc42a1ed61052acf3f9209c00e4efbaaddac09ed9b8078"
  genesisTime: 1696440023
  secondsPerSlot: 12
  slotsPerPeriod: 8192
  sourceChainId: 1
  finalityThreshold: 290
  syncCommitteePoseidon: "7032059424740925146199071046477651269705772793323287102921912953216115444414"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	require.Equal(t, "/tmp/zkbridge-test", cfg.DataDir)

	updater, err := cfg.UpdaterAccount()
	require.NoError(t, err)
	require.Equal(t, common.HexToHash("0xaa"), updater)

	genesis, err := cfg.Genesis.ToGenesisConfig()
	require.NoError(t, err)
	require.Equal(t, uint64(1696440023), genesis.GenesisTime)
	require.Equal(t, uint64(12), genesis.SecondsPerSlot)
	require.Equal(t, uint64(8192), genesis.SlotsPerPeriod)
	require.Equal(t, uint32(1), genesis.SourceChainID)
	require.Equal(t, uint16(290), genesis.FinalityThreshold)
	require.Equal(t,
		uint256.MustFromDecimal("7032059424740925146199071046477651269705772793323287102921912953216115444414"),
		genesis.SyncCommitteePoseidon)
	require.Equal(t,
		common.HexToHash("0xd8ea171f3c94aea21ebc42a1ed61052acf3f9209c00e4efbaaddac09ed9b8078"),
		genesis.GenesisValidatorsRoot)
}

func TestLoadDefaultsDataDir(t *testing.T) {
	cfg, err := Load(writeConfig(t, `updater: "0xaa"`))
	require.NoError(t, err)
	require.Equal(t, "data", cfg.DataDir)
}

func TestGenesisRejectsBadUpdater(t *testing.T) {
	g := GenesisSettings{Updater: "not-hex"}
	_, err := g.ToGenesisConfig()
	require.Error(t, err)
}

func TestGenesisRejectsBadPoseidon(t *testing.T) {
	g := GenesisSettings{
		Updater:               "0x00000000000000000000000000000000000000000000000000000000000000aa",
		SyncCommitteePoseidon: "xyz",
	}
	_, err := g.ToGenesisConfig()
	require.Error(t, err)
}

func TestHexPoseidon(t *testing.T) {
	g := GenesisSettings{
		Updater:               "0x00000000000000000000000000000000000000000000000000000000000000aa",
		SyncCommitteePoseidon: "0x2a",
	}
	cfg, err := g.ToGenesisConfig()
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(42), cfg.SyncCommitteePoseidon)
}

package lightclient

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// GenesisConfig carries the chain-start parameters. Time quantities are
// unix seconds: SecondsPerSlot is the beacon slot duration in seconds
// (12 on Ethereum mainnet).
type GenesisConfig struct {
	Updater               common.Hash
	GenesisValidatorsRoot common.Hash
	GenesisTime           uint64
	SecondsPerSlot        uint64
	SlotsPerPeriod        uint64
	SourceChainID         uint32
	FinalityThreshold     uint16

	// SyncCommitteePoseidon seeds the period-0 committee commitment.
	SyncCommitteePoseidon *uint256.Int
}

// DefaultGenesisConfig returns mainnet-shaped parameters. The updater
// and the period-0 commitment still have to be set per deployment.
func DefaultGenesisConfig() GenesisConfig {
	return GenesisConfig{
		GenesisTime:       1696440023,
		SecondsPerSlot:    12,
		SlotsPerPeriod:    8192,
		SourceChainID:     1,
		FinalityThreshold: 290,
	}
}

func (cfg *GenesisConfig) validate() error {
	if cfg.SecondsPerSlot == 0 {
		return fmt.Errorf("%w: seconds per slot is zero", ErrInvalidGenesisConfig)
	}
	if cfg.SlotsPerPeriod == 0 {
		return fmt.Errorf("%w: slots per period is zero", ErrInvalidGenesisConfig)
	}
	return nil
}

// BuildGenesis writes the initial State and the period-0 committee
// commitment. It refuses to run twice.
func (p *Pallet) BuildGenesis(cfg GenesisConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := cfg.validate(); err != nil {
		return err
	}
	initialized, err := p.store.Initialized()
	if err != nil {
		return err
	}
	if initialized {
		return ErrAlreadyInitialized
	}

	state := State{
		Updater:               cfg.Updater,
		GenesisValidatorsRoot: cfg.GenesisValidatorsRoot,
		GenesisTime:           cfg.GenesisTime,
		SecondsPerSlot:        cfg.SecondsPerSlot,
		SlotsPerPeriod:        cfg.SlotsPerPeriod,
		SourceChainID:         cfg.SourceChainID,
		FinalityThreshold:     cfg.FinalityThreshold,
		Head:                  0,
		Consistent:            true,
	}

	batch := p.store.NewBatch()
	if err := p.store.PutState(batch, state); err != nil {
		return err
	}
	if cfg.SyncCommitteePoseidon != nil && !cfg.SyncCommitteePoseidon.IsZero() {
		if err := p.store.PutSyncCommitteePoseidon(batch, 0, cfg.SyncCommitteePoseidon); err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("%w: %v", ErrCannotUpdateStateStorage, err)
	}

	p.log.Info().
		Uint64("genesis_time", cfg.GenesisTime).
		Uint64("slots_per_period", cfg.SlotsPerPeriod).
		Msg("light client genesis built")
	return nil
}

// Package lightclient implements the bridge verifier state machine: the
// step and rotate transitions over persistent light-client state, gated
// by Groth16 proof verification and updater authentication.
package lightclient

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	// MinSyncCommitteeParticipants is the absolute floor on attested
	// participation, independent of the configured finality threshold.
	MinSyncCommitteeParticipants = 10
	// SyncCommitteeSize is the validator count per committee; the chain
	// enforces absolute participation counts, not ratios.
	SyncCommitteeSize = 512

	// Generalized SSZ indices of the proven beacon-state fields. The
	// circuits bake these in; they are carried here for provers reading
	// chain constants.
	FinalizedRootIndex      = 105
	NextSyncCommitteeIndex  = 55
	ExecutionStateRootIndex = 402
)

// Function ids addressing the two proof flavors on the generic
// verified-call path.
var (
	StepFunctionID   = common.Hash{}
	RotateFunctionID = common.Hash{31: 0x01}
)

// State is the light-client singleton. It is created at genesis and
// mutated only by governance, successful step transitions, and the
// consistency latch (which step, rotate and their refactor variants trip).
type State struct {
	Updater               common.Hash
	GenesisValidatorsRoot common.Hash
	GenesisTime           uint64
	SecondsPerSlot        uint64
	SlotsPerPeriod        uint64
	SourceChainID         uint32
	FinalityThreshold     uint16
	Head                  uint64
	Consistent            bool
}

package lightclient

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/kysee/zk-bridge/types"
)

func TestStoreDefaults(t *testing.T) {
	s := NewStore(memorydb.New())

	state, err := s.State()
	require.NoError(t, err)
	require.Equal(t, State{}, state)

	root, err := s.Header(1)
	require.NoError(t, err)
	require.Equal(t, common.Hash{}, root)

	poseidon, err := s.SyncCommitteePoseidon(1)
	require.NoError(t, err)
	require.True(t, poseidon.IsZero())

	at, err := s.Timestamp(1)
	require.NoError(t, err)
	require.Zero(t, at)

	vc, err := s.VerifiedCall()
	require.NoError(t, err)
	require.Nil(t, vc)

	vk, err := s.StepVerificationKey()
	require.NoError(t, err)
	require.Nil(t, vk)
}

func TestStoreStateRoundTrip(t *testing.T) {
	s := NewStore(memorydb.New())

	want := State{
		Updater:               common.HexToHash("0xaa"),
		GenesisValidatorsRoot: common.HexToHash("0xbb"),
		GenesisTime:           1696440023,
		SecondsPerSlot:        12,
		SlotsPerPeriod:        8192,
		SourceChainID:         1,
		FinalityThreshold:     290,
		Head:                  90,
		Consistent:            true,
	}

	batch := s.NewBatch()
	require.NoError(t, s.PutState(batch, want))
	require.NoError(t, batch.Write())

	got, err := s.State()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestStoreMaps(t *testing.T) {
	s := NewStore(memorydb.New())

	batch := s.NewBatch()
	require.NoError(t, s.PutHeader(batch, 90, common.HexToHash("0x11")))
	require.NoError(t, s.PutExecutionStateRoot(batch, 90, common.HexToHash("0x22")))
	require.NoError(t, s.PutTimestamp(batch, 90, 1700000000))
	require.NoError(t, s.PutSyncCommitteePoseidon(batch, 3, uint256.NewInt(777)))

	// Staged writes are invisible until committed.
	root, err := s.Header(90)
	require.NoError(t, err)
	require.Equal(t, common.Hash{}, root)

	require.NoError(t, batch.Write())

	root, err = s.Header(90)
	require.NoError(t, err)
	require.Equal(t, common.HexToHash("0x11"), root)

	execRoot, err := s.ExecutionStateRoot(90)
	require.NoError(t, err)
	require.Equal(t, common.HexToHash("0x22"), execRoot)

	at, err := s.Timestamp(90)
	require.NoError(t, err)
	require.Equal(t, uint64(1700000000), at)

	poseidon, err := s.SyncCommitteePoseidon(3)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(777), poseidon)
}

func TestStoreVerifiedCallRoundTrip(t *testing.T) {
	s := NewStore(memorydb.New())

	step := &types.VerifiedCall{
		FunctionID: StepFunctionID,
		InputHash:  common.HexToHash("0x01"),
		Step: &types.VerifiedStepOutput{
			FinalizedHeaderRoot: common.HexToHash("0x11"),
			ExecutionStateRoot:  common.HexToHash("0x22"),
			FinalizedSlot:       90,
			Participation:       400,
		},
	}
	batch := s.NewBatch()
	require.NoError(t, s.PutVerifiedCall(batch, step))
	require.NoError(t, batch.Write())

	got, err := s.VerifiedCall()
	require.NoError(t, err)
	require.Equal(t, step, got)

	rotate := &types.VerifiedCall{
		FunctionID: RotateFunctionID,
		InputHash:  common.HexToHash("0x02"),
		Rotate: &types.VerifiedRotateOutput{
			SyncCommitteePoseidon: uint256.NewInt(999),
		},
	}
	batch = s.NewBatch()
	require.NoError(t, s.PutVerifiedCall(batch, rotate))
	require.NoError(t, batch.Write())

	got, err = s.VerifiedCall()
	require.NoError(t, err)
	require.Equal(t, rotate, got)
}

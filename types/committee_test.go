package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	zrntcommon "github.com/protolambda/zrnt/eth2/beacon/common"
	"github.com/protolambda/zrnt/eth2/configs"
	"github.com/stretchr/testify/require"
)

func TestParseSyncCommitteeBits(t *testing.T) {
	bitsBytes := make([]byte, 64)
	bitsBytes[0] = 0b0000_0101 // validators 0 and 2
	bitsBytes[63] = 0b1000_0000 // validator 511

	bits := ParseSyncCommitteeBits(bitsBytes)
	require.Len(t, bits, SyncCommitteeSize)
	require.True(t, bits[0])
	require.False(t, bits[1])
	require.True(t, bits[2])
	require.True(t, bits[511])
	require.Equal(t, uint16(3), Participation(bits))
}

func TestParseSyncCommitteeBitsShortInput(t *testing.T) {
	bits := ParseSyncCommitteeBits([]byte{0xff})
	require.Equal(t, uint16(8), Participation(bits))
}

func TestAggregatePublicKeys(t *testing.T) {
	_, _, g1Aff, _ := bls12381.Generators()
	genBytes := g1Aff.Bytes()

	var pk zrntcommon.BLSPubkey
	copy(pk[:], genBytes[:])
	pubkeys := []zrntcommon.BLSPubkey{pk, pk, pk}

	agg, count, err := AggregatePublicKeys(pubkeys, []bool{true, false, true})
	require.NoError(t, err)
	require.Equal(t, 2, count)

	var doubled bls12381.G1Affine
	doubled.Double(&g1Aff)
	require.True(t, agg.Equal(&doubled))

	_, _, err = AggregatePublicKeys(pubkeys, []bool{false, false, false})
	require.Error(t, err)
}

// syncCommitteeFixture builds a full committee via JSON so the zrnt
// container types stay behind their own decoding.
func syncCommitteeFixture(t *testing.T, pubkey []byte) *zrntcommon.SyncCommittee {
	t.Helper()
	hexKey := fmt.Sprintf("%q", "0x"+hex.EncodeToString(pubkey))
	keys := make([]string, SyncCommitteeSize)
	for i := range keys {
		keys[i] = hexKey
	}
	raw := fmt.Sprintf(`{"pubkeys": [%s], "aggregate_pubkey": %s}`,
		strings.Join(keys, ","), hexKey)

	var committee zrntcommon.SyncCommittee
	require.NoError(t, json.Unmarshal([]byte(raw), &committee))
	return &committee
}

func TestSyncCommitteeSSZRoot(t *testing.T) {
	_, _, g1Aff, _ := bls12381.Generators()
	genBytes := g1Aff.Bytes()

	committee := syncCommitteeFixture(t, genBytes[:])
	root := SyncCommitteeSSZRoot(configs.Mainnet, committee)
	require.NotEqual(t, [32]byte{}, [32]byte(root))

	// Deterministic, and sensitive to the committee contents.
	require.Equal(t, root, SyncCommitteeSSZRoot(configs.Mainnet, committee))

	var doubled bls12381.G1Affine
	doubled.Double(&g1Aff)
	doubledBytes := doubled.Bytes()
	other := syncCommitteeFixture(t, doubledBytes[:])
	require.NotEqual(t, root, SyncCommitteeSSZRoot(configs.Mainnet, other))
}

func TestBuildRotateUpdate(t *testing.T) {
	_, _, g1Aff, _ := bls12381.Generators()
	genBytes := g1Aff.Bytes()

	bits := make([]byte, 64)
	bits[0] = 0b0000_0111 // validators 0..2 signed

	src := &RotateUpdateSource{
		Step: LightClientStep{
			AttestedSlot:        8200,
			FinalizedSlot:       8100,
			FinalizedHeaderRoot: common.HexToHash("0x11"),
			ExecutionStateRoot:  common.HexToHash("0x22"),
		},
		SyncCommitteeBits:     bits,
		CurrentSyncCommittee:  *syncCommitteeFixture(t, genBytes[:]),
		NextSyncCommittee:     *syncCommitteeFixture(t, genBytes[:]),
		SyncCommitteePoseidon: uint256.NewInt(777),
		Proof:                 HexBytes{0x01},
	}

	update, err := BuildRotateUpdate(configs.Mainnet, src)
	require.NoError(t, err)
	require.Equal(t, uint16(3), update.Step.Participation)
	require.Equal(t, src.Step.FinalizedSlot, update.Step.FinalizedSlot)
	require.Equal(t, SyncCommitteeSSZRoot(configs.Mainnet, &src.NextSyncCommittee), update.SyncCommitteeSSZ)
	require.Equal(t, uint256.NewInt(777), update.SyncCommitteePoseidon)
	require.Equal(t, HexBytes{0x01}, update.Proof)
}

func TestBuildRotateUpdateNoParticipants(t *testing.T) {
	_, _, g1Aff, _ := bls12381.Generators()
	genBytes := g1Aff.Bytes()

	src := &RotateUpdateSource{
		SyncCommitteeBits:    make([]byte, 64),
		CurrentSyncCommittee: *syncCommitteeFixture(t, genBytes[:]),
		NextSyncCommittee:    *syncCommitteeFixture(t, genBytes[:]),
	}
	_, err := BuildRotateUpdate(configs.Mainnet, src)
	require.Error(t, err)
}

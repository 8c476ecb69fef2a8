package types

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	zrntcommon "github.com/protolambda/zrnt/eth2/beacon/common"
	"github.com/protolambda/ztyp/tree"
)

// SyncCommitteeSize is the number of validators in a sync committee.
const SyncCommitteeSize = 512

// ParseSyncCommitteeBits expands the packed sync_committee_bits field
// into per-validator booleans (little-endian bit order within a byte).
func ParseSyncCommitteeBits(bitsBytes []byte) []bool {
	bits := make([]bool, SyncCommitteeSize)
	for i := 0; i < SyncCommitteeSize; i++ {
		byteIndex := i / 8
		bitIndex := i % 8
		if byteIndex < len(bitsBytes) {
			bits[i] = (bitsBytes[byteIndex] & (1 << bitIndex)) != 0
		}
	}
	return bits
}

// Participation counts the set bits. The result feeds the participation
// field of a LightClientStep.
func Participation(bits []bool) uint16 {
	var n uint16
	for _, b := range bits {
		if b {
			n++
		}
	}
	return n
}

// AggregatePublicKeys aggregates the participating committee keys into
// one BLS12-381 G1 point.
func AggregatePublicKeys(pubkeys []zrntcommon.BLSPubkey, bits []bool) (bls12381.G1Affine, int, error) {
	var aggPubkey bls12381.G1Affine
	aggPubkey.SetInfinity()

	count := 0
	for i, participate := range bits {
		if !participate || i >= len(pubkeys) {
			continue
		}
		var pubkey bls12381.G1Affine
		_, err := pubkey.SetBytes(pubkeys[i][:])
		if err != nil {
			return aggPubkey, 0, fmt.Errorf("failed to deserialize pubkey %d: %v", i, err)
		}

		aggPubkey.Add(&aggPubkey, &pubkey)
		count++
	}

	if count == 0 {
		return aggPubkey, 0, fmt.Errorf("no public keys to aggregate")
	}

	return aggPubkey, count, nil
}

// SyncCommitteeSSZRoot computes the SSZ hash tree root of a sync
// committee, the sync_committee_ssz field of a rotate update.
func SyncCommitteeSSZRoot(spec *zrntcommon.Spec, committee *zrntcommon.SyncCommittee) common.Hash {
	root := committee.HashTreeRoot(spec, tree.GetHashFn())
	return common.Hash(root)
}

// RotateUpdateSource is the raw material an updater holds after fetching
// a beacon light-client update for a period boundary: the step fields
// without participation, the signing committee and its aggregate bits,
// the next committee, and the prover outputs.
type RotateUpdateSource struct {
	Step                  LightClientStep          `json:"step"`
	SyncCommitteeBits     HexBytes                 `json:"sync_committee_bits"`
	CurrentSyncCommittee  zrntcommon.SyncCommittee `json:"current_sync_committee"`
	NextSyncCommittee     zrntcommon.SyncCommittee `json:"next_sync_committee"`
	SyncCommitteePoseidon *uint256.Int             `json:"next_sync_committee_poseidon"`
	Proof                 HexBytes                 `json:"proof"`
}

// BuildRotateUpdate assembles a submittable rotate update. Participation
// is counted by aggregating the signing keys selected by the bitfield,
// which also checks that every participating key deserializes; the
// committee commitment root is the next committee's SSZ hash tree root.
func BuildRotateUpdate(spec *zrntcommon.Spec, src *RotateUpdateSource) (*LightClientRotate, error) {
	bits := ParseSyncCommitteeBits(src.SyncCommitteeBits)
	_, count, err := AggregatePublicKeys(src.CurrentSyncCommittee.Pubkeys, bits)
	if err != nil {
		return nil, fmt.Errorf("invalid sync aggregate: %w", err)
	}

	step := src.Step
	step.Participation = uint16(count)

	return &LightClientRotate{
		Step:                  step,
		SyncCommitteeSSZ:      SyncCommitteeSSZRoot(spec, &src.NextSyncCommittee),
		SyncCommitteePoseidon: src.SyncCommitteePoseidon,
		Proof:                 src.Proof,
	}, nil
}

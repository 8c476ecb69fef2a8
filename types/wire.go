package types

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Wire-level resource ceilings. The verifier enforces the proof cap on
// every verification; the JSON decoder below rejects anything beyond the
// key cap, the largest blob this module ever carries.
const (
	MaxProofLength           = 1133
	MaxVerificationKeyLength = 4143
)

// HexBytes is a bounded wire blob: proof bytes, committee bitfields.
// JSON carries it 0x-hex encoded, the beacon-API convention.
type HexBytes []byte

func (hb HexBytes) String() string {
	return "0x" + hex.EncodeToString(hb)
}

func (hb HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hb.String())
}

func (hb *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("wire bytes must be a hex string: %w", err)
	}
	s = strings.TrimPrefix(s, "0x")
	if len(s) > 2*MaxVerificationKeyLength {
		return fmt.Errorf("wire bytes exceed %d bytes", MaxVerificationKeyLength)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid wire bytes: %w", err)
	}
	*hb = raw
	return nil
}

// LightClientStep carries a finality update: the sync committee of the
// relevant period signed the attested header, and the header at
// FinalizedSlot is finalized with the given roots.
type LightClientStep struct {
	AttestedSlot        uint64      `json:"attested_slot"`
	FinalizedSlot       uint64      `json:"finalized_slot"`
	Participation       uint16      `json:"participation"`
	FinalizedHeaderRoot common.Hash `json:"finalized_header_root"`
	ExecutionStateRoot  common.Hash `json:"execution_state_root"`
	Proof               HexBytes    `json:"proof"`
}

// LightClientRotate is a step that additionally attests to the next
// period's sync committee: SyncCommitteeSSZ is the SSZ hash tree root of
// the committee and SyncCommitteePoseidon its in-circuit commitment.
type LightClientRotate struct {
	Step                  LightClientStep `json:"step"`
	SyncCommitteeSSZ      common.Hash     `json:"sync_committee_ssz"`
	SyncCommitteePoseidon *uint256.Int    `json:"sync_committee_poseidon"`
	Proof                 HexBytes        `json:"proof"`
}

const (
	stepOutputLen   = 32 + 32 + 8 + 2
	rotateOutputLen = 32
)

// VerifiedStepOutput is the step-flavored payload of a generic verified
// call, packed big-endian as root(32) | root(32) | slot(8) | participation(2).
type VerifiedStepOutput struct {
	FinalizedHeaderRoot common.Hash
	ExecutionStateRoot  common.Hash
	FinalizedSlot       uint64
	Participation       uint16
}

// VerifiedRotateOutput is the rotate-flavored payload of a generic
// verified call: one 32-byte big-endian field element.
type VerifiedRotateOutput struct {
	SyncCommitteePoseidon *uint256.Int
}

// VerifiedCall records the most recent successfully verified generic
// proof. Exactly one of Step and Rotate is set, keyed by FunctionID.
type VerifiedCall struct {
	FunctionID common.Hash
	InputHash  common.Hash
	Step       *VerifiedStepOutput
	Rotate     *VerifiedRotateOutput
}

func ParseStepOutput(output []byte) (*VerifiedStepOutput, error) {
	if len(output) != stepOutputLen {
		return nil, fmt.Errorf("step output must be %d bytes, got %d", stepOutputLen, len(output))
	}
	out := &VerifiedStepOutput{
		FinalizedHeaderRoot: common.BytesToHash(output[:32]),
		ExecutionStateRoot:  common.BytesToHash(output[32:64]),
		FinalizedSlot:       binary.BigEndian.Uint64(output[64:72]),
		Participation:       binary.BigEndian.Uint16(output[72:74]),
	}
	return out, nil
}

func (o *VerifiedStepOutput) Encode() []byte {
	buf := make([]byte, stepOutputLen)
	copy(buf[:32], o.FinalizedHeaderRoot[:])
	copy(buf[32:64], o.ExecutionStateRoot[:])
	binary.BigEndian.PutUint64(buf[64:72], o.FinalizedSlot)
	binary.BigEndian.PutUint16(buf[72:74], o.Participation)
	return buf
}

func ParseRotateOutput(output []byte) (*VerifiedRotateOutput, error) {
	if len(output) != rotateOutputLen {
		return nil, fmt.Errorf("rotate output must be %d bytes, got %d", rotateOutputLen, len(output))
	}
	return &VerifiedRotateOutput{
		SyncCommitteePoseidon: new(uint256.Int).SetBytes(output),
	}, nil
}

func (o *VerifiedRotateOutput) Encode() []byte {
	b := o.SyncCommitteePoseidon.Bytes32()
	return b[:]
}

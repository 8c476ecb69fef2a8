package verifier

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/kysee/zk-bridge/types"
)

// Public-input encoders. 32-byte roots are interpreted as big-endian
// integers and reduced into the BN254 scalar field; proofs generated
// with out-of-field roots fail verification rather than decode.

// StepPublicInputs assembles the step vector:
//
//	[ sync_committee_poseidon, attested_slot, finalized_slot,
//	  participation, finalized_header_root, execution_state_root ]
func StepPublicInputs(step *types.LightClientStep, syncCommitteePoseidon *uint256.Int) []*big.Int {
	return []*big.Int{
		reduceBig(syncCommitteePoseidon.ToBig()),
		new(big.Int).SetUint64(step.AttestedSlot),
		new(big.Int).SetUint64(step.FinalizedSlot),
		new(big.Int).SetUint64(uint64(step.Participation)),
		reduceHash(step.FinalizedHeaderRoot),
		reduceHash(step.ExecutionStateRoot),
	}
}

// RotatePublicInputs is the embedded step vector plus the next period's
// committee commitment.
func RotatePublicInputs(update *types.LightClientRotate, syncCommitteePoseidon *uint256.Int) []*big.Int {
	inputs := StepPublicInputs(&update.Step, syncCommitteePoseidon)
	next := update.SyncCommitteePoseidon
	if next == nil {
		next = new(uint256.Int)
	}
	return append(inputs, reduceBig(next.ToBig()))
}

// FulfillPublicInputs is the generic verified-call vector
// [ sha256(input), sha256(output) ], each reduced into the scalar field.
func FulfillPublicInputs(inputHash, outputHash common.Hash) []*big.Int {
	return []*big.Int{reduceHash(inputHash), reduceHash(outputHash)}
}

func reduceHash(h common.Hash) *big.Int {
	return reduceBig(new(big.Int).SetBytes(h[:]))
}

func reduceBig(v *big.Int) *big.Int {
	var el fr.Element
	el.SetBigInt(v)
	return el.BigInt(new(big.Int))
}

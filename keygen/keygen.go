// Package keygen compiles the development circuits, runs the Groth16
// setup, and exports verifying keys in the snarkjs JSON layout the
// verifier package consumes. It also produces proofs for those circuits,
// serialized as compressed A | B | C.
package keygen

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	groth16bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/logger"
)

// Artifacts bundles the outputs of a circuit setup.
type Artifacts struct {
	CCS    constraint.ConstraintSystem
	PK     groth16.ProvingKey
	VK     groth16.VerifyingKey
	VKJSON []byte
}

// Setup compiles the circuit over the BN254 scalar field and generates
// proving and verifying keys.
func Setup(circuit frontend.Circuit) (*Artifacts, error) {
	logger.Disable()

	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return nil, fmt.Errorf("failed to compile circuit: %w", err)
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("groth16 setup failed: %w", err)
	}

	vkJSON, err := ExportVerifyingKey(vk)
	if err != nil {
		return nil, err
	}

	return &Artifacts{CCS: ccs, PK: pk, VK: vk, VKJSON: vkJSON}, nil
}

// snarkjsKey is the export layout: decimal-string coordinates, affine
// points with an explicit projective z.
type snarkjsKey struct {
	Protocol string     `json:"protocol"`
	Curve    string     `json:"curve"`
	NPublic  int        `json:"nPublic"`
	AlphaG1  []string   `json:"vk_alpha_1"`
	BetaG2   [][]string `json:"vk_beta_2"`
	GammaG2  [][]string `json:"vk_gamma_2"`
	DeltaG2  [][]string `json:"vk_delta_2"`
	IC       [][]string `json:"IC"`
}

// ExportVerifyingKey renders a gnark BN254 verifying key in the snarkjs
// JSON layout.
func ExportVerifyingKey(vk groth16.VerifyingKey) ([]byte, error) {
	bvk, ok := vk.(*groth16bn254.VerifyingKey)
	if !ok {
		return nil, fmt.Errorf("verifying key is not a BN254 key")
	}

	out := snarkjsKey{
		Protocol: "groth16",
		Curve:    "bn128",
		NPublic:  len(bvk.G1.K) - 1,
		AlphaG1:  g1Coords(bvk.G1.Alpha),
		BetaG2:   g2Coords(bvk.G2.Beta),
		GammaG2:  g2Coords(bvk.G2.Gamma),
		DeltaG2:  g2Coords(bvk.G2.Delta),
		IC:       make([][]string, len(bvk.G1.K)),
	}
	for i, p := range bvk.G1.K {
		out.IC[i] = g1Coords(p)
	}

	return json.MarshalIndent(&out, "", " ")
}

func g1Coords(p bn254.G1Affine) []string {
	return []string{p.X.String(), p.Y.String(), "1"}
}

func g2Coords(p bn254.G2Affine) [][]string {
	return [][]string{
		{p.X.A0.String(), p.X.A1.String()},
		{p.Y.A0.String(), p.Y.A1.String()},
		{"1", "0"},
	}
}

// Prove generates a Groth16 proof for the assignment and serializes it
// as compressed A | B | C.
func Prove(ccs constraint.ConstraintSystem, pk groth16.ProvingKey, assignment frontend.Circuit) ([]byte, error) {
	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("failed to create witness: %w", err)
	}

	proof, err := groth16.Prove(ccs, pk, witness)
	if err != nil {
		return nil, fmt.Errorf("proof generation failed: %w", err)
	}

	bproof, ok := proof.(*groth16bn254.Proof)
	if !ok {
		return nil, fmt.Errorf("proof is not a BN254 proof")
	}

	a := bproof.Ar.Bytes()
	b := bproof.Bs.Bytes()
	c := bproof.Krs.Bytes()

	out := make([]byte, 0, len(a)+len(b)+len(c))
	out = append(out, a[:]...)
	out = append(out, b[:]...)
	out = append(out, c[:]...)
	return out, nil
}

// BindingSum folds a public-input vector into the private binding
// witness the development circuits expect.
func BindingSum(inputs []*big.Int) *big.Int {
	var sum fr.Element
	for _, in := range inputs {
		var el fr.Element
		el.SetBigInt(in)
		sum.Add(&sum, &el)
	}
	return sum.BigInt(new(big.Int))
}

// StepAssignment builds a witness for StepCircuit from an encoded step
// public-input vector.
func StepAssignment(inputs []*big.Int) *StepCircuit {
	return &StepCircuit{
		SyncCommitteePoseidon: inputs[0],
		AttestedSlot:          inputs[1],
		FinalizedSlot:         inputs[2],
		Participation:         inputs[3],
		FinalizedHeaderRoot:   inputs[4],
		ExecutionStateRoot:    inputs[5],
		Binding:               BindingSum(inputs),
	}
}

// RotateAssignment builds a witness for RotateCircuit.
func RotateAssignment(inputs []*big.Int) *RotateCircuit {
	return &RotateCircuit{
		SyncCommitteePoseidon:     inputs[0],
		AttestedSlot:              inputs[1],
		FinalizedSlot:             inputs[2],
		Participation:             inputs[3],
		FinalizedHeaderRoot:       inputs[4],
		ExecutionStateRoot:        inputs[5],
		NextSyncCommitteePoseidon: inputs[6],
		Binding:                   BindingSum(inputs),
	}
}

// FulfillAssignment builds a witness for FulfillCircuit.
func FulfillAssignment(inputs []*big.Int) *FulfillCircuit {
	return &FulfillCircuit{
		InputHash:  inputs[0],
		OutputHash: inputs[1],
		Binding:    BindingSum(inputs),
	}
}

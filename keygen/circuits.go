package keygen

import (
	"github.com/consensys/gnark/frontend"
)

// Development circuits with the exact public arities of the three proof
// flavors. Each binds the public vector with a single private witness so
// that a proof can only be produced by tooling that knows the inputs.
// They stand in for the production light-client circuits, which are
// compiled and proven off-chain.

// StepCircuit has the step public-input shape (arity 6).
type StepCircuit struct {
	SyncCommitteePoseidon frontend.Variable `gnark:",public"`
	AttestedSlot          frontend.Variable `gnark:",public"`
	FinalizedSlot         frontend.Variable `gnark:",public"`
	Participation         frontend.Variable `gnark:",public"`
	FinalizedHeaderRoot   frontend.Variable `gnark:",public"`
	ExecutionStateRoot    frontend.Variable `gnark:",public"`

	Binding frontend.Variable
}

func (c *StepCircuit) Define(api frontend.API) error {
	sum := api.Add(c.SyncCommitteePoseidon, c.AttestedSlot, c.FinalizedSlot,
		c.Participation, c.FinalizedHeaderRoot, c.ExecutionStateRoot)
	api.AssertIsEqual(c.Binding, sum)
	return nil
}

// RotateCircuit has the rotate public-input shape: the step inputs plus
// the next period's committee commitment (arity 7).
type RotateCircuit struct {
	SyncCommitteePoseidon     frontend.Variable `gnark:",public"`
	AttestedSlot              frontend.Variable `gnark:",public"`
	FinalizedSlot             frontend.Variable `gnark:",public"`
	Participation             frontend.Variable `gnark:",public"`
	FinalizedHeaderRoot       frontend.Variable `gnark:",public"`
	ExecutionStateRoot        frontend.Variable `gnark:",public"`
	NextSyncCommitteePoseidon frontend.Variable `gnark:",public"`

	Binding frontend.Variable
}

func (c *RotateCircuit) Define(api frontend.API) error {
	sum := api.Add(c.SyncCommitteePoseidon, c.AttestedSlot, c.FinalizedSlot,
		c.Participation, c.FinalizedHeaderRoot, c.ExecutionStateRoot,
		c.NextSyncCommitteePoseidon)
	api.AssertIsEqual(c.Binding, sum)
	return nil
}

// FulfillCircuit has the generic verified-call shape (arity 2).
type FulfillCircuit struct {
	InputHash  frontend.Variable `gnark:",public"`
	OutputHash frontend.Variable `gnark:",public"`

	Binding frontend.Variable
}

func (c *FulfillCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(c.Binding, api.Add(c.InputHash, c.OutputHash))
	return nil
}

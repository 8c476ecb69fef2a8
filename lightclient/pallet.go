package lightclient

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/kysee/zk-bridge/types"
	"github.com/kysee/zk-bridge/verifier"
)

// TimeProvider supplies wall-clock unix seconds.
type TimeProvider interface {
	Now() uint64
}

type systemClock struct{}

func (systemClock) Now() uint64 { return uint64(time.Now().Unix()) }

// Pallet is the light-client bridge verifier. All public operations are
// atomic: writes are staged in a batch and committed only on success
// paths.
type Pallet struct {
	mu     sync.Mutex
	store  *Store
	clock  TimeProvider
	events EventSink
	proofs verifier.ProofBackend
	log    zerolog.Logger
}

type Option func(*Pallet)

func WithTimeProvider(clock TimeProvider) Option {
	return func(p *Pallet) { p.clock = clock }
}

func WithEventSink(sink EventSink) Option {
	return func(p *Pallet) { p.events = sink }
}

// WithProofBackend swaps the proof system; the default is the Groth16
// pairing verifier.
func WithProofBackend(backend verifier.ProofBackend) Option {
	return func(p *Pallet) { p.proofs = backend }
}

func WithLogger(log zerolog.Logger) Option {
	return func(p *Pallet) { p.log = log }
}

func New(db ethdb.KeyValueStore, opts ...Option) *Pallet {
	p := &Pallet{
		store:  NewStore(db),
		clock:  systemClock{},
		events: nopSink{},
		proofs: verifier.Groth16{},
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Step updates the head of the light client to update.FinalizedSlot.
// The conditions involve checking:
//  1. enough signatures from the current sync committee for n=512
//  2. a valid finality proof
//  3. a valid execution state root proof
func (p *Pallet) Step(origin Origin, update types.LightClientStep) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	sender, err := origin.EnsureSigned()
	if err != nil {
		return err
	}
	state, err := p.store.State()
	if err != nil {
		return err
	}
	if sender != state.Updater {
		return ErrUpdaterMismatch
	}

	finalized, err := p.processStep(&state, &update)
	if err != nil {
		return err
	}
	if !finalized {
		return ErrNotEnoughParticipants
	}

	now := p.clock.Now()
	if err := checkSlotBounds(&state, update.AttestedSlot, update.FinalizedSlot, now); err != nil {
		return err
	}

	batch := p.store.NewBatch()
	updated, err := p.setSlotRoots(batch, &state, update.FinalizedSlot,
		update.FinalizedHeaderRoot, update.ExecutionStateRoot, now)
	if err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("%w: %v", ErrCannotUpdateStateStorage, err)
	}
	if updated {
		p.deposit(HeadUpdateEvent{
			Slot:             update.FinalizedSlot,
			FinalizationRoot: update.FinalizedHeaderRoot,
		})
	}
	return nil
}

// Rotate sets the sync committee commitment for the next period. The
// commitment to the next committee is signed by the current one, so a
// rotate embeds a step and re-checks its committee, minimum participation
// and step proof. The step's slot bounds are not checked, and a step below
// the finality threshold is accepted without writing the commitment.
func (p *Pallet) Rotate(origin Origin, update types.LightClientRotate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	sender, err := origin.EnsureSigned()
	if err != nil {
		return err
	}
	state, err := p.store.State()
	if err != nil {
		return err
	}
	if sender != state.Updater {
		return ErrUpdaterMismatch
	}

	step := &update.Step
	finalized, err := p.processStep(&state, step)
	if err != nil {
		return err
	}
	currentPeriod := step.FinalizedSlot / state.SlotsPerPeriod
	nextPeriod := currentPeriod + 1

	vk, err := p.rotateVerifier()
	if err != nil {
		return err
	}
	poseidon, err := p.store.SyncCommitteePoseidon(currentPeriod)
	if err != nil {
		return err
	}
	ok, err := p.proofs.Verify(vk, verifier.RotatePublicInputs(&update, poseidon), update.Proof)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}
	if !ok {
		return ErrInvalidRotateProof
	}

	p.deposit(VerificationSuccessEvent{
		Who:           sender,
		AttestedSlot:  step.AttestedSlot,
		FinalizedSlot: step.FinalizedSlot,
	})

	if finalized {
		next := update.SyncCommitteePoseidon
		if next == nil {
			next = new(uint256.Int)
		}
		batch := p.store.NewBatch()
		written, err := p.setSyncCommitteePoseidon(batch, &state, nextPeriod, next)
		if err != nil {
			return err
		}
		if err := batch.Write(); err != nil {
			return fmt.Errorf("%w: %v", ErrCannotUpdateStateStorage, err)
		}
		if written {
			p.deposit(SyncCommitteeUpdateEvent{Period: nextPeriod, Root: next})
		}
	}
	return nil
}

// SetUpdater replaces the account allowed to call step and rotate.
func (p *Pallet) SetUpdater(origin Origin, updater common.Hash) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := origin.EnsureRoot(); err != nil {
		return err
	}
	state, err := p.store.State()
	if err != nil {
		return err
	}
	old := state.Updater
	state.Updater = updater

	batch := p.store.NewBatch()
	if err := p.store.PutState(batch, state); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("%w: %v", ErrCannotUpdateStateStorage, err)
	}
	p.deposit(NewUpdaterEvent{Old: old, New: updater})
	return nil
}

// SetupStepVerification installs the step verification key.
func (p *Pallet) SetupStepVerification(origin Origin, verification string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setupVerification(origin, []byte(verification), p.store.PutStepVerificationKey)
}

// SetupRotateVerification installs the rotate verification key.
func (p *Pallet) SetupRotateVerification(origin Origin, verification string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setupVerification(origin, []byte(verification), p.store.PutRotateVerificationKey)
}

func (p *Pallet) setupVerification(origin Origin, raw []byte, put func(ethdb.KeyValueWriter, []byte) error) error {
	if err := origin.EnsureRoot(); err != nil {
		return err
	}
	if len(raw) > verifier.MaxVerificationKeyLength {
		return verifier.ErrTooLongVerificationKey
	}
	if _, err := verifier.ParseVerifyingKey(raw); err != nil {
		return err
	}
	batch := p.store.NewBatch()
	if err := put(batch, raw); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("%w: %v", ErrCannotUpdateStateStorage, err)
	}
	p.deposit(VerificationSetupCompletedEvent{})
	return nil
}

// FulfillCall verifies a generic (function_id, input, output, proof)
// quadruple and caches the parsed output for a follow-up refactor call.
func (p *Pallet) FulfillCall(origin Origin, functionID common.Hash, input, output, proof []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	sender, err := origin.EnsureSigned()
	if err != nil {
		return err
	}
	state, err := p.store.State()
	if err != nil {
		return err
	}
	if sender != state.Updater {
		return ErrUpdaterMismatch
	}

	inputHash := common.Hash(sha256.Sum256(input))
	outputHash := common.Hash(sha256.Sum256(output))

	vk, err := p.verifierFor(functionID)
	if err != nil {
		return err
	}
	ok, err := p.proofs.Verify(vk, verifier.FulfillPublicInputs(inputHash, outputHash), proof)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}
	if !ok {
		return ErrVerificationFailed
	}

	vc := &types.VerifiedCall{FunctionID: functionID, InputHash: inputHash}
	if functionID == StepFunctionID {
		if vc.Step, err = types.ParseStepOutput(output); err != nil {
			return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
		}
	} else {
		if vc.Rotate, err = types.ParseRotateOutput(output); err != nil {
			return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
		}
	}

	batch := p.store.NewBatch()
	if err := p.store.PutVerifiedCall(batch, vc); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("%w: %v", ErrCannotUpdateStateStorage, err)
	}
	p.log.Debug().
		Stringer("function_id", functionID).
		Stringer("input_hash", inputHash).
		Msg("verified call recorded")
	return nil
}

// StepRefactor applies a head update from the cached verified call for
// (step, sync_committee_poseidon, attested_slot).
func (p *Pallet) StepRefactor(origin Origin, attestedSlot uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	sender, err := origin.EnsureSigned()
	if err != nil {
		return err
	}
	state, err := p.store.State()
	if err != nil {
		return err
	}
	if sender != state.Updater {
		return ErrUpdaterMismatch
	}

	currentPeriod := attestedSlot / state.SlotsPerPeriod
	poseidon, err := p.store.SyncCommitteePoseidon(currentPeriod)
	if err != nil {
		return err
	}
	if poseidon.IsZero() {
		return ErrSyncCommitteeNotInitialized
	}

	input, err := encodeStepCallInput(poseidon, attestedSlot)
	if err != nil {
		return err
	}
	vc, err := p.matchVerifiedCall(StepFunctionID, input)
	if err != nil {
		return err
	}
	out := vc.Step
	if out == nil {
		return ErrCallNotVerified
	}

	if out.Participation < MinSyncCommitteeParticipants {
		return ErrNotEnoughSyncCommitteeParticipants
	}
	if out.Participation <= state.FinalityThreshold {
		return ErrNotEnoughParticipants
	}
	now := p.clock.Now()
	if err := checkSlotBounds(&state, attestedSlot, out.FinalizedSlot, now); err != nil {
		return err
	}

	batch := p.store.NewBatch()
	updated, err := p.setSlotRoots(batch, &state, out.FinalizedSlot,
		out.FinalizedHeaderRoot, out.ExecutionStateRoot, now)
	if err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("%w: %v", ErrCannotUpdateStateStorage, err)
	}
	if updated {
		p.deposit(HeadUpdateEvent{Slot: out.FinalizedSlot, FinalizationRoot: out.FinalizedHeaderRoot})
	}
	return nil
}

// RotateRefactor applies a committee update from the cached verified
// call for (rotate, Headers[finalized_slot]).
func (p *Pallet) RotateRefactor(origin Origin, finalizedSlot uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	sender, err := origin.EnsureSigned()
	if err != nil {
		return err
	}
	state, err := p.store.State()
	if err != nil {
		return err
	}
	if sender != state.Updater {
		return ErrUpdaterMismatch
	}

	headerRoot, err := p.store.Header(finalizedSlot)
	if err != nil {
		return err
	}
	if headerRoot == (common.Hash{}) {
		return ErrHeaderRootNotSet
	}

	input, err := encodeRotateCallInput(headerRoot)
	if err != nil {
		return err
	}
	vc, err := p.matchVerifiedCall(RotateFunctionID, input)
	if err != nil {
		return err
	}
	out := vc.Rotate
	if out == nil {
		return ErrCallNotVerified
	}

	nextPeriod := finalizedSlot/state.SlotsPerPeriod + 1
	batch := p.store.NewBatch()
	written, err := p.setSyncCommitteePoseidon(batch, &state, nextPeriod, out.SyncCommitteePoseidon)
	if err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("%w: %v", ErrCannotUpdateStateStorage, err)
	}
	if written {
		p.deposit(SyncCommitteeUpdateEvent{Period: nextPeriod, Root: out.SyncCommitteePoseidon})
	}
	return nil
}

// processStep runs the shared step pre-checks: committee initialized,
// minimum participation, and a valid step proof. It reports whether the
// update clears the finality threshold.
func (p *Pallet) processStep(state *State, update *types.LightClientStep) (bool, error) {
	currentPeriod := update.FinalizedSlot / state.SlotsPerPeriod
	poseidon, err := p.store.SyncCommitteePoseidon(currentPeriod)
	if err != nil {
		return false, err
	}
	if poseidon.IsZero() {
		return false, ErrSyncCommitteeNotInitialized
	}
	if update.Participation < MinSyncCommitteeParticipants {
		return false, ErrNotEnoughSyncCommitteeParticipants
	}

	vk, err := p.stepVerifier()
	if err != nil {
		return false, err
	}
	ok, err := p.proofs.Verify(vk, verifier.StepPublicInputs(update, poseidon), update.Proof)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrVerification, err)
	}
	if !ok {
		return false, ErrInvalidStepProof
	}
	return update.Participation > state.FinalityThreshold, nil
}

// checkSlotBounds enforces the wall-clock bound on the attested slot and
// head monotonicity on the finalized slot.
func checkSlotBounds(state *State, attestedSlot, finalizedSlot, now uint64) error {
	if now < state.GenesisTime {
		return ErrUpdateSlotIsFarInTheFuture
	}
	currentSlot := (now - state.GenesisTime) / state.SecondsPerSlot
	if currentSlot < attestedSlot {
		return ErrUpdateSlotIsFarInTheFuture
	}
	if finalizedSlot < state.Head {
		return ErrUpdateSlotLessThanCurrentHead
	}
	return nil
}

// setSlotRoots commits the head advance. A root that conflicts with the
// historical record latches the consistency flag and commits nothing
// else.
func (p *Pallet) setSlotRoots(batch ethdb.KeyValueWriter, state *State, slot uint64,
	headerRoot, execRoot common.Hash, now uint64) (bool, error) {

	existing, err := p.store.Header(slot)
	if err != nil {
		return false, err
	}
	if existing != (common.Hash{}) && existing != headerRoot {
		return false, p.latchInconsistent(batch, state, "finalized header root conflict", slot)
	}

	existingExec, err := p.store.ExecutionStateRoot(slot)
	if err != nil {
		return false, err
	}
	if existingExec != (common.Hash{}) && existingExec != execRoot {
		return false, p.latchInconsistent(batch, state, "execution state root conflict", slot)
	}

	state.Head = slot
	if err := p.store.PutState(batch, *state); err != nil {
		return false, err
	}
	if err := p.store.PutHeader(batch, slot, headerRoot); err != nil {
		return false, err
	}
	if err := p.store.PutExecutionStateRoot(batch, slot, execRoot); err != nil {
		return false, err
	}
	if err := p.store.PutTimestamp(batch, slot, now); err != nil {
		return false, err
	}
	return true, nil
}

// setSyncCommitteePoseidon writes the commitment for period. An unset
// period takes the value; a matching resubmission is a no-op; a
// conflicting one latches the consistency flag.
func (p *Pallet) setSyncCommitteePoseidon(batch ethdb.KeyValueWriter, state *State,
	period uint64, poseidon *uint256.Int) (bool, error) {

	existing, err := p.store.SyncCommitteePoseidon(period)
	if err != nil {
		return false, err
	}
	if existing.IsZero() {
		if err := p.store.PutSyncCommitteePoseidon(batch, period, poseidon); err != nil {
			return false, err
		}
		return true, nil
	}
	if existing.Eq(poseidon) {
		return false, nil
	}
	return false, p.latchInconsistent(batch, state, "sync committee commitment conflict", period)
}

// latchInconsistent flips the one-way consistency flag. The call itself
// still succeeds so off-chain monitors can observe the divergence.
func (p *Pallet) latchInconsistent(batch ethdb.KeyValueWriter, state *State, reason string, at uint64) error {
	state.Consistent = false
	if err := p.store.PutState(batch, *state); err != nil {
		return fmt.Errorf("%w: %v", ErrCannotUpdateStateStorage, err)
	}
	p.log.Warn().Str("reason", reason).Uint64("at", at).Msg("consistency latch tripped")
	return nil
}

func (p *Pallet) matchVerifiedCall(functionID common.Hash, input []byte) (*types.VerifiedCall, error) {
	inputHash := common.Hash(sha256.Sum256(input))
	vc, err := p.store.VerifiedCall()
	if err != nil {
		return nil, err
	}
	if vc == nil || vc.FunctionID != functionID || vc.InputHash != inputHash {
		return nil, ErrCallNotVerified
	}
	return vc, nil
}

func (p *Pallet) stepVerifier() (*verifier.VerifyingKey, error) {
	raw, err := p.store.StepVerificationKey()
	if err != nil {
		return nil, err
	}
	return parseStoredKey(raw)
}

func (p *Pallet) rotateVerifier() (*verifier.VerifyingKey, error) {
	raw, err := p.store.RotateVerificationKey()
	if err != nil {
		return nil, err
	}
	return parseStoredKey(raw)
}

func (p *Pallet) verifierFor(functionID common.Hash) (*verifier.VerifyingKey, error) {
	if functionID == StepFunctionID {
		return p.stepVerifier()
	}
	return p.rotateVerifier()
}

func parseStoredKey(raw []byte) (*verifier.VerifyingKey, error) {
	if len(raw) == 0 {
		return nil, ErrVerificationKeyIsNotSet
	}
	return verifier.ParseVerifyingKey(raw)
}

func (p *Pallet) deposit(e Event) {
	p.events.Deposit(e)
	switch ev := e.(type) {
	case HeadUpdateEvent:
		p.log.Info().Uint64("slot", ev.Slot).
			Stringer("finalization_root", ev.FinalizationRoot).
			Msg("head updated")
	case SyncCommitteeUpdateEvent:
		p.log.Info().Uint64("period", ev.Period).
			Str("root", ev.Root.Dec()).
			Msg("sync committee updated")
	case VerificationSuccessEvent:
		p.log.Info().Uint64("attested_slot", ev.AttestedSlot).
			Uint64("finalized_slot", ev.FinalizedSlot).
			Msg("rotate proof verified")
	case NewUpdaterEvent:
		p.log.Info().Stringer("old", ev.Old).Stringer("new", ev.New).
			Msg("updater replaced")
	case VerificationSetupCompletedEvent:
		p.log.Info().Msg("verification setup completed")
	}
}

// ABI encodings of the refactor call inputs, matching the off-chain
// function gateway.
var (
	abiUint256, _ = abi.NewType("uint256", "", nil)
	abiBytes32, _ = abi.NewType("bytes32", "", nil)

	stepCallArguments   = abi.Arguments{{Type: abiUint256}, {Type: abiUint256}}
	rotateCallArguments = abi.Arguments{{Type: abiBytes32}}
)

func encodeStepCallInput(poseidon *uint256.Int, attestedSlot uint64) ([]byte, error) {
	return stepCallArguments.Pack(poseidon.ToBig(), new(big.Int).SetUint64(attestedSlot))
}

func encodeRotateCallInput(headerRoot common.Hash) ([]byte, error) {
	return rotateCallArguments.Pack([32]byte(headerRoot))
}

// Read accessors.

// State returns the light-client singleton.
func (p *Pallet) State() (State, error) {
	return p.store.State()
}

// Head returns the current head slot.
func (p *Pallet) Head() (uint64, error) {
	state, err := p.store.State()
	return state.Head, err
}

// Header returns the finalized header root committed for slot.
func (p *Pallet) Header(slot uint64) (common.Hash, error) {
	return p.store.Header(slot)
}

// ExecutionStateRoot returns the execution state root committed for slot.
func (p *Pallet) ExecutionStateRoot(slot uint64) (common.Hash, error) {
	return p.store.ExecutionStateRoot(slot)
}

// Timestamp returns the acceptance time recorded for slot.
func (p *Pallet) Timestamp(slot uint64) (uint64, error) {
	return p.store.Timestamp(slot)
}

// SyncCommitteePoseidon returns the committee commitment for period.
func (p *Pallet) SyncCommitteePoseidon(period uint64) (*uint256.Int, error) {
	return p.store.SyncCommitteePoseidon(period)
}

// VerifiedCall returns the cached generic verified call, if any.
func (p *Pallet) VerifiedCall() (*types.VerifiedCall, error) {
	return p.store.VerifiedCall()
}

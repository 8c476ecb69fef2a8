package lightclient

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/kysee/zk-bridge/types"
)

// Store lays the light-client storage items over a key-value database.
// Absent entries read as zero values. Writers take an ethdb writer so
// extrinsics can stage everything in a batch and commit atomically.
type Store struct {
	db ethdb.KeyValueStore
}

func NewStore(db ethdb.KeyValueStore) *Store {
	return &Store{db: db}
}

// NewBatch stages writes for one extrinsic.
func (s *Store) NewBatch() ethdb.Batch {
	return s.db.NewBatch()
}

func (s *Store) get(key []byte) ([]byte, error) {
	has, err := s.db.Has(key)
	if err != nil || !has {
		return nil, err
	}
	return s.db.Get(key)
}

// Initialized reports whether genesis state has been written.
func (s *Store) Initialized() (bool, error) {
	return s.db.Has(stateKey)
}

func (s *Store) State() (State, error) {
	data, err := s.get(stateKey)
	if err != nil || data == nil {
		return State{}, err
	}
	var st State
	if err := rlp.DecodeBytes(data, &st); err != nil {
		return State{}, fmt.Errorf("corrupt state entry: %w", err)
	}
	return st, nil
}

func (s *Store) PutState(w ethdb.KeyValueWriter, st State) error {
	data, err := rlp.EncodeToBytes(&st)
	if err != nil {
		return err
	}
	return w.Put(stateKey, data)
}

func (s *Store) hash(key []byte) (common.Hash, error) {
	data, err := s.get(key)
	if err != nil || data == nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(data), nil
}

// Header returns the finalized beacon header root for slot, zero if unset.
func (s *Store) Header(slot uint64) (common.Hash, error) {
	return s.hash(headerKey(slot))
}

func (s *Store) PutHeader(w ethdb.KeyValueWriter, slot uint64, root common.Hash) error {
	return w.Put(headerKey(slot), root.Bytes())
}

// ExecutionStateRoot returns the execution state root for slot, zero if unset.
func (s *Store) ExecutionStateRoot(slot uint64) (common.Hash, error) {
	return s.hash(execRootKey(slot))
}

func (s *Store) PutExecutionStateRoot(w ethdb.KeyValueWriter, slot uint64, root common.Hash) error {
	return w.Put(execRootKey(slot), root.Bytes())
}

// Timestamp returns the acceptance time of slot in unix seconds, zero if
// unset.
func (s *Store) Timestamp(slot uint64) (uint64, error) {
	data, err := s.get(timestampKey(slot))
	if err != nil || data == nil {
		return 0, err
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("corrupt timestamp entry for slot %d", slot)
	}
	return binary.BigEndian.Uint64(data), nil
}

func (s *Store) PutTimestamp(w ethdb.KeyValueWriter, slot uint64, at uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], at)
	return w.Put(timestampKey(slot), buf[:])
}

// SyncCommitteePoseidon returns the committee commitment for period,
// zero if unset.
func (s *Store) SyncCommitteePoseidon(period uint64) (*uint256.Int, error) {
	data, err := s.get(poseidonKey(period))
	if err != nil || data == nil {
		return new(uint256.Int), err
	}
	return new(uint256.Int).SetBytes(data), nil
}

func (s *Store) PutSyncCommitteePoseidon(w ethdb.KeyValueWriter, period uint64, poseidon *uint256.Int) error {
	b := poseidon.Bytes32()
	return w.Put(poseidonKey(period), b[:])
}

// StepVerificationKey returns the raw step key JSON, nil if unset.
func (s *Store) StepVerificationKey() ([]byte, error) {
	return s.get(stepKeyKey)
}

func (s *Store) PutStepVerificationKey(w ethdb.KeyValueWriter, raw []byte) error {
	return w.Put(stepKeyKey, raw)
}

// RotateVerificationKey returns the raw rotate key JSON, nil if unset.
func (s *Store) RotateVerificationKey() ([]byte, error) {
	return s.get(rotateKeyKey)
}

func (s *Store) PutRotateVerificationKey(w ethdb.KeyValueWriter, raw []byte) error {
	return w.Put(rotateKeyKey, raw)
}

// verifiedCallRecord is the persisted form of types.VerifiedCall: the
// output is kept in its packed wire encoding, tagged by kind.
type verifiedCallRecord struct {
	FunctionID common.Hash
	InputHash  common.Hash
	Kind       uint8
	Output     []byte
}

const (
	verifiedCallStep   = 1
	verifiedCallRotate = 2
)

// VerifiedCall returns the cached verified call, nil if none recorded.
func (s *Store) VerifiedCall() (*types.VerifiedCall, error) {
	data, err := s.get(verifiedCallKey)
	if err != nil || data == nil {
		return nil, err
	}
	var rec verifiedCallRecord
	if err := rlp.DecodeBytes(data, &rec); err != nil {
		return nil, fmt.Errorf("corrupt verified-call entry: %w", err)
	}
	vc := &types.VerifiedCall{
		FunctionID: rec.FunctionID,
		InputHash:  rec.InputHash,
	}
	switch rec.Kind {
	case verifiedCallStep:
		if vc.Step, err = types.ParseStepOutput(rec.Output); err != nil {
			return nil, fmt.Errorf("corrupt verified-call entry: %w", err)
		}
	case verifiedCallRotate:
		if vc.Rotate, err = types.ParseRotateOutput(rec.Output); err != nil {
			return nil, fmt.Errorf("corrupt verified-call entry: %w", err)
		}
	default:
		return nil, fmt.Errorf("corrupt verified-call entry: unknown kind %d", rec.Kind)
	}
	return vc, nil
}

func (s *Store) PutVerifiedCall(w ethdb.KeyValueWriter, vc *types.VerifiedCall) error {
	rec := verifiedCallRecord{
		FunctionID: vc.FunctionID,
		InputHash:  vc.InputHash,
	}
	switch {
	case vc.Step != nil:
		rec.Kind = verifiedCallStep
		rec.Output = vc.Step.Encode()
	case vc.Rotate != nil:
		rec.Kind = verifiedCallRotate
		rec.Output = vc.Rotate.Encode()
	default:
		return fmt.Errorf("verified call carries no output")
	}
	data, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return err
	}
	return w.Put(verifiedCallKey, data)
}

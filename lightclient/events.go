package lightclient

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Event is a state-transition notification delivered to the host
// runtime's event sink.
type Event interface {
	eventName() string
}

// HeadUpdateEvent is emitted when the head advances.
type HeadUpdateEvent struct {
	Slot             uint64
	FinalizationRoot common.Hash
}

// SyncCommitteeUpdateEvent is emitted when a period's committee
// commitment is first written.
type SyncCommitteeUpdateEvent struct {
	Period uint64
	Root   *uint256.Int
}

// VerificationSetupCompletedEvent is emitted when a verification key is
// installed.
type VerificationSetupCompletedEvent struct{}

// VerificationSuccessEvent is emitted when a rotate proof verifies.
type VerificationSuccessEvent struct {
	Who           common.Hash
	AttestedSlot  uint64
	FinalizedSlot uint64
}

// NewUpdaterEvent is emitted when governance replaces the updater.
type NewUpdaterEvent struct {
	Old common.Hash
	New common.Hash
}

func (HeadUpdateEvent) eventName() string                { return "HeadUpdate" }
func (SyncCommitteeUpdateEvent) eventName() string       { return "SyncCommitteeUpdate" }
func (VerificationSetupCompletedEvent) eventName() string { return "VerificationSetupCompleted" }
func (VerificationSuccessEvent) eventName() string       { return "VerificationSuccess" }
func (NewUpdaterEvent) eventName() string                { return "NewUpdater" }

// EventSink receives deposited events.
type EventSink interface {
	Deposit(Event)
}

type nopSink struct{}

func (nopSink) Deposit(Event) {}

// EventRecorder is an EventSink that keeps every deposited event, in
// order. Useful for tests and offline tooling.
type EventRecorder struct {
	Events []Event
}

func (r *EventRecorder) Deposit(e Event) {
	r.Events = append(r.Events, e)
}

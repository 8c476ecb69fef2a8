package lightclient

import "errors"

var (
	// ErrBadOrigin rejects a call whose origin flavor does not match the
	// extrinsic (unsigned where signed is required, non-root governance).
	ErrBadOrigin = errors.New("bad origin")
	// ErrUpdaterMismatch rejects a signed caller that is not the
	// configured updater.
	ErrUpdaterMismatch = errors.New("caller is not the configured updater")
	// ErrSyncCommitteeNotInitialized rejects updates for a period whose
	// committee commitment has not been set.
	ErrSyncCommitteeNotInitialized = errors.New("sync committee is not initialized for period")
	// ErrNotEnoughSyncCommitteeParticipants rejects participation below
	// the absolute minimum.
	ErrNotEnoughSyncCommitteeParticipants = errors.New("not enough sync committee participants")
	// ErrNotEnoughParticipants rejects a step whose participation does
	// not clear the finality threshold.
	ErrNotEnoughParticipants = errors.New("not enough participants for finality")
	// ErrUpdateSlotIsFarInTheFuture rejects attested slots beyond the
	// wall-clock slot.
	ErrUpdateSlotIsFarInTheFuture = errors.New("update slot is far in the future")
	// ErrUpdateSlotLessThanCurrentHead rejects finalized slots behind
	// the current head.
	ErrUpdateSlotLessThanCurrentHead = errors.New("update slot is less than current head")
	// ErrInvalidStepProof and ErrInvalidRotateProof report a well-formed
	// proof that fails the pairing equation.
	ErrInvalidStepProof   = errors.New("invalid step proof")
	ErrInvalidRotateProof = errors.New("invalid rotate proof")
	// ErrVerification wraps key/proof decode or arithmetic failures.
	ErrVerification = errors.New("verification error")
	// ErrVerificationKeyIsNotSet reports an empty key slot.
	ErrVerificationKeyIsNotSet = errors.New("verification key is not set")
	// ErrVerificationFailed reports a failed generic verified call.
	ErrVerificationFailed = errors.New("verification failed")
	// ErrHeaderRootNotSet rejects a rotate_refactor for a slot with no
	// committed header.
	ErrHeaderRootNotSet = errors.New("header root is not set for slot")
	// ErrCallNotVerified reports a refactor call with no matching cached
	// verified call.
	ErrCallNotVerified = errors.New("no matching verified call")
	// ErrCannotUpdateStateStorage reports a storage backend failure.
	ErrCannotUpdateStateStorage = errors.New("cannot update state storage")
	// ErrAlreadyInitialized rejects a second genesis build.
	ErrAlreadyInitialized = errors.New("genesis state already initialized")
	// ErrInvalidGenesisConfig rejects unusable genesis parameters.
	ErrInvalidGenesisConfig = errors.New("invalid genesis config")
)

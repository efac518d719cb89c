package errs

import "errors"

// Domain-specific sentinel errors shared by the usecase layers
var (
	// Lookup errors
	ErrServiceNotFound  = errors.New("service not found")
	ErrProviderNotFound = errors.New("provider not found")
	ErrPetNotFound      = errors.New("pet not found")
	ErrBookingNotFound  = errors.New("booking not found")

	// Slot errors
	ErrSlotNoLongerAvailable = errors.New("slot no longer available")
	ErrBookingConflict       = errors.New("booking conflict")

	// Lifecycle errors
	ErrIllegalTransition = errors.New("illegal status transition")

	// Reservation flow errors
	ErrLastPetRemoval     = errors.New("a reservation needs at least one pet")
	ErrSubmissionInFlight = errors.New("submission already in flight")
	ErrInvalidStep        = errors.New("invalid reservation step")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrStorageFailure = errors.New("storage operation failed")
)

package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSubmitInProgress  = errors.New("order submission already in progress")
	ErrCheckoutComplete  = errors.New("checkout already completed")
	ErrNotAtReview       = errors.New("order can only be submitted from the review step")
	ErrNoNextStep        = errors.New("already at the last checkout step")
	ErrStepNotApplicable = errors.New("step does not apply to this checkout variant")
	ErrNoCheckout        = errors.New("no checkout in progress")
	ErrSessionNotFound   = errors.New("session not found or expired")
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrQuantityTooLarge  = errors.New("quantity exceeds maximum limit")
)

// ValidationError blocks a step transition. Fields lists the missing or
// malformed field names.
type ValidationError struct {
	Step   StepKind
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %s: missing or invalid fields: %s", e.Step, strings.Join(e.Fields, ", "))
}

// SinkError is returned when the order sink rejects or fails a submission.
// The checkout stays retryable.
type SinkError struct {
	Channel string
	Err     error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("order sink %s: %v", e.Channel, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// PreconditionError refuses an operation outright, e.g. opening checkout on
// an empty cart.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition failed: " + e.Reason
}

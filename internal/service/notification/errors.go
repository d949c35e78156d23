package notification

import (
	"errors"
	"fmt"
)

// Names of the collaborators reported in UpstreamError.
const (
	ServiceTransaction  = "transaction-service"
	ServiceAccount      = "account-service"
	ServiceEmailGateway = "email-gateway"
	ServiceSMSGateway   = "sms-gateway"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrStateConflict  = errors.New("invalid notification state")
	ErrRetryExhausted = errors.New("maximum retry attempts reached")
	ErrUpstream       = errors.New("upstream failure")

	ErrScheduleMissing = fmt.Errorf("%w: scheduled time must be provided", ErrValidation)
	ErrScheduleInPast  = fmt.Errorf("%w: scheduled time must be in the future", ErrValidation)
	ErrTypeMismatch    = fmt.Errorf("%w: notification type mismatch", ErrValidation)
	ErrMissingContact  = fmt.Errorf("%w: recipient contact is missing", ErrValidation)
	ErrInvalidDraft    = fmt.Errorf("%w: invalid notification draft", ErrValidation)

	ErrFeeCalculation = errors.New("fee calculation failed")
	ErrFraudCheck     = errors.New("fraud check failed")
)

// UpstreamError reports a failed call to a verifier or a delivery gateway.
//
// It matches ErrUpstream with errors.Is and unwraps to the underlying cause.
type UpstreamError struct {
	Service string // which collaborator failed, e.g. ServiceTransaction
	Op      string // the capability that was invoked
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

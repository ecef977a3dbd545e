package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates a mismatch between the proxy surface and the
	// registered methods, or an invalid bridge setup.
	ErrConfiguration = errors.New("bridge configuration error")

	// ErrDecode indicates a malformed transport payload.
	ErrDecode = errors.New("bridge decode error")

	// ErrArgumentMismatch indicates arguments that do not fit the target method.
	ErrArgumentMismatch = errors.New("bridge argument mismatch")

	// ErrInvocation indicates the target method itself failed.
	ErrInvocation = errors.New("bridge invocation error")

	// ErrBridgeClosed is returned for calls made after the bridge shut down.
	ErrBridgeClosed = errors.New("bridge closed")
)

// StringParamsGuidance is attached to argument mismatch errors.
const StringParamsGuidance = "ensure bridge methods only take string parameters"

// Outcome tags the result of a single dispatch.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeConfiguration
	OutcomeDecode
	OutcomeArgumentMismatch
	OutcomeInvocation
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeConfiguration:
		return "configuration_error"
	case OutcomeDecode:
		return "decode_error"
	case OutcomeArgumentMismatch:
		return "argument_mismatch"
	case OutcomeInvocation:
		return "invocation_error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// sentinel maps a failure outcome to its sentinel error.
func (o Outcome) sentinel() error {
	switch o {
	case OutcomeConfiguration:
		return ErrConfiguration
	case OutcomeDecode:
		return ErrDecode
	case OutcomeArgumentMismatch:
		return ErrArgumentMismatch
	case OutcomeInvocation:
		return ErrInvocation
	default:
		return nil
	}
}

// BridgeError is a tagged bridge failure. Err keeps the original cause.
type BridgeError struct {
	Kind   Outcome
	Method string
	Err    error
}

// NewBridgeError builds a BridgeError. A nil cause falls back to the sentinel.
func NewBridgeError(kind Outcome, method string, err error) *BridgeError {
	return &BridgeError{Kind: kind, Method: method, Err: err}
}

func (e *BridgeError) Error() string {
	base := e.Kind.sentinel()
	msg := "bridge error"
	if base != nil {
		msg = base.Error()
	}
	if e.Method != "" {
		msg = fmt.Sprintf("%s: method %q", msg, e.Method)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *BridgeError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *BridgeError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// OutcomeOf extracts the outcome tag carried by err.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	var be *BridgeError
	if errors.As(err, &be) {
		return be.Kind
	}
	switch {
	case errors.Is(err, ErrConfiguration):
		return OutcomeConfiguration
	case errors.Is(err, ErrDecode):
		return OutcomeDecode
	case errors.Is(err, ErrArgumentMismatch):
		return OutcomeArgumentMismatch
	default:
		return OutcomeInvocation
	}
}

package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrDomain     = errors.New("domain error")
	ErrValidation = errors.New("invalid input")
	ErrProvider   = errors.New("climate provider error")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindDomain     ErrorKind = "domain"
	KindValidation ErrorKind = "validation"
	KindProvider   ErrorKind = "provider"
)

// OpError wraps an underlying error with the step or field that produced it.
type OpError struct {
	Op    string
	Kind  ErrorKind
	Field string // offending input field, for validation errors
	Err   error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Field != "" {
		base += fmt.Sprintf(" (field=%s)", e.Field)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is match the kind sentinels.
func (e *OpError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case KindDomain:
		return target == ErrDomain
	case KindValidation:
		return target == ErrValidation
	case KindProvider:
		return target == ErrProvider
	}
	return false
}

// IsKind reports whether any OpError in err's chain has the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first OpError in err's chain, or "".
func KindOf(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return ""
}

func domainErr(op, format string, args ...any) error {
	return &OpError{Op: op, Kind: KindDomain, Err: fmt.Errorf(format, args...)}
}

func validationErr(field, format string, args ...any) error {
	return &OpError{Op: "validate", Kind: KindValidation, Field: field, Err: fmt.Errorf(format, args...)}
}

// ProviderError wraps a climate provider failure for the given series.
func ProviderError(series string, err error) error {
	return &OpError{Op: series, Kind: KindProvider, Err: err}
}

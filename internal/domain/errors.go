package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error produced by the core wraps exactly one of them,
// so callers branch with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrReference     = errors.New("reference error")
	ErrAuthorization = errors.New("authorization error")
	ErrStorage       = errors.New("storage error")
)

var (
	ErrNotFound       = &kindError{kind: ErrReference, msg: "not found"}
	ErrConflict       = &kindError{kind: ErrStorage, msg: "row changed concurrently"}
	ErrForbidden      = &kindError{kind: ErrAuthorization, msg: "forbidden"}
	ErrBadQuantity    = &kindError{kind: ErrValidation, msg: "quantity must be a positive integer no larger than 2147483647"}
	ErrInsufficient   = &kindError{kind: ErrValidation, msg: "withdrawal exceeds stored quantity"}
	ErrBadPalletType  = &kindError{kind: ErrValidation, msg: "pallet_type must be Standard, Euro or Especial"}
	ErrClientHasStock = &kindError{kind: ErrValidation, msg: "client still owns stored inventory"}
)

type kindError struct {
	kind error
	msg  string
	err  error
}

func (e *kindError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *kindError) Is(target error) bool { return target == e.kind }

func (e *kindError) Unwrap() error { return e.err }

// Validationf builds a ValidationError with a caller-facing message.
func Validationf(format string, args ...any) error {
	return &kindError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// Referencef builds a ReferenceError, e.g. for an unknown product id.
func Referencef(format string, args ...any) error {
	return &kindError{kind: ErrReference, msg: fmt.Sprintf(format, args...)}
}

// Storage marks err as a persistence failure. Nil stays nil and errors that
// already carry a kind are returned unchanged.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != nil {
		return err
	}
	return &kindError{kind: ErrStorage, msg: op, err: err}
}

// KindOf reports which of the four kinds err belongs to, or nil.
func KindOf(err error) error {
	for _, k := range []error{ErrValidation, ErrReference, ErrAuthorization, ErrStorage} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

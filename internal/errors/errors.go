// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrInvalidOrder      = errors.New("invalid order")
	ErrSymbolNotFound    = errors.New("symbol not found")
	ErrMalformedRecord   = errors.New("malformed signal record")
	ErrNoSignals         = errors.New("no parseable signals in source")
	ErrPriceUnavailable  = errors.New("price unavailable")
	ErrCacheMiss         = errors.New("cache miss")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrDatabaseError     = errors.New("database error")
	ErrAdvisoryUndecided = errors.New("advisory could not determine action")
)

// RecordError represents an unparseable record in a signal source.
// The record is skipped; only an unreadable source file is fatal.
type RecordError struct {
	Source string
	Line   int
	Field  string
	Err    error
}

func (e *RecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed record [%s:%d] field %s: %v", e.Source, e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("malformed record [%s:%d] field %s", e.Source, e.Line, e.Field)
}

func (e *RecordError) Unwrap() error {
	return ErrMalformedRecord
}

// NewRecordError creates a new RecordError.
func NewRecordError(source string, line int, field string, err error) *RecordError {
	return &RecordError{
		Source: source,
		Line:   line,
		Field:  field,
		Err:    err,
	}
}

// FetchError represents a failed price-history fetch for one instrument.
// It degrades that instrument's trades to unresolved prices; other
// instruments are unaffected.
type FetchError struct {
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("price fetch failed [%s]: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error {
	return ErrPriceUnavailable
}

// NewFetchError creates a new FetchError.
func NewFetchError(symbol string, err error) *FetchError {
	return &FetchError{Symbol: symbol, Err: err}
}

// BrokerError represents an error from the broker API.
type BrokerError struct {
	Code    string
	Message string
	Err     error
}

func (e *BrokerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("broker error [%s]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("broker error [%s]: %s", e.Code, e.Message)
}

func (e *BrokerError) Unwrap() error {
	return e.Err
}

// NewBrokerError creates a new BrokerError.
func NewBrokerError(code, message string, err error) *BrokerError {
	return &BrokerError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// OrderError represents an error related to order operations.
type OrderError struct {
	Symbol string
	Action string
	Reason string
	Err    error
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("order error %s %s: %s: %v", e.Action, e.Symbol, e.Reason, e.Err)
	}
	return fmt.Sprintf("order error %s %s: %s", e.Action, e.Symbol, e.Reason)
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

// NewOrderError creates a new OrderError.
func NewOrderError(symbol, action, reason string, err error) *OrderError {
	return &OrderError{
		Symbol: symbol,
		Action: action,
		Reason: reason,
		Err:    err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

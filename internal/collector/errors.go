package collector

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies why a fetch failed.
type Kind string

const (
	KindTimeout         Kind = "timeout"
	KindUnreachable     Kind = "unreachable"
	KindInvalidResponse Kind = "invalid_response"
	KindRemote          Kind = "remote_error"
)

// Sentinel errors matched by errors.Is against a *FetchError of the same kind.
var (
	ErrTimeout         = errors.New("request timed out")
	ErrUnreachable     = errors.New("backend unreachable")
	ErrInvalidResponse = errors.New("invalid response")
	ErrRemote          = errors.New("remote error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindTimeout:
		return ErrTimeout
	case KindUnreachable:
		return ErrUnreachable
	case KindInvalidResponse:
		return ErrInvalidResponse
	case KindRemote:
		return ErrRemote
	}
	return nil
}

// FetchError is returned by every Fetcher method on failure.
type FetchError struct {
	Kind   Kind
	Op     string
	Symbol string
	Err    error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("fetch %s %s: %s: %v", e.Op, e.Symbol, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error
func (e *FetchError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for this error's kind.
func (e *FetchError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func newError(kind Kind, op, symbol string, err error) *FetchError {
	return &FetchError{Kind: kind, Op: op, Symbol: symbol, Err: err}
}

func invalid(op, symbol, format string, args ...any) *FetchError {
	return newError(KindInvalidResponse, op, symbol, fmt.Errorf(format, args...))
}

// transportError classifies an error from the HTTP round trip.
func transportError(op, symbol string, err error) *FetchError {
	return newError(transportKind(err), op, symbol, err)
}

func transportKind(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	return KindUnreachable
}

// KindOf classifies any error. Errors that are not a *FetchError are
// treated as transport failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return transportKind(err)
}

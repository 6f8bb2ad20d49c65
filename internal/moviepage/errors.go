package moviepage

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a page ended in the error state
type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	// ErrorMissingIdentifier means no movie id was supplied; no request is issued.
	ErrorMissingIdentifier
	// ErrorLoadFailed covers transport, HTTP status and decoding failures.
	ErrorLoadFailed
)

const (
	MessageMissingIdentifier = "movie identifier missing"
	MessageLoadFailed        = "failed to load movie information"
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorMissingIdentifier:
		return "missing_identifier"
	case ErrorLoadFailed:
		return "load_failed"
	default:
		return "none"
	}
}

// Message returns the default user-visible message for the kind
func (k ErrorKind) Message() string {
	switch k {
	case ErrorMissingIdentifier:
		return MessageMissingIdentifier
	case ErrorLoadFailed:
		return MessageLoadFailed
	default:
		return ""
	}
}

var (
	ErrMissingIdentifier = errors.New("movie identifier missing")
	ErrLoadFailed        = errors.New("movie load failed")
	ErrRecordAbsent      = errors.New("movie record absent")
)

// FetchError wraps the cause of a failed fetch. It is logged, never rendered.
type FetchError struct {
	ID  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch movie %q: %v", e.ID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Err maps a settled state back onto the error taxonomy.
// Loaded and Loading states return nil.
func (s ViewState) Err() error {
	switch s.phase {
	case PhaseError:
		if s.reason == ErrorMissingIdentifier {
			return ErrMissingIdentifier
		}
		return ErrLoadFailed
	case PhaseNotFound:
		return ErrRecordAbsent
	default:
		return nil
	}
}

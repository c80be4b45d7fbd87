package client

import (
	"errors"
	"fmt"
)

// Kind classifies a failed fetch.
type Kind int

const (
	// KindTransport covers connection, DNS, TLS and timeout failures.
	KindTransport Kind = iota
	// KindDecode means the body did not match the expected schema.
	KindDecode
	// KindRemote means the provider answered with a non-2xx status.
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is against a *FetchError of the matching kind.
var (
	ErrTransport = errors.New("transport failure")
	ErrDecode    = errors.New("decode failure")
	ErrRemote    = errors.New("remote error")
)

// FetchError is the single error type returned by OpenMeteoClient.Fetch for
// network and payload failures. Both are terminal for the run.
type FetchError struct {
	Kind   Kind
	Status int    // HTTP status, 0 when no response was received
	Reason string // provider-supplied reason for KindRemote
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Kind == KindRemote && e.Reason != "":
		return fmt.Sprintf("%s: HTTP %d: %s", e.Kind.sentinel(), e.Status, e.Reason)
	case e.Kind == KindRemote:
		return fmt.Sprintf("%s: HTTP %d", e.Kind.sentinel(), e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind.sentinel(), e.Err)
	default:
		return e.Kind.sentinel().Error()
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *FetchError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k Kind) sentinel() error {
	switch k {
	case KindDecode:
		return ErrDecode
	case KindRemote:
		return ErrRemote
	default:
		return ErrTransport
	}
}

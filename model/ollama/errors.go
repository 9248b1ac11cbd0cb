package ollama

import (
	"errors"
	"fmt"
)

// Kind discriminates failure classes so callers can branch without string
// matching. Only Connectivity and ModelUnavailable are fatal to agent
// construction; everything else is recoverable mid-stream.
type Kind int

const (
	// KindConnectivity indicates the Ollama server could not be reached.
	KindConnectivity Kind = iota
	// KindModelUnavailable indicates the server is up but the requested
	// model is not installed locally.
	KindModelUnavailable
	// KindProtocol indicates an unexpected response shape or status.
	KindProtocol
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindConnectivity:
		return "connectivity"
	case KindModelUnavailable:
		return "model_unavailable"
	case KindProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// Error is a typed Ollama client failure.
type Error struct {
	Kind  Kind
	Model string // set for model-scoped failures
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindConnectivity:
		return fmt.Sprintf("ollama: server unreachable: %v", e.Err)
	case KindModelUnavailable:
		return fmt.Sprintf("ollama: model %q is not installed", e.Model)
	default:
		if e.Err != nil {
			return fmt.Sprintf("ollama: %s error: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("ollama: %s error", e.Kind)
	}
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.Err }

// IsConnectivity reports whether err is an unreachable-server failure.
func IsConnectivity(err error) bool {
	var oe *Error
	return errors.As(err, &oe) && oe.Kind == KindConnectivity
}

// IsModelUnavailable reports whether err is a missing-model failure.
func IsModelUnavailable(err error) bool {
	var oe *Error
	return errors.As(err, &oe) && oe.Kind == KindModelUnavailable
}

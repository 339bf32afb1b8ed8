package embed

import (
	"github.com/wagiedev/mcpui-go/internal/schema"
)

// Status is the coarse state of the runtime.
type Status int

const (
	// StatusLoading means no render data has been received yet, or the host
	// sent an empty payload.
	StatusLoading Status = iota
	// StatusError means the render data was malformed or failed validation.
	StatusError
	// StatusReady means validated render data is available.
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// State is what the hosted UI observes.
type State struct {
	Status Status
	// Data is set when Status is StatusReady.
	Data map[string]any
	// Err is set when Status is StatusError.
	Err error
}

// Message returns a human-readable description of the error state.
func (s State) Message() string {
	if s.Status != StatusError || s.Err == nil {
		return ""
	}

	return s.Err.Error()
}

// Decode converts the ready data into T using json field names.
func Decode[T any](s State) (T, error) {
	return schema.Decode[T](s.Data)
}

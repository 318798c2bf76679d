package orchestrator

import (
	"fmt"

	"github.com/dmitrijs2005/herbscan/internal/client/models"
)

// State is a phase of the identification flow.
type State int

const (
	Idle State = iota
	ImageSelected
	Submitting
	Resolved
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ImageSelected:
		return "image selected"
	case Submitting:
		return "submitting"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether s ends a request.
func (s State) Terminal() bool {
	return s == Resolved || s == Failed
}

// FailureKind tells a bad service payload from a failed exchange.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureMalformed
	FailureTransport
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureMalformed:
		return "malformed response"
	case FailureTransport:
		return "transport error"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// Failure is returned by Submit when the request ends in Failed. Message is
// safe to show to the user; Err is the underlying cause.
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Message
	}
	return fmt.Sprintf("%s: %v", f.Message, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Snapshot is a point-in-time copy of the orchestrator for rendering. It
// shares no memory with the orchestrator.
type Snapshot struct {
	State     State
	ImageSize int
	Result    *models.IdentificationResult
	Scan      *models.Scan
	Failure   string
	Kind      FailureKind
}

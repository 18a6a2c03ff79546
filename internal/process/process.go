// Package process models the host that invokes the execution routine: it
// supplies the input bytes and accepts exactly one terminal report, either a
// success payload or an error message.
package process

import (
	"errors"
	"sync"
)

// ErrAlreadyReported is returned when a second terminal report is attempted.
var ErrAlreadyReported = errors.New("process: result already reported")

// Process is the host capability handed to the execution routine.
type Process interface {
	// Inputs returns the raw input bytes for this invocation
	Inputs() []byte

	// Success reports the result payload
	Success(result []byte) error

	// Error reports a failure message
	Error(message []byte) error
}

// Status is the terminal state of an invocation
type Status int

const (
	StatusPending Status = iota
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// reportGuard enforces the single-report rule shared by host implementations
type reportGuard struct {
	mu      sync.Mutex
	status  Status
	payload []byte
}

func (g *reportGuard) report(status Status, payload []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusPending {
		return ErrAlreadyReported
	}
	g.status = status
	g.payload = append([]byte(nil), payload...)
	return nil
}

// Status returns the terminal state reached so far
func (g *reportGuard) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Payload returns a copy of the reported bytes, nil while pending
func (g *reportGuard) Payload() []byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.payload == nil {
		return nil
	}
	return append([]byte(nil), g.payload...)
}

// ExitCode maps the terminal state to a process exit code: 0 after a success
// report, 1 after an error report. A pending invocation never reported
// anything and yields 2.
func (g *reportGuard) ExitCode() int {
	switch g.Status() {
	case StatusSucceeded:
		return 0
	case StatusFailed:
		return 1
	default:
		return 2
	}
}

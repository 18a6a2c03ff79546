package process

import "sync/atomic"

// Recorder is an in-memory host. It keeps the report and counts every call
// to Success and Error, including rejected ones.
type Recorder struct {
	reportGuard
	input        []byte
	successCalls atomic.Int32
	errorCalls   atomic.Int32
}

// NewRecorder creates a host that serves input to the routine
func NewRecorder(input []byte) *Recorder {
	return &Recorder{input: append([]byte(nil), input...)}
}

// Inputs implements Process
func (r *Recorder) Inputs() []byte {
	return append([]byte(nil), r.input...)
}

// Success implements Process
func (r *Recorder) Success(result []byte) error {
	r.successCalls.Add(1)
	return r.report(StatusSucceeded, result)
}

// Error implements Process
func (r *Recorder) Error(message []byte) error {
	r.errorCalls.Add(1)
	return r.report(StatusFailed, message)
}

// SuccessCalls returns how many times Success was called
func (r *Recorder) SuccessCalls() int {
	return int(r.successCalls.Load())
}

// ErrorCalls returns how many times Error was called
func (r *Recorder) ErrorCalls() int {
	return int(r.errorCalls.Load())
}

package wmi

import (
	"sync"
)

// Call is one recorded Evaluate invocation
type Call struct {
	Method Method
	Args   []byte
}

// Recorder keeps every evaluated call in memory. Calls to a method marked with
// Reject fail with a *StatusError and are not recorded.
type Recorder struct {
	mu       sync.Mutex
	calls    []Call
	rejected map[Method]int
	closed   bool
}

var _ WMI = &Recorder{}

// NewRecorder returns an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{
		rejected: make(map[Method]int),
	}
}

// Reject makes every following call to id fail with the given status
func (r *Recorder) Reject(id Method, status int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rejected[id] = status
}

func (r *Recorder) Evaluate(id Method, args []byte) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if status, ok := r.rejected[id]; ok {
		return nil, &StatusError{
			Method: id,
			Status: status,
		}
	}

	buf := make([]byte, len(args))
	copy(buf, args)
	r.calls = append(r.calls, Call{
		Method: id,
		Args:   buf,
	})
	return make([]byte, outputBufferLength), nil
}

// Calls returns a copy of the recorded calls in order
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	calls := make([]Call, len(r.calls))
	copy(calls, r.calls)
	return calls
}

// Reset drops the recorded calls
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = nil
}

// Closed reports whether Close was called
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.closed
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	return nil
}

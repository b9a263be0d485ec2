package httpget

import "errors"

var (
	// ErrNotStationMode means the radio came up without a usable station
	// link (no IPv4 address after joining).
	ErrNotStationMode = errors.New("device not in station mode")
	// ErrSend means the request was not fully written.
	ErrSend = errors.New("http send error")
	// ErrRecv means nothing was read back.
	ErrRecv = errors.New("http receive error")
	// ErrInvalidResponse means the reply is not an HTTP/1.x status line.
	ErrInvalidResponse = errors.New("http invalid response")
)

// Step names a stage of the GET sequence.
type Step string

const (
	StepJoin    Step = "join"
	StepResolve Step = "resolve"
	StepConnect Step = "connect"
	StepSend    Step = "send"
	StepRecv    Step = "recv"
	StepClose   Step = "close"
	StepLeave   Step = "leave"
)

// StepError reports which step failed. Err is one of the package sentinels
// when the failure has a name, otherwise the collaborator's error. Cause
// carries the collaborator's error behind a sentinel, if any.
type StepError struct {
	Step  Step
	Err   error
	Cause error
}

func (e *StepError) Error() string {
	msg := "httpget: " + string(e.Step) + ": " + e.Err.Error()
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *StepError) Unwrap() error { return e.Err }

// FailedStep returns the step that produced err, or "" when err is not a
// StepError.
func FailedStep(err error) Step {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}

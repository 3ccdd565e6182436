package form

// Phase is the stage of the form's submission cycle
type Phase int

// Submission phases. A controller starts idle.
const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

// String returns the lower case phase name used in logs
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome shown under the form. Message is only set for the
// succeeded and failed phases, so success and error text never coexist.
type Result struct {
	Phase   Phase
	Message string
}

// Idle is the result before any submission and after an edit
func Idle() Result { return Result{Phase: PhaseIdle} }

// Submitting is the result while a request is outstanding
func Submitting() Result { return Result{Phase: PhaseSubmitting} }

// Succeeded carries the success message shown to the user
func Succeeded(message string) Result {
	return Result{Phase: PhaseSucceeded, Message: message}
}

// Failed carries the error message shown to the user
func Failed(message string) Result {
	return Result{Phase: PhaseFailed, Message: message}
}

// Done reports whether the result is a finished submission
func (r Result) Done() bool {
	return r.Phase == PhaseSucceeded || r.Phase == PhaseFailed
}

// SuccessMessage returns the success text, or "" when not succeeded
func (r Result) SuccessMessage() string {
	if r.Phase == PhaseSucceeded {
		return r.Message
	}
	return ""
}

// ErrorMessage returns the error text, or "" when not failed
func (r Result) ErrorMessage() string {
	if r.Phase == PhaseFailed {
		return r.Message
	}
	return ""
}

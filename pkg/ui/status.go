// Package ui defines the surface the calculator core uses to talk to
// whatever renders it.
//
// The core never draws anything itself. It reports state transitions and
// messages to a Status sink; the session loop re-reads the stack and
// registry after every successful dispatch and redraws from those.
package ui

// Status receives state transitions and human-readable messages from the
// core. Implementations belong to the rendering layer.
type Status interface {
	// Ready signals that no entry is in progress and no error is pending.
	Ready()
	// EnteringNumber signals that a number is being typed on the stack.
	EnteringNumber()
	// Error reports a recoverable failure to show to the user.
	Error(msg string)
	// Advisory reports a success the user would otherwise not notice.
	Advisory(msg string)
}

// Discard is a Status that ignores everything.
var Discard Status = discard{}

type discard struct{}

func (discard) Ready()              {}
func (discard) EnteringNumber()     {}
func (discard) Error(msg string)    {}
func (discard) Advisory(msg string) {}

// Recorder is a Status that remembers what it was told; it is intended for
// tests.
type Recorder struct {
	// Entering is the last entry-mode transition.
	Entering bool
	// Errors and Advisories accumulate messages in order.
	Errors     []string
	Advisories []string
}

func (r *Recorder) Ready()          { r.Entering = false }
func (r *Recorder) EnteringNumber() { r.Entering = true }

func (r *Recorder) Error(msg string) { r.Errors = append(r.Errors, msg) }

func (r *Recorder) Advisory(msg string) { r.Advisories = append(r.Advisories, msg) }

// LastError returns the most recent error message, or "" if there is none.
func (r *Recorder) LastError() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[len(r.Errors)-1]
}

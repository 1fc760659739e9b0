package session

import "promptcanvas/internal/models"

type View string

const (
	ViewMain     View = "main"
	ViewFeedback View = "feedback"
)

// Pending is the transient data held between a successful generation and the
// feedback submission: the image bytes plus everything needed to build the
// eventual record. It lives only in session memory and dies with the session.
type Pending struct {
	Image          []byte
	Prompt         string
	Style          models.Style
	GenerationTime float64
}

// Flow is the per-session view state. Flow values are never mutated in
// place; each transition returns a fresh value, so a failed action simply
// keeps the old one.
type Flow struct {
	View    View
	Pending *Pending
}

func NewFlow() Flow {
	return Flow{View: ViewMain}
}

func (f Flow) InMain() bool     { return f.View == ViewMain }
func (f Flow) InFeedback() bool { return f.View == ViewFeedback }

// ToFeedback advances to the feedback view carrying the pending generation.
func (f Flow) ToFeedback(p Pending) Flow {
	return Flow{View: ViewFeedback, Pending: &p}
}

// ToMain returns to the main view, dropping all pending data.
func (f Flow) ToMain() Flow {
	return Flow{View: ViewMain}
}

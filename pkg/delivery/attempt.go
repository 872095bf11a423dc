package delivery

import (
	"sync"
	"time"

	"github.com/dmitrymomot/postcard/pkg/postcard"
	"github.com/dmitrymomot/postcard/pkg/rategate"
)

// Request is one "send this postcard" call.
type Request struct {
	Spec           postcard.Spec
	SenderEmail    string
	RecipientEmail string
	Subject        string // optional; the email package builds one from the handle

	// Mobile and HighFidelity prefer the markup renderer when one is configured.
	Mobile       bool
	HighFidelity bool
}

// Attempt is the record of a single pass through the pipeline. It is never
// restarted; a new Send call creates a new attempt.
type Attempt struct {
	ID        string
	StartedAt time.Time

	lc *lifecycle

	mu         sync.RWMutex
	failure    *Error
	decision   rategate.Decision
	renderer   string
	rendered   *postcard.Rendered
	imageURL   string
	finishedAt time.Time
}

func newAttempt(id string, at time.Time) *Attempt {
	return &Attempt{ID: id, StartedAt: at, lc: newLifecycle()}
}

func (a *Attempt) Stage() Stage { return a.lc.Current() }

// History lists every transition so far, oldest first.
func (a *Attempt) History() []Transition { return a.lc.History() }

// Failure is the terminal error, nil unless the attempt failed.
func (a *Attempt) Failure() *Error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.failure
}

// Decision is the rate gate answer from the rate check stage.
func (a *Attempt) Decision() rategate.Decision {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.decision
}

// Renderer names the renderer that produced the image: "compositor" or "markup".
func (a *Attempt) Renderer() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.renderer
}

// Rendered is the encoded image. It survives upload and email failures so
// the caller can offer a manual retry.
func (a *Attempt) Rendered() *postcard.Rendered {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.rendered
}

// ImageURL is the hosted image location once uploaded.
func (a *Attempt) ImageURL() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.imageURL
}

// Duration is the wall time from start to the terminal stage.
func (a *Attempt) Duration() time.Duration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.finishedAt.IsZero() {
		return 0
	}
	return a.finishedAt.Sub(a.StartedAt)
}

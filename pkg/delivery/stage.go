package delivery

import (
	"fmt"
	"sync"
	"time"
)

// Stage is a step of a delivery attempt.
type Stage string

const (
	StageIdle         Stage = "idle"
	StageValidating   Stage = "validating"
	StageRateChecking Stage = "rate_checking"
	StageRendering    Stage = "rendering"
	StageUploading    Stage = "uploading"
	StageEmailing     Stage = "emailing"
	StageSent         Stage = "sent"
	StageFailed       Stage = "failed"
)

func (s Stage) Name() string { return string(s) }

// Terminal reports whether no further transition is possible.
func (s Stage) Terminal() bool {
	return s == StageSent || s == StageFailed
}

// pipeline lists the forward transitions. StageFailed is reachable from any
// non-terminal stage and is not listed.
var pipeline = map[Stage]Stage{
	StageIdle:         StageValidating,
	StageValidating:   StageRateChecking,
	StageRateChecking: StageRendering,
	StageRendering:    StageUploading,
	StageUploading:    StageEmailing,
	StageEmailing:     StageSent,
}

// Transition records one stage change of an attempt.
type Transition struct {
	From Stage
	To   Stage
	At   time.Time
}

// Observer is notified after every transition, in order, on the goroutine
// running the attempt.
type Observer func(a *Attempt, t Transition)

// lifecycle is the attempt state machine. Every move is checked against
// pipeline; there is no way back to StageIdle.
type lifecycle struct {
	mu      sync.RWMutex
	current Stage
	history []Transition
}

func newLifecycle() *lifecycle {
	return &lifecycle{current: StageIdle}
}

func (l *lifecycle) Current() Stage {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

func (l *lifecycle) fire(to Stage, at time.Time) (Transition, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !legal(l.current, to) {
		return Transition{}, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, l.current, to)
	}

	t := Transition{From: l.current, To: to, At: at}
	l.current = to
	l.history = append(l.history, t)
	return t, nil
}

func (l *lifecycle) History() []Transition {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Transition, len(l.history))
	copy(out, l.history)
	return out
}

func legal(from, to Stage) bool {
	if from.Terminal() {
		return false
	}
	if to == StageFailed {
		return true
	}
	next, ok := pipeline[from]
	return ok && next == to
}

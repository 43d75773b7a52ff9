// Package timer provides stage-aware duration tracking for CLI commands.
//
// A Timer measures the total elapsed time since Start and the elapsed time
// of the current stage. Commands call NewStage when they move from one
// activity to the next so success messages can report both durations.
package timer

import (
	"sync"
	"time"
)

// Timer tracks total and per-stage elapsed time.
type Timer interface {
	// Start begins timing. Calling Start again resets the timer.
	Start()
	// NewStage marks the beginning of a new stage, resetting the stage clock.
	NewStage()
	// GetTiming returns the total elapsed time since Start and the elapsed
	// time of the current stage. Both are zero if Start was never called.
	GetTiming() (total, stage time.Duration)
}

// New creates a Timer. The timer is not running until Start is called.
func New() Timer {
	return &realTimer{}
}

// realTimer implements Timer using the wall clock.
type realTimer struct {
	mu         sync.Mutex
	start      time.Time
	stageStart time.Time
}

func (t *realTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.start = now
	t.stageStart = now
}

func (t *realTimer) NewStage() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.start.IsZero() {
		return
	}

	t.stageStart = time.Now()
}

func (t *realTimer) GetTiming() (time.Duration, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.start.IsZero() {
		return 0, 0
	}

	now := time.Now()

	return now.Sub(t.start).Round(time.Millisecond),
		now.Sub(t.stageStart).Round(time.Millisecond)
}

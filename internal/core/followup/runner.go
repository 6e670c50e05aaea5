package followup

import (
	"sync"
	"time"
)

// Runner schedules one-shot deferred work, like the menu nudge that
// follows an apology reply. It satisfies the engine's Deferrer interface.
type Runner struct {
	mu     sync.Mutex
	timers []*time.Timer
}

func NewRunner() *Runner {
	return &Runner{}
}

// After runs fn once after delay.
func (r *Runner) After(delay time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timers = append(r.timers, time.AfterFunc(delay, fn))
}

// Stop cancels all pending timers. Work already started keeps running.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.timers {
		t.Stop()
	}
	r.timers = nil
}

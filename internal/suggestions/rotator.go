// Package suggestions serves the rotating example questions shown in the
// chat input area. Rotation is an explicit timer-driven state update; reads
// are pure snapshots of the current window.
package suggestions

import (
	"fmt"
	"sync"

	"github.com/go-co-op/gocron/v2"

	appcfg "github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/config"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/metrics"
)

// Rotator cycles a visible window over the configured question list.
type Rotator struct {
	mu        sync.RWMutex
	questions []string
	visible   int
	offset    int

	scheduler gocron.Scheduler
	recorder  metrics.Recorder
}

// NewRotator creates a rotator and its scheduler. Start must be called for
// rotation to begin; Current works either way.
func NewRotator(cfg appcfg.SuggestionsConfig, recorder metrics.Recorder) (*Rotator, error) {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	visible := cfg.Visible
	if visible > len(cfg.Questions) {
		visible = len(cfg.Questions)
	}

	r := &Rotator{
		questions: append([]string(nil), cfg.Questions...),
		visible:   visible,
		recorder:  recorder,
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create gocron scheduler: %w", err)
	}
	r.scheduler = s

	if len(r.questions) > r.visible {
		_, err = s.NewJob(
			gocron.DurationJob(cfg.RotateIntervalDuration()),
			gocron.NewTask(r.Advance),
			gocron.WithName("suggestion-rotation"),
		)
		if err != nil {
			return nil, fmt.Errorf("create rotation job: %w", err)
		}
	}
	return r, nil
}

// Start begins the rotation schedule.
func (r *Rotator) Start() {
	r.scheduler.Start()
}

// Stop shuts the scheduler down.
func (r *Rotator) Stop() error {
	return r.scheduler.Shutdown()
}

// Advance moves the window forward by one question, wrapping around.
func (r *Rotator) Advance() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.questions) == 0 {
		return
	}
	r.offset = (r.offset + 1) % len(r.questions)
	r.recorder.IncSuggestionRotations()
}

// Current returns the visible question window in rotation order.
func (r *Rotator) Current() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, r.visible)
	for i := 0; i < r.visible; i++ {
		out = append(out, r.questions[(r.offset+i)%len(r.questions)])
	}
	return out
}

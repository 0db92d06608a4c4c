// Package engine turns a stream of hand landmark frames into gesture events
// and viewer control state.
package engine

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/holoview/internal/control"
	"github.com/ayusman/holoview/internal/detector"
	"github.com/ayusman/holoview/internal/gesture"
	"github.com/ayusman/holoview/internal/ratelimit"
)

// Update is delivered to observers for every processed frame, including
// frames classified as None. Observers should treat None as "clear any
// displayed gesture".
type Update struct {
	Event gesture.Event `json:"event"`
	State control.State `json:"state"`
	At    time.Time     `json:"at"`
}

// Observer receives updates. It is called synchronously on the goroutine
// that delivered the frame and must not call back into OnFrame.
type Observer func(Update)

// Stats summarises frame handling since the engine was created.
type Stats struct {
	Accepted uint64 `json:"accepted"`
	Dropped  uint64 `json:"dropped"`
	NoHand   uint64 `json:"no_hand"`
	FPS      int    `json:"fps"`
	Enabled  bool   `json:"enabled"`
}

type subscription struct {
	id       string
	observer Observer
}

// Engine owns the limiter, tracker and control state for one input feed.
//
// Frames are expected from a single delivery goroutine. The mutex lets
// other goroutines read snapshots and toggle input concurrently.
type Engine struct {
	id     string
	config Config

	classifier *gesture.Classifier
	dispatcher *control.Dispatcher

	mu        sync.Mutex
	limiter   *ratelimit.Limiter
	tracker   gesture.Tracker
	state     control.State
	enabled   bool
	lastEvent gesture.Event
	lastAt    time.Time
	fps       ratelimit.FPSMonitor
	stats     Stats
	observers []subscription
}

// New creates an engine with gesture input enabled. It fails if cfg does
// not validate.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dispatcher := control.NewDispatcher(cfg.controlConfig())

	return &Engine{
		id:         uuid.New().String(),
		config:     cfg,
		classifier: gesture.NewClassifier(cfg.Thresholds),
		dispatcher: dispatcher,
		limiter:    ratelimit.New(cfg.TargetInterval),
		state:      dispatcher.Baseline(),
		enabled:    true,
	}, nil
}

// ID returns the engine's session identifier.
func (e *Engine) ID() string {
	return e.id
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.config
}

// OnFrame processes one landmark frame captured at now. It returns false
// when the frame was dropped, either because gesture input is disabled or
// because the rate limiter rejected it; dropped frames change nothing.
func (e *Engine) OnFrame(frame detector.Frame, now time.Time) (gesture.Event, bool) {
	e.mu.Lock()

	if !e.enabled || !e.limiter.ShouldProcess(now) {
		e.stats.Dropped++
		e.mu.Unlock()
		return gesture.Event{}, false
	}

	ev := e.classifier.Classify(frame, &e.tracker)
	if !ev.IsNone() {
		e.state = e.dispatcher.Dispatch(ev, e.state)
		e.tracker.MarkDispatched(now)
	}

	e.lastEvent = ev
	e.lastAt = now
	e.stats.Accepted++
	e.fps.Update(now)

	update := Update{Event: ev, State: e.state, At: now}
	observers := e.snapshotObservers()
	e.mu.Unlock()

	for _, obs := range observers {
		obs(update)
	}
	return ev, true
}

// OnNoHand records a capture tick in which no hand was detected. A missed
// frame neither updates nor resets the tracker, so the next frame with a
// hand is compared against the last seen wrist position.
func (e *Engine) OnNoHand(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.NoHand++
}

// SetEnabled switches gesture input on or off. Every transition resets
// the tracker, the limiter and the accumulated zoom and rotation so a
// re-enabled session starts clean.
func (e *Engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.enabled == enabled {
		return
	}
	e.enabled = enabled
	e.resetLocked()

	if enabled {
		log.Printf("Gesture input enabled (session %s)", e.id)
	} else {
		log.Printf("Gesture input disabled (session %s)", e.id)
	}
}

// Enabled reports whether gesture input is on.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// ResetTracking clears the tracker without touching control state.
func (e *Engine) ResetTracking() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tracker.Reset()
}

// ResetDispatchState restores zoom and rotation to the baseline.
func (e *Engine) ResetDispatchState() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = e.dispatcher.Reset(e.state)
}

func (e *Engine) resetLocked() {
	e.tracker.Reset()
	e.state = e.dispatcher.Reset(e.state)
	e.limiter.Reset()
	e.fps.Reset()
}

// State returns a snapshot of the control state.
func (e *Engine) State() control.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// LastEvent returns the most recent classification and when it happened.
// The time is zero if no frame has been processed.
func (e *Engine) LastEvent() (gesture.Event, time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastEvent, e.lastAt
}

// Stats returns frame counters and the processed frame rate.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.stats
	s.FPS = e.fps.FPS()
	s.Enabled = e.enabled
	return s
}

// Subscribe registers obs for updates and returns a function that removes
// it.
func (e *Engine) Subscribe(obs Observer) (unsubscribe func()) {
	id := uuid.New().String()

	e.mu.Lock()
	e.observers = append(e.observers, subscription{id: id, observer: obs})
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, sub := range e.observers {
			if sub.id == id {
				e.observers = append(e.observers[:i], e.observers[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) snapshotObservers() []Observer {
	if len(e.observers) == 0 {
		return nil
	}
	out := make([]Observer, len(e.observers))
	for i, sub := range e.observers {
		out[i] = sub.observer
	}
	return out
}

package session

import (
	"math"
	"sync"
	"time"

	"alcyxob/workout-tracker/internal/domain"
)

// State of the session timer.
type State int

const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// DefaultTickInterval is the display cadence while the timer runs.
const DefaultTickInterval = time.Second

// Snapshot is the read-only view published after every mutation.
type Snapshot struct {
	State           string               `json:"state"`
	ElapsedSeconds  int                  `json:"elapsedSeconds"`
	ProgressPercent int                  `json:"progressPercent"`
	WorkoutName     string               `json:"workoutName"`
	Exercises       []domain.ExerciseLog `json:"exercises"`
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(r *Runtime) { r.clock = c }
}

// WithTickInterval overrides DefaultTickInterval.
func WithTickInterval(d time.Duration) Option {
	return func(r *Runtime) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithObserver registers fn to receive a snapshot after each mutation and
// each tick. fn is called without the runtime lock held, but tick updates
// run on the ticker goroutine: fn must not call Pause, Reset or Close on
// the same runtime, since those wait for that goroutine to exit and would
// deadlock. Hand such work off to another goroutine instead.
func WithObserver(fn func(Snapshot)) Option {
	return func(r *Runtime) { r.observer = fn }
}

// Runtime owns one live session draft. It serves a single writer; the mutex
// only guards against the background ticker.
type Runtime struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	observer func(Snapshot)

	draft *domain.SessionDraft
	state State
	// startedAt is shifted back by the time accumulated before the last
	// start, so elapsed is always now - startedAt while running.
	startedAt   time.Time
	accumulated time.Duration

	stop chan struct{}
	done chan struct{}
}

// NewRuntime takes ownership of draft.
func NewRuntime(draft *domain.SessionDraft, opts ...Option) *Runtime {
	r := &Runtime{
		clock:    SystemClock{},
		interval: DefaultTickInterval,
		draft:    draft,
		state:    Idle,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Start begins or resumes timing. Valid from Idle or Paused.
func (r *Runtime) Start() error {
	r.mu.Lock()
	if r.state == Running {
		r.mu.Unlock()
		return &domain.StateError{Op: "start", From: r.state.String()}
	}
	r.startedAt = r.clock.Now().Add(-r.accumulated)
	r.state = Running
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go r.tickLoop(r.clock.NewTicker(r.interval), r.stop, r.done)
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.publish(snap)
	return nil
}

// Pause freezes elapsed time. Valid only while Running.
func (r *Runtime) Pause() error {
	r.mu.Lock()
	if r.state != Running {
		r.mu.Unlock()
		return &domain.StateError{Op: "pause", From: r.state.String()}
	}
	r.accumulated = r.clock.Now().Sub(r.startedAt)
	r.state = Paused
	r.draft.DurationSeconds = seconds(r.accumulated)
	stop, done := r.detachTickerLocked()
	snap := r.snapshotLocked()
	r.mu.Unlock()

	waitTicker(stop, done)
	r.publish(snap)
	return nil
}

// Reset discards all accumulated time and returns to Idle. It is
// irreversible, so nothing happens unless confirmed is true. The returned
// bool reports whether the reset was applied.
func (r *Runtime) Reset(confirmed bool) bool {
	if !confirmed {
		return false
	}
	r.mu.Lock()
	r.state = Idle
	r.accumulated = 0
	r.startedAt = time.Time{}
	r.draft.DurationSeconds = 0
	stop, done := r.detachTickerLocked()
	snap := r.snapshotLocked()
	r.mu.Unlock()

	waitTicker(stop, done)
	r.publish(snap)
	return true
}

// Close stops the background ticker, if any, without changing state.
func (r *Runtime) Close() {
	r.mu.Lock()
	stop, done := r.detachTickerLocked()
	r.mu.Unlock()
	waitTicker(stop, done)
}

// State returns the current timer state.
func (r *Runtime) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Elapsed returns the accumulated active time.
func (r *Runtime) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsedLocked()
}

// ToggleSetCompletion marks one set done or not done.
func (r *Runtime) ToggleSetCompletion(exerciseIndex, setIndex int, completed bool) error {
	r.mu.Lock()
	set, err := r.setLocked(exerciseIndex, setIndex)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	set.IsCompleted = completed
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.publish(snap)
	return nil
}

// UpdateSetValue edits one metric of one set. Non-finite or negative values
// are stored as 0. Editing a metric the exercise does not track is rejected.
func (r *Runtime) UpdateSetValue(exerciseIndex, setIndex int, field domain.Metric, value float64) error {
	switch field {
	case domain.MetricReps, domain.MetricWeight, domain.MetricDuration, domain.MetricDistance:
	default:
		return domain.NewValidationError("unknown set field %q", field)
	}

	r.mu.Lock()
	set, err := r.setLocked(exerciseIndex, setIndex)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	if !r.draft.Exercises[exerciseIndex].Tracks(field) {
		r.mu.Unlock()
		return domain.NewValidationError("exercise %q does not track %s", r.draft.Exercises[exerciseIndex].Name, field)
	}

	v := coerce(value)
	switch field {
	case domain.MetricReps:
		set.Reps = int(math.Round(v))
	case domain.MetricWeight:
		set.Weight = v
	case domain.MetricDuration:
		set.Duration = int(math.Round(v))
	case domain.MetricDistance:
		set.Distance = v
	}
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.publish(snap)
	return nil
}

// Progress is the live completion percentage.
func (r *Runtime) Progress() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ComputeProgress(r.draft.Exercises)
}

// Snapshot returns the current read-only view.
func (r *Runtime) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Draft returns a deep copy of the draft with DurationSeconds and Progress
// brought up to date, ready to hand to the persistence layer.
func (r *Runtime) Draft() *domain.SessionDraft {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draft.DurationSeconds = seconds(r.elapsedLocked())
	out := *r.draft
	out.Exercises = domain.CloneExercises(r.draft.Exercises)
	out.Progress = ComputeProgress(out.Exercises)
	return &out
}

func (r *Runtime) tickLoop(t Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			r.tick()
		}
	}
}

func (r *Runtime) tick() {
	r.mu.Lock()
	if r.state != Running {
		r.mu.Unlock()
		return
	}
	r.draft.DurationSeconds = seconds(r.elapsedLocked())
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.publish(snap)
}

func (r *Runtime) detachTickerLocked() (chan struct{}, chan struct{}) {
	stop, done := r.stop, r.done
	r.stop, r.done = nil, nil
	return stop, done
}

func waitTicker(stop, done chan struct{}) {
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (r *Runtime) elapsedLocked() time.Duration {
	if r.state == Running {
		return r.clock.Now().Sub(r.startedAt)
	}
	return r.accumulated
}

func (r *Runtime) setLocked(exerciseIndex, setIndex int) (*domain.SetRecord, error) {
	if exerciseIndex < 0 || exerciseIndex >= len(r.draft.Exercises) {
		return nil, &domain.IndexError{What: "exercise", Index: exerciseIndex, Len: len(r.draft.Exercises)}
	}
	sets := r.draft.Exercises[exerciseIndex].CompletedSets
	if setIndex < 0 || setIndex >= len(sets) {
		return nil, &domain.IndexError{What: "set", Index: setIndex, Len: len(sets)}
	}
	return &sets[setIndex], nil
}

func (r *Runtime) snapshotLocked() Snapshot {
	return Snapshot{
		State:           r.state.String(),
		ElapsedSeconds:  seconds(r.elapsedLocked()),
		ProgressPercent: ComputeProgress(r.draft.Exercises),
		WorkoutName:     r.draft.WorkoutName,
		Exercises:       domain.CloneExercises(r.draft.Exercises),
	}
}

func (r *Runtime) publish(s Snapshot) {
	if r.observer != nil {
		r.observer(s)
	}
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}

func coerce(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/routine"
	"alcyxob/workout-tracker/internal/session"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound     = fmt.Errorf("session %w", domain.ErrNotFound)
	ErrSessionAccessDenied = errors.New("access denied to this session")
	ErrNoProgress          = domain.NewValidationError("no sets logged yet; start the workout first")
	ErrUnknownTimerAction  = domain.NewValidationError("timer action must be start, pause or reset")
)

// TimerAction is a command for the live session timer.
type TimerAction string

const (
	TimerStart TimerAction = "start"
	TimerPause TimerAction = "pause"
	TimerReset TimerAction = "reset"
)

// LiveSession is the client view of a session being tracked.
type LiveSession struct {
	Handle   string           `json:"handle"`
	Snapshot session.Snapshot `json:"session"`
}

type SessionService interface {
	// Start materializes day dayIndex of a routine and begins tracking it
	// under a new handle. The timer starts Idle.
	Start(ctx context.Context, user, routineID primitive.ObjectID, dayIndex int, date time.Time) (*LiveSession, error)
	Snapshot(user primitive.ObjectID, handle string) (*LiveSession, error)
	// Timer applies action. For reset, applied is false when confirm was not
	// given and nothing changed.
	Timer(user primitive.ObjectID, handle string, action TimerAction, confirm bool) (live *LiveSession, applied bool, err error)
	ToggleSet(user primitive.ObjectID, handle string, exerciseIndex, setIndex int, completed bool) (*LiveSession, error)
	UpdateSet(user primitive.ObjectID, handle string, exerciseIndex, setIndex int, field domain.Metric, value float64) (*LiveSession, error)
	// Save stops the timer and persists the session. The handle stays live
	// if persisting fails so the caller can retry.
	Save(ctx context.Context, user primitive.ObjectID, handle, notes string) (*domain.SessionRecord, error)
	// Abandon drops a live session without persisting anything.
	Abandon(user primitive.ObjectID, handle string) error

	History(ctx context.Context, user primitive.ObjectID, page, limit int) ([]domain.SessionRecord, error)
	GetRecord(ctx context.Context, user, id primitive.ObjectID) (*domain.SessionRecord, error)
	UpdateNotes(ctx context.Context, user, id primitive.ObjectID, notes string) (*domain.SessionRecord, error)

	// Close stops every live runtime. Unsaved sessions are lost.
	Close()
}

// SessionOption configures the session service.
type SessionOption func(*sessionService)

// WithSessionClock sets the clock handed to every runtime.
func WithSessionClock(c session.Clock) SessionOption {
	return func(s *sessionService) { s.clock = c }
}

// WithSessionTickInterval sets the runtime display tick.
func WithSessionTickInterval(d time.Duration) SessionOption {
	return func(s *sessionService) { s.tick = d }
}

type liveEntry struct {
	// mu serializes commands on one handle so Save cannot interleave with an edit
	mu      sync.Mutex
	user    primitive.ObjectID
	runtime *session.Runtime
}

// sessionService implements the SessionService interface.
type sessionService struct {
	routineRepo repository.RoutineRepository
	sessionRepo repository.SessionRepository
	catalog     session.Catalog
	metrics     *metrics.Manager
	clock       session.Clock
	tick        time.Duration

	mu   sync.Mutex
	live map[string]*liveEntry
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(
	routineRepo repository.RoutineRepository,
	sessionRepo repository.SessionRepository,
	catalog session.Catalog,
	m *metrics.Manager,
	opts ...SessionOption,
) SessionService {
	s := &sessionService{
		routineRepo: routineRepo,
		sessionRepo: sessionRepo,
		catalog:     catalog,
		metrics:     m,
		clock:       session.SystemClock{},
		tick:        session.DefaultTickInterval,
		live:        make(map[string]*liveEntry),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *sessionService) Start(ctx context.Context, user, routineID primitive.ObjectID, dayIndex int, date time.Time) (*LiveSession, error) {
	plan, err := s.routineRepo.GetByID(ctx, routineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	if !routine.CanAccess(user, plan) {
		return nil, ErrRoutineAccessDenied
	}

	if date.IsZero() {
		date = s.clock.Now().UTC()
	}
	draft, err := session.Materialize(ctx, s.catalog, plan, dayIndex, session.Meta{User: user, Date: date})
	if err != nil {
		return nil, err
	}

	handle := uuid.NewString()
	logger := log.WithFields(log.Fields{"handle": handle, "user_id": user.Hex()})
	rt := session.NewRuntime(draft,
		session.WithClock(s.clock),
		session.WithTickInterval(s.tick),
		session.WithObserver(func(snap session.Snapshot) {
			logger.WithFields(log.Fields{
				"state":    snap.State,
				"elapsed":  snap.ElapsedSeconds,
				"progress": snap.ProgressPercent,
			}).Trace("session update")
		}),
	)

	s.mu.Lock()
	s.live[handle] = &liveEntry{user: user, runtime: rt}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.CounterSessionsStarted.Inc()
		s.metrics.GaugeLiveSessions.Inc()
	}
	logger.WithFields(log.Fields{
		"routine_id": routineID.Hex(),
		"day":        draft.DayNumber,
		"exercises":  len(draft.Exercises),
	}).Info("session started")

	return &LiveSession{Handle: handle, Snapshot: rt.Snapshot()}, nil
}

func (s *sessionService) Snapshot(user primitive.ObjectID, handle string) (*LiveSession, error) {
	var live *LiveSession
	err := s.withEntry(user, handle, func(e *liveEntry) error {
		live = &LiveSession{Handle: handle, Snapshot: e.runtime.Snapshot()}
		return nil
	})
	return live, err
}

func (s *sessionService) Timer(user primitive.ObjectID, handle string, action TimerAction, confirm bool) (*LiveSession, bool, error) {
	var (
		live    *LiveSession
		applied bool
	)
	err := s.withEntry(user, handle, func(e *liveEntry) error {
		switch action {
		case TimerStart:
			if err := e.runtime.Start(); err != nil {
				return err
			}
			applied = true
		case TimerPause:
			if err := e.runtime.Pause(); err != nil {
				return err
			}
			applied = true
		case TimerReset:
			applied = e.runtime.Reset(confirm)
		default:
			return ErrUnknownTimerAction
		}
		live = &LiveSession{Handle: handle, Snapshot: e.runtime.Snapshot()}
		return nil
	})
	return live, applied, err
}

func (s *sessionService) ToggleSet(user primitive.ObjectID, handle string, exerciseIndex, setIndex int, completed bool) (*LiveSession, error) {
	var live *LiveSession
	err := s.withEntry(user, handle, func(e *liveEntry) error {
		if err := e.runtime.ToggleSetCompletion(exerciseIndex, setIndex, completed); err != nil {
			return err
		}
		live = &LiveSession{Handle: handle, Snapshot: e.runtime.Snapshot()}
		return nil
	})
	return live, err
}

func (s *sessionService) UpdateSet(user primitive.ObjectID, handle string, exerciseIndex, setIndex int, field domain.Metric, value float64) (*LiveSession, error) {
	var live *LiveSession
	err := s.withEntry(user, handle, func(e *liveEntry) error {
		if err := e.runtime.UpdateSetValue(exerciseIndex, setIndex, field, value); err != nil {
			return err
		}
		live = &LiveSession{Handle: handle, Snapshot: e.runtime.Snapshot()}
		return nil
	})
	return live, err
}

func (s *sessionService) Save(ctx context.Context, user primitive.ObjectID, handle, notes string) (*domain.SessionRecord, error) {
	var rec *domain.SessionRecord
	err := s.withEntry(user, handle, func(e *liveEntry) error {
		rt := e.runtime
		running := rt.State() == session.Running
		if !running && !s.hasActivity(rt) {
			return ErrNoProgress
		}
		if running {
			if err := rt.Pause(); err != nil {
				return err
			}
		}

		draft := rt.Draft()
		draft.Notes = notes
		if err := s.sessionRepo.Save(ctx, draft); err != nil {
			log.WithError(err).WithField("handle", handle).Error("save session")
			if running {
				// put the timer back so a retry sees the session as it was
				if startErr := rt.Start(); startErr != nil {
					log.WithError(startErr).WithField("handle", handle).Warn("resume timer after failed save")
				}
			}
			return err
		}
		rec = draft
		s.unregister(handle)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CounterSessionsSaved.Inc()
		s.metrics.HistSessionProgress.Observe(float64(rec.Progress))
	}
	log.WithFields(log.Fields{
		"handle":     handle,
		"session_id": rec.ID.Hex(),
		"duration":   rec.DurationSeconds,
		"progress":   rec.Progress,
	}).Info("session saved")
	return rec, nil
}

func (s *sessionService) Abandon(user primitive.ObjectID, handle string) error {
	err := s.withEntry(user, handle, func(*liveEntry) error {
		s.unregister(handle)
		return nil
	})
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.CounterSessionsAbandoned.Inc()
	}
	log.WithField("handle", handle).Debug("session abandoned")
	return nil
}

func (s *sessionService) History(ctx context.Context, user primitive.ObjectID, page, limit int) ([]domain.SessionRecord, error) {
	if page < 1 {
		page = 1
	}
	if limit < 0 {
		limit = 0
	}
	return s.sessionRepo.ListByUser(ctx, user, repository.Page{Number: page, Limit: limit})
}

func (s *sessionService) GetRecord(ctx context.Context, user, id primitive.ObjectID) (*domain.SessionRecord, error) {
	rec, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if rec.User != user {
		return nil, ErrSessionAccessDenied
	}
	return rec, nil
}

// UpdateNotes edits metadata only; the stored progress stays as it is.
func (s *sessionService) UpdateNotes(ctx context.Context, user, id primitive.ObjectID, notes string) (*domain.SessionRecord, error) {
	if _, err := s.GetRecord(ctx, user, id); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.UpdateNotes(ctx, id, user, notes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s.GetRecord(ctx, user, id)
}

func (s *sessionService) Close() {
	s.mu.Lock()
	entries := s.live
	s.live = make(map[string]*liveEntry)
	s.mu.Unlock()

	for handle, e := range entries {
		e.runtime.Close()
		log.WithField("handle", handle).Warn("live session discarded on shutdown")
	}
	if s.metrics != nil {
		s.metrics.GaugeLiveSessions.Set(0)
	}
}

// withEntry runs fn with the handle's entry locked. Handles owned by another
// user look the same as unknown ones.
func (s *sessionService) withEntry(user primitive.ObjectID, handle string, fn func(*liveEntry) error) error {
	s.mu.Lock()
	e, ok := s.live[handle]
	s.mu.Unlock()
	if !ok || e.user != user {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	// Save or Abandon may have removed it while we waited
	s.mu.Lock()
	current, ok := s.live[handle]
	s.mu.Unlock()
	if !ok || current != e {
		return ErrSessionNotFound
	}
	return fn(e)
}

// hasActivity reports whether a stopped session has anything worth saving.
// A day without exercises can never log a set, so time on the clock counts.
func (s *sessionService) hasActivity(rt *session.Runtime) bool {
	if rt.Progress() > 0 {
		return true
	}
	return len(rt.Snapshot().Exercises) == 0 && rt.Elapsed() > 0
}

func (s *sessionService) unregister(handle string) {
	s.mu.Lock()
	e, ok := s.live[handle]
	delete(s.live, handle)
	s.mu.Unlock()
	if !ok {
		return
	}
	e.runtime.Close()
	if s.metrics != nil {
		s.metrics.GaugeLiveSessions.Dec()
	}
}

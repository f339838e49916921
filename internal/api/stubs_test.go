package api

import (
	"context"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/routine"
	"alcyxob/workout-tracker/internal/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stub services embed the interface so a test only implements what its
// routes reach; anything else panics on the nil embedded value.

type stubAuthService struct {
	service.AuthService
	registerErr error
	loginErr    error
}

func (s *stubAuthService) Register(_ context.Context, name, email, _ string, level domain.Level) (*domain.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &domain.User{ID: primitive.NewObjectID(), Name: name, Email: email, FitnessLevel: level, PasswordHash: "hash"}, nil
}

func (s *stubAuthService) Login(_ context.Context, email, _ string) (string, *domain.User, error) {
	if s.loginErr != nil {
		return "", nil, s.loginErr
	}
	return "signed-token", &domain.User{ID: primitive.NewObjectID(), Email: email}, nil
}

type stubProfileService struct {
	service.ProfileService
	err       error
	lastUser  primitive.ObjectID
	lastPatch service.ProfilePatch
	history   []domain.ProgressEntry
}

func (s *stubProfileService) Get(_ context.Context, user primitive.ObjectID) (*service.ProfileView, error) {
	s.lastUser = user
	if s.err != nil {
		return nil, s.err
	}
	return &service.ProfileView{FitnessLevel: domain.LevelBeginner, Profile: domain.DefaultProfile(), ProgressHistory: s.history}, nil
}

func (s *stubProfileService) Update(_ context.Context, user primitive.ObjectID, patch service.ProfilePatch) (*service.ProfileView, error) {
	s.lastUser = user
	s.lastPatch = patch
	if s.err != nil {
		return nil, s.err
	}
	view := &service.ProfileView{Profile: domain.DefaultProfile()}
	if patch.FitnessLevel != nil {
		view.FitnessLevel = *patch.FitnessLevel
	}
	view.Profile.Goals = patch.Goals
	return view, nil
}

func (s *stubProfileService) AddProgress(_ context.Context, user primitive.ObjectID, entry domain.ProgressEntry) ([]domain.ProgressEntry, error) {
	s.lastUser = user
	if s.err != nil {
		return nil, s.err
	}
	entry.Date = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	s.history = append(s.history, entry)
	return s.history, nil
}

func (s *stubProfileService) Progress(_ context.Context, user primitive.ObjectID) ([]domain.ProgressEntry, error) {
	s.lastUser = user
	return s.history, s.err
}

type stubRoutineService struct {
	service.RoutineService
	plan       *domain.RoutinePlan
	err        error
	resize     routine.ResizeResult
	lastUser   primitive.ObjectID
	lastFilter repository.TemplateFilter
	lastPage   [2]int
}

func (s *stubRoutineService) ListTemplates(_ context.Context, f repository.TemplateFilter, page, limit int) (*service.TemplatePage, error) {
	s.lastFilter = f
	s.lastPage = [2]int{page, limit}
	if s.err != nil {
		return nil, s.err
	}
	return &service.TemplatePage{Routines: []domain.RoutinePlan{}, Pagination: service.Pagination{Page: 1, Limit: 10}}, nil
}

func (s *stubRoutineService) ListMine(_ context.Context, user primitive.ObjectID) ([]domain.RoutinePlan, error) {
	s.lastUser = user
	return nil, s.err
}

func (s *stubRoutineService) Get(_ context.Context, user, _ primitive.ObjectID) (*domain.RoutinePlan, error) {
	s.lastUser = user
	return s.plan, s.err
}

func (s *stubRoutineService) Create(_ context.Context, user primitive.ObjectID, plan *domain.RoutinePlan) (*domain.RoutinePlan, error) {
	s.lastUser = user
	if s.err != nil {
		return nil, s.err
	}
	plan.ID = primitive.NewObjectID()
	plan.Owner = user
	return plan, nil
}

func (s *stubRoutineService) Resize(_ context.Context, user, _ primitive.ObjectID, _ int, _ bool) (*domain.RoutinePlan, routine.ResizeResult, error) {
	s.lastUser = user
	return s.plan, s.resize, s.err
}

type stubExerciseService struct {
	service.ExerciseService
	err       error
	lastInput service.ExerciseInput
	lastID    primitive.ObjectID
	deleted   bool
}

func (s *stubExerciseService) Vocabulary() domain.ExerciseVocabulary {
	return domain.CatalogVocabulary()
}

func (s *stubExerciseService) Create(_ context.Context, in service.ExerciseInput) (*domain.Exercise, error) {
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	metrics := domain.DefaultExerciseMetrics()
	if in.Metrics != nil {
		metrics = *in.Metrics
	}
	return &domain.Exercise{ID: primitive.NewObjectID(), Name: in.Name, Category: in.Category, Difficulty: in.Difficulty, Metrics: metrics, Media: in.Media}, nil
}

func (s *stubExerciseService) Update(_ context.Context, id primitive.ObjectID, in service.ExerciseInput) (*domain.Exercise, error) {
	s.lastID = id
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Exercise{ID: id, Name: in.Name, Category: in.Category, Difficulty: in.Difficulty}, nil
}

func (s *stubExerciseService) Delete(_ context.Context, id primitive.ObjectID) error {
	s.lastID = id
	s.deleted = s.err == nil
	return s.err
}

func (s *stubExerciseService) MediaURLs(context.Context, primitive.ObjectID) ([]service.MediaURL, error) {
	return nil, s.err
}

type stubSessionService struct {
	service.SessionService
	live    *service.LiveSession
	applied bool
	err     error

	startDay   int
	timerCalls []service.TimerAction
	setValue   float64
	setField   domain.Metric
	setIndexes [2]int
	savedNotes string
}

func (s *stubSessionService) Start(_ context.Context, _, _ primitive.ObjectID, dayIndex int, _ time.Time) (*service.LiveSession, error) {
	s.startDay = dayIndex
	return s.live, s.err
}

func (s *stubSessionService) Timer(_ primitive.ObjectID, _ string, action service.TimerAction, _ bool) (*service.LiveSession, bool, error) {
	s.timerCalls = append(s.timerCalls, action)
	return s.live, s.applied, s.err
}

func (s *stubSessionService) UpdateSet(_ primitive.ObjectID, _ string, ex, set int, field domain.Metric, value float64) (*service.LiveSession, error) {
	s.setIndexes = [2]int{ex, set}
	s.setField = field
	s.setValue = value
	return s.live, s.err
}

func (s *stubSessionService) Save(_ context.Context, user primitive.ObjectID, _ string, notes string) (*domain.SessionRecord, error) {
	s.savedNotes = notes
	if s.err != nil {
		return nil, s.err
	}
	return &domain.SessionRecord{ID: primitive.NewObjectID(), User: user, Notes: notes, Progress: 50}, nil
}

func (s *stubSessionService) History(context.Context, primitive.ObjectID, int, int) ([]domain.SessionRecord, error) {
	return []domain.SessionRecord{{
		ID:              primitive.NewObjectID(),
		WorkoutName:     "Push Day",
		DurationSeconds: 3725,
		Progress:        80,
		Exercises:       make([]domain.ExerciseLog, 3),
	}}, s.err
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/routine"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrRoutineNotFound     = fmt.Errorf("routine %w", domain.ErrNotFound)
	ErrRoutineAccessDenied = errors.New("access denied to this routine")
)

const (
	defaultTemplatePageSize = 10
	maxTemplatePageSize     = 100
)

// Pagination describes one page of a listing.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

// TemplatePage is a page of public routine templates.
type TemplatePage struct {
	Routines   []domain.RoutinePlan `json:"routines"`
	Pagination Pagination           `json:"pagination"`
}

type RoutineService interface {
	ListMine(ctx context.Context, user primitive.ObjectID) ([]domain.RoutinePlan, error)
	ListTemplates(ctx context.Context, filter repository.TemplateFilter, page, limit int) (*TemplatePage, error)
	Get(ctx context.Context, user, id primitive.ObjectID) (*domain.RoutinePlan, error)
	Create(ctx context.Context, user primitive.ObjectID, plan *domain.RoutinePlan) (*domain.RoutinePlan, error)
	Update(ctx context.Context, user, id primitive.ObjectID, plan *domain.RoutinePlan) (*domain.RoutinePlan, error)
	Delete(ctx context.Context, user, id primitive.ObjectID) error
	Clone(ctx context.Context, user, id primitive.ObjectID) (*domain.RoutinePlan, error)
	// Resize changes the number of training days. Shrinking without confirm
	// is rejected and leaves the stored plan untouched.
	Resize(ctx context.Context, user, id primitive.ObjectID, daysPerWeek int, confirm bool) (*domain.RoutinePlan, routine.ResizeResult, error)
}

// routineService implements the RoutineService interface.
type routineService struct {
	routineRepo repository.RoutineRepository
	metrics     *metrics.Manager
	now         func() time.Time
}

// NewRoutineService creates a new instance of routineService.
func NewRoutineService(routineRepo repository.RoutineRepository, m *metrics.Manager) RoutineService {
	return &routineService{
		routineRepo: routineRepo,
		metrics:     m,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ListMine returns the caller's routines, newest edit first.
func (s *routineService) ListMine(ctx context.Context, user primitive.ObjectID) ([]domain.RoutinePlan, error) {
	return s.routineRepo.ListByOwner(ctx, user)
}

// ListTemplates pages through public templates.
func (s *routineService) ListTemplates(ctx context.Context, filter repository.TemplateFilter, page, limit int) (*TemplatePage, error) {
	if filter.Goal != "" && !filter.Goal.Valid() {
		return nil, domain.NewValidationError("invalid goal %q", filter.Goal)
	}
	if filter.Level != "" && !filter.Level.Valid() {
		return nil, domain.NewValidationError("invalid level %q", filter.Level)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultTemplatePageSize
	}
	if limit > maxTemplatePageSize {
		limit = maxTemplatePageSize
	}

	plans, total, err := s.routineRepo.ListTemplates(ctx, filter, repository.Page{Number: page, Limit: limit})
	if err != nil {
		return nil, err
	}
	return &TemplatePage{
		Routines: plans,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: (total + int64(limit) - 1) / int64(limit),
		},
	}, nil
}

// Get loads a routine the user may view: their own, or a public template.
func (s *routineService) Get(ctx context.Context, user, id primitive.ObjectID) (*domain.RoutinePlan, error) {
	plan, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !routine.CanAccess(user, plan) {
		return nil, ErrRoutineAccessDenied
	}
	return plan, nil
}

// Create stores a new routine owned by user. Days are initialized to blank
// days when the plan arrives without any.
func (s *routineService) Create(ctx context.Context, user primitive.ObjectID, plan *domain.RoutinePlan) (*domain.RoutinePlan, error) {
	plan.ID = primitive.NilObjectID
	plan.Owner = user
	plan.CreatedAt = time.Time{}
	routine.InitDays(plan)

	if err := routine.Validate(plan); err != nil {
		return nil, err
	}

	id, err := s.routineRepo.Create(ctx, plan)
	if err != nil {
		log.WithError(err).WithField("user_id", user.Hex()).Error("create routine")
		return nil, err
	}
	plan.ID = id
	log.WithFields(log.Fields{"routine_id": id.Hex(), "user_id": user.Hex()}).Debug("routine created")
	return plan, nil
}

// Update replaces the editable fields of a routine the user owns.
func (s *routineService) Update(ctx context.Context, user, id primitive.ObjectID, plan *domain.RoutinePlan) (*domain.RoutinePlan, error) {
	existing, err := s.loadOwned(ctx, user, id)
	if err != nil {
		return nil, err
	}

	plan.ID = existing.ID
	plan.Owner = existing.Owner
	plan.CreatedAt = existing.CreatedAt
	plan.IsTemplate = existing.IsTemplate
	routine.InitDays(plan)

	if err = routine.Validate(plan); err != nil {
		return nil, err
	}
	if err = s.routineRepo.Update(ctx, plan); err != nil {
		return nil, s.mapNotFound(err)
	}
	return plan, nil
}

// Delete removes a routine the user owns. Sessions recorded from it keep
// their own snapshot and are not touched.
func (s *routineService) Delete(ctx context.Context, user, id primitive.ObjectID) error {
	if _, err := s.loadOwned(ctx, user, id); err != nil {
		return err
	}
	return s.mapNotFound(s.routineRepo.Delete(ctx, id, user))
}

// Clone copies a template into a new private routine owned by user.
func (s *routineService) Clone(ctx context.Context, user, id primitive.ObjectID) (*domain.RoutinePlan, error) {
	template, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	// a private template stays private even to callers who know its id
	if !routine.CanAccess(user, template) {
		return nil, ErrRoutineAccessDenied
	}

	clone, err := routine.CloneTemplate(template, user, s.now())
	if err != nil {
		return nil, err
	}

	newID, err := s.routineRepo.Create(ctx, clone)
	if err != nil {
		return nil, err
	}
	clone.ID = newID

	if s.metrics != nil {
		s.metrics.CounterRoutinesCloned.Inc()
	}
	log.WithFields(log.Fields{
		"routine_id":  newID.Hex(),
		"template_id": id.Hex(),
		"user_id":     user.Hex(),
	}).Info("template cloned")
	return clone, nil
}

// Resize applies the day-count edit rules and persists only applied edits.
func (s *routineService) Resize(ctx context.Context, user, id primitive.ObjectID, daysPerWeek int, confirm bool) (*domain.RoutinePlan, routine.ResizeResult, error) {
	plan, err := s.loadOwned(ctx, user, id)
	if err != nil {
		return nil, routine.ResizeResult{}, err
	}

	result, err := routine.SetDaysPerWeek(plan, daysPerWeek, confirm)
	if err != nil {
		return nil, result, err
	}
	if result.Rejected {
		if s.metrics != nil {
			s.metrics.CounterResizeRejected.Inc()
		}
		log.WithFields(log.Fields{
			"routine_id": id.Hex(),
			"from":       result.Previous,
			"to":         daysPerWeek,
		}).Debug("unconfirmed shrink reverted")
		return plan, result, nil
	}
	if !result.Applied {
		return plan, result, nil
	}

	if err = s.routineRepo.Update(ctx, plan); err != nil {
		return nil, result, s.mapNotFound(err)
	}
	return plan, result, nil
}

func (s *routineService) load(ctx context.Context, id primitive.ObjectID) (*domain.RoutinePlan, error) {
	plan, err := s.routineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	return plan, nil
}

func (s *routineService) loadOwned(ctx context.Context, user, id primitive.ObjectID) (*domain.RoutinePlan, error) {
	plan, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !routine.CanModify(user, plan) {
		return nil, ErrRoutineAccessDenied
	}
	return plan, nil
}

func (s *routineService) mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRoutineNotFound
	}
	return err
}

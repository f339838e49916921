package repository

import (
	"context" // Standard for request-scoped deadlines, cancellation signals, etc.

	"alcyxob/workout-tracker/internal/domain" // Import our defined domain models

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for the repository layer. ErrNotFound wraps the domain
// kind so services can test for it with errors.Is at either level.
var (
	ErrNotFound     = &RepositoryError{msg: "not found", kind: domain.ErrNotFound}
	ErrUpdateFailed = &RepositoryError{msg: "update failed"}
	ErrDeleteFailed = &RepositoryError{msg: "delete failed"}
	ErrDuplicate    = &RepositoryError{msg: "duplicate key"}
)

// RepositoryError helps distinguish repository errors
type RepositoryError struct {
	msg  string
	kind error
}

func (e *RepositoryError) Error() string {
	return e.msg
}

func (e *RepositoryError) Unwrap() error {
	return e.kind
}

// Page is a 1-based page request. Limit <= 0 means no paging.
type Page struct {
	Number int
	Limit  int
}

// Skip returns the number of documents to skip for this page.
func (p Page) Skip() int64 {
	if p.Limit <= 0 || p.Number <= 1 {
		return 0
	}
	return int64((p.Number - 1) * p.Limit)
}

// TemplateFilter narrows public template listings. Empty fields are ignored.
type TemplateFilter struct {
	Goal  domain.Goal
	Level domain.Level
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// UpdateProfile replaces the fitness level and the whole profile.
	UpdateProfile(ctx context.Context, id primitive.ObjectID, level domain.Level, profile domain.Profile) error
	// AddProgress appends one entry to the user's progress history.
	AddProgress(ctx context.Context, id primitive.ObjectID, entry domain.ProgressEntry) error
}

// ExerciseRepository defines the interface for interacting with the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context, filter domain.ExerciseFilter) ([]domain.Exercise, error)
	// Update replaces the descriptive fields of an exercise; CreatedAt is kept.
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// RoutineRepository defines the interface for interacting with routine plans.
type RoutineRepository interface {
	Create(ctx context.Context, plan *domain.RoutinePlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutinePlan, error)
	// ListByOwner returns the user's routines, most recently modified first.
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]domain.RoutinePlan, error)
	// ListTemplates returns public templates and the total count matching filter.
	ListTemplates(ctx context.Context, filter TemplateFilter, page Page) ([]domain.RoutinePlan, int64, error)
	Update(ctx context.Context, plan *domain.RoutinePlan) error
	Delete(ctx context.Context, id primitive.ObjectID, owner primitive.ObjectID) error // Ensure the user owns the routine
}

// SessionRepository defines the interface for interacting with session records.
type SessionRepository interface {
	// Save runs the pre-persist hook and then inserts a draft or updates an
	// existing record in place. rec is updated with the stored ID, progress
	// and timestamps.
	Save(ctx context.Context, rec *domain.SessionRecord) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionRecord, error)
	// ListByUser returns the user's sessions, most recent date first.
	ListByUser(ctx context.Context, user primitive.ObjectID, page Page) ([]domain.SessionRecord, error)
	UpdateNotes(ctx context.Context, id primitive.ObjectID, user primitive.ObjectID, notes string) error
}

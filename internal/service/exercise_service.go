package service

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/workout-tracker/internal/catalog"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/storage"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/multierr"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound  = fmt.Errorf("exercise %w", domain.ErrNotFound)
	ErrMediaUnavailable  = errors.New("media storage is not configured")
	ErrInvalidDifficulty = domain.NewValidationError("difficulty must be beginner, intermediate or advanced")
	ErrExerciseExists    = errors.New("an exercise with this name already exists")
)

// MediaURL is a short-lived download link for one media item.
type MediaURL struct {
	URL     string `json:"url"`
	Kind    string `json:"kind"`
	AltText string `json:"altText,omitempty"`
}

// ExerciseInput carries the writable catalog fields. A nil Metrics means
// the catalog defaults on create and "unchanged" on update.
type ExerciseInput struct {
	Name         string
	Description  string
	MuscleGroups []string
	Difficulty   domain.Level
	Category     string
	Equipment    []string
	Metrics      *domain.ExerciseMetrics
	Media        []domain.MediaItem
	Tips         []string
}

type ExerciseService interface {
	List(ctx context.Context, filter domain.ExerciseFilter) ([]domain.Exercise, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	MediaURLs(ctx context.Context, id primitive.ObjectID) ([]MediaURL, error)
	// Vocabulary lists the accepted muscle groups, difficulties, categories
	// and equipment.
	Vocabulary() domain.ExerciseVocabulary

	Create(ctx context.Context, in ExerciseInput) (*domain.Exercise, error)
	Update(ctx context.Context, id primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error)
	// Delete removes the exercise. Routine slots that reference it are left
	// alone and fail to materialize afterwards.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	catalog      *catalog.CachedCatalog
	media        storage.FileStorage // nil when no bucket is configured
}

// NewExerciseService creates a new instance of exerciseService. Single
// exercise reads go through the shared catalog cache.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, cat *catalog.CachedCatalog, media storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		catalog:      cat,
		media:        media,
	}
}

func (s *exerciseService) List(ctx context.Context, filter domain.ExerciseFilter) ([]domain.Exercise, error) {
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		return nil, ErrInvalidDifficulty
	}
	return s.exerciseRepo.List(ctx, filter)
}

func (s *exerciseService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	ex, err := s.catalog.Exercise(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return ex, nil
}

// MediaURLs presigns every media object of the exercise, in stored order.
func (s *exerciseService) MediaURLs(ctx context.Context, id primitive.ObjectID) ([]MediaURL, error) {
	ex, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(ex.Media) == 0 {
		return []MediaURL{}, nil
	}
	if s.media == nil {
		return nil, ErrMediaUnavailable
	}

	urls := make([]MediaURL, 0, len(ex.Media))
	for _, m := range ex.Media {
		u, err := s.media.GeneratePresignedDownloadURL(ctx, m.ObjectKey, 0)
		if err != nil {
			return nil, fmt.Errorf("presign %s: %w", m.ObjectKey, err)
		}
		urls = append(urls, MediaURL{URL: u, Kind: m.Kind, AltText: m.AltText})
	}
	return urls, nil
}

func (s *exerciseService) Vocabulary() domain.ExerciseVocabulary {
	return domain.CatalogVocabulary()
}

// Create adds an exercise to the catalog.
func (s *exerciseService) Create(ctx context.Context, in ExerciseInput) (*domain.Exercise, error) {
	if err := validateExercise(in); err != nil {
		return nil, err
	}

	ex := &domain.Exercise{Metrics: domain.DefaultExerciseMetrics()}
	applyExerciseInput(ex, in)

	if _, err := s.exerciseRepo.Create(ctx, ex); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrExerciseExists
		}
		return nil, err
	}
	log.WithFields(log.Fields{"exercise_id": ex.ID.Hex(), "name": ex.Name}).Info("exercise created")
	return ex, nil
}

// Update replaces the exercise's fields and evicts it from the catalog cache
// so the next materialization sees the new name and metrics.
func (s *exerciseService) Update(ctx context.Context, id primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error) {
	if err := validateExercise(in); err != nil {
		return nil, err
	}

	existing, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	applyExerciseInput(existing, in)

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrExerciseNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrExerciseExists
		}
		return nil, err
	}
	s.catalog.Invalidate(id)
	log.WithField("exercise_id", id.Hex()).Info("exercise updated")
	return existing, nil
}

func (s *exerciseService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.exerciseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	s.catalog.Invalidate(id)
	log.WithField("exercise_id", id.Hex()).Info("exercise deleted")
	return nil
}

func applyExerciseInput(ex *domain.Exercise, in ExerciseInput) {
	ex.Name = in.Name
	ex.Description = in.Description
	ex.MuscleGroups = in.MuscleGroups
	ex.Difficulty = in.Difficulty
	ex.Category = in.Category
	ex.Equipment = in.Equipment
	ex.Media = in.Media
	ex.Tips = in.Tips
	if in.Metrics != nil {
		ex.Metrics = *in.Metrics
	}
}

func validateExercise(in ExerciseInput) error {
	vocab := domain.CatalogVocabulary()
	var errs error

	if in.Name == "" {
		errs = multierr.Append(errs, fmt.Errorf("name is required"))
	}
	if !in.Difficulty.Valid() {
		errs = multierr.Append(errs, fmt.Errorf("invalid difficulty %q", in.Difficulty))
	}
	if !vocab.HasCategory(in.Category) {
		errs = multierr.Append(errs, fmt.Errorf("invalid category %q", in.Category))
	}
	for _, g := range in.MuscleGroups {
		if !vocab.HasMuscleGroup(g) {
			errs = multierr.Append(errs, fmt.Errorf("invalid muscle group %q", g))
		}
	}
	for _, e := range in.Equipment {
		if !vocab.HasEquipment(e) {
			errs = multierr.Append(errs, fmt.Errorf("invalid equipment %q", e))
		}
	}
	for i, m := range in.Media {
		if m.ObjectKey == "" {
			errs = multierr.Append(errs, fmt.Errorf("media %d: object key is required", i))
		}
		if m.Kind != "image" && m.Kind != "video" {
			errs = multierr.Append(errs, fmt.Errorf("media %d: kind must be image or video", i))
		}
	}
	if in.Metrics != nil && len(in.Metrics.Supported()) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("an exercise must track at least one of reps, weight, time or distance"))
	}

	if errs != nil {
		return &domain.ValidationError{Reason: "invalid exercise", Cause: errs}
	}
	return nil
}

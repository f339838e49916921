package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/multierr"
)

var (
	ErrUserNotFound  = fmt.Errorf("user %w", domain.ErrNotFound)
	ErrEmptyProgress = domain.NewValidationError("a progress entry needs a weight, body fat or at least one measurement")
)

// ProfileView is a user's profile together with their progress history.
type ProfileView struct {
	FitnessLevel    domain.Level           `json:"fitnessLevel,omitempty"`
	Profile         domain.Profile         `json:"profile"`
	ProgressHistory []domain.ProgressEntry `json:"progressHistory"`
}

// ProfilePatch is a partial profile update. Nil fields keep their stored
// value; a non-nil empty slice clears the list.
type ProfilePatch struct {
	FitnessLevel      *domain.Level
	Goals             []domain.Goal
	HealthMetrics     *domain.HealthMetrics
	MedicalConditions []string
	Injuries          []string
	Preferences       *domain.TrainingPreferences
}

type ProfileService interface {
	Get(ctx context.Context, user primitive.ObjectID) (*ProfileView, error)
	Update(ctx context.Context, user primitive.ObjectID, patch ProfilePatch) (*ProfileView, error)
	// AddProgress dates entry with the current time, stores it and returns
	// the whole history, oldest first.
	AddProgress(ctx context.Context, user primitive.ObjectID, entry domain.ProgressEntry) ([]domain.ProgressEntry, error)
	Progress(ctx context.Context, user primitive.ObjectID) ([]domain.ProgressEntry, error)
}

type profileService struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(userRepo repository.UserRepository) ProfileService {
	return &profileService{userRepo: userRepo, now: time.Now}
}

func (s *profileService) Get(ctx context.Context, user primitive.ObjectID) (*ProfileView, error) {
	u, err := s.load(ctx, user)
	if err != nil {
		return nil, err
	}
	return viewOf(u), nil
}

func (s *profileService) Update(ctx context.Context, user primitive.ObjectID, patch ProfilePatch) (*ProfileView, error) {
	u, err := s.load(ctx, user)
	if err != nil {
		return nil, err
	}

	level, profile := u.FitnessLevel, u.Profile
	if patch.FitnessLevel != nil {
		level = *patch.FitnessLevel
	}
	if patch.Goals != nil {
		profile.Goals = patch.Goals
	}
	if patch.HealthMetrics != nil {
		profile.HealthMetrics = *patch.HealthMetrics
	}
	if patch.MedicalConditions != nil {
		profile.MedicalConditions = patch.MedicalConditions
	}
	if patch.Injuries != nil {
		profile.Injuries = patch.Injuries
	}
	if patch.Preferences != nil {
		profile.Preferences = *patch.Preferences
	}

	if err := validateProfile(level, profile); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateProfile(ctx, user, level, profile); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	log.WithField("user_id", user.Hex()).Debug("profile updated")

	u.FitnessLevel, u.Profile = level, profile
	return viewOf(u), nil
}

func (s *profileService) AddProgress(ctx context.Context, user primitive.ObjectID, entry domain.ProgressEntry) ([]domain.ProgressEntry, error) {
	if entry.Empty() {
		return nil, ErrEmptyProgress
	}
	if err := validateProgress(entry); err != nil {
		return nil, err
	}
	entry.Date = s.now().UTC()

	if err := s.userRepo.AddProgress(ctx, user, entry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.Progress(ctx, user)
}

func (s *profileService) Progress(ctx context.Context, user primitive.ObjectID) ([]domain.ProgressEntry, error) {
	u, err := s.load(ctx, user)
	if err != nil {
		return nil, err
	}
	return viewOf(u).ProgressHistory, nil
}

func (s *profileService) load(ctx context.Context, user primitive.ObjectID) (*domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	// accounts created before profiles existed have no stored preferences
	if prefs := &u.Profile.Preferences; prefs.WorkoutDuration == 0 && prefs.WorkoutsPerWeek == 0 {
		prefs.WorkoutDuration = domain.DefaultWorkoutMinutes
		prefs.WorkoutsPerWeek = domain.DefaultWorkoutsPerWeek
	}
	return u, nil
}

func viewOf(u *domain.User) *ProfileView {
	history := u.ProgressHistory
	if history == nil {
		history = []domain.ProgressEntry{}
	}
	return &ProfileView{FitnessLevel: u.FitnessLevel, Profile: u.Profile, ProgressHistory: history}
}

func validateProfile(level domain.Level, p domain.Profile) error {
	var errs error

	if level != "" && !level.Valid() {
		errs = multierr.Append(errs, fmt.Errorf("invalid fitness level %q", level))
	}
	for _, g := range p.Goals {
		if !g.Valid() {
			errs = multierr.Append(errs, fmt.Errorf("invalid goal %q", g))
		}
	}

	hm := p.HealthMetrics
	if hm.Weight != nil {
		if hm.Weight.Unit != "kg" && hm.Weight.Unit != "lbs" {
			errs = multierr.Append(errs, fmt.Errorf("weight unit must be kg or lbs"))
		}
		if hm.Weight.Value < 0 {
			errs = multierr.Append(errs, fmt.Errorf("weight must not be negative"))
		}
	}
	if hm.Height != nil {
		if hm.Height.Unit != "cm" && hm.Height.Unit != "ft" {
			errs = multierr.Append(errs, fmt.Errorf("height unit must be cm or ft"))
		}
		if hm.Height.Value < 0 {
			errs = multierr.Append(errs, fmt.Errorf("height must not be negative"))
		}
	}
	if hm.BodyFatPercentage != nil && (*hm.BodyFatPercentage < 0 || *hm.BodyFatPercentage > 100) {
		errs = multierr.Append(errs, fmt.Errorf("bodyFatPercentage must be between 0 and 100"))
	}
	if hm.RestingHeartRate != nil && *hm.RestingHeartRate < 0 {
		errs = multierr.Append(errs, fmt.Errorf("restingHeartRate must not be negative"))
	}

	prefs := p.Preferences
	if prefs.WorkoutDuration <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("workoutDuration must be positive"))
	}
	if prefs.WorkoutsPerWeek < domain.MinDaysPerWeek || prefs.WorkoutsPerWeek > domain.MaxDaysPerWeek {
		errs = multierr.Append(errs, fmt.Errorf("workoutsPerWeek must be between %d and %d", domain.MinDaysPerWeek, domain.MaxDaysPerWeek))
	}

	if errs != nil {
		return &domain.ValidationError{Reason: "invalid profile", Cause: errs}
	}
	return nil
}

func validateProgress(e domain.ProgressEntry) error {
	var errs error
	if e.Weight != nil && *e.Weight < 0 {
		errs = multierr.Append(errs, fmt.Errorf("weight must not be negative"))
	}
	if e.BodyFatPercentage != nil && (*e.BodyFatPercentage < 0 || *e.BodyFatPercentage > 100) {
		errs = multierr.Append(errs, fmt.Errorf("bodyFatPercentage must be between 0 and 100"))
	}
	if m := e.Measurements; m != nil && (m.Chest < 0 || m.Waist < 0 || m.Hips < 0 || m.Arms < 0 || m.Legs < 0) {
		errs = multierr.Append(errs, fmt.Errorf("measurements must not be negative"))
	}
	if errs != nil {
		return &domain.ValidationError{Reason: "invalid progress entry", Cause: errs}
	}
	return nil
}

package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newProfileFixture(t *testing.T) (ProfileService, *memUserRepo, primitive.ObjectID) {
	t.Helper()
	repo := newMemUserRepo()
	id, err := repo.Create(context.Background(), &domain.User{
		Name:         "Ana",
		Email:        "ana@example.com",
		FitnessLevel: domain.LevelBeginner,
		Profile:      domain.DefaultProfile(),
	})
	require.NoError(t, err)

	svc := NewProfileService(repo)
	svc.(*profileService).now = func() time.Time {
		return time.Date(2026, 10, 18, 7, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	}
	return svc, repo, id
}

func ptr[T any](v T) *T { return &v }

func TestProfileService_GetDefaults(t *testing.T) {
	svc, _, id := newProfileFixture(t)

	view, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.LevelBeginner, view.FitnessLevel)
	assert.Equal(t, 45, view.Profile.Preferences.WorkoutDuration)
	assert.Equal(t, 3, view.Profile.Preferences.WorkoutsPerWeek)
	assert.NotNil(t, view.ProgressHistory)
	assert.Empty(t, view.ProgressHistory)

	_, err = svc.Get(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestProfileService_LegacyUserGetsDefaultPreferences(t *testing.T) {
	repo := newMemUserRepo()
	id, err := repo.Create(context.Background(), &domain.User{Name: "Old", Email: "old@example.com"})
	require.NoError(t, err)
	svc := NewProfileService(repo)

	view, err := svc.Update(context.Background(), id, ProfilePatch{Goals: []domain.Goal{domain.GoalEndurance}})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWorkoutMinutes, view.Profile.Preferences.WorkoutDuration)
	assert.Equal(t, domain.DefaultWorkoutsPerWeek, view.Profile.Preferences.WorkoutsPerWeek)
}

func TestProfileService_UpdateMergesPatch(t *testing.T) {
	svc, repo, id := newProfileFixture(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, id, ProfilePatch{
		Goals:    []domain.Goal{domain.GoalStrength},
		Injuries: []string{"left knee"},
		HealthMetrics: &domain.HealthMetrics{
			Weight:            &domain.Measurement{Value: 72.5, Unit: "kg"},
			BodyFatPercentage: ptr(18.0),
		},
	})
	require.NoError(t, err)

	// a later patch only touches what it names
	view, err := svc.Update(ctx, id, ProfilePatch{
		FitnessLevel: ptr(domain.LevelIntermediate),
		Preferences:  &domain.TrainingPreferences{WorkoutDuration: 60, WorkoutsPerWeek: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LevelIntermediate, view.FitnessLevel)
	assert.Equal(t, []domain.Goal{domain.GoalStrength}, view.Profile.Goals)
	assert.Equal(t, []string{"left knee"}, view.Profile.Injuries)
	assert.Equal(t, 72.5, view.Profile.HealthMetrics.Weight.Value)
	assert.Equal(t, 4, view.Profile.Preferences.WorkoutsPerWeek)

	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.LevelIntermediate, stored.FitnessLevel)
	assert.Equal(t, 60, stored.Profile.Preferences.WorkoutDuration)

	// an empty list clears
	view, err = svc.Update(ctx, id, ProfilePatch{Injuries: []string{}})
	require.NoError(t, err)
	assert.Empty(t, view.Profile.Injuries)
}

func TestProfileService_UpdateValidation(t *testing.T) {
	svc, repo, id := newProfileFixture(t)

	_, err := svc.Update(context.Background(), id, ProfilePatch{
		FitnessLevel: ptr(domain.Level("elite")),
		Goals:        []domain.Goal{"bulk"},
		HealthMetrics: &domain.HealthMetrics{
			Weight:            &domain.Measurement{Value: 80, Unit: "stone"},
			Height:            &domain.Measurement{Value: -1, Unit: "cm"},
			BodyFatPercentage: ptr(140.0),
		},
		Preferences: &domain.TrainingPreferences{WorkoutDuration: 0, WorkoutsPerWeek: 9},
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	for _, want := range []string{
		`invalid fitness level "elite"`,
		`invalid goal "bulk"`,
		"weight unit must be kg or lbs",
		"height must not be negative",
		"bodyFatPercentage must be between 0 and 100",
		"workoutDuration must be positive",
		"workoutsPerWeek must be between 1 and 7",
	} {
		assert.ErrorContains(t, err, want)
	}

	stored, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.LevelBeginner, stored.FitnessLevel)

	_, err = svc.Update(context.Background(), primitive.NewObjectID(), ProfilePatch{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestProfileService_AddProgress(t *testing.T) {
	svc, _, id := newProfileFixture(t)
	ctx := context.Background()

	history, err := svc.AddProgress(ctx, id, domain.ProgressEntry{Weight: ptr(74.0)})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, time.Date(2026, 10, 18, 5, 0, 0, 0, time.UTC), history[0].Date)

	// a client supplied date is ignored
	history, err = svc.AddProgress(ctx, id, domain.ProgressEntry{
		Date:         time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Measurements: &domain.BodyMeasurements{Waist: 81},
	})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 74.0, *history[0].Weight)
	assert.Equal(t, 81.0, history[1].Measurements.Waist)
	assert.Equal(t, 2026, history[1].Date.Year())

	got, err := svc.Progress(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, history, got)
}

func TestProfileService_AddProgressRejects(t *testing.T) {
	svc, _, id := newProfileFixture(t)
	ctx := context.Background()

	_, err := svc.AddProgress(ctx, id, domain.ProgressEntry{})
	assert.ErrorIs(t, err, ErrEmptyProgress)

	_, err = svc.AddProgress(ctx, id, domain.ProgressEntry{Measurements: &domain.BodyMeasurements{}})
	assert.ErrorIs(t, err, ErrEmptyProgress)

	_, err = svc.AddProgress(ctx, id, domain.ProgressEntry{Weight: ptr(-3.0)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.AddProgress(ctx, primitive.NewObjectID(), domain.ProgressEntry{Weight: ptr(70.0)})
	assert.ErrorIs(t, err, ErrUserNotFound)

	history, err := svc.Progress(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, history)
}

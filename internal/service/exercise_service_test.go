package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/catalog"
	"alcyxob/workout-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedExercises(t *testing.T) (*memExerciseRepo, *domain.Exercise) {
	t.Helper()
	repo := newMemExerciseRepo()
	ctx := context.Background()
	squat := &domain.Exercise{
		Name:         "Squat",
		MuscleGroups: []string{"legs", "core"},
		Difficulty:   domain.LevelIntermediate,
		Category:     "strength",
		Metrics:      domain.DefaultExerciseMetrics(),
		Media: []domain.MediaItem{
			{ObjectKey: "squat/front.jpg", Kind: "image", AltText: "front view"},
			{ObjectKey: "squat/demo.mp4", Kind: "video"},
		},
	}
	for _, ex := range []*domain.Exercise{
		squat,
		{Name: "Burpee", MuscleGroups: []string{"full_body"}, Difficulty: domain.LevelBeginner, Category: "cardio"},
		{Name: "Air Squat", MuscleGroups: []string{"legs"}, Difficulty: domain.LevelBeginner, Category: "strength"},
	} {
		_, err := repo.Create(ctx, ex)
		require.NoError(t, err)
	}
	return repo, squat
}

func TestExerciseService_ListFilters(t *testing.T) {
	repo, _ := seedExercises(t)
	svc := NewExerciseService(repo, catalog.NewCachedCatalog(repo, 1, time.Minute, nil), nil)
	ctx := context.Background()

	all, err := svc.List(ctx, domain.ExerciseFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Air Squat", all[0].Name)

	legs, err := svc.List(ctx, domain.ExerciseFilter{MuscleGroup: "legs", Difficulty: domain.LevelBeginner})
	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.Equal(t, "Air Squat", legs[0].Name)

	_, err = svc.List(ctx, domain.ExerciseFilter{Difficulty: "expert"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExerciseService_Get(t *testing.T) {
	repo, squat := seedExercises(t)
	svc := NewExerciseService(repo, catalog.NewCachedCatalog(repo, 1, time.Minute, nil), nil)

	got, err := svc.Get(context.Background(), squat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Squat", got.Name)

	_, err = svc.Get(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestExerciseService_MediaURLs(t *testing.T) {
	repo, squat := seedExercises(t)
	cat := catalog.NewCachedCatalog(repo, 1, time.Minute, nil)
	ctx := context.Background()

	svc := NewExerciseService(repo, cat, &memStorage{})
	urls, err := svc.MediaURLs(ctx, squat.ID)
	require.NoError(t, err)
	assert.Equal(t, []MediaURL{
		{URL: "https://media.test/squat/front.jpg?sig=x", Kind: "image", AltText: "front view"},
		{URL: "https://media.test/squat/demo.mp4?sig=x", Kind: "video"},
	}, urls)

	unconfigured := NewExerciseService(repo, cat, nil)
	_, err = unconfigured.MediaURLs(ctx, squat.ID)
	assert.ErrorIs(t, err, ErrMediaUnavailable)

	failing := NewExerciseService(repo, cat, &memStorage{fail: errors.New("expired credentials")})
	_, err = failing.MediaURLs(ctx, squat.ID)
	assert.ErrorContains(t, err, "expired credentials")
}

func TestExerciseService_MediaURLsWithoutMedia(t *testing.T) {
	repo, _ := seedExercises(t)
	all, err := repo.List(context.Background(), domain.ExerciseFilter{Category: "cardio"})
	require.NoError(t, err)

	svc := NewExerciseService(repo, catalog.NewCachedCatalog(repo, 1, time.Minute, nil), nil)
	urls, err := svc.MediaURLs(context.Background(), all[0].ID)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func validExerciseInput() ExerciseInput {
	return ExerciseInput{
		Name:         "Romanian Deadlift",
		Description:  "Hinge with a soft knee",
		MuscleGroups: []string{"back", "glutes"},
		Difficulty:   domain.LevelIntermediate,
		Category:     "strength",
		Equipment:    []string{"barbell"},
	}
}

func TestExerciseService_CreateAppliesDefaultMetrics(t *testing.T) {
	repo := newMemExerciseRepo()
	svc := NewExerciseService(repo, catalog.NewCachedCatalog(repo, 1, time.Minute, nil), nil)

	ex, err := svc.Create(context.Background(), validExerciseInput())
	require.NoError(t, err)
	assert.False(t, ex.ID.IsZero())
	assert.Equal(t, domain.DefaultExerciseMetrics(), ex.Metrics)

	stored, err := repo.GetByID(context.Background(), ex.ID)
	require.NoError(t, err)
	assert.Equal(t, "Romanian Deadlift", stored.Name)

	in := validExerciseInput()
	in.Name = "Rower"
	in.Category = "cardio"
	in.Metrics = &domain.ExerciseMetrics{Time: true, Distance: true}
	rower, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []domain.Metric{domain.MetricDuration, domain.MetricDistance}, rower.Metrics.Supported())
}

func TestExerciseService_CreateRejectsDuplicateName(t *testing.T) {
	repo := newMemExerciseRepo()
	svc := NewExerciseService(repo, catalog.NewCachedCatalog(repo, 1, time.Minute, nil), nil)

	_, err := svc.Create(context.Background(), validExerciseInput())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), validExerciseInput())
	assert.ErrorIs(t, err, ErrExerciseExists)
}

func TestExerciseService_CreateValidation(t *testing.T) {
	repo := newMemExerciseRepo()
	svc := NewExerciseService(repo, catalog.NewCachedCatalog(repo, 1, time.Minute, nil), nil)

	testCases := []struct {
		name   string
		mutate func(*ExerciseInput)
		want   string
	}{
		{"MissingName", func(in *ExerciseInput) { in.Name = "" }, "name is required"},
		{"BadDifficulty", func(in *ExerciseInput) { in.Difficulty = "expert" }, `invalid difficulty "expert"`},
		{"BadCategory", func(in *ExerciseInput) { in.Category = "yoga" }, `invalid category "yoga"`},
		{"BadMuscleGroup", func(in *ExerciseInput) { in.MuscleGroups = []string{"neck"} }, `invalid muscle group "neck"`},
		{"BadEquipment", func(in *ExerciseInput) { in.Equipment = []string{"sled"} }, `invalid equipment "sled"`},
		{"BadMedia", func(in *ExerciseInput) { in.Media = []domain.MediaItem{{Kind: "gif"}} }, "kind must be image or video"},
		{"NoTrackedMetric", func(in *ExerciseInput) { in.Metrics = &domain.ExerciseMetrics{Sets: true} }, "at least one"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := validExerciseInput()
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.ErrorContains(t, err, tc.want)
		})
	}
	assert.Empty(t, repo.exercises)
}

func TestExerciseService_UpdateEvictsCachedEntry(t *testing.T) {
	repo, squat := seedExercises(t)
	cat := catalog.NewCachedCatalog(repo, 1, time.Minute, nil)
	svc := NewExerciseService(repo, cat, nil)
	ctx := context.Background()

	// warm the cache
	_, err := cat.GetExercise(ctx, squat.ID)
	require.NoError(t, err)

	in := validExerciseInput()
	in.Name = "Back Squat"
	in.Metrics = &domain.ExerciseMetrics{Sets: true, Reps: true, Weight: true}
	updated, err := svc.Update(ctx, squat.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Back Squat", updated.Name)

	entry, err := cat.GetExercise(ctx, squat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Back Squat", entry.Name)
	assert.Equal(t, []domain.Metric{domain.MetricReps, domain.MetricWeight}, entry.SupportedMetrics)
	hits, misses := cat.Stats()
	assert.Equal(t, int64(0), hits)
	assert.Equal(t, int64(2), misses)

	// metrics left out keep their stored value
	in.Metrics = nil
	updated, err = svc.Update(ctx, squat.ID, in)
	require.NoError(t, err)
	assert.True(t, updated.Metrics.Weight)
}

func TestExerciseService_UpdateErrors(t *testing.T) {
	repo, squat := seedExercises(t)
	svc := NewExerciseService(repo, catalog.NewCachedCatalog(repo, 1, time.Minute, nil), nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, primitive.NewObjectID(), validExerciseInput())
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	in := validExerciseInput()
	in.Name = "Burpee"
	_, err = svc.Update(ctx, squat.ID, in)
	assert.ErrorIs(t, err, ErrExerciseExists)

	in.Category = ""
	_, err = svc.Update(ctx, squat.ID, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExerciseService_Delete(t *testing.T) {
	repo, squat := seedExercises(t)
	cat := catalog.NewCachedCatalog(repo, 1, time.Minute, nil)
	svc := NewExerciseService(repo, cat, nil)
	ctx := context.Background()

	_, err := cat.GetExercise(ctx, squat.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, squat.ID))
	_, err = cat.GetExercise(ctx, squat.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Get(ctx, squat.ID)
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, squat.ID), ErrExerciseNotFound)
}

func TestExerciseService_Vocabulary(t *testing.T) {
	svc := NewExerciseService(newMemExerciseRepo(), nil, nil)
	vocab := svc.Vocabulary()
	assert.Contains(t, vocab.Categories, "plyometric")
	assert.Contains(t, vocab.Equipment, "yoga_mat")
	assert.Equal(t, []domain.Level{domain.LevelBeginner, domain.LevelIntermediate, domain.LevelAdvanced}, vocab.Difficulties)

	// callers get their own copy
	vocab.Categories[0] = "changed"
	assert.Equal(t, "strength", svc.Vocabulary().Categories[0])
}

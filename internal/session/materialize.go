// Package session turns a routine day into a trackable session and keeps the
// live state of that session: timer, per-set completion and progress.
package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"alcyxob/workout-tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Catalog resolves exercise references at materialization time.
// Implementations return an error wrapping domain.ErrNotFound for unknown refs.
type Catalog interface {
	GetExercise(ctx context.Context, ref primitive.ObjectID) (*domain.CatalogEntry, error)
}

// Meta carries the draft fields that do not come from the plan.
type Meta struct {
	User primitive.ObjectID
	Date time.Time
}

// Materialize builds a session draft for plan.Days[dayIndex]. Every exercise
// slot becomes one ExerciseLog with max(targetSets, 1) sets seeded from the
// slot targets. Catalog lookups all happen before anything is built, so a
// missing exercise fails the whole call.
func Materialize(ctx context.Context, catalog Catalog, plan *domain.RoutinePlan, dayIndex int, meta Meta) (*domain.SessionDraft, error) {
	if plan == nil {
		return nil, &domain.NotFoundError{Entity: "routine"}
	}
	if dayIndex < 0 || dayIndex >= len(plan.Days) {
		return nil, &domain.NotFoundError{Entity: "routine day", ID: strconv.Itoa(dayIndex)}
	}
	day := plan.Days[dayIndex]

	entries := make(map[primitive.ObjectID]*domain.CatalogEntry, len(day.ExerciseSlots))
	for _, slot := range day.ExerciseSlots {
		if _, ok := entries[slot.ExerciseRef]; ok {
			continue
		}
		entry, err := catalog.GetExercise(ctx, slot.ExerciseRef)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, &domain.NotFoundError{Entity: "exercise", ID: slot.ExerciseRef.Hex()}
			}
			return nil, err
		}
		entries[slot.ExerciseRef] = entry
	}

	logs := make([]domain.ExerciseLog, len(day.ExerciseSlots))
	for i, slot := range day.ExerciseSlots {
		logs[i] = newExerciseLog(slot, entries[slot.ExerciseRef])
	}

	return &domain.SessionDraft{
		User:        meta.User,
		RoutineID:   plan.ID,
		DayNumber:   day.DayNumber,
		WorkoutName: day.Name,
		Date:        meta.Date,
		Exercises:   logs,
	}, nil
}

func newExerciseLog(slot domain.ExerciseSlot, entry *domain.CatalogEntry) domain.ExerciseLog {
	exLog := domain.ExerciseLog{
		ExerciseRef:    slot.ExerciseRef,
		Name:           entry.Name,
		TargetSets:     slot.TargetSets,
		TargetReps:     slot.TargetReps,
		TargetWeight:   slot.TargetWeight,
		TargetDuration: slot.TargetDuration,
		TargetDistance: slot.TargetDistance,
		TrackedMetrics: append([]domain.Metric{}, entry.SupportedMetrics...),
	}

	seed := domain.SetRecord{
		Reps:     slot.TargetReps,
		Weight:   slot.TargetWeight,
		Duration: slot.TargetDuration,
		Distance: slot.TargetDistance,
	}

	n := slot.TargetSets
	if n < 1 {
		n = 1
	}
	exLog.CompletedSets = make([]domain.SetRecord, n)
	for i := range exLog.CompletedSets {
		exLog.CompletedSets[i] = seed
	}
	return exLog
}

package session

import (
	"alcyxob/workout-tracker/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// PrepareForSave is the pre-persist hook. previous is the stored record, or
// nil when rec has never been saved. Progress is recomputed when the
// exercises differ from previous, when no progress has been computed yet, or
// when the supplied value is out of range; otherwise the stored value is
// trusted. It reports whether progress was recomputed.
//
// For an already persisted record the exercise and set structure must match
// previous: set values may change, set counts and exercise order may not.
// A session from a day with no exercises is valid and saves with progress 0.
func PrepareForSave(rec *domain.SessionRecord, previous *domain.SessionRecord) (bool, error) {
	for i, ex := range rec.Exercises {
		if len(ex.CompletedSets) == 0 {
			return false, domain.NewValidationError("exercise %d has no sets", i)
		}
	}

	modified := true
	if previous != nil {
		if err := sameStructure(previous.Exercises, rec.Exercises); err != nil {
			return false, err
		}
		modified = !ExercisesEqual(previous.Exercises, rec.Exercises)
	}

	if modified || rec.Progress <= 0 || rec.Progress > 100 {
		rec.Progress = ComputeProgress(rec.Exercises)
		return true, nil
	}
	return false, nil
}

// ExercisesEqual compares two exercise lists by value. Nil and empty slices
// are treated as equal since a round trip through storage does not keep the
// distinction.
func ExercisesEqual(a, b []domain.ExerciseLog) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}

func sameStructure(prev, next []domain.ExerciseLog) error {
	if len(prev) != len(next) {
		return domain.NewValidationError("saved session has %d exercises, got %d", len(prev), len(next))
	}
	for i := range prev {
		if prev[i].ExerciseRef != next[i].ExerciseRef {
			return domain.NewValidationError("exercise %d does not match the saved session", i)
		}
		if len(prev[i].CompletedSets) != len(next[i].CompletedSets) {
			return domain.NewValidationError("exercise %d: set count is fixed at %d", i, len(prev[i].CompletedSets))
		}
	}
	return nil
}

package session

import "alcyxob/workout-tracker/internal/domain"

// ComputeProgress returns the share of completed sets as an integer in
// [0,100], rounded half up. A session without sets is 0% complete.
func ComputeProgress(exercises []domain.ExerciseLog) int {
	total, done := 0, 0
	for _, ex := range exercises {
		total += len(ex.CompletedSets)
		for _, set := range ex.CompletedSets {
			if set.IsCompleted {
				done++
			}
		}
	}
	if total == 0 {
		return 0
	}
	// round(100*done/total) in integers: floor((200*done + total) / (2*total))
	return (200*done + total) / (2 * total)
}

package session

import (
	"testing"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
)

func exercisesWith(done ...[]bool) []domain.ExerciseLog {
	out := make([]domain.ExerciseLog, len(done))
	for i, sets := range done {
		out[i].CompletedSets = make([]domain.SetRecord, len(sets))
		for j, d := range sets {
			out[i].CompletedSets[j].IsCompleted = d
		}
	}
	return out
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name      string
		exercises []domain.ExerciseLog
		want      int
	}{
		{"no exercises", nil, 0},
		{"exercises without sets", exercisesWith([]bool{}, []bool{}), 0},
		{"none done", exercisesWith([]bool{false, false}), 0},
		{"three of four", exercisesWith([]bool{true, true}, []bool{true, false}), 75},
		{"all done", exercisesWith([]bool{true}, []bool{true, true}), 100},
		{"one third rounds down", exercisesWith([]bool{true, false, false}), 33},
		{"two thirds rounds up", exercisesWith([]bool{true, true, false}), 67},
		{"half up at .5", exercisesWith([]bool{true, false, false, false, false, false, false, false}), 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeProgress(tt.exercises))
		})
	}
}

func TestComputeProgress_Idempotent(t *testing.T) {
	ex := exercisesWith([]bool{true, false, true}, []bool{false})
	before := domain.CloneExercises(ex)

	first := ComputeProgress(ex)
	second := ComputeProgress(ex)
	assert.Equal(t, first, second)
	assert.Equal(t, before, ex)
}

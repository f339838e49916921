// internal/domain/session.go
package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SetRecord is one completable set. Values start at the exercise targets.
type SetRecord struct {
	Reps        int     `bson:"reps" json:"reps"`
	Weight      float64 `bson:"weight" json:"weight"`
	Distance    float64 `bson:"distance" json:"distance"`
	Duration    int     `bson:"duration" json:"duration"`
	IsCompleted bool    `bson:"isCompleted" json:"isCompleted"`
}

// ExerciseLog is the session snapshot of one exercise slot. The number of
// CompletedSets and the TrackedMetrics are fixed at materialization.
type ExerciseLog struct {
	ExerciseRef    primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Name           string             `bson:"name" json:"name"`
	TargetSets     int                `bson:"sets" json:"sets"`
	TargetReps     int                `bson:"targetReps" json:"targetReps"`
	TargetWeight   float64            `bson:"targetWeight" json:"targetWeight"`
	TargetDuration int                `bson:"targetDuration" json:"targetDuration"`
	TargetDistance float64            `bson:"targetDistance" json:"targetDistance"`
	TrackedMetrics []Metric           `bson:"trackedMetrics" json:"trackedMetrics"`
	CompletedSets  []SetRecord        `bson:"completedSets" json:"completedSets"`
}

// Tracks reports whether m was fixed as tracked for this exercise.
func (l *ExerciseLog) Tracks(m Metric) bool {
	for _, t := range l.TrackedMetrics {
		if t == m {
			return true
		}
	}
	return false
}

// SessionRecord is a dated instance of performing one routine day. Unsaved
// records (ID == NilObjectID) are drafts.
type SessionRecord struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	RoutineID       primitive.ObjectID `bson:"routineId" json:"routineId"`
	DayNumber       int                `bson:"dayNumber" json:"dayNumber"`
	WorkoutName     string             `bson:"workoutName" json:"workoutName"`
	Date            time.Time          `bson:"date" json:"date"`
	DurationSeconds int                `bson:"duration" json:"duration"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Progress        int                `bson:"progress" json:"progress"` // 0 means not computed yet
	Exercises       []ExerciseLog      `bson:"exercises" json:"exercises"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SessionDraft is an unpersisted SessionRecord.
type SessionDraft = SessionRecord

// IsDraft reports whether the record has never been persisted.
func (s *SessionRecord) IsDraft() bool {
	return s.ID == primitive.NilObjectID
}

// FormattedDuration renders the duration as "1h 5m" or "42m".
func (s *SessionRecord) FormattedDuration() string {
	mins := s.DurationSeconds / 60
	hrs := mins / 60
	if hrs > 0 {
		return fmt.Sprintf("%dh %dm", hrs, mins%60)
	}
	return fmt.Sprintf("%dm", mins)
}

// CloneExercises deep-copies an exercise list.
func CloneExercises(in []ExerciseLog) []ExerciseLog {
	out := make([]ExerciseLog, len(in))
	for i, ex := range in {
		out[i] = ex
		out[i].TrackedMetrics = append([]Metric(nil), ex.TrackedMetrics...)
		out[i].CompletedSets = append([]SetRecord(nil), ex.CompletedSets...)
	}
	return out
}

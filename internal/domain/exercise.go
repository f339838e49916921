// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Metric is one trackable dimension of a set.
type Metric string

const (
	MetricReps     Metric = "reps"
	MetricWeight   Metric = "weight"
	MetricDuration Metric = "duration"
	MetricDistance Metric = "distance"
)

// ExerciseMetrics declares which metrics a catalog exercise supports.
// Sets and Reps default to true on creation, the rest to false.
type ExerciseMetrics struct {
	Sets     bool `bson:"sets" json:"sets"`
	Reps     bool `bson:"reps" json:"reps"`
	Weight   bool `bson:"weight" json:"weight"`
	Time     bool `bson:"time" json:"time"`
	Distance bool `bson:"distance" json:"distance"`
}

// DefaultExerciseMetrics matches the catalog defaults for a new exercise.
func DefaultExerciseMetrics() ExerciseMetrics {
	return ExerciseMetrics{Sets: true, Reps: true}
}

// Supported lists the set-level metrics in a fixed order.
func (m ExerciseMetrics) Supported() []Metric {
	out := make([]Metric, 0, 4)
	if m.Reps {
		out = append(out, MetricReps)
	}
	if m.Weight {
		out = append(out, MetricWeight)
	}
	if m.Time {
		out = append(out, MetricDuration)
	}
	if m.Distance {
		out = append(out, MetricDistance)
	}
	return out
}

// MediaItem points at an object in the media bucket.
type MediaItem struct {
	ObjectKey string `bson:"objectKey" json:"-"`
	AltText   string `bson:"altText,omitempty" json:"altText,omitempty"`
	Kind      string `bson:"kind" json:"kind"` // "image" or "video"
}

// Exercise is a catalog entry. Routines reference it by ID; sessions copy its
// name at materialization time so later renames do not rewrite history.
type Exercise struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"` // unique
	Description  string             `bson:"description" json:"description"`
	MuscleGroups []string           `bson:"muscleGroups,omitempty" json:"muscleGroups,omitempty"` // e.g. "chest", "legs"
	Difficulty   Level              `bson:"difficulty" json:"difficulty"`
	Category     string             `bson:"category" json:"category"` // "strength", "cardio", ...
	Equipment    []string           `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Metrics      ExerciseMetrics    `bson:"metrics" json:"metrics"`
	Media        []MediaItem        `bson:"media,omitempty" json:"media,omitempty"`
	Tips         []string           `bson:"tips,omitempty" json:"tips,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseFilter narrows catalog listings. Empty fields are ignored.
type ExerciseFilter struct {
	MuscleGroup string
	Category    string
	Difficulty  Level
}

// CatalogEntry is the slice of a catalog exercise that materialization needs.
type CatalogEntry struct {
	ID               primitive.ObjectID `json:"id"`
	Name             string             `json:"name"`
	SupportedMetrics []Metric           `json:"supportedMetrics"`
}

// Entry projects the exercise to a CatalogEntry.
func (e *Exercise) Entry() CatalogEntry {
	return CatalogEntry{ID: e.ID, Name: e.Name, SupportedMetrics: e.Metrics.Supported()}
}

// ExerciseVocabulary is the closed set of values the catalog accepts for
// its descriptive fields.
type ExerciseVocabulary struct {
	MuscleGroups []string `json:"muscleGroups"`
	Difficulties []Level  `json:"difficulties"`
	Categories   []string `json:"categories"`
	Equipment    []string `json:"equipment"`
}

var exerciseVocabulary = ExerciseVocabulary{
	MuscleGroups: []string{"chest", "back", "shoulders", "biceps", "triceps", "legs", "glutes", "abs", "cardio", "full_body"},
	Difficulties: []Level{LevelBeginner, LevelIntermediate, LevelAdvanced},
	Categories:   []string{"strength", "cardio", "flexibility", "balance", "plyometric", "functional"},
	Equipment: []string{
		"none", "dumbbell", "barbell", "kettlebell", "resistance_band", "machine", "cable",
		"bodyweight", "medicine_ball", "stability_ball", "pull_up_bar", "bench", "yoga_mat",
	},
}

// CatalogVocabulary returns a copy of the accepted catalog values.
func CatalogVocabulary() ExerciseVocabulary {
	v := exerciseVocabulary
	v.MuscleGroups = append([]string(nil), v.MuscleGroups...)
	v.Difficulties = append([]Level(nil), v.Difficulties...)
	v.Categories = append([]string(nil), v.Categories...)
	v.Equipment = append([]string(nil), v.Equipment...)
	return v
}

// The Has methods report whether a value belongs to the vocabulary.
func (v ExerciseVocabulary) HasMuscleGroup(s string) bool { return contains(v.MuscleGroups, s) }
func (v ExerciseVocabulary) HasCategory(s string) bool    { return contains(v.Categories, s) }
func (v ExerciseVocabulary) HasEquipment(s string) bool   { return contains(v.Equipment, s) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

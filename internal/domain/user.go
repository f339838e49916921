package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an athlete account. Routines and sessions reference it by ID.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash    string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	FitnessLevel    Level              `bson:"fitnessLevel,omitempty" json:"fitnessLevel,omitempty"`
	Profile         Profile            `bson:"profile" json:"profile"`
	ProgressHistory []ProgressEntry    `bson:"progressHistory,omitempty" json:"progressHistory,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Defaults for a fresh profile.
const (
	DefaultWorkoutMinutes  = 45
	DefaultWorkoutsPerWeek = 3
)

// Measurement is a value with its unit, e.g. 80 "kg".
type Measurement struct {
	Value float64 `bson:"value" json:"value"`
	Unit  string  `bson:"unit" json:"unit"`
}

type HealthMetrics struct {
	Weight            *Measurement `bson:"weight,omitempty" json:"weight,omitempty"` // kg or lbs
	Height            *Measurement `bson:"height,omitempty" json:"height,omitempty"` // cm or ft
	BodyFatPercentage *float64     `bson:"bodyFatPercentage,omitempty" json:"bodyFatPercentage,omitempty"`
	RestingHeartRate  *int         `bson:"restingHeartRate,omitempty" json:"restingHeartRate,omitempty"`
}

type TrainingPreferences struct {
	WorkoutDuration    int      `bson:"workoutDuration" json:"workoutDuration"` // minutes
	WorkoutsPerWeek    int      `bson:"workoutsPerWeek" json:"workoutsPerWeek"`
	PreferredExercises []string `bson:"preferredExercises,omitempty" json:"preferredExercises,omitempty"`
	ExcludedExercises  []string `bson:"excludedExercises,omitempty" json:"excludedExercises,omitempty"`
}

// Profile is the self-reported training background of a user. The fitness
// level lives on User itself.
type Profile struct {
	Goals             []Goal              `bson:"goals,omitempty" json:"goals,omitempty"`
	HealthMetrics     HealthMetrics       `bson:"healthMetrics" json:"healthMetrics"`
	MedicalConditions []string            `bson:"medicalConditions,omitempty" json:"medicalConditions,omitempty"`
	Injuries          []string            `bson:"injuries,omitempty" json:"injuries,omitempty"`
	Preferences       TrainingPreferences `bson:"preferences" json:"preferences"`
}

// DefaultProfile is the profile a new account starts with.
func DefaultProfile() Profile {
	return Profile{Preferences: TrainingPreferences{
		WorkoutDuration: DefaultWorkoutMinutes,
		WorkoutsPerWeek: DefaultWorkoutsPerWeek,
	}}
}

// BodyMeasurements are circumferences in the user's length unit.
type BodyMeasurements struct {
	Chest float64 `bson:"chest,omitempty" json:"chest,omitempty"`
	Waist float64 `bson:"waist,omitempty" json:"waist,omitempty"`
	Hips  float64 `bson:"hips,omitempty" json:"hips,omitempty"`
	Arms  float64 `bson:"arms,omitempty" json:"arms,omitempty"`
	Legs  float64 `bson:"legs,omitempty" json:"legs,omitempty"`
}

// ProgressEntry is one dated body check-in.
type ProgressEntry struct {
	Date              time.Time         `bson:"date" json:"date"`
	Weight            *float64          `bson:"weight,omitempty" json:"weight,omitempty"`
	BodyFatPercentage *float64          `bson:"bodyFatPercentage,omitempty" json:"bodyFatPercentage,omitempty"`
	Measurements      *BodyMeasurements `bson:"measurements,omitempty" json:"measurements,omitempty"`
}

// Empty reports whether the entry records nothing.
func (p ProgressEntry) Empty() bool {
	return p.Weight == nil && p.BodyFatPercentage == nil &&
		(p.Measurements == nil || *p.Measurements == BodyMeasurements{})
}

// internal/domain/routine.go
package domain

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Level is the intended athlete level of a routine.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Goal is the training goal a routine is built for.
type Goal string

const (
	GoalWeightLoss     Goal = "weight_loss"
	GoalMuscleGain     Goal = "muscle_gain"
	GoalEndurance      Goal = "endurance"
	GoalStrength       Goal = "strength"
	GoalFlexibility    Goal = "flexibility"
	GoalGeneralFitness Goal = "general_fitness"
)

const (
	MinDaysPerWeek = 1
	MaxDaysPerWeek = 7
)

func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

func (g Goal) Valid() bool {
	switch g {
	case GoalWeightLoss, GoalMuscleGain, GoalEndurance, GoalStrength, GoalFlexibility, GoalGeneralFitness:
		return true
	}
	return false
}

// RoutinePlan is a reusable weekly training template owned by one user.
// len(Days) == DaysPerWeek must hold after every successful edit.
type RoutinePlan struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner             primitive.ObjectID `bson:"user" json:"user"`
	Name              string             `bson:"name" json:"name"`
	Description       string             `bson:"description,omitempty" json:"description,omitempty"`
	Level             Level              `bson:"level" json:"level"`
	Goal              Goal               `bson:"goal" json:"goal"`
	DaysPerWeek       int                `bson:"daysPerWeek" json:"daysPerWeek"`
	EstimatedDuration int                `bson:"estimatedDuration" json:"estimatedDuration"` // minutes
	Days              []RoutineDay       `bson:"workouts" json:"workouts"`
	Tags              []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	IsTemplate        bool               `bson:"isTemplate" json:"isTemplate"`
	IsPublic          bool               `bson:"isPublic" json:"isPublic"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	ModifiedAt        time.Time          `bson:"modifiedAt" json:"modifiedAt"`
}

// RoutineDay is one day's worth of planned exercises. It is owned by its plan
// and never referenced by id.
type RoutineDay struct {
	DayNumber     int            `bson:"day" json:"day"` // 1 = Monday ... 7 = Sunday
	Name          string         `bson:"name" json:"name"`
	ExerciseSlots []ExerciseSlot `bson:"exercises" json:"exercises"`
	WarmupSlots   []AuxSlot      `bson:"warmup" json:"warmup"`
	CooldownSlots []AuxSlot      `bson:"cooldown" json:"cooldown"`
}

// ExerciseSlot is a planned exercise with target metrics. A zero target means
// "not tracked" when the catalog exercise does not support that metric.
type ExerciseSlot struct {
	ExerciseRef    primitive.ObjectID `bson:"exercise" json:"exercise"`
	TargetSets     int                `bson:"sets" json:"sets"`
	TargetReps     int                `bson:"reps" json:"reps"`
	TargetWeight   float64            `bson:"weight" json:"weight"`
	TargetDuration int                `bson:"duration" json:"duration"` // seconds
	TargetDistance float64            `bson:"distance" json:"distance"` // meters
	Rest           int                `bson:"rest,omitempty" json:"rest,omitempty"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// AuxSlot is a warmup or cooldown entry. Exercise is optional.
type AuxSlot struct {
	ExerciseRef *primitive.ObjectID `bson:"exercise,omitempty" json:"exercise,omitempty"`
	Duration    int                 `bson:"duration,omitempty" json:"duration,omitempty"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
}

// Clone returns a deep copy of the day; no slices are shared with d.
func (d RoutineDay) Clone() RoutineDay {
	out := RoutineDay{
		DayNumber:     d.DayNumber,
		Name:          d.Name,
		ExerciseSlots: append([]ExerciseSlot(nil), d.ExerciseSlots...),
		WarmupSlots:   cloneAux(d.WarmupSlots),
		CooldownSlots: cloneAux(d.CooldownSlots),
	}
	if out.ExerciseSlots == nil {
		out.ExerciseSlots = []ExerciseSlot{}
	}
	return out
}

func cloneAux(in []AuxSlot) []AuxSlot {
	out := make([]AuxSlot, len(in))
	for i, s := range in {
		out[i] = s
		if s.ExerciseRef != nil {
			ref := *s.ExerciseRef
			out[i].ExerciseRef = &ref
		}
	}
	return out
}

// NewBlankDay returns an empty day numbered n and named "Day n".
func NewBlankDay(n int) RoutineDay {
	return RoutineDay{
		DayNumber:     n,
		Name:          "Day " + strconv.Itoa(n),
		ExerciseSlots: []ExerciseSlot{},
		WarmupSlots:   []AuxSlot{},
		CooldownSlots: []AuxSlot{},
	}
}

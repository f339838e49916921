package routine

import (
	"fmt"

	"alcyxob/workout-tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/multierr"
)

// Validate checks every structural rule a plan must satisfy before it is
// saved and reports all violations at once.
func Validate(plan *domain.RoutinePlan) error {
	var errs error

	if plan.Owner == primitive.NilObjectID {
		errs = multierr.Append(errs, fmt.Errorf("owner is required"))
	}
	if plan.Name == "" {
		errs = multierr.Append(errs, fmt.Errorf("name is required"))
	}
	if !plan.Level.Valid() {
		errs = multierr.Append(errs, fmt.Errorf("invalid level %q", plan.Level))
	}
	if !plan.Goal.Valid() {
		errs = multierr.Append(errs, fmt.Errorf("invalid goal %q", plan.Goal))
	}
	if plan.EstimatedDuration <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("estimatedDuration must be positive"))
	}
	if plan.DaysPerWeek < domain.MinDaysPerWeek || plan.DaysPerWeek > domain.MaxDaysPerWeek {
		errs = multierr.Append(errs, fmt.Errorf("daysPerWeek must be between %d and %d", domain.MinDaysPerWeek, domain.MaxDaysPerWeek))
	}
	if len(plan.Days) != plan.DaysPerWeek {
		errs = multierr.Append(errs, fmt.Errorf("plan has %d days but daysPerWeek is %d", len(plan.Days), plan.DaysPerWeek))
	}
	if plan.IsPublic && !plan.IsTemplate {
		errs = multierr.Append(errs, fmt.Errorf("a public routine must be a template"))
	}

	for i, day := range plan.Days {
		if day.DayNumber < 1 || day.DayNumber > 7 {
			errs = multierr.Append(errs, fmt.Errorf("day %d: day number %d outside 1..7", i, day.DayNumber))
		}
		if day.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("day %d: name is required", i))
		}
		for j, slot := range day.ExerciseSlots {
			if slot.ExerciseRef == primitive.NilObjectID {
				errs = multierr.Append(errs, fmt.Errorf("day %d slot %d: exercise is required", i, j))
			}
			if slot.TargetSets < 0 || slot.TargetReps < 0 || slot.TargetWeight < 0 ||
				slot.TargetDuration < 0 || slot.TargetDistance < 0 {
				errs = multierr.Append(errs, fmt.Errorf("day %d slot %d: targets must not be negative", i, j))
			}
		}
	}

	if errs != nil {
		return &domain.ValidationError{Reason: "invalid routine", Cause: errs}
	}
	return nil
}

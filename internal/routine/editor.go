// Package routine holds the structural edit rules for routine plans: resizing
// the day count, cloning templates, validation and access checks.
package routine

import (
	"time"

	"alcyxob/workout-tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const copySuffix = " (Copy)"

// ResizeResult describes what SetDaysPerWeek did.
type ResizeResult struct {
	Applied  bool // days were added or removed
	Rejected bool // a shrink was refused for lack of confirmation
	Previous int
	Current  int
}

// SetDaysPerWeek grows or shrinks plan.Days to newCount.
//
// Growing appends blank days numbered from the current count + 1. Shrinking
// discards the trailing days and only happens when confirmed is true; an
// unconfirmed shrink leaves the plan untouched and reverts DaysPerWeek to the
// actual day count. len(plan.Days) == plan.DaysPerWeek holds on every return.
func SetDaysPerWeek(plan *domain.RoutinePlan, newCount int, confirmed bool) (ResizeResult, error) {
	if newCount < domain.MinDaysPerWeek || newCount > domain.MaxDaysPerWeek {
		return ResizeResult{}, domain.NewValidationError("daysPerWeek must be between %d and %d, got %d",
			domain.MinDaysPerWeek, domain.MaxDaysPerWeek, newCount)
	}

	current := len(plan.Days)
	res := ResizeResult{Previous: current, Current: current}

	switch {
	case newCount > current:
		for n := current + 1; n <= newCount; n++ {
			plan.Days = append(plan.Days, domain.NewBlankDay(n))
		}
		res.Applied = true
	case newCount < current:
		if !confirmed {
			res.Rejected = true
			break
		}
		// Copy so the dropped tail does not stay reachable through the backing array.
		kept := make([]domain.RoutineDay, newCount)
		copy(kept, plan.Days[:newCount])
		plan.Days = kept
		res.Applied = true
	}

	plan.DaysPerWeek = len(plan.Days)
	res.Current = plan.DaysPerWeek
	return res, nil
}

// CloneTemplate copies a template into a new private plan owned by user.
// Days and slots are copied by value; the result shares nothing with template.
func CloneTemplate(template *domain.RoutinePlan, user primitive.ObjectID, now time.Time) (*domain.RoutinePlan, error) {
	if template == nil {
		return nil, &domain.NotFoundError{Entity: "template"}
	}
	if !template.IsTemplate {
		return nil, domain.NewValidationError("routine %s is not a template", template.ID.Hex())
	}

	days := make([]domain.RoutineDay, len(template.Days))
	for i, d := range template.Days {
		days[i] = d.Clone()
	}

	return &domain.RoutinePlan{
		Owner:             user,
		Name:              template.Name + copySuffix,
		Description:       template.Description,
		Level:             template.Level,
		Goal:              template.Goal,
		DaysPerWeek:       template.DaysPerWeek,
		EstimatedDuration: template.EstimatedDuration,
		Days:              days,
		Tags:              append([]string(nil), template.Tags...),
		IsTemplate:        false,
		IsPublic:          false,
		CreatedAt:         now,
		ModifiedAt:        now,
	}, nil
}

// InitDays fills an empty plan with DaysPerWeek blank days.
func InitDays(plan *domain.RoutinePlan) {
	if len(plan.Days) > 0 {
		return
	}
	plan.Days = make([]domain.RoutineDay, 0, plan.DaysPerWeek)
	for n := 1; n <= plan.DaysPerWeek; n++ {
		plan.Days = append(plan.Days, domain.NewBlankDay(n))
	}
}

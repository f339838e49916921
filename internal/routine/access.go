package routine

import (
	"alcyxob/workout-tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanAccess reports whether user may read plan: owners always, everyone else
// only for public templates.
func CanAccess(user primitive.ObjectID, plan *domain.RoutinePlan) bool {
	if plan == nil {
		return false
	}
	return plan.Owner == user || (plan.IsTemplate && plan.IsPublic)
}

// CanModify reports whether user may edit or delete plan.
func CanModify(user primitive.ObjectID, plan *domain.RoutinePlan) bool {
	return plan != nil && plan.Owner == user
}

// internal/repository/mongo/routine_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const routineCollectionName = "routines"

// mongoRoutineRepository implements repository.RoutineRepository
type mongoRoutineRepository struct {
	collection *mongo.Collection
}

// NewMongoRoutineRepository creates a new Routine repository.
func NewMongoRoutineRepository(db *mongo.Database) repository.RoutineRepository {
	return &mongoRoutineRepository{
		collection: db.Collection(routineCollectionName),
	}
}

// Create inserts a new routine plan. CreatedAt is kept when the caller
// already set it (clones carry their clone time).
func (r *mongoRoutineRepository) Create(ctx context.Context, plan *domain.RoutinePlan) (primitive.ObjectID, error) {
	if plan.Owner == primitive.NilObjectID || plan.Name == "" {
		return primitive.NilObjectID, errors.New("routine requires user and name")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.ModifiedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		plan.ID = primitive.NilObjectID
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted routine ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single routine plan by its ID.
func (r *mongoRoutineRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutinePlan, error) {
	var plan domain.RoutinePlan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// ListByOwner retrieves all routines owned by a user, most recently modified first.
func (r *mongoRoutineRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]domain.RoutinePlan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "modifiedAt", Value: -1}})
	return r.find(ctx, bson.M{"user": owner}, findOptions)
}

// ListTemplates retrieves one page of public templates plus the total number
// of matches for pagination.
func (r *mongoRoutineRepository) ListTemplates(ctx context.Context, filter repository.TemplateFilter, page repository.Page) ([]domain.RoutinePlan, int64, error) {
	query := bson.M{"isTemplate": true, "isPublic": true}
	if filter.Goal != "" {
		query["goal"] = filter.Goal
	}
	if filter.Level != "" {
		query["level"] = filter.Level
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip())
	if page.Limit > 0 {
		findOptions.SetLimit(int64(page.Limit))
	}

	plans, err := r.find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}

// Update replaces the editable fields of a routine. Owner, creation time and
// the template flag never change through an update.
func (r *mongoRoutineRepository) Update(ctx context.Context, plan *domain.RoutinePlan) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("routine ID is required for update")
	}
	plan.ModifiedAt = time.Now().UTC()

	filter := bson.M{"_id": plan.ID, "user": plan.Owner}
	update := bson.M{
		"$set": bson.M{
			"name":              plan.Name,
			"description":       plan.Description,
			"level":             plan.Level,
			"goal":              plan.Goal,
			"daysPerWeek":       plan.DaysPerWeek,
			"estimatedDuration": plan.EstimatedDuration,
			"workouts":          plan.Days,
			"tags":              plan.Tags,
			"isPublic":          plan.IsPublic,
			"modifiedAt":        plan.ModifiedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a routine, ensuring it belongs to the specified user.
func (r *mongoRoutineRepository) Delete(ctx context.Context, id primitive.ObjectID, owner primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user": owner})
	if err != nil {
		return err
	}
	// Not found and not owned look the same from here
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoRoutineRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.RoutinePlan, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []domain.RoutinePlan{}
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

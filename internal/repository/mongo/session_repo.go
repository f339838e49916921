// internal/repository/mongo/session_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/session"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollectionName = "workout_sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new Session repository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Save inserts a draft or updates a persisted record. Either way the
// pre-persist hook runs first, so stored progress always matches the stored
// sets.
func (r *mongoSessionRepository) Save(ctx context.Context, rec *domain.SessionRecord) error {
	if rec.User == primitive.NilObjectID {
		return errors.New("session requires a user")
	}

	var previous *domain.SessionRecord
	if !rec.IsDraft() {
		prev, err := r.GetByID(ctx, rec.ID)
		if err != nil {
			return err
		}
		if prev.User != rec.User {
			return repository.ErrNotFound
		}
		previous = prev
	}

	if _, err := session.PrepareForSave(rec, previous); err != nil {
		return err
	}

	now := time.Now().UTC()
	if previous == nil {
		return r.insert(ctx, rec, now)
	}

	filter := bson.M{"_id": rec.ID, "user": rec.User}
	update := bson.M{
		"$set": bson.M{
			"exercises": rec.Exercises,
			"notes":     rec.Notes,
			"progress":  rec.Progress,
			"duration":  rec.DurationSeconds,
			"updatedAt": now,
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	rec.CreatedAt = previous.CreatedAt
	rec.UpdatedAt = now
	return nil
}

func (r *mongoSessionRepository) insert(ctx context.Context, rec *domain.SessionRecord, now time.Time) error {
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, rec); err != nil {
		// leave the record a draft so the caller can retry
		rec.ID = primitive.NilObjectID
		return err
	}
	return nil
}

// GetByID retrieves a single session record.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionRecord, error) {
	var rec domain.SessionRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ListByUser retrieves a user's session history, most recent first.
func (r *mongoSessionRepository) ListByUser(ctx context.Context, user primitive.ObjectID, page repository.Page) ([]domain.SessionRecord, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip())
	if page.Limit > 0 {
		findOptions.SetLimit(int64(page.Limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"user": user}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []domain.SessionRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateNotes changes only the notes of a session owned by user. Sets are
// untouched, so the stored progress stays valid.
func (r *mongoSessionRepository) UpdateNotes(ctx context.Context, id primitive.ObjectID, user primitive.ObjectID, notes string) error {
	filter := bson.M{"_id": id, "user": user}
	update := bson.M{"$set": bson.M{"notes": notes, "updatedAt": time.Now().UTC()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

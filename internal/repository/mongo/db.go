package mongo

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/multierr"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary node to verify the connection. The initial connect can
	// succeed against a server that is not answering yet.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// collectionIndexes lists the indexes each collection needs.
var collectionIndexes = map[string][]mongo.IndexModel{
	userCollectionName: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	exerciseCollectionName: {
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "muscleGroups", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "difficulty", Value: 1}}},
	},
	routineCollectionName: {
		// My routines, newest edit first
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "modifiedAt", Value: -1}}},
		// Public template browsing
		{Keys: bson.D{{Key: "isTemplate", Value: 1}, {Key: "isPublic", Value: 1}, {Key: "goal", Value: 1}, {Key: "level", Value: 1}}},
	},
	sessionCollectionName: {
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "routineId", Value: 1}}},
	},
}

// EnsureIndexes creates the indexes for every collection. Failures are logged
// and collected; the caller decides whether they are fatal.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	var errs error
	for name, models := range collectionIndexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			logrus.WithError(err).WithField("collection", name).Warn("failed to create indexes")
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

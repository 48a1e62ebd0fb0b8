package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureIndexes creates every index the storage adapters rely on. It is
// idempotent and safe to run on every startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		accountsCollection: {
			{
				Keys: bson.D{
					{Key: "provider", Value: 1},
					{Key: "providerAccountId", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "userId", Value: 1}},
			},
		},
		tokensCollection: {
			{
				Keys: bson.D{
					{Key: "email", Value: 1},
					{Key: "type", Value: 1},
				},
			},
			// Server-side sweep of stale codes; expiry is still checked
			// explicitly at verification time.
			{
				Keys:    bson.D{{Key: "expiresAt", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(600),
			},
		},
		sessionsCollection: {
			{
				Keys:    bson.D{{Key: "tokenDigest", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "expiresAt", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0),
			},
		},
		notesCollection: {
			{
				Keys: bson.D{
					{Key: "userId", Value: 1},
					{Key: "date", Value: -1},
				},
			},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes for %s: %w", collection, err)
		}
	}
	return nil
}

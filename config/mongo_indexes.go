package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongorepo "github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/repositories/mongo"
)

// RefreshLogIndexes are the indexes the embedding_refreshes collection relies on.
func RefreshLogIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			// expires_at must be a BSON date for the TTL monitor to pick it up
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("ttl_expires_at").SetExpireAfterSeconds(0),
		},
		{
			Keys:    bson.D{{Key: "attempt_id", Value: 1}},
			Options: options.Index().SetName("uniq_attempt_id").SetUnique(true),
		},
		{
			// serves ListByOwner
			Keys: bson.D{
				{Key: "owner_kind", Value: 1},
				{Key: "owner_id", Value: 1},
				{Key: "started_at", Value: -1},
			},
			Options: options.Index().SetName("by_owner_started"),
		},
	}
}

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	col := MongoDatabase().Collection(mongorepo.RefreshLogCollection)
	_, err := col.Indexes().CreateMany(ctx, RefreshLogIndexes())
	return err
}

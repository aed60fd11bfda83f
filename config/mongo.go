package config

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient holds the refresh-log connection. It stays nil when MONGO_URI is unset.
var MongoClient *mongo.Client

var ErrMongoNotConfigured = errors.New("MONGO_URI environment variable is not set")

func InitMongo() error {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		return ErrMongoNotConfigured
	}
	timeout, err := envDuration("MONGO_CONNECT_TIMEOUT", 15*time.Second)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*timeout)
	defer cancel()

	// refresh-log writes are small and bursty; a short pool is plenty
	clientOpts := options.Client().ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout).
		SetMaxPoolSize(10).
		SetMinPoolSize(1).
		SetAppName("matcher")

	// Atlas + Go 1.24 TLS negotiation workaround
	if os.Getenv("MONGO_FORCE_TLS_CONFIG") == "true" {
		clientOpts = clientOpts.SetTLSConfig(&tls.Config{
			InsecureSkipVerify: os.Getenv("MONGO_INSECURE_TLS") == "true",
			MinVersion:         tls.VersionTLS12,
			MaxVersion:         tls.VersionTLS12,
		})
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("mongo ping: %w", err)
	}

	MongoClient = client
	return nil
}

// MongoDatabase returns the configured database (MONGO_DB, default "matcher").
func MongoDatabase() *mongo.Database {
	return MongoClient.Database(envOr("MONGO_DB", "matcher"))
}

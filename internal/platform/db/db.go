package db

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Yamanxl9/employee-management-system/internal/platform/config"
)

// Connect opens a Mongo client and returns the application database handle.
// Connect itself does not fail when the server is unreachable; callers decide
// whether a failed Ping degrades or aborts startup.
func Connect(ctx context.Context, cfg config.Config) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Database(cfg.MongoDatabase), nil
}

func Ping(ctx context.Context, client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(ctx, nil)
}

// EnsureIndexes creates the indexes the search and reference lookups rely on.
// Best effort: index creation failures are logged, not fatal.
func EnsureIndexes(ctx context.Context, database *mongo.Database) {
	unique := options.Index().SetUnique(true)

	specs := map[string][]mongo.IndexModel{
		"employees": {
			{Keys: bson.D{{Key: "staff_no", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "nationality_code", Value: 1}}},
			{Keys: bson.D{{Key: "company_code", Value: 1}, {Key: "department_code", Value: 1}}},
			{Keys: bson.D{{Key: "job_code", Value: 1}}},
			{Keys: bson.D{{Key: "card_expiry_date", Value: 1}}},
			{Keys: bson.D{{Key: "emirates_id_expiry", Value: 1}}},
			{Keys: bson.D{{Key: "residence_expiry_date", Value: 1}}},
			{Keys: bson.D{{Key: "create_date_time", Value: 1}}},
		},
		"companies": {
			{Keys: bson.D{{Key: "company_code", Value: 1}}, Options: unique},
		},
		"jobs": {
			{Keys: bson.D{{Key: "job_code", Value: 1}}, Options: unique},
		},
		"departments": {
			{Keys: bson.D{{Key: "department_code", Value: 1}}, Options: unique},
		},
		"users": {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		},
		"audit_logs": {
			{Keys: bson.D{{Key: "timestamp", Value: 1}}},
		},
	}

	for collection, models := range specs {
		if _, err := database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			slog.Warn("index creation failed", "collection", collection, "err", err)
		}
	}
}

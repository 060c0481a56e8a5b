package db

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"techsphere/cmd/internal/logger"
	"techsphere/config"
)

var (
	clientOnce sync.Once
	client     *mongo.Client
	db         *mongo.Database
)

// Init initializes the global Mongo client and database using config values.
func Init(ctx context.Context, cfg config.StorageConfig) error {
	var initErr error
	clientOnce.Do(func() {
		uri := cfg.MongoURI
		if uri == "" {
			// docker-compose default
			uri = "mongodb://localhost:27017/techsphere"
		}
		dbName := cfg.MongoDBName
		if dbName == "" {
			dbName = "techsphere"
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		cl, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			initErr = err
			return
		}
		if err := cl.Ping(ctx, readpref.Primary()); err != nil {
			_ = cl.Disconnect(context.Background())
			initErr = err
			return
		}
		client = cl
		db = client.Database(dbName)

		if err := ensureIndexes(ctx, db); err != nil {
			initErr = err
			return
		}
		logger.InfoWithFields("MongoDB connected and indexes ensured", logger.Fields{
			"database": dbName,
		})
	})
	return initErr
}

func Client() *mongo.Client     { return client }
func Database() *mongo.Database { return db }

// Ping reports whether the primary is reachable. Used by the health check.
func Ping(ctx context.Context) error {
	if client == nil {
		return errors.New("mongo client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(ctx, readpref.Primary())
}

func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

func ensureIndexes(ctx context.Context, d *mongo.Database) error {
	// blogs: listing by created_at, per-author listing, tag filter
	{
		if _, err := d.Collection("blogs").Indexes().CreateMany(ctx, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_created_at_desc"),
			},
			{
				Keys:    bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_author_created_at"),
			},
			{
				Keys:    bson.D{{Key: "tags", Value: 1}},
				Options: options.Index().SetName("idx_tags"),
			},
		}); err != nil {
			return err
		}
	}

	// comments: newest first per blog
	{
		if _, err := d.Collection("comments").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "blog_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_blog_created_at"),
		}); err != nil {
			return err
		}
	}

	// ratings: cascade delete by blog
	{
		if _, err := d.Collection("ratings").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "blog_id", Value: 1}},
			Options: options.Index().SetName("idx_blog_id"),
		}); err != nil {
			return err
		}
	}
	return nil
}

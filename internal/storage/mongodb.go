package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/cyderes/post-viewer/internal/config"
	"github.com/cyderes/post-viewer/internal/models"
)

const mongoDatabase = "post_viewer"

// MongoDBStorage implements Storage interface using MongoDB
type MongoDBStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoDBStorage connects to cfg.MongoDBURI and uses TableName as the collection
func NewMongoDBStorage(cfg config.StorageConfig) (*MongoDBStorage, error) {
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required for mongodb storage")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDBURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoDBStorage{
		client:     client,
		collection: client.Database(mongoDatabase).Collection(cfg.TableName),
	}, nil
}

// RecordRefresh stores one refresh record
func (m *MongoDBStorage) RecordRefresh(ctx context.Context, record models.RefreshRecord) error {
	if _, err := m.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to store refresh %s: %w", record.ID, err)
	}
	return nil
}

// RecentRefreshes returns up to limit records, newest first
func (m *MongoDBStorage) RecentRefreshes(ctx context.Context, limit int) ([]models.RefreshRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := m.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query refreshes: %w", err)
	}

	var records []models.RefreshRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode refreshes: %w", err)
	}

	return records, nil
}

// Close disconnects the MongoDB client
func (m *MongoDBStorage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

package storage

import (
	"context"
	"fmt"

	"github.com/cyderes/post-viewer/internal/config"
	"github.com/cyderes/post-viewer/internal/models"
)

// Storage interface defines the contract for the refresh log
type Storage interface {
	RecordRefresh(ctx context.Context, record models.RefreshRecord) error
	RecentRefreshes(ctx context.Context, limit int) ([]models.RefreshRecord, error)
	Close() error
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "memory", "":
		return NewMemoryStorage(defaultMemoryCapacity), nil
	case "dynamodb":
		return NewDynamoDBStorage(cfg)
	case "mongodb":
		return NewMongoDBStorage(cfg)
	case "postgresql":
		return NewPostgreSQLStorage(cfg)
	case "badger":
		return NewBadgerStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

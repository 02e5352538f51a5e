package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/cyderes/post-viewer/internal/config"
	"github.com/cyderes/post-viewer/internal/models"
)

var refreshPrefix = []byte("refresh:")

// BadgerStorage implements Storage interface on an embedded Badger database.
// Keys sort by start time so a reverse scan yields newest first.
type BadgerStorage struct {
	db    *badger.DB
	mutex sync.RWMutex
}

// NewBadgerStorage opens (or creates) the database at cfg.BadgerPath
func NewBadgerStorage(cfg config.StorageConfig) (*BadgerStorage, error) {
	opts := badger.DefaultOptions(cfg.BadgerPath).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if cfg.BadgerPath == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", cfg.BadgerPath, err)
	}
	return &BadgerStorage{db: db}, nil
}

func refreshKey(record models.RefreshRecord) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", refreshPrefix, record.StartedAt.UnixNano(), record.ID))
}

// RecordRefresh stores one refresh record
func (b *BadgerStorage) RecordRefresh(ctx context.Context, record models.RefreshRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal refresh %s: %w", record.ID, err)
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(refreshKey(record), data)
	})
}

// RecentRefreshes returns up to limit records, newest first
func (b *BadgerStorage) RecentRefreshes(ctx context.Context, limit int) ([]models.RefreshRecord, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	var records []models.RefreshRecord
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = refreshPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append(append([]byte{}, refreshPrefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(refreshPrefix) && len(records) < limit; it.Next() {
			var rec models.RefreshRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read refreshes: %w", err)
	}

	return records, nil
}

// Close closes the Badger database
func (b *BadgerStorage) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.db.Close()
}

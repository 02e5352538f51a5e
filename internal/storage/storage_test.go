package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyderes/post-viewer/internal/config"
	"github.com/cyderes/post-viewer/internal/models"
)

func sampleRecords(n int) []models.RefreshRecord {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	records := make([]models.RefreshRecord, n)
	for i := range records {
		records[i] = models.RefreshRecord{
			ID:         fmt.Sprintf("refresh-%d", i),
			UserID:     i%3 + 1,
			Generation: uint64(i + 1),
			Articles:   10,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + time.Second),
		}
	}
	return records
}

func exerciseStorage(t *testing.T, store Storage) {
	ctx := context.Background()
	for _, rec := range sampleRecords(5) {
		require.NoError(t, store.RecordRefresh(ctx, rec))
	}

	recent, err := store.RecentRefreshes(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "refresh-4", recent[0].ID)
	assert.Equal(t, "refresh-3", recent[1].ID)
	assert.Equal(t, "refresh-2", recent[2].ID)
	assert.Equal(t, uint64(5), recent[0].Generation)
	assert.True(t, recent[0].StartedAt.Equal(sampleRecords(5)[4].StartedAt))
}

func TestNewStorage_Memory(t *testing.T) {
	store, err := NewStorage(config.StorageConfig{Type: "memory"})
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &MemoryStorage{}, store)
}

func TestNewStorage_Unsupported(t *testing.T) {
	store, err := NewStorage(config.StorageConfig{Type: "cassandra"})
	assert.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "unsupported storage type")
}

func TestNewStorage_MissingURIs(t *testing.T) {
	_, err := NewStorage(config.StorageConfig{Type: "mongodb", TableName: "refresh_log"})
	assert.ErrorContains(t, err, "MONGODB_URI")

	_, err = NewStorage(config.StorageConfig{Type: "postgresql", TableName: "refresh_log"})
	assert.ErrorContains(t, err, "POSTGRES_URI")
}

func TestNewPostgreSQLStorage_RejectsTableName(t *testing.T) {
	_, err := NewPostgreSQLStorage(config.StorageConfig{PostgresURI: "postgres://localhost/db", TableName: "log; DROP TABLE x"})
	assert.ErrorContains(t, err, "invalid table name")
}

func TestMemoryStorage_RecentRefreshes(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage(10))
}

func TestMemoryStorage_EvictsOldest(t *testing.T) {
	store := NewMemoryStorage(2)
	ctx := context.Background()
	for _, rec := range sampleRecords(4) {
		require.NoError(t, store.RecordRefresh(ctx, rec))
	}

	recent, err := store.RecentRefreshes(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "refresh-3", recent[0].ID)
	assert.Equal(t, "refresh-2", recent[1].ID)
}

func TestMemoryStorage_ZeroLimit(t *testing.T) {
	store := NewMemoryStorage(2)
	require.NoError(t, store.RecordRefresh(context.Background(), sampleRecords(1)[0]))

	recent, err := store.RecentRefreshes(context.Background(), 0)
	assert.NoError(t, err)
	assert.Empty(t, recent)
}

func TestBadgerStorage_RecentRefreshes(t *testing.T) {
	store, err := NewBadgerStorage(config.StorageConfig{BadgerPath: t.TempDir()})
	require.NoError(t, err)
	defer store.Close()

	exerciseStorage(t, store)
}

func TestBadgerStorage_InMemory(t *testing.T) {
	store, err := NewBadgerStorage(config.StorageConfig{})
	require.NoError(t, err)
	defer store.Close()

	exerciseStorage(t, store)
}

func TestNewestFirst(t *testing.T) {
	records := sampleRecords(4)
	records[0], records[3] = records[3], records[0]

	sorted := newestFirst(records, 2)

	require.Len(t, sorted, 2)
	assert.Equal(t, "refresh-3", sorted[0].ID)
	assert.Equal(t, "refresh-2", sorted[1].ID)
}

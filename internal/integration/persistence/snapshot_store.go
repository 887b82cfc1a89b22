package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/tyreledger/backend/internal/application/adapter"
	"github.com/tyreledger/backend/internal/domain/entity"
)

// RedisSnapshotStore keeps a JSON snapshot of the whole ledger under a
// single key. The snapshot seeds an empty database on startup and serves
// as a last-resort backup of the row store.
type RedisSnapshotStore struct {
	client *redis.Client
	key    string
}

// NewRedisSnapshotStore creates a new RedisSnapshotStore instance.
func NewRedisSnapshotStore(client *redis.Client, key string) adapter.SnapshotStore {
	return &RedisSnapshotStore{client: client, key: key}
}

// Save overwrites the snapshot with the given entries.
func (s *RedisSnapshotStore) Save(ctx context.Context, entries []entity.LedgerEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save ledger snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot. The second return value is false when no usable
// snapshot exists; a corrupt snapshot is logged and treated as absent.
func (s *RedisSnapshotStore) Load(ctx context.Context) ([]entity.LedgerEntry, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load ledger snapshot: %w", err)
	}

	var entries []entity.LedgerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Warn("Ledger snapshot is corrupt, ignoring it", "key", s.key, "error", err)
		return nil, false, nil
	}
	return entries, true, nil
}

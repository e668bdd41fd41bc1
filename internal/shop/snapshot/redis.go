package snapshot

import (
	"context"
	"time"

	pkgerrors "github.com/samcharmz/charmz-backend/pkg/errors"
	"github.com/samcharmz/charmz-backend/pkg/redis"
)

// redisCommands is the slice of pkg/redis.Client the store needs.
type redisCommands interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	SnapshotKey(sessionID string) string
}

// RedisStore keeps snapshot documents under charmz:snapshot:<session> with an
// optional TTL so abandoned sessions age out on their own.
type RedisStore struct {
	client redisCommands
	ttl    time.Duration
}

// NewRedisStore wraps the shared redis client. A zero TTL keeps documents
// until they are overwritten or deleted.
func NewRedisStore(client *redis.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redis client is required")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Load returns the session's document, reporting found=false for sessions
// that never persisted or whose key expired.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (string, bool, error) {
	document, err := s.client.Get(ctx, s.client.SnapshotKey(sessionID))
	if err != nil {
		if redis.IsMissing(err) {
			return "", false, nil
		}
		return "", false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading shop snapshot")
	}
	return document, true, nil
}

// Save writes the session's document, refreshing the TTL on every write.
func (s *RedisStore) Save(ctx context.Context, sessionID, document string) error {
	if err := s.client.Set(ctx, s.client.SnapshotKey(sessionID), document, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving shop snapshot")
	}
	return nil
}

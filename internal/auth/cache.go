package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/stocktrack/internal/models"
)

// SessionCache keeps recently validated sessions so requests skip the store lookup.
type SessionCache interface {
	Get(ctx context.Context, id string) (models.Session, bool)
	Set(ctx context.Context, s models.Session) error
	Delete(ctx context.Context, ids ...string) error
}

const sessionKeyPrefix = "stocktrack:session:"

type RedisSessionCache struct {
	rdb *redis.Client
}

func NewRedisSessionCache(rdb *redis.Client) *RedisSessionCache {
	return &RedisSessionCache{rdb: rdb}
}

func (c *RedisSessionCache) Get(ctx context.Context, id string) (models.Session, bool) {
	data, err := c.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		return models.Session{}, false
	}
	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return models.Session{}, false
	}
	return s, true
}

// Set stores the session until it expires.
func (c *RedisSessionCache) Set(ctx context.Context, s models.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, sessionKeyPrefix+s.ID, data, ttl).Err()
}

func (c *RedisSessionCache) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sessionKeyPrefix + id
	}
	err := c.rdb.Del(ctx, keys...).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (models.Session, bool) { return models.Session{}, false }
func (noopCache) Set(context.Context, models.Session) error          { return nil }
func (noopCache) Delete(context.Context, ...string) error            { return nil }

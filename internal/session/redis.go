package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/saulo-duarte/strive/internal/config"
)

const redisKeyPrefix = "strive:session:"

// RedisStore persists sessions in Redis. Payloads are encrypted so the
// cache never holds identities in clear text.
type RedisStore struct {
	client redis.Cmdable
	cipher *config.Cipher
}

func NewRedisStore(client redis.Cmdable, cipher *config.Cipher) *RedisStore {
	return &RedisStore{client: client, cipher: cipher}
}

func (s *RedisStore) Load(ctx context.Context, id string) (Data, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Data{}, ErrNotFound
		}
		return Data{}, fmt.Errorf("load session: %w", err)
	}

	plain, err := s.cipher.Decrypt(raw)
	if err != nil {
		config.WithContext(ctx).WithError(err).Warn("Discarding undecryptable session")
		return Data{}, ErrNotFound
	}

	var data Data
	if err := json.Unmarshal(plain, &data); err != nil {
		config.WithContext(ctx).WithError(err).Warn("Discarding malformed session")
		return Data{}, ErrNotFound
	}
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, data Data, ttl time.Duration) error {
	plain, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	sealed, err := s.cipher.Encrypt(plain)
	if err != nil {
		return fmt.Errorf("encrypt session: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+id, sealed, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "moi:session:"

// RedisStore backs the session map with redis so that multiple API replicas
// agree on which token is current.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(principalID int64) string {
	return redisKeyPrefix + strconv.FormatInt(principalID, 10)
}

func (s *RedisStore) Put(ctx context.Context, principalID int64, token string, ttl time.Duration) error {
	return s.client.Set(ctx, redisKey(principalID), token, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, principalID int64) (string, bool, error) {
	token, err := s.client.Get(ctx, redisKey(principalID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, principalID int64) error {
	return s.client.Del(ctx, redisKey(principalID)).Err()
}

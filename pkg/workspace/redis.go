package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "mvnkit:workspace:"

// RedisConfig configures a Redis-backed store.
type RedisConfig struct {
	Addr     string // host:port
	Password string
	DB       int

	// Namespace selects the shared workspace. Processes using the same
	// namespace see each other's registrations. Empty means a fresh random
	// namespace private to this store.
	Namespace string
}

// RedisStore keeps workspace entries in one Redis hash per namespace.
type RedisStore struct {
	client    redis.UniversalClient
	namespace string
}

// NewRedisStore wraps an existing client. An empty namespace is replaced by a
// random one.
func NewRedisStore(client redis.UniversalClient, namespace string) *RedisStore {
	if namespace == "" {
		namespace = uuid.NewString()
	}
	return &RedisStore{client: client, namespace: namespace}
}

// DialRedis connects to Redis and verifies the connection with PING.
func DialRedis(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return NewRedisStore(client, cfg.Namespace), nil
}

// Namespace returns the workspace namespace.
func (s *RedisStore) Namespace() string { return s.namespace }

func (s *RedisStore) hash() string { return redisKeyPrefix + s.namespace }

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, key, path string) error {
	return s.client.HSet(ctx, s.hash(), key, path).Err()
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	path, err := s.client.HGet(ctx, s.hash(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

// Entries implements Store.
func (s *RedisStore) Entries(ctx context.Context) ([]Entry, error) {
	all, err := s.client.HGetAll(ctx, s.hash()).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(all))
	for k, v := range all {
		out = append(out, Entry{Key: k, Path: v})
	}
	return out, nil
}

// Clear implements Store.
func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.hash()).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)

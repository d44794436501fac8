package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/donde/storefront-backend/config"
	"github.com/donde/storefront-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by KV.Get when the key does not exist.
var ErrMiss = errors.New("cache miss")

const (
	SettingsKey         = "storefront:settings"
	revokedTokensPrefix = "storefront:revoked:"
)

// KV is the small key/value surface the backend needs from Redis.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// SetNX stores value only when key is absent and reports whether it did.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

var client *redis.Client

// Init connects to Redis and verifies the connection with a ping.
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", logger.Fields{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, logger.Fields{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		return client.Close()
	}
	return nil
}

type clientKV struct {
	c *redis.Client
}

// NewKV adapts a go-redis client to KV.
func NewKV(c *redis.Client) KV {
	return &clientKV{c: c}
}

func (k *clientKV) Get(ctx context.Context, key string) (string, error) {
	val, err := k.c.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return val, err
}

func (k *clientKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return k.c.Set(ctx, key, value, ttl).Err()
}

func (k *clientKV) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return k.c.SetNX(ctx, key, value, ttl).Result()
}

func (k *clientKV) Del(ctx context.Context, keys ...string) error {
	return k.c.Del(ctx, keys...).Err()
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryKV is an in-process KV used when Redis is not configured.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]memoryEntry
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]memoryEntry)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return "", ErrMiss
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		delete(m.data, key)
		return "", ErrMiss
	}
	return e.value, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(key, value, ttl)
	return nil
}

func (m *MemoryKV) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.data[key]; ok && (e.expires.IsZero() || time.Now().Before(e.expires)) {
		return false, nil
	}
	m.put(key, value, ttl)
	return true, nil
}

func (m *MemoryKV) put(key, value string, ttl time.Duration) {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}
	m.data[key] = e
}

func (m *MemoryKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// RevokeToken marks a token id as revoked until it would have expired anyway.
func RevokeToken(ctx context.Context, kv KV, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := kv.Set(ctx, revokedTokensPrefix+tokenID, "revoked", ttl); err != nil {
		logger.Error("Failed to revoke token", err)
		return err
	}
	logger.Debug("Token revoked", logger.Fields{"ttl": ttl.String()})
	return nil
}

// IsTokenRevoked reports whether RevokeToken was called for tokenID.
func IsTokenRevoked(ctx context.Context, kv KV, tokenID string) (bool, error) {
	val, err := kv.Get(ctx, revokedTokensPrefix+tokenID)
	if errors.Is(err, ErrMiss) {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token revocation", err)
		return false, err
	}
	return val == "revoked", nil
}

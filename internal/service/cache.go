// internal/service/cache.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dangerclosesec/liaison/internal/domain"
	"github.com/redis/go-redis/v9"
)

// CacheService stores JSON values in redis with a fixed TTL.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

// CacheConfig holds configuration for the cache service
type CacheConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewCacheService connects to redis and pings it.
func NewCacheService(ctx context.Context, config CacheConfig) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return NewCacheServiceFromClient(client, config.TTL), nil
}

// NewCacheServiceFromClient wraps an existing client.
func NewCacheServiceFromClient(client *redis.Client, ttl time.Duration) *CacheService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CacheService{client: client, ttl: ttl}
}

// Set stores value as JSON under key.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	if key == "" {
		return domain.ErrInvalidInput
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling value: %w", err)
	}

	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing in cache: %w", err)
	}
	return nil
}

// Get decodes the value under key into result. A missing key is
// domain.ErrCacheMiss.
func (s *CacheService) Get(ctx context.Context, key string, result interface{}) error {
	if key == "" {
		return domain.ErrInvalidInput
	}

	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("reading from cache: %w", err)
	}

	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("unmarshaling cached value: %w", err)
	}
	return nil
}

// GetOrSet retrieves a value from cache or fills it from fetchFunc. Cache
// read and write failures fall through to fetchFunc.
func (s *CacheService) GetOrSet(ctx context.Context, key string, result interface{}, fetchFunc func() (interface{}, error)) error {
	err := s.Get(ctx, key, result)
	if err == nil {
		return nil
	}

	value, fetchErr := fetchFunc()
	if fetchErr != nil {
		return fetchErr
	}

	// only a clean miss is written back; an unreachable redis just serves
	// the fresh value
	if errors.Is(err, domain.ErrCacheMiss) {
		_ = s.Set(ctx, key, value)
	}

	return assignValue(value, result)
}

// Delete removes a value from the cache
func (s *CacheService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return domain.ErrInvalidInput
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("deleting from cache: %w", err)
	}
	return nil
}

// Close releases the redis connection pool.
func (s *CacheService) Close() error {
	return s.client.Close()
}

// assignValue copies src into dst through JSON, the same representation the
// cache stores.
func assignValue(src interface{}, dst interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("marshaling value: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshaling value: %w", err)
	}

	return nil
}

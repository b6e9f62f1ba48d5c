package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore store sử dụng Redis, không đặt TTL
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
	prefix string

	reads  atomic.Int64
	writes atomic.Int64
	misses atomic.Int64
}

// NewRedisStore tạo mới Redis store
func NewRedisStore(redisURL string, logger *zap.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("lỗi parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("không thể kết nối Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, logger), nil
}

// NewRedisStoreWithClient dùng client có sẵn
func NewRedisStoreWithClient(client *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger,
		prefix: "mailbox_locator:",
	}
}

// Get lấy blob từ Redis
func (rs *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	storeKey := rs.prefix + key
	rs.reads.Add(1)

	val, err := rs.client.Get(ctx, storeKey).Bytes()
	if errors.Is(err, redis.Nil) {
		rs.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		rs.logger.Error("Lỗi get từ Redis", zap.Error(err), zap.String("key", storeKey))
		return nil, false, err
	}

	return val, true, nil
}

// Set ghi blob vào Redis
func (rs *RedisStore) Set(ctx context.Context, key string, data []byte) error {
	storeKey := rs.prefix + key
	rs.writes.Add(1)

	if err := rs.client.Set(ctx, storeKey, data, 0).Err(); err != nil {
		rs.logger.Error("Lỗi set vào Redis", zap.Error(err), zap.String("key", storeKey))
		return err
	}

	rs.logger.Debug("Đã lưu vào Redis", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Delete xóa key khỏi Redis
func (rs *RedisStore) Delete(ctx context.Context, key string) error {
	storeKey := rs.prefix + key

	if err := rs.client.Del(ctx, storeKey).Err(); err != nil {
		rs.logger.Error("Lỗi delete từ Redis", zap.Error(err), zap.String("key", storeKey))
		return err
	}
	return nil
}

// Stats thống kê truy cập
func (rs *RedisStore) Stats() StoreStats {
	return StoreStats{
		Backend: "redis",
		Reads:   rs.reads.Load(),
		Writes:  rs.writes.Load(),
		Misses:  rs.misses.Load(),
	}
}

// Close đóng kết nối Redis
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

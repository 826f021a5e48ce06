package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"NEF_Emulator/backend/go/internal/config"

	"github.com/go-redis/redis/v8"
)

const (
	dialTimeout = 3 * time.Second
	opTimeout   = time.Second
)

var (
	client  *redis.Client
	once    sync.Once
	initErr error
)

// GetClient 初始化并返回 Redis 单例客户端。
// 路径缓存只做读穿，读写超时较短，Redis 变慢时请求会很快退回数据库。
func GetClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	once.Do(func() {
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.Address,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  dialTimeout,
			ReadTimeout:  opTimeout,
			WriteTimeout: opTimeout,
		})

		pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			initErr = fmt.Errorf("无法连接到 Redis %s: %w", cfg.Address, err)
			return
		}
		client = rdb
	})

	return client, initErr
}

func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// HealthCheck 供 /health 使用。
func HealthCheck(ctx context.Context) error {
	if client == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return client.Ping(ctx).Err()
}

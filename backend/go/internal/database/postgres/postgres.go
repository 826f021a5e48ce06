package postgres

import (
	"context"
	"fmt"
	"time"

	"NEF_Emulator/backend/go/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	defaultAttempts = 10
	defaultDelay    = 2 * time.Second
)

// ConnectWithRetry 打开 PostgreSQL 连接。数据库容器通常比服务启动得慢，
// 因此在放弃之前会按配置重试若干次。
func ConnectWithRetry(ctx context.Context, cfg *config.PostgresConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("databases.postgres.dsn 不能为空")
	}
	if gormCfg == nil {
		gormCfg = &gorm.Config{}
	}

	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	delay := defaultDelay
	if cfg.RetryDelay != "" {
		d, err := time.ParseDuration(cfg.RetryDelay)
		if err != nil {
			return nil, fmt.Errorf("无效的 retryDelay: %w", err)
		}
		delay = d
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		db, err := gorm.Open(postgres.Open(cfg.DSN), gormCfg)
		if err == nil {
			return db, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("连接 PostgreSQL 失败，已重试 %d 次: %w", attempts, lastErr)
}

package mongo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"NEF_Emulator/backend/go/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

var (
	client  *mongo.Client
	once    sync.Once
	initErr error
)

// GetClient 初始化并返回审计用的 MongoDB 单例客户端。
func GetClient(cfg *config.MongoConfig) (*mongo.Client, error) {
	once.Do(func() {
		opts := options.Client().
			ApplyURI(cfg.Address).
			SetAppName("nef_service").
			SetServerSelectionTimeout(connectTimeout)
		if cfg.Username != "" {
			opts.SetAuth(options.Credential{
				Username: cfg.Username,
				Password: cfg.Password,
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		c, err := mongo.Connect(ctx, opts)
		if err != nil {
			initErr = fmt.Errorf("无法连接到 MongoDB: %w", err)
			return
		}
		if err = c.Ping(ctx, readpref.Primary()); err != nil {
			_ = c.Disconnect(ctx)
			initErr = fmt.Errorf("无法 Ping MongoDB: %w", err)
			return
		}
		client = c
	})

	return client, initErr
}

func Close(ctx context.Context) error {
	if client != nil {
		return client.Disconnect(ctx)
	}
	return nil
}

// HealthCheck 供 /health 使用，审计写入只依赖主节点。
func HealthCheck(ctx context.Context) error {
	if client == nil {
		return fmt.Errorf("mongodb client not initialized")
	}
	return client.Ping(ctx, readpref.Primary())
}

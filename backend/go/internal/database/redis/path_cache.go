package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"NEF_Emulator/backend/go/internal/models"

	"github.com/go-redis/redis/v8"
)

const pathKeyPrefix = "nef:path:"

// PathCache 在 Redis 中缓存组装好的路径读模型 (PathView)。
// 路径被更新或删除时由服务层负责失效。
type PathCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPathCache 创建一个 PathCache。ttl 为 0 表示永不过期。
func NewPathCache(rdb *redis.Client, ttl time.Duration) *PathCache {
	return &PathCache{rdb: rdb, ttl: ttl}
}

func pathKey(id uint) string {
	return fmt.Sprintf("%s%d", pathKeyPrefix, id)
}

// Get 返回缓存中的路径；未命中时 ok 为 false。
func (c *PathCache) Get(ctx context.Context, id uint) (*models.PathView, bool, error) {
	raw, err := c.rdb.Get(ctx, pathKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("读取路径缓存失败: %w", err)
	}

	var view models.PathView
	if err := json.Unmarshal(raw, &view); err != nil {
		// 损坏的条目直接丢弃
		_ = c.rdb.Del(ctx, pathKey(id)).Err()
		return nil, false, nil
	}
	return &view, true, nil
}

// Set 写入一条路径缓存。
func (c *PathCache) Set(ctx context.Context, view *models.PathView) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("序列化路径失败: %w", err)
	}
	if err := c.rdb.Set(ctx, pathKey(view.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("写入路径缓存失败: %w", err)
	}
	return nil
}

// Invalidate 删除一条路径缓存。
func (c *PathCache) Invalidate(ctx context.Context, id uint) error {
	if err := c.rdb.Del(ctx, pathKey(id)).Err(); err != nil {
		return fmt.Errorf("删除路径缓存失败: %w", err)
	}
	return nil
}

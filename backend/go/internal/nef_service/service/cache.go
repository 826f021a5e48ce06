package service

import (
	"context"
	"time"

	"NEF_Emulator/backend/go/internal/models"
	"NEF_Emulator/backend/go/pkg/circuitbreaker"
	"NEF_Emulator/backend/go/pkg/util"
)

// PathCache 缓存组装后的路径读模型。redis.PathCache 实现了它。
type PathCache interface {
	Get(ctx context.Context, id uint) (*models.PathView, bool, error)
	Set(ctx context.Context, view *models.PathView) error
	Invalidate(ctx context.Context, id uint) error
}

type noopCache struct{}

func (noopCache) Get(context.Context, uint) (*models.PathView, bool, error) { return nil, false, nil }
func (noopCache) Set(context.Context, *models.PathView) error { return nil }
func (noopCache) Invalidate(context.Context, uint) error { return nil }

// MemoryPathCache 是进程内的 LRU 实现，在未启用 Redis 时使用。
type MemoryPathCache struct {
	lru *util.LRUCache[uint, models.PathView]
}

// NewMemoryPathCache 创建一个最多保存 capacity 条路径的缓存。
// 权重按点的数量计算，maxPoints 为 0 时不限制。
func NewMemoryPathCache(capacity, maxPoints int, ttl time.Duration) (*MemoryPathCache, error) {
	lru, err := util.NewWithConfig(util.CacheConfig[uint, models.PathView]{
		Capacity:  capacity,
		MaxWeight: maxPoints,
		TTL:       ttl,
	})
	if err != nil {
		return nil, err
	}
	return &MemoryPathCache{lru: lru}, nil
}

func (c *MemoryPathCache) Get(_ context.Context, id uint) (*models.PathView, bool, error) {
	v, ok := c.lru.Get(id)
	if !ok {
		return nil, false, nil
	}
	return copyView(&v), true, nil
}

func (c *MemoryPathCache) Set(_ context.Context, view *models.PathView) error {
	c.lru.Put(view.ID, *copyView(view), len(view.Points)+1)
	return nil
}

func (c *MemoryPathCache) Invalidate(_ context.Context, id uint) error {
	c.lru.Delete(id)
	return nil
}

// copyView 复制 Points 切片，避免调用方修改缓存中的数据。
func copyView(v *models.PathView) *models.PathView {
	out := *v
	out.Points = make([]models.Coordinate, len(v.Points))
	copy(out.Points, v.Points)
	return &out
}

// BreakerPathCache 用断路器保护一个远程缓存：缓存连续失败后直接跳过，
// 请求退回到数据库读取，而不是每次都等待超时。
type BreakerPathCache struct {
	next    PathCache
	breaker circuitbreaker.CircuitBreaker
}

func NewBreakerPathCache(next PathCache, breaker circuitbreaker.CircuitBreaker) *BreakerPathCache {
	return &BreakerPathCache{next: next, breaker: breaker}
}

type cacheHit struct {
	view *models.PathView
	ok   bool
}

func (c *BreakerPathCache) Get(ctx context.Context, id uint) (*models.PathView, bool, error) {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		v, ok, err := c.next.Get(ctx, id)
		return cacheHit{view: v, ok: ok}, err
	})
	if err != nil {
		return nil, false, err
	}
	hit := res.(cacheHit)
	return hit.view, hit.ok, nil
}

func (c *BreakerPathCache) Set(ctx context.Context, view *models.PathView) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.next.Set(ctx, view)
	})
	return err
}

func (c *BreakerPathCache) Invalidate(ctx context.Context, id uint) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.next.Invalidate(ctx, id)
	})
	return err
}

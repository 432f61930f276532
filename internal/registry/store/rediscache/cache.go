// Package rediscache decorates a store.Store with a read-through redis cache
// for pass metadata. Hot reads (pass lookups dominate traffic) are served from
// redis; every write invalidates the affected keys before reaching the caller.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"mintpass/internal/registry/models"
	"mintpass/internal/registry/store"
)

const defaultTTL = 5 * time.Minute

// Cache wraps an inner store with pass caching. Only pass records are cached;
// state and wallet rows are read under the service mutex and gain nothing from
// a cache in front of them.
type Cache struct {
	inner  store.Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ store.Store = (*Cache)(nil)

func New(inner store.Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{inner: inner, client: client, ttl: ttl, logger: logger}
}

func passKey(id models.TokenID) string {
	return fmt.Sprintf("mintpass:pass:%d", id)
}

func (c *Cache) GetPass(ctx context.Context, id models.TokenID) (*models.Pass, error) {
	raw, err := c.client.Get(ctx, passKey(id)).Bytes()
	if err == nil {
		var p models.Pass
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}
		// corrupt entry, fall through to the store
		c.invalidate(ctx, id)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "redis read failed, falling back to store",
			"token_id", uint64(id), "error", err)
	}

	p, err := c.inner.GetPass(ctx, id)
	if err != nil {
		return nil, err
	}
	c.populate(ctx, p)
	return p, nil
}

func (c *Cache) CreatePass(ctx context.Context, p *models.Pass) error {
	if err := c.inner.CreatePass(ctx, p); err != nil {
		return err
	}
	c.populate(ctx, p)
	return nil
}

func (c *Cache) MintPass(ctx context.Context, s *models.State, wallet models.Address, p *models.Pass) error {
	if err := c.inner.MintPass(ctx, s, wallet, p); err != nil {
		return err
	}
	c.populate(ctx, p)
	return nil
}

func (c *Cache) UpdatePass(ctx context.Context, p *models.Pass) error {
	if err := c.inner.UpdatePass(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.TokenID)
	return nil
}

func (c *Cache) ApplyPoints(ctx context.Context, award store.PointsAward) (uint64, error) {
	total, err := c.inner.ApplyPoints(ctx, award)
	if err != nil {
		return 0, err
	}
	c.invalidate(ctx, award.TokenID)
	return total, nil
}

func (c *Cache) ApplyPointsBatch(ctx context.Context, awards []store.PointsAward) ([]uint64, error) {
	totals, err := c.inner.ApplyPointsBatch(ctx, awards)
	if err != nil {
		return nil, err
	}
	for _, award := range awards {
		c.invalidate(ctx, award.TokenID)
	}
	return totals, nil
}

func (c *Cache) ApplyAirdropBatch(ctx context.Context, updates []store.AirdropUpdate) error {
	if err := c.inner.ApplyAirdropBatch(ctx, updates); err != nil {
		return err
	}
	for _, u := range updates {
		c.invalidate(ctx, u.TokenID)
	}
	return nil
}

// Pass-through methods. These rows are uncached.

func (c *Cache) LoadState(ctx context.Context) (*models.State, error) {
	return c.inner.LoadState(ctx)
}

func (c *Cache) SaveState(ctx context.Context, s *models.State) error {
	return c.inner.SaveState(ctx, s)
}

func (c *Cache) HasMinted(ctx context.Context, wallet models.Address) (bool, error) {
	return c.inner.HasMinted(ctx, wallet)
}

func (c *Cache) SetMintFlag(ctx context.Context, wallet models.Address, minted bool) error {
	return c.inner.SetMintFlag(ctx, wallet, minted)
}

func (c *Cache) WalletPoints(ctx context.Context, wallet models.Address) (uint64, error) {
	return c.inner.WalletPoints(ctx, wallet)
}

func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return c.inner.Ping(ctx)
}

func (c *Cache) populate(ctx context.Context, p *models.Pass) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, passKey(p.TokenID), raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to populate pass cache",
			"token_id", uint64(p.TokenID), "error", err)
	}
}

func (c *Cache) invalidate(ctx context.Context, id models.TokenID) {
	if err := c.client.Del(ctx, passKey(id)).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to invalidate pass cache",
			"token_id", uint64(id), "error", err)
	}
}

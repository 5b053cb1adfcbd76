// Package entitlement keeps a read-only snapshot of subscription tiers,
// refreshed in the background from the billing collaborator's table.
package entitlement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/mediavault-server/internal/logger"
	"github.com/dtroode/mediavault-server/internal/model"
)

var _ model.Entitlements = (*Cache)(nil)

// Cache serves subscription state from the last successful refresh.
type Cache struct {
	source       model.SubscriptionSource
	interval     time.Duration
	maxStaleness time.Duration
	logger       *logger.Logger
	now          func() time.Time

	mu          sync.RWMutex
	tiers       map[uuid.UUID]model.Tier
	refreshedAt time.Time
}

// NewCache creates a Cache. Nothing is known until the first Refresh.
func NewCache(source model.SubscriptionSource, interval, maxStaleness time.Duration, logger *logger.Logger) *Cache {
	return &Cache{
		source:       source,
		interval:     interval,
		maxStaleness: maxStaleness,
		logger:       logger,
		now:          time.Now,
	}
}

// Current returns the tier of ownerID. The state is unknown before the first
// refresh and once the snapshot is older than the staleness limit. Owners
// without a subscription row are on the free tier.
func (c *Cache) Current(ownerID uuid.UUID) model.SubscriptionState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.tiers == nil || c.now().Sub(c.refreshedAt) > c.maxStaleness {
		return model.SubscriptionState{RefreshedAt: c.refreshedAt}
	}

	tier, ok := c.tiers[ownerID]
	if !ok {
		tier = model.TierFree
	}
	return model.SubscriptionState{Tier: tier, Known: tier.Valid(), RefreshedAt: c.refreshedAt}
}

// Refresh replaces the snapshot. On failure the previous snapshot is kept
// and ages towards staleness.
func (c *Cache) Refresh(ctx context.Context) error {
	subs, err := c.source.ListSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subscriptions: %w", err)
	}

	tiers := make(map[uuid.UUID]model.Tier, len(subs))
	for _, s := range subs {
		if !s.Tier.Valid() {
			c.logger.Warn("Entitlement cache: unknown tier", "owner_id", s.OwnerID, "tier", s.Tier)
		}
		tiers[s.OwnerID] = s.Tier
	}

	c.mu.Lock()
	c.tiers = tiers
	c.refreshedAt = c.now()
	c.mu.Unlock()

	return nil
}

// Run refreshes immediately and then every interval until ctx is done.
func (c *Cache) Run(ctx context.Context) error {
	if c.interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", c.interval)
	}
	c.refresh(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.refresh(ctx)
		}
	}
}

func (c *Cache) refresh(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
		c.logger.Error("Entitlement cache: refresh failed", "error", err)
	}
}

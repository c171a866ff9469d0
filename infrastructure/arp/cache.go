package arp

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/carlosrabelo/ifpoll/domain/entities"
	"github.com/carlosrabelo/ifpoll/domain/ports"
)

// DefaultTTL applies when no cache TTL is configured
const DefaultTTL = 5 * time.Minute

var _ ports.ARPSource = (*Cache)(nil)

// Cache keeps ARP tables per gateway for a TTL so concurrent device polls
// read the gateway once
type Cache struct {
	source ports.ARPSource
	items  *cache.Cache
	log    *zap.Logger

	mu sync.Mutex
}

// NewCache wraps source. A ttl of zero uses DefaultTTL.
func NewCache(source ports.ARPSource, ttl time.Duration, log *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		source: source,
		items:  cache.New(ttl, 2*ttl),
		log:    log,
	}
}

// Fetch returns the cached table of gateway, loading it on a miss
func (c *Cache) Fetch(ctx context.Context, gateway string) (*entities.ARPTable, error) {
	if table, ok := c.lookup(gateway); ok {
		return table, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if table, ok := c.lookup(gateway); ok {
		return table, nil
	}

	table, err := c.source.Fetch(ctx, gateway)
	if err != nil {
		return nil, err
	}
	c.items.Set(gateway, table, cache.DefaultExpiration)
	c.log.Debug("ARP table cached", zap.String("gateway", gateway), zap.Int("entries", table.Len()))
	return table, nil
}

// Flush drops every cached table
func (c *Cache) Flush() {
	c.items.Flush()
}

func (c *Cache) lookup(gateway string) (*entities.ARPTable, bool) {
	v, found := c.items.Get(gateway)
	if !found {
		return nil, false
	}
	table, ok := v.(*entities.ARPTable)
	return table, ok
}

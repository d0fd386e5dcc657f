package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/babel-30/sugarplum-backend/internal/domain/catalog"
	"github.com/babel-30/sugarplum-backend/internal/domain/integration"
	"github.com/babel-30/sugarplum-backend/internal/domain/shared"
)

// Default snapshot lifetimes. Catalog structure changes rarely (new designs
// uploaded every few weeks), stock levels change constantly.
const (
	DefaultCatalogTTL   = 24 * time.Hour
	DefaultInventoryTTL = 5 * time.Minute
)

// catalogSnapshot is an immutable view of the classified catalog. Once
// installed it is never mutated; refreshes build a new one and swap.
type catalogSnapshot struct {
	items     []catalog.Item
	fetchedAt time.Time
}

// inventorySnapshot maps variation id to on-hand quantity.
type inventorySnapshot struct {
	counts    map[string]int64
	fetchedAt time.Time
}

// refreshSlot serializes refreshes of one snapshot tier. The first caller
// runs the refresh; callers arriving while it is in flight wait on the same
// channel and share its result instead of starting a second fetch. This is
// what keeps a slow page walk from being overtaken by a faster one and
// installing snapshots out of order.
type refreshSlot struct {
	mu       sync.Mutex
	inflight chan struct{}
	err      error
}

// do runs fn unless a refresh is already in flight, in which case it waits
// for that one and returns its error. Waiting respects ctx cancellation; the
// in-flight refresh itself keeps running for the caller that started it.
func (s *refreshSlot) do(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	if ch := s.inflight; ch != nil {
		s.mu.Unlock()
		select {
		case <-ch:
			s.mu.Lock()
			err := s.err
			s.mu.Unlock()
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	ch := make(chan struct{})
	s.inflight = ch
	s.mu.Unlock()

	err := fn()

	s.mu.Lock()
	s.err = err
	s.inflight = nil
	s.mu.Unlock()
	close(ch)
	return err
}

// SnapshotCacheOption configures a SnapshotCache.
type SnapshotCacheOption func(*SnapshotCache)

// WithCatalogTTL sets the catalog snapshot lifetime.
func WithCatalogTTL(ttl time.Duration) SnapshotCacheOption {
	return func(c *SnapshotCache) {
		if ttl > 0 {
			c.catalogTTL = ttl
		}
	}
}

// WithInventoryTTL sets the inventory snapshot lifetime.
func WithInventoryTTL(ttl time.Duration) SnapshotCacheOption {
	return func(c *SnapshotCache) {
		if ttl > 0 {
			c.inventoryTTL = ttl
		}
	}
}

// WithSnapshotLogger sets the logger.
func WithSnapshotLogger(logger *zap.Logger) SnapshotCacheOption {
	return func(c *SnapshotCache) {
		c.logger = logger
	}
}

// SnapshotCache holds the two-tier read model of the vendor catalog: a
// slow-moving tier of classified items and a fast-moving tier of inventory
// counts. All storefront and kiosk reads are served from here; the vendor
// API is only hit on refresh.
//
// Staleness is advisory. A reader finding an expired snapshot still gets it
// immediately while a refresh runs; only total absence of a snapshot blocks.
type SnapshotCache struct {
	platform integration.CommercePlatform
	logger   *zap.Logger

	catalogTTL   time.Duration
	inventoryTTL time.Duration

	mu        sync.RWMutex
	catalog   *catalogSnapshot
	inventory *inventorySnapshot

	catalogSlot   refreshSlot
	inventorySlot refreshSlot
}

// NewSnapshotCache creates an empty cache backed by the given platform.
// The first read triggers the initial fetch.
func NewSnapshotCache(platform integration.CommercePlatform, opts ...SnapshotCacheOption) *SnapshotCache {
	c := &SnapshotCache{
		platform:     platform,
		logger:       zap.NewNop(),
		catalogTTL:   DefaultCatalogTTL,
		inventoryTTL: DefaultInventoryTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RefreshCatalog rebuilds the catalog snapshot from the vendor. Concurrent
// calls join the refresh already in flight. On success the inventory
// snapshot is dropped, since variation ids may have changed under it.
func (c *SnapshotCache) RefreshCatalog(ctx context.Context) error {
	return c.catalogSlot.do(ctx, func() error {
		return c.refreshCatalog(ctx)
	})
}

func (c *SnapshotCache) refreshCatalog(ctx context.Context) error {
	start := time.Now()

	var raw []integration.CatalogObject
	cursor := ""
	for {
		page, err := c.platform.ListCatalogPage(ctx, cursor)
		if err != nil {
			c.logger.Error("Catalog page fetch failed, keeping previous snapshot",
				zap.String("cursor", cursor),
				zap.Error(err))
			return fmt.Errorf("list catalog: %w", err)
		}
		raw = append(raw, page.Items...)
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	items := make([]catalog.Item, 0, len(raw))
	for _, obj := range raw {
		item, ok := catalog.Classify(c.toRawProduct(ctx, obj))
		if !ok {
			continue
		}
		items = append(items, *item)
	}

	snapshot := &catalogSnapshot{items: items, fetchedAt: time.Now()}

	c.mu.Lock()
	c.catalog = snapshot
	c.inventory = nil
	c.mu.Unlock()

	c.logger.Info("Catalog snapshot rebuilt",
		zap.Int("vendor_objects", len(raw)),
		zap.Int("items", len(items)),
		zap.Duration("took", time.Since(start)))
	return nil
}

// toRawProduct converts a vendor catalog object into classifier input,
// resolving the item image. A failed image lookup is logged and the item
// keeps an empty image URL; it must never drop the item.
func (c *SnapshotCache) toRawProduct(ctx context.Context, obj integration.CatalogObject) catalog.RawProduct {
	imageURL := obj.ImageURL
	if imageURL == "" && len(obj.ImageIDs) > 0 {
		url, err := c.platform.RetrieveImage(ctx, obj.ImageIDs[0])
		if err != nil {
			c.logger.Warn("Image lookup failed, keeping item without image",
				zap.String("item_id", obj.ID),
				zap.String("image_id", obj.ImageIDs[0]),
				zap.Error(err))
		} else {
			imageURL = url
		}
	}

	raw := catalog.RawProduct{
		ID:          obj.ID,
		Name:        obj.Name,
		Description: obj.Description,
		ImageURL:    imageURL,
	}
	for _, v := range obj.Variations {
		raw.Variations = append(raw.Variations, catalog.RawVariation{
			ID:    v.ID,
			Name:  v.Name,
			Price: v.Price,
		})
	}
	return raw
}

// EnsureCatalogFresh guarantees a catalog snapshot no older than the catalog
// TTL, refreshing synchronously when the snapshot is missing or expired.
func (c *SnapshotCache) EnsureCatalogFresh(ctx context.Context) error {
	c.mu.RLock()
	snap := c.catalog
	c.mu.RUnlock()

	if snap != nil && time.Since(snap.fetchedAt) < c.catalogTTL {
		return nil
	}
	return c.RefreshCatalog(ctx)
}

// RefreshInventory rebuilds the inventory snapshot from the vendor.
// Concurrent calls join the refresh already in flight. Requires a catalog
// snapshot and builds one first if none exists.
func (c *SnapshotCache) RefreshInventory(ctx context.Context) error {
	return c.inventorySlot.do(ctx, func() error {
		return c.refreshInventory(ctx)
	})
}

func (c *SnapshotCache) refreshInventory(ctx context.Context) error {
	c.mu.RLock()
	snap := c.catalog
	c.mu.RUnlock()
	if snap == nil {
		if err := c.RefreshCatalog(ctx); err != nil {
			return err
		}
		c.mu.RLock()
		snap = c.catalog
		c.mu.RUnlock()
	}

	var ids []string
	for _, item := range snap.items {
		for _, v := range item.Variations {
			ids = append(ids, v.ID)
		}
	}

	counts := make(map[string]int64, len(ids))
	for _, id := range ids {
		counts[id] = 0
	}
	if len(ids) > 0 {
		rows, err := c.platform.BatchGetInventoryCounts(ctx, ids)
		if err != nil {
			c.logger.Error("Inventory fetch failed, keeping previous snapshot",
				zap.Int("variations", len(ids)),
				zap.Error(err))
			return fmt.Errorf("batch inventory counts: %w", err)
		}
		// The vendor may return several rows per variation (one per stock
		// location or state); they sum to the sellable quantity.
		for _, row := range rows {
			if _, tracked := counts[row.VariationID]; tracked {
				counts[row.VariationID] += row.Quantity
			}
		}
	}

	c.mu.Lock()
	c.inventory = &inventorySnapshot{counts: counts, fetchedAt: time.Now()}
	c.mu.Unlock()

	c.logger.Info("Inventory snapshot rebuilt", zap.Int("variations", len(ids)))
	return nil
}

// EnsureInventoryReady guarantees that some inventory snapshot exists,
// refreshing synchronously only when there is none at all. A stale snapshot
// satisfies this; freshness is the read path's concern.
func (c *SnapshotCache) EnsureInventoryReady(ctx context.Context) error {
	c.mu.RLock()
	ready := c.inventory != nil
	c.mu.RUnlock()
	if ready {
		return nil
	}
	return c.RefreshInventory(ctx)
}

// Products returns the classified catalog with current quantities merged in.
// It blocks only when no snapshot exists yet. A stale inventory snapshot is
// served as-is while a background refresh runs, so listing latency never
// depends on the vendor once the cache is warm.
func (c *SnapshotCache) Products(ctx context.Context) ([]catalog.Item, error) {
	if err := c.EnsureCatalogFresh(ctx); err != nil {
		c.mu.RLock()
		stale := c.catalog
		c.mu.RUnlock()
		if stale == nil {
			return nil, shared.ErrNoSnapshot
		}
		c.logger.Warn("Serving stale catalog after failed refresh", zap.Error(err))
	}
	if err := c.EnsureInventoryReady(ctx); err != nil {
		c.mu.RLock()
		stale := c.inventory
		c.mu.RUnlock()
		if stale == nil {
			return nil, shared.ErrNoSnapshot
		}
		c.logger.Warn("Serving stale inventory after failed refresh", zap.Error(err))
	}

	c.mu.RLock()
	catSnap := c.catalog
	invSnap := c.inventory
	c.mu.RUnlock()
	if catSnap == nil || invSnap == nil {
		return nil, shared.ErrNoSnapshot
	}

	if time.Since(invSnap.fetchedAt) >= c.inventoryTTL {
		go func() {
			// Detached from the request; the read below is served from the
			// snapshots already captured.
			refreshCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			if err := c.RefreshInventory(refreshCtx); err != nil {
				c.logger.Warn("Background inventory refresh failed", zap.Error(err))
			}
		}()
	}

	return mergeQuantities(catSnap.items, invSnap.counts), nil
}

// mergeQuantities deep-copies the snapshot items with quantities filled in
// from counts. Callers own the result and may sort or mutate it freely.
func mergeQuantities(items []catalog.Item, counts map[string]int64) []catalog.Item {
	out := make([]catalog.Item, len(items))
	for i, item := range items {
		copied := item
		copied.Variations = make([]catalog.Variation, len(item.Variations))
		for j, v := range item.Variations {
			v.Quantity = counts[v.ID]
			copied.Variations[j] = v
		}
		out[i] = copied
	}
	return out
}

// CatalogAge reports how long ago each snapshot was fetched; a negative
// duration means the tier has never been populated. Used by the health
// endpoint.
func (c *SnapshotCache) CatalogAge() (catalogAge, inventoryAge time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	catalogAge, inventoryAge = -1, -1
	if c.catalog != nil {
		catalogAge = time.Since(c.catalog.fetchedAt)
	}
	if c.inventory != nil {
		inventoryAge = time.Since(c.inventory.fetchedAt)
	}
	return catalogAge, inventoryAge
}

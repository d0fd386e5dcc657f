package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babel-30/sugarplum-backend/internal/domain/integration"
)

// fakePlatform is a scriptable CommercePlatform for cache tests
type fakePlatform struct {
	mu     sync.Mutex
	pages  []integration.CatalogPage
	counts []integration.InventoryCount
	images map[string]string

	listErr   error
	countsErr error
	imageErr  error

	countsDelay time.Duration

	listCalls   atomic.Int64
	countsCalls atomic.Int64
	imageCalls  atomic.Int64
}

func (f *fakePlatform) ListCatalogPage(ctx context.Context, cursor string) (*integration.CatalogPage, error) {
	f.listCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	idx := 0
	if cursor != "" {
		for i, p := range f.pages {
			if p.Cursor == cursor {
				idx = i + 1
				break
			}
		}
	}
	if idx >= len(f.pages) {
		return &integration.CatalogPage{}, nil
	}
	page := f.pages[idx]
	return &page, nil
}

func (f *fakePlatform) RetrieveImage(ctx context.Context, imageID string) (string, error) {
	f.imageCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.imageErr != nil {
		return "", f.imageErr
	}
	return f.images[imageID], nil
}

func (f *fakePlatform) BatchGetInventoryCounts(ctx context.Context, variationIDs []string) ([]integration.InventoryCount, error) {
	f.countsCalls.Add(1)
	f.mu.Lock()
	delay := f.countsDelay
	err := f.countsErr
	counts := append([]integration.InventoryCount(nil), f.counts...)
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (f *fakePlatform) AdjustInventory(ctx context.Context, adjustments []integration.InventoryAdjustment) error {
	return nil
}

func (f *fakePlatform) CreatePaymentLink(ctx context.Context, req *integration.PaymentLinkRequest) (*integration.PaymentLink, error) {
	return &integration.PaymentLink{ID: "PL1", URL: "https://pay.example/1"}, nil
}

func (f *fakePlatform) setCounts(counts []integration.InventoryCount) {
	f.mu.Lock()
	f.counts = counts
	f.mu.Unlock()
}

func (f *fakePlatform) setCountsErr(err error) {
	f.mu.Lock()
	f.countsErr = err
	f.mu.Unlock()
}

var _ integration.CommercePlatform = (*fakePlatform)(nil)

func apparelObject(id, name string, variations ...integration.CatalogVariation) integration.CatalogObject {
	return integration.CatalogObject{
		ID:         id,
		Name:       name,
		ImageURL:   "https://img.example/" + id + ".png",
		Variations: variations,
	}
}

func newFakePlatform() *fakePlatform {
	price := decimal.NewFromFloat(19.99)
	return &fakePlatform{
		pages: []integration.CatalogPage{
			{
				Items: []integration.CatalogObject{
					apparelObject("ITEM1", "Grinch Hoodie",
						integration.CatalogVariation{ID: "V1", Name: "Red, Small", Price: price},
						integration.CatalogVariation{ID: "V2", Name: "Red, Large", Price: price},
					),
				},
				Cursor: "page2",
			},
			{
				Items: []integration.CatalogObject{
					apparelObject("ITEM2", "Turkey Tee",
						integration.CatalogVariation{ID: "V3", Name: "Brown, Medium", Price: price},
					),
					// not apparel, must be filtered out
					{ID: "MUG", Name: "Coffee Mug", Variations: []integration.CatalogVariation{{ID: "VM", Name: "Blue"}}},
				},
			},
		},
		counts: []integration.InventoryCount{
			{VariationID: "V1", Quantity: 3},
			{VariationID: "V2", Quantity: 1},
			{VariationID: "V3", Quantity: 4},
		},
		images: map[string]string{},
	}
}

func TestSnapshotCacheRefreshCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("walks every page and classifies", func(t *testing.T) {
		platform := newFakePlatform()
		c := NewSnapshotCache(platform)

		require.NoError(t, c.RefreshCatalog(ctx))
		require.NoError(t, c.RefreshInventory(ctx))

		items, err := c.Products(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2, "mug must be filtered out")
		assert.Equal(t, "ITEM1", items[0].ID)
		assert.Equal(t, "ITEM2", items[1].ID)
		assert.GreaterOrEqual(t, platform.listCalls.Load(), int64(2))
	})

	t.Run("failed image lookup keeps the item", func(t *testing.T) {
		platform := newFakePlatform()
		platform.pages[0].Items[0].ImageURL = ""
		platform.pages[0].Items[0].ImageIDs = []string{"IMG1"}
		platform.imageErr = errors.New("image service down")
		c := NewSnapshotCache(platform)

		require.NoError(t, c.RefreshInventory(ctx))
		items, err := c.Products(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Empty(t, items[0].ImageURL)
	})

	t.Run("failed page fetch keeps the previous snapshot", func(t *testing.T) {
		platform := newFakePlatform()
		c := NewSnapshotCache(platform)
		require.NoError(t, c.RefreshInventory(ctx))

		platform.mu.Lock()
		platform.listErr = integration.ErrPlatformUnavailable
		platform.mu.Unlock()

		err := c.RefreshCatalog(ctx)
		require.Error(t, err)

		items, err := c.Products(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("catalog refresh invalidates the inventory snapshot", func(t *testing.T) {
		platform := newFakePlatform()
		c := NewSnapshotCache(platform)
		require.NoError(t, c.RefreshInventory(ctx))
		before := platform.countsCalls.Load()

		require.NoError(t, c.RefreshCatalog(ctx))
		require.NoError(t, c.EnsureInventoryReady(ctx))
		assert.Equal(t, before+1, platform.countsCalls.Load())
	})
}

func TestSnapshotCacheRefreshInventory(t *testing.T) {
	ctx := context.Background()

	t.Run("sums duplicate rows and defaults missing ids to zero", func(t *testing.T) {
		platform := newFakePlatform()
		platform.setCounts([]integration.InventoryCount{
			{VariationID: "V1", Quantity: 3},
			{VariationID: "V1", Quantity: 2},
			{VariationID: "V2", Quantity: 1},
			// V3 missing entirely
			{VariationID: "UNKNOWN", Quantity: 99},
		})
		c := NewSnapshotCache(platform)

		require.NoError(t, c.RefreshInventory(ctx))
		items, err := c.Products(ctx)
		require.NoError(t, err)

		quantities := map[string]int64{}
		for _, item := range items {
			for _, v := range item.Variations {
				quantities[v.ID] = v.Quantity
			}
		}
		assert.Equal(t, int64(5), quantities["V1"])
		assert.Equal(t, int64(1), quantities["V2"])
		assert.Equal(t, int64(0), quantities["V3"])
	})

	t.Run("builds the catalog first when empty", func(t *testing.T) {
		platform := newFakePlatform()
		c := NewSnapshotCache(platform)

		require.NoError(t, c.RefreshInventory(ctx))
		assert.GreaterOrEqual(t, platform.listCalls.Load(), int64(2))
	})

	t.Run("failed fetch keeps the previous counts", func(t *testing.T) {
		platform := newFakePlatform()
		c := NewSnapshotCache(platform)
		require.NoError(t, c.RefreshInventory(ctx))

		platform.setCountsErr(integration.ErrPlatformUnavailable)
		require.Error(t, c.RefreshInventory(ctx))

		items, err := c.Products(ctx)
		require.NoError(t, err)
		var total int64
		for _, item := range items {
			total += item.TotalQuantity()
		}
		assert.Equal(t, int64(8), total)
	})

	t.Run("concurrent refreshes join one fetch", func(t *testing.T) {
		platform := newFakePlatform()
		c := NewSnapshotCache(platform)
		require.NoError(t, c.RefreshCatalog(ctx))

		platform.mu.Lock()
		platform.countsDelay = 50 * time.Millisecond
		platform.mu.Unlock()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, c.RefreshInventory(ctx))
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(1), platform.countsCalls.Load())
	})
}

func TestSnapshotCacheProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("first read builds both snapshots", func(t *testing.T) {
		platform := newFakePlatform()
		c := NewSnapshotCache(platform)

		items, err := c.Products(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("stale inventory is served immediately", func(t *testing.T) {
		platform := newFakePlatform()
		c := NewSnapshotCache(platform, WithInventoryTTL(10*time.Millisecond))
		_, err := c.Products(ctx)
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)

		// make the background refresh slow and observable
		platform.mu.Lock()
		platform.countsDelay = 100 * time.Millisecond
		platform.mu.Unlock()
		platform.setCounts([]integration.InventoryCount{{VariationID: "V1", Quantity: 42}})

		start := time.Now()
		items, err := c.Products(ctx)
		elapsed := time.Since(start)
		require.NoError(t, err)

		assert.Less(t, elapsed, 50*time.Millisecond, "stale read must not wait for the refresh")
		var v1 int64
		for _, item := range items {
			if v := item.FindVariation("V1", "", ""); v != nil {
				v1 = v.Quantity
			}
		}
		assert.Equal(t, int64(3), v1, "read served from the stale snapshot")

		// the background refresh eventually lands
		assert.Eventually(t, func() bool {
			items, err := c.Products(ctx)
			if err != nil {
				return false
			}
			for _, item := range items {
				if v := item.FindVariation("V1", "", ""); v != nil {
					return v.Quantity == 42
				}
			}
			return false
		}, 2*time.Second, 20*time.Millisecond)
	})

	t.Run("returned items are copies", func(t *testing.T) {
		platform := newFakePlatform()
		c := NewSnapshotCache(platform)

		first, err := c.Products(ctx)
		require.NoError(t, err)
		first[0].Variations[0].Quantity = 999
		first[0].Name = "mutated"

		second, err := c.Products(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Grinch Hoodie", second[0].Name)
		assert.Equal(t, int64(3), second[0].Variations[0].Quantity)
	})

	t.Run("no snapshot and failing platform is an error", func(t *testing.T) {
		platform := newFakePlatform()
		platform.listErr = integration.ErrPlatformUnavailable
		c := NewSnapshotCache(platform)

		_, err := c.Products(ctx)
		require.Error(t, err)
	})
}

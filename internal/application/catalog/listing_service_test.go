package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/babel-30/sugarplum-backend/internal/domain/catalog"
)

type stubProductSource struct {
	items []catalog.Item
	err   error
}

func (s *stubProductSource) Products(ctx context.Context) ([]catalog.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

type stubFlagRepo struct {
	flags     map[string]catalog.Flags
	getAllErr error
	saved     map[string]catalog.Flags
}

func (s *stubFlagRepo) Get(ctx context.Context, itemID string) (catalog.Flags, bool, error) {
	if f, ok := s.flags[itemID]; ok {
		return f.Normalize(), true, nil
	}
	return catalog.DefaultFlags(), false, nil
}

func (s *stubFlagRepo) GetAll(ctx context.Context) (map[string]catalog.Flags, error) {
	if s.getAllErr != nil {
		return nil, s.getAllErr
	}
	return s.flags, nil
}

func (s *stubFlagRepo) Save(ctx context.Context, itemID string, flags catalog.Flags) error {
	if s.saved == nil {
		s.saved = map[string]catalog.Flags{}
	}
	s.saved[itemID] = flags
	if s.flags == nil {
		s.flags = map[string]catalog.Flags{}
	}
	s.flags[itemID] = flags
	return nil
}

func listingItems() []catalog.Item {
	strPtr := func(s string) *string { return &s }
	price := decimal.NewFromFloat(24.99)
	return []catalog.Item{
		{
			ID: "ITEM-B", Name: "Blessed Mama Tee", Garment: catalog.GarmentTShirt,
			Variations: []catalog.Variation{{ID: "VB", Size: strPtr("M"), Price: price, Quantity: 4}},
		},
		{
			ID: "ITEM-A", Name: "Autumn Hoodie", Garment: catalog.GarmentHoodie,
			Variations: []catalog.Variation{{ID: "VA", Size: strPtr("S"), Price: price, Quantity: 2}},
		},
		{
			ID: "ITEM-C", Name: "Christmas Crew", Garment: catalog.GarmentSweatshirt,
			Variations: []catalog.Variation{{ID: "VC", Size: strPtr("L"), Price: price, Quantity: 0}},
		},
	}
}

func newListingService(source *stubProductSource, flags *stubFlagRepo) *ListingService {
	return NewListingService(source, flags, zap.NewNop())
}

func TestStorefrontProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("default order is alphabetical", func(t *testing.T) {
		s := newListingService(&stubProductSource{items: listingItems()}, &stubFlagRepo{})

		views, err := s.StorefrontProducts(ctx)
		require.NoError(t, err)
		require.Len(t, views, 3)
		assert.Equal(t, "Autumn Hoodie", views[0].Name)
		assert.Equal(t, "Blessed Mama Tee", views[1].Name)
		assert.Equal(t, "Christmas Crew", views[2].Name)
	})

	t.Run("pinned beats featured beats new", func(t *testing.T) {
		flags := &stubFlagRepo{flags: map[string]catalog.Flags{
			"ITEM-C": {PinToTop: true},
			"ITEM-B": {IsFeatured: true},
			"ITEM-A": {IsNew: true},
		}}
		s := newListingService(&stubProductSource{items: listingItems()}, flags)

		views, err := s.StorefrontProducts(ctx)
		require.NoError(t, err)
		require.Len(t, views, 3)
		assert.Equal(t, "ITEM-C", views[0].ID)
		assert.Equal(t, "ITEM-B", views[1].ID)
		assert.Equal(t, "ITEM-A", views[2].ID)
	})

	t.Run("hidden online items are dropped", func(t *testing.T) {
		flags := &stubFlagRepo{flags: map[string]catalog.Flags{
			"ITEM-B": {HideOnline: true},
		}}
		s := newListingService(&stubProductSource{items: listingItems()}, flags)

		views, err := s.StorefrontProducts(ctx)
		require.NoError(t, err)
		require.Len(t, views, 2)
		for _, v := range views {
			assert.NotEqual(t, "ITEM-B", v.ID)
		}
	})

	t.Run("kiosk hide flag does not affect the storefront", func(t *testing.T) {
		flags := &stubFlagRepo{flags: map[string]catalog.Flags{
			"ITEM-B": {HideKiosk: true},
		}}
		s := newListingService(&stubProductSource{items: listingItems()}, flags)

		views, err := s.StorefrontProducts(ctx)
		require.NoError(t, err)
		assert.Len(t, views, 3)

		kiosk, err := s.KioskProducts(ctx)
		require.NoError(t, err)
		assert.Len(t, kiosk, 2)
	})

	t.Run("flag load failure serves defaults", func(t *testing.T) {
		flags := &stubFlagRepo{getAllErr: errors.New("db gone")}
		s := newListingService(&stubProductSource{items: listingItems()}, flags)

		views, err := s.StorefrontProducts(ctx)
		require.NoError(t, err)
		assert.Len(t, views, 3)
	})

	t.Run("source failure propagates", func(t *testing.T) {
		s := newListingService(&stubProductSource{err: errors.New("no snapshot")}, &stubFlagRepo{})

		_, err := s.StorefrontProducts(ctx)
		assert.Error(t, err)
	})

	t.Run("variation prices surface in dollars", func(t *testing.T) {
		s := newListingService(&stubProductSource{items: listingItems()}, &stubFlagRepo{})

		views, err := s.StorefrontProducts(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, views[0].Variations)
		assert.InDelta(t, 24.99, views[0].Variations[0].Price, 0.001)
	})
}

func TestAdminProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("includes hidden items with totals", func(t *testing.T) {
		flags := &stubFlagRepo{flags: map[string]catalog.Flags{
			"ITEM-B": {HideOnline: true, HideKiosk: true},
		}}
		s := newListingService(&stubProductSource{items: listingItems()}, flags)

		views, err := s.AdminProducts(ctx)
		require.NoError(t, err)
		require.Len(t, views, 3)
		assert.Equal(t, "Autumn Hoodie", views[0].Name)
		assert.Equal(t, int64(2), views[0].TotalInventory)

		assert.Equal(t, "ITEM-B", views[1].ID)
		assert.True(t, views[1].Flags.HideOnline)
	})
}

func TestUpdateFlags(t *testing.T) {
	ctx := context.Background()
	boolPtr := func(b bool) *bool { return &b }

	t.Run("merges into existing flags", func(t *testing.T) {
		flags := &stubFlagRepo{flags: map[string]catalog.Flags{
			"ITEM-A": {IsFeatured: true, RibbonType: catalog.RibbonNone},
		}}
		s := newListingService(&stubProductSource{}, flags)

		merged, err := s.UpdateFlags(ctx, "ITEM-A", catalog.FlagsUpdate{PinToTop: boolPtr(true)})
		require.NoError(t, err)
		assert.True(t, merged.IsFeatured, "untouched flag survives")
		assert.True(t, merged.PinToTop)

		saved, ok := flags.saved["ITEM-A"]
		require.True(t, ok)
		assert.True(t, saved.PinToTop)
	})

	t.Run("first edit starts from defaults", func(t *testing.T) {
		flags := &stubFlagRepo{}
		s := newListingService(&stubProductSource{}, flags)

		merged, err := s.UpdateFlags(ctx, "ITEM-NEW", catalog.FlagsUpdate{IsNew: boolPtr(true)})
		require.NoError(t, err)
		assert.True(t, merged.IsNew)
		assert.Equal(t, catalog.RibbonNone, merged.RibbonType)
	})
}

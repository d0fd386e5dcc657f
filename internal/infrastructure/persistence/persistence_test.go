package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/babel-30/sugarplum-backend/internal/domain/catalog"
	"github.com/babel-30/sugarplum-backend/internal/domain/order"
	"github.com/babel-30/sugarplum-backend/internal/domain/shared"
	"github.com/babel-30/sugarplum-backend/internal/domain/shop"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDatabase(t *testing.T) {
	t.Run("migrates and pings", func(t *testing.T) {
		db := setupTestDB(t)
		assert.NoError(t, db.Ping())
	})
}

func TestGormOrderRepository(t *testing.T) {
	ctx := context.Background()

	newOrder := func(name string) *order.Order {
		return &order.Order{
			VendorOrderID: "SQ-" + name,
			PaymentLinkID: "PL-" + name,
			CustomerName:  name,
			CustomerEmail: name + "@example.com",
			Status:        order.StatusPending,
			ItemsJSON:     `[{"variationId":"V1","quantity":1}]`,
			ShippingJSON:  `{"name":"` + name + `"}`,
			TotalCents:    3298,
			Currency:      "USD",
		}
	}

	t.Run("create and find", func(t *testing.T) {
		repo := NewGormOrderRepository(setupTestDB(t).DB)

		o := newOrder("Jo")
		require.NoError(t, repo.Create(ctx, o))
		require.NotZero(t, o.ID)

		found, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jo", found.CustomerName)
		assert.Equal(t, order.StatusPending, found.Status)
		assert.Equal(t, int64(3298), found.TotalCents)
	})

	t.Run("find missing id", func(t *testing.T) {
		repo := NewGormOrderRepository(setupTestDB(t).DB)

		_, err := repo.FindByID(ctx, 999)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("list recent newest first", func(t *testing.T) {
		repo := NewGormOrderRepository(setupTestDB(t).DB)

		base := time.Now().Add(-time.Hour)
		for i, name := range []string{"first", "second", "third"} {
			o := newOrder(name)
			o.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			require.NoError(t, repo.Create(ctx, o))
		}

		orders, err := repo.ListRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "third", orders[0].CustomerName)
		assert.Equal(t, "second", orders[1].CustomerName)
	})

	t.Run("list recent default limit", func(t *testing.T) {
		repo := NewGormOrderRepository(setupTestDB(t).DB)

		require.NoError(t, repo.Create(ctx, newOrder("only")))

		orders, err := repo.ListRecent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("update persists status and tracking", func(t *testing.T) {
		repo := NewGormOrderRepository(setupTestDB(t).DB)

		o := newOrder("ship-me")
		require.NoError(t, repo.Create(ctx, o))

		o.Status = order.StatusShipped
		o.TrackingNumber = "1Z999"
		require.NoError(t, repo.Update(ctx, o))

		found, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusShipped, found.Status)
		assert.Equal(t, "1Z999", found.TrackingNumber)
	})
}

func TestGormFlagRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("get unknown item returns defaults", func(t *testing.T) {
		repo := NewGormFlagRepository(setupTestDB(t).DB)

		flags, found, err := repo.Get(ctx, "NEVER-EDITED")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, catalog.DefaultFlags(), flags)
	})

	t.Run("save and read back", func(t *testing.T) {
		repo := NewGormFlagRepository(setupTestDB(t).DB)

		saved := catalog.Flags{
			IsFeatured:       true,
			PinToTop:         true,
			RibbonType:       catalog.RibbonCustom,
			RibbonCustomText: "Staff Pick",
		}
		require.NoError(t, repo.Save(ctx, "ITEM1", saved))

		flags, found, err := repo.Get(ctx, "ITEM1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, flags.IsFeatured)
		assert.True(t, flags.PinToTop)
		assert.Equal(t, catalog.RibbonCustom, flags.RibbonType)
		assert.Equal(t, "Staff Pick", flags.RibbonCustomText)
	})

	t.Run("save upserts on repeat", func(t *testing.T) {
		repo := NewGormFlagRepository(setupTestDB(t).DB)

		require.NoError(t, repo.Save(ctx, "ITEM1", catalog.Flags{IsNew: true}))
		require.NoError(t, repo.Save(ctx, "ITEM1", catalog.Flags{HideOnline: true}))

		flags, found, err := repo.Get(ctx, "ITEM1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.False(t, flags.IsNew, "second save replaces the row")
		assert.True(t, flags.HideOnline)
	})

	t.Run("get all returns only edited items", func(t *testing.T) {
		repo := NewGormFlagRepository(setupTestDB(t).DB)

		require.NoError(t, repo.Save(ctx, "ITEM1", catalog.Flags{IsNew: true}))
		require.NoError(t, repo.Save(ctx, "ITEM2", catalog.Flags{HideKiosk: true}))

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.True(t, all["ITEM1"].IsNew)
		assert.True(t, all["ITEM2"].HideKiosk)
	})

	t.Run("empty ribbon normalizes to none", func(t *testing.T) {
		repo := NewGormFlagRepository(setupTestDB(t).DB)

		require.NoError(t, repo.Save(ctx, "ITEM1", catalog.Flags{}))

		flags, _, err := repo.Get(ctx, "ITEM1")
		require.NoError(t, err)
		assert.Equal(t, catalog.RibbonNone, flags.RibbonType)
	})
}

func TestGormSettingsRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("get before any save returns defaults", func(t *testing.T) {
		repo := NewGormSettingsRepository(setupTestDB(t).DB)

		settings, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, shop.DefaultSettings(), settings)
	})

	t.Run("configured shipping overrides default amounts", func(t *testing.T) {
		repo := NewGormSettingsRepository(setupTestDB(t).DB,
			WithDefaultShipping(decimal.NewFromFloat(4.50), decimal.NewFromInt(60)))

		settings, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.True(t, settings.ShippingFlatRate.Equal(decimal.NewFromFloat(4.50)))
		assert.True(t, settings.FreeShippingThreshold.Equal(decimal.NewFromInt(60)))
	})

	t.Run("save and read back", func(t *testing.T) {
		repo := NewGormSettingsRepository(setupTestDB(t).DB)

		saved := shop.Settings{
			BannerText:            "Holiday sale!",
			BannerVisible:         true,
			PopupEnabled:          true,
			PopupMode:             shop.PopupEvent,
			ShippingFlatRate:      decimal.NewFromFloat(5.99),
			FreeShippingThreshold: decimal.NewFromInt(100),
		}
		require.NoError(t, repo.Save(ctx, saved))

		got, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Holiday sale!", got.BannerText)
		assert.True(t, got.BannerVisible)
		assert.Equal(t, shop.PopupEvent, got.PopupMode)
		assert.True(t, got.ShippingFlatRate.Equal(decimal.NewFromFloat(5.99)))
		assert.True(t, got.FreeShippingThreshold.Equal(decimal.NewFromInt(100)))
	})

	t.Run("repeated saves keep a single row", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormSettingsRepository(db.DB)

		first := shop.DefaultSettings()
		first.BannerText = "one"
		require.NoError(t, repo.Save(ctx, first))

		second := shop.DefaultSettings()
		second.BannerText = "two"
		require.NoError(t, repo.Save(ctx, second))

		var count int64
		require.NoError(t, db.DB.Model(&ShopSettingsModel{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)

		got, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "two", got.BannerText)
	})
}

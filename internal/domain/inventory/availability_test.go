package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babel-30/sugarplum-backend/internal/domain/catalog"
)

func strPtr(s string) *string { return &s }

func snapshotItems() []catalog.Item {
	return []catalog.Item{
		{
			ID: "ITEM1", Name: "Grinch Hoodie",
			Variations: []catalog.Variation{
				{ID: "V1", Size: strPtr("S"), Color: strPtr("Red"), Quantity: 5},
				{ID: "V2", Size: strPtr("L"), Color: strPtr("Red"), Quantity: 0},
			},
		},
		{
			ID: "ITEM2", Name: "Turkey Tee",
			Variations: []catalog.Variation{
				{ID: "V3", Size: strPtr("M"), Color: strPtr("Brown"), Quantity: 2},
			},
		},
	}
}

func TestCheckAvailability(t *testing.T) {
	items := snapshotItems()

	t.Run("satisfiable order has no conflicts", func(t *testing.T) {
		conflicts := CheckAvailability(items, []CartLine{
			{VariationID: "V1", Quantity: 5},
			{VariationID: "V3", Quantity: 1},
		})
		assert.Empty(t, conflicts)
	})

	t.Run("requested over available conflicts", func(t *testing.T) {
		conflicts := CheckAvailability(items, []CartLine{
			{VariationID: "V1", Name: "Grinch Hoodie", Quantity: 6},
		})
		require.Len(t, conflicts, 1)
		assert.Equal(t, int64(6), conflicts[0].Requested)
		assert.Equal(t, int64(5), conflicts[0].Available)
	})

	t.Run("zero stock conflicts even for quantity one", func(t *testing.T) {
		conflicts := CheckAvailability(items, []CartLine{
			{VariationID: "V2", Quantity: 1},
		})
		require.Len(t, conflicts, 1)
		assert.Equal(t, int64(0), conflicts[0].Available)
	})

	t.Run("stale id falls back to color and size", func(t *testing.T) {
		conflicts := CheckAvailability(items, []CartLine{
			{VariationID: "OLD", ItemID: "ITEM1", Color: "red", Size: "s", Quantity: 2},
		})
		assert.Empty(t, conflicts)
	})

	t.Run("unresolvable line fails closed", func(t *testing.T) {
		conflicts := CheckAvailability(items, []CartLine{
			{VariationID: "OLD", ItemID: "GONE", Color: "Red", Size: "S", Name: "Ghost", Quantity: 1},
		})
		require.Len(t, conflicts, 1)
		assert.Equal(t, int64(0), conflicts[0].Available)
		assert.Equal(t, "Ghost", conflicts[0].Name)
	})

	t.Run("every failing line is reported", func(t *testing.T) {
		conflicts := CheckAvailability(items, []CartLine{
			{VariationID: "V1", Quantity: 1},
			{VariationID: "V2", Quantity: 1},
			{VariationID: "GONE", Quantity: 1},
		})
		assert.Len(t, conflicts, 2)
	})

	t.Run("empty cart has no conflicts", func(t *testing.T) {
		assert.Empty(t, CheckAvailability(items, nil))
	})
}

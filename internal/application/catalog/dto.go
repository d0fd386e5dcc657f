package catalog

import (
	"github.com/babel-30/sugarplum-backend/internal/domain/catalog"
)

// VariationView is a variation as served to the storefront. Price is in
// dollars.
type VariationView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Size     *string `json:"size"`
	Color    *string `json:"color"`
	Quantity int64   `json:"quantity"`
}

// ProductView is a product as served to the storefront and kiosk
type ProductView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Audience    []string        `json:"audience"`
	Subcategory string          `json:"subcategory"`
	Image       string          `json:"image"`
	Variations  []VariationView `json:"variations"`
	Flags       catalog.Flags   `json:"flags"`
}

// AdminProductView is the compact product row for the admin dashboard
type AdminProductView struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Type           string        `json:"type"`
	Subcategory    string        `json:"subcategory"`
	TotalInventory int64         `json:"totalInventory"`
	Flags          catalog.Flags `json:"flags"`
}

func toProductView(item catalog.Item, flags catalog.Flags) ProductView {
	audiences := make([]string, len(item.Audiences))
	for i, a := range item.Audiences {
		audiences[i] = string(a)
	}
	variations := make([]VariationView, len(item.Variations))
	for i, v := range item.Variations {
		variations[i] = VariationView{
			ID:       v.ID,
			Name:     v.Name,
			Price:    v.Price.InexactFloat64(),
			Size:     v.Size,
			Color:    v.Color,
			Quantity: v.Quantity,
		}
	}
	return ProductView{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Type:        string(item.Garment),
		Audience:    audiences,
		Subcategory: item.Subcategory,
		Image:       item.ImageURL,
		Variations:  variations,
		Flags:       flags,
	}
}

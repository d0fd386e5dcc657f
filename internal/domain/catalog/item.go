package catalog

import (
	"github.com/shopspring/decimal"
)

// GarmentType is the displayed garment category of an item
type GarmentType string

const (
	GarmentTShirt     GarmentType = "T-Shirt"
	GarmentHoodie     GarmentType = "Hoodie"
	GarmentSweatshirt GarmentType = "Sweatshirt"
	GarmentLongSleeve GarmentType = "Long Sleeve"
	GarmentTank       GarmentType = "Tank"
)

// Audience is an intended audience segment for an item.
// An item may carry zero or more audiences; callers may present an
// empty set as Men/Unisex by default, the classifier does not.
type Audience string

const (
	AudienceMenUnisex Audience = "Men/Unisex"
	AudienceWomen     Audience = "Women"
	AudienceKids      Audience = "Kids"
)

// Item is one sellable product definition, independent of stock level.
// Variations is never empty: an item with zero variations is rejected
// during classification.
type Item struct {
	ID          string
	Name        string
	Description string
	Garment     GarmentType
	Audiences   []Audience
	Subcategory string // empty when no theme group matched
	ImageURL    string // empty when the vendor has no image for the item
	Variations  []Variation
}

// Variation is one purchasable SKU-like unit within an Item.
// Quantity is only meaningful on items served from an inventory
// snapshot; catalog-tier items carry zero until a merge has run.
type Variation struct {
	ID       string
	Name     string
	Size     *string
	Color    *string
	Price    decimal.Decimal
	Quantity int64
}

// TotalQuantity sums quantity-on-hand across all variations
func (i *Item) TotalQuantity() int64 {
	var total int64
	for _, v := range i.Variations {
		total += v.Quantity
	}
	return total
}

// FindVariation resolves a variation by id, falling back to a
// case-insensitive color+size match. Returns nil when nothing matches.
func (i *Item) FindVariation(id, color, size string) *Variation {
	for idx := range i.Variations {
		if i.Variations[idx].ID == id {
			return &i.Variations[idx]
		}
	}
	if color == "" && size == "" {
		return nil
	}
	for idx := range i.Variations {
		v := &i.Variations[idx]
		if equalFold(v.Color, color) && equalFold(v.Size, size) {
			return v
		}
	}
	return nil
}

// RawProduct is a vendor catalog item before classification.
// Adapter defaulting guarantees all fields are present (possibly empty).
type RawProduct struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	ImageIDs    []string
	Variations  []RawVariation
}

// RawVariation is a vendor variation before classification
type RawVariation struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

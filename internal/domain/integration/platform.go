package integration

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Sentinel errors for vendor platform failures. Adapters wrap these
// with %w so callers can classify failures without knowing the wire
// details.
var (
	ErrPlatformUnavailable     = errors.New("commerce platform unavailable")
	ErrPlatformRequestFailed   = errors.New("commerce platform request failed")
	ErrPlatformInvalidResponse = errors.New("commerce platform returned invalid response")
	ErrPlatformNotConfigured   = errors.New("commerce platform not configured")
)

// CatalogPage is one page of the vendor catalog listing. An empty
// Cursor means the listing is exhausted; a single page is never assumed
// complete.
type CatalogPage struct {
	Items  []CatalogObject
	Cursor string
}

// CatalogObject is one vendor catalog item with boundary defaulting
// already applied: every field is present, empty when the vendor
// omitted it.
type CatalogObject struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	ImageIDs    []string
	Variations  []CatalogVariation
}

// CatalogVariation is one vendor SKU within a CatalogObject
type CatalogVariation struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// InventoryCount is one stock count row. The vendor may return several
// rows for the same variation (one per stock state or location); the
// caller must sum them.
type InventoryCount struct {
	VariationID string
	Quantity    int64
}

// InventoryAdjustment sets or shifts vendor-side stock for one
// variation. Exactly one of Delta and Absolute is set.
type InventoryAdjustment struct {
	VariationID string
	Delta       *int64
	Absolute    *int64
}

// PaymentLinkLineItem is one order line on a hosted payment link
type PaymentLinkLineItem struct {
	Name       string
	Quantity   int64
	PriceCents int64
}

// PaymentLinkRequest creates a hosted checkout page on the vendor
type PaymentLinkRequest struct {
	IdempotencyKey string
	LineItems      []PaymentLinkLineItem
	BuyerEmail     string
	RedirectURL    string
}

// PaymentLink is the vendor's hosted checkout page
type PaymentLink struct {
	ID      string
	OrderID string
	URL     string
}

// CommercePlatform abstracts the third-party commerce API supplying
// catalog, inventory, and checkout primitives
type CommercePlatform interface {
	// ListCatalogPage returns one page of the catalog listing; pass the
	// previous page's cursor, empty for the first page
	ListCatalogPage(ctx context.Context, cursor string) (*CatalogPage, error)

	// RetrieveImage resolves an image object id to its URL
	RetrieveImage(ctx context.Context, imageID string) (string, error)

	// BatchGetInventoryCounts returns stock counts for the given
	// variation ids; rows may repeat per id and must be summed
	BatchGetInventoryCounts(ctx context.Context, variationIDs []string) ([]InventoryCount, error)

	// AdjustInventory applies quantity deltas/absolutes vendor-side
	AdjustInventory(ctx context.Context, adjustments []InventoryAdjustment) error

	// CreatePaymentLink creates a hosted checkout page for an order
	CreatePaymentLink(ctx context.Context, req *PaymentLinkRequest) (*PaymentLink, error)
}

package ecommerce

import (
	"strconv"
	"strings"
)

// Wire shapes for the Square REST API. Optional fields stay pointers
// or zero values here; defaulting happens in the adapter so internal
// code never re-checks for absent fields.

// SquareError is one error entry from a failed Square call
type SquareError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
}

// squareErrorBody is the error envelope shared by all endpoints
type squareErrorBody struct {
	Errors []SquareError `json:"errors"`
}

func (b *squareErrorBody) message() string {
	if len(b.Errors) == 0 {
		return "unknown error"
	}
	parts := make([]string, 0, len(b.Errors))
	for _, e := range b.Errors {
		if e.Detail != "" {
			parts = append(parts, e.Code+": "+e.Detail)
		} else {
			parts = append(parts, e.Code)
		}
	}
	return strings.Join(parts, "; ")
}

// SquareMoney is a fixed-point monetary amount in minor units
type SquareMoney struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// SquareItemVariationData carries SKU-level fields of a catalog object
type SquareItemVariationData struct {
	Name       string       `json:"name"`
	SKU        string       `json:"sku"`
	PriceMoney *SquareMoney `json:"price_money"`
}

// SquareCatalogObject is one object from the catalog listing. Only the
// fields this backend reads are modeled.
type SquareCatalogObject struct {
	Type              string                   `json:"type"`
	ID                string                   `json:"id"`
	ItemData          *SquareItemData          `json:"item_data"`
	ItemVariationData *SquareItemVariationData `json:"item_variation_data"`
	ImageData         *SquareImageData         `json:"image_data"`
}

// SquareItemData carries item-level fields of a catalog object
type SquareItemData struct {
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	ImageIDs      []string              `json:"image_ids"`
	EcomImageURIs []string              `json:"ecom_image_uris"`
	Variations    []SquareCatalogObject `json:"variations"`
}

// SquareImageData carries the resolved URL of an IMAGE object
type SquareImageData struct {
	URL string `json:"url"`
}

// squareListCatalogResponse is the page envelope of /v2/catalog/list
type squareListCatalogResponse struct {
	squareErrorBody
	Objects []SquareCatalogObject `json:"objects"`
	Cursor  string                `json:"cursor"`
}

// squareRetrieveObjectResponse is the envelope of /v2/catalog/object
type squareRetrieveObjectResponse struct {
	squareErrorBody
	Object *SquareCatalogObject `json:"object"`
}

// SquareInventoryCount is one count row; quantity is a decimal string
// on the wire
type SquareInventoryCount struct {
	CatalogObjectID string `json:"catalog_object_id"`
	State           string `json:"state"`
	Quantity        string `json:"quantity"`
}

type squareBatchRetrieveCountsRequest struct {
	CatalogObjectIDs []string `json:"catalog_object_ids"`
}

type squareBatchRetrieveCountsResponse struct {
	squareErrorBody
	Counts []SquareInventoryCount `json:"counts"`
	Cursor string                 `json:"cursor"`
}

// squareInventoryChange is one entry of a batch inventory change
type squareInventoryChange struct {
	Type          string                  `json:"type"`
	PhysicalCount *squarePhysicalCount    `json:"physical_count,omitempty"`
	Adjustment    *squareInventoryAdjust  `json:"adjustment,omitempty"`
}

type squarePhysicalCount struct {
	CatalogObjectID string `json:"catalog_object_id"`
	State           string `json:"state"`
	LocationID      string `json:"location_id"`
	Quantity        string `json:"quantity"`
	OccurredAt      string `json:"occurred_at"`
}

type squareInventoryAdjust struct {
	CatalogObjectID string `json:"catalog_object_id"`
	FromState       string `json:"from_state"`
	ToState         string `json:"to_state"`
	LocationID      string `json:"location_id"`
	Quantity        string `json:"quantity"`
	OccurredAt      string `json:"occurred_at"`
}

type squareBatchChangeRequest struct {
	IdempotencyKey string                  `json:"idempotency_key"`
	Changes        []squareInventoryChange `json:"changes"`
}

type squareBatchChangeResponse struct {
	squareErrorBody
	Counts []SquareInventoryCount `json:"counts"`
}

// Payment link shapes for /v2/online-checkout/payment-links

type squareOrderLineItem struct {
	Name           string      `json:"name"`
	Quantity       string      `json:"quantity"`
	BasePriceMoney SquareMoney `json:"base_price_money"`
}

type squarePaymentLinkOrder struct {
	LocationID string                `json:"location_id"`
	LineItems  []squareOrderLineItem `json:"line_items"`
}

type squareCheckoutOptions struct {
	RedirectURL string `json:"redirect_url,omitempty"`
}

type squarePrePopulatedData struct {
	BuyerEmail string `json:"buyer_email,omitempty"`
}

type squareCreatePaymentLinkRequest struct {
	IdempotencyKey   string                  `json:"idempotency_key"`
	Order            squarePaymentLinkOrder  `json:"order"`
	CheckoutOptions  *squareCheckoutOptions  `json:"checkout_options,omitempty"`
	PrePopulatedData *squarePrePopulatedData `json:"pre_populated_data,omitempty"`
}

type squarePaymentLink struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	URL     string `json:"url"`
}

type squareCreatePaymentLinkResponse struct {
	squareErrorBody
	PaymentLink *squarePaymentLink `json:"payment_link"`
}

// parseQuantity converts a wire quantity string to an integer count.
// Non-numeric or fractional input degrades to its integer part, absent
// input to zero.
func parseQuantity(s string) int64 {
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

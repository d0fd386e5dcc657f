package checkout

import (
	"github.com/babel-30/sugarplum-backend/internal/domain/inventory"
)

// CartLineInput is one cart line as submitted by the storefront. Price is
// in cents, already resolved by the frontend from the listing.
type CartLineInput struct {
	VariationID string `json:"variationId"`
	ItemID      string `json:"itemId"`
	Name        string `json:"name" binding:"required"`
	Color       string `json:"color"`
	Size        string `json:"size"`
	PriceCents  int64  `json:"price" binding:"gte=0"`
	Quantity    int64  `json:"quantity" binding:"required,gt=0"`
}

// CustomerInput is the shipping and contact block from the checkout form
type CustomerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
}

// Request is one checkout submission. SubmissionKey deduplicates client
// retries; absent means no dedupe.
type Request struct {
	SubmissionKey string          `json:"submissionKey"`
	Cart          []CartLineInput `json:"cart" binding:"required"`
	Customer      CustomerInput   `json:"customer"`
}

// Result is the successful checkout outcome
type Result struct {
	CheckoutURL string `json:"checkoutUrl"`
	OrderID     uint   `json:"orderId"`
}

// ConflictError rejects a checkout whose cart the current inventory
// cannot satisfy. The whole order is rejected; Conflicts lists every
// failing line so the storefront can show them all at once.
type ConflictError struct {
	Conflicts []inventory.Conflict
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return "cart contains unavailable items"
}

func toCartLines(cart []CartLineInput) []inventory.CartLine {
	lines := make([]inventory.CartLine, len(cart))
	for i, c := range cart {
		lines[i] = inventory.CartLine{
			VariationID: c.VariationID,
			ItemID:      c.ItemID,
			Name:        c.Name,
			Color:       c.Color,
			Size:        c.Size,
			Quantity:    c.Quantity,
		}
	}
	return lines
}

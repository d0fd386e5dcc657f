package order

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/babel-30/sugarplum-backend/internal/domain/order"
)

// Summary is the compact order row for the admin dashboard list.
// Total is in dollars.
type Summary struct {
	ID             uint      `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	CustomerName   string    `json:"customerName"`
	CustomerEmail  string    `json:"customerEmail"`
	Total          float64   `json:"total"`
	Status         string    `json:"status"`
	TrackingNumber string    `json:"trackingNumber"`
	Currency       string    `json:"currency"`
	VendorOrderID  string    `json:"vendorOrderId"`
	PaymentLinkID  string    `json:"paymentLinkId"`
}

// Detail is the full order view including the stored cart and shipping
// documents
type Detail struct {
	Summary
	Items     json.RawMessage `json:"items"`
	Shipping  json.RawMessage `json:"shipping"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// UpdateRequest changes an order's status and/or tracking number. When
// NotifyCustomer is set the customer is emailed about the change.
type UpdateRequest struct {
	Status         *string `json:"status"`
	TrackingNumber *string `json:"trackingNumber"`
	NotifyCustomer bool    `json:"notifyCustomer"`
}

func toSummary(o *order.Order) Summary {
	return Summary{
		ID:             o.ID,
		CreatedAt:      o.CreatedAt,
		CustomerName:   o.CustomerName,
		CustomerEmail:  o.CustomerEmail,
		Total:          float64(o.TotalCents) / 100,
		Status:         string(o.Status),
		TrackingNumber: o.TrackingNumber,
		Currency:       o.Currency,
		VendorOrderID:  o.VendorOrderID,
		PaymentLinkID:  o.PaymentLinkID,
	}
}

func toDetail(o *order.Order, logger *zap.Logger) Detail {
	detail := Detail{
		Summary:   toSummary(o),
		Items:     json.RawMessage("[]"),
		Shipping:  json.RawMessage("null"),
		UpdatedAt: o.UpdatedAt,
	}
	if o.ItemsJSON != "" {
		if json.Valid([]byte(o.ItemsJSON)) {
			detail.Items = json.RawMessage(o.ItemsJSON)
		} else {
			logger.Error("Stored items document is not valid JSON", zap.Uint("order_id", o.ID))
		}
	}
	if o.ShippingJSON != "" {
		if json.Valid([]byte(o.ShippingJSON)) {
			detail.Shipping = json.RawMessage(o.ShippingJSON)
		} else {
			logger.Error("Stored shipping document is not valid JSON", zap.Uint("order_id", o.ID))
		}
	}
	return detail
}

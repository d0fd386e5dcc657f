package order

import (
	"context"
	"time"
)

// Status tracks an order through fulfillment. Orders start PENDING
// when the payment link is created; payment and later states are set
// by the admin.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Order is a local record of a checkout, keyed independently of the
// vendor's order id. Cart lines and the shipping block are stored as
// JSON documents, mirroring what the customer submitted.
type Order struct {
	ID             uint   `gorm:"primaryKey"`
	VendorOrderID  string `gorm:"type:varchar(64);index"`
	PaymentLinkID  string `gorm:"type:varchar(64)"`
	CustomerName   string `gorm:"type:varchar(200)"`
	CustomerEmail  string `gorm:"type:varchar(200)"`
	Status         Status `gorm:"type:varchar(20);not null;default:'PENDING'"`
	TrackingNumber string `gorm:"type:varchar(100)"`
	ItemsJSON      string `gorm:"type:text"`
	ShippingJSON   string `gorm:"type:text"`
	TotalCents     int64  `gorm:"not null;default:0"`
	Currency       string `gorm:"type:varchar(3);not null;default:'USD'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// ShippingDetails is the denormalized shipping block stored alongside
// an order for the admin UI and packing slips
type ShippingDetails struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address1      string `json:"address1"`
	Address2      string `json:"address2"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip           string `json:"zip"`
	SubtotalCents int64  `json:"subtotalCents"`
	ShippingCents int64  `json:"shippingCents"`
	TotalCents    int64  `json:"totalCents"`
}

// Repository persists local order records
type Repository interface {
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uint) (*Order, error)
	ListRecent(ctx context.Context, limit int) ([]Order, error)
	Update(ctx context.Context, o *Order) error
}

package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/babel-30/sugarplum-backend/internal/domain/catalog"
	"github.com/babel-30/sugarplum-backend/internal/domain/integration"
	"github.com/babel-30/sugarplum-backend/internal/domain/inventory"
	"github.com/babel-30/sugarplum-backend/internal/domain/order"
	"github.com/babel-30/sugarplum-backend/internal/domain/shared"
	"github.com/babel-30/sugarplum-backend/internal/domain/shop"
	"github.com/babel-30/sugarplum-backend/internal/infrastructure/notification"
)

// submissionTTL is how long a submission key blocks duplicates. Long
// enough to cover any client retry storm, short enough to let the key
// be reused across genuinely separate orders.
const submissionTTL = 24 * time.Hour

// InventorySource is the slice of the snapshot cache checkout depends on.
// RefreshInventory must be a synchronous vendor round trip; checkout is the
// one read path that never accepts a stale count.
type InventorySource interface {
	EnsureCatalogFresh(ctx context.Context) error
	RefreshInventory(ctx context.Context) error
	Products(ctx context.Context) ([]catalog.Item, error)
}

// PaymentLinkCreator is the slice of the vendor platform checkout uses
type PaymentLinkCreator interface {
	CreatePaymentLink(ctx context.Context, req *integration.PaymentLinkRequest) (*integration.PaymentLink, error)
}

// Service runs a checkout end to end: availability guard, shipping,
// vendor payment link, local order record, confirmation email.
type Service struct {
	snapshots   InventorySource
	platform    PaymentLinkCreator
	orders      order.Repository
	settings    shop.Repository
	submissions shared.IdempotencyStore
	mailer      notification.Mailer
	redirectURL string
	logger      *zap.Logger
}

// NewService creates a new checkout Service
func NewService(
	snapshots InventorySource,
	platform PaymentLinkCreator,
	orders order.Repository,
	settings shop.Repository,
	submissions shared.IdempotencyStore,
	mailer notification.Mailer,
	redirectURL string,
	logger *zap.Logger,
) *Service {
	return &Service{
		snapshots:   snapshots,
		platform:    platform,
		orders:      orders,
		settings:    settings,
		submissions: submissions,
		mailer:      mailer,
		redirectURL: redirectURL,
		logger:      logger,
	}
}

// Submit processes one checkout. The guard sequence is deliberate: fresh
// catalog, then a forced synchronous inventory refresh, then the
// availability check against that just-fetched snapshot. Any conflicting
// line rejects the whole order before the vendor sees a payment link
// request.
func (s *Service) Submit(ctx context.Context, req Request) (*Result, error) {
	if len(req.Cart) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Cart is empty")
	}

	if req.SubmissionKey != "" {
		fresh, err := s.submissions.MarkProcessed(ctx, req.SubmissionKey, submissionTTL)
		if err != nil {
			// A broken dedupe store must not block checkout
			s.logger.Warn("Idempotency store unavailable, accepting submission",
				zap.Error(err))
		} else if !fresh {
			return nil, shared.ErrDuplicate
		}
	}

	if err := s.snapshots.EnsureCatalogFresh(ctx); err != nil {
		return nil, fmt.Errorf("catalog refresh: %w", err)
	}
	if err := s.snapshots.RefreshInventory(ctx); err != nil {
		return nil, fmt.Errorf("inventory refresh: %w", err)
	}
	items, err := s.snapshots.Products(ctx)
	if err != nil {
		return nil, err
	}

	if conflicts := inventory.CheckAvailability(items, toCartLines(req.Cart)); len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	var subtotalCents int64
	for _, line := range req.Cart {
		subtotalCents += line.PriceCents * line.Quantity
	}
	if subtotalCents <= 0 {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Invalid cart total")
	}

	shippingCents, err := s.shippingCents(ctx, subtotalCents)
	if err != nil {
		return nil, err
	}
	totalCents := subtotalCents + shippingCents

	link, err := s.createPaymentLink(ctx, req, shippingCents)
	if err != nil {
		return nil, fmt.Errorf("create payment link: %w", err)
	}

	record, err := s.recordOrder(ctx, req, link, subtotalCents, shippingCents, totalCents)
	if err != nil {
		// The payment link exists vendor-side; losing the local row is bad
		// but not worth failing the customer over.
		s.logger.Error("Failed to persist order record",
			zap.String("payment_link_id", link.ID),
			zap.Error(err))
	}

	s.sendConfirmation(ctx, req.Customer, link.URL, totalCents, shippingCents == 0)

	result := &Result{CheckoutURL: link.URL}
	if record != nil {
		result.OrderID = record.ID
	}
	return result, nil
}

// shippingCents computes the shipping charge in cents: the flat rate from
// shop settings, waived when the subtotal reaches the free threshold.
func (s *Service) shippingCents(ctx context.Context, subtotalCents int64) (int64, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("load shop settings: %w", err)
	}

	flatCents := settings.ShippingFlatRate.Shift(2).Round(0).IntPart()
	thresholdCents := settings.FreeShippingThreshold.Shift(2).Round(0).IntPart()
	if thresholdCents > 0 && subtotalCents >= thresholdCents {
		return 0, nil
	}
	return flatCents, nil
}

func (s *Service) createPaymentLink(ctx context.Context, req Request, shippingCents int64) (*integration.PaymentLink, error) {
	lineItems := make([]integration.PaymentLinkLineItem, 0, len(req.Cart)+1)
	for _, line := range req.Cart {
		name := line.Name
		if option := optionText(line.Color, line.Size); option != "" {
			name = fmt.Sprintf("%s (%s)", line.Name, option)
		}
		lineItems = append(lineItems, integration.PaymentLinkLineItem{
			Name:       name,
			Quantity:   line.Quantity,
			PriceCents: line.PriceCents,
		})
	}
	if shippingCents > 0 {
		lineItems = append(lineItems, integration.PaymentLinkLineItem{
			Name:       "Shipping",
			Quantity:   1,
			PriceCents: shippingCents,
		})
	}

	return s.platform.CreatePaymentLink(ctx, &integration.PaymentLinkRequest{
		IdempotencyKey: uuid.NewString(),
		LineItems:      lineItems,
		BuyerEmail:     req.Customer.Email,
		RedirectURL:    s.redirectURL,
	})
}

func (s *Service) recordOrder(ctx context.Context, req Request, link *integration.PaymentLink, subtotalCents, shippingCents, totalCents int64) (*order.Order, error) {
	itemsJSON, err := json.Marshal(req.Cart)
	if err != nil {
		return nil, err
	}
	shippingJSON, err := json.Marshal(order.ShippingDetails{
		Name:          req.Customer.Name,
		Email:         req.Customer.Email,
		Phone:         req.Customer.Phone,
		Address1:      req.Customer.Address1,
		Address2:      req.Customer.Address2,
		City:          req.Customer.City,
		State:         req.Customer.State,
		Zip:           req.Customer.Zip,
		SubtotalCents: subtotalCents,
		ShippingCents: shippingCents,
		TotalCents:    totalCents,
	})
	if err != nil {
		return nil, err
	}

	record := &order.Order{
		VendorOrderID: link.OrderID,
		PaymentLinkID: link.ID,
		CustomerName:  req.Customer.Name,
		CustomerEmail: req.Customer.Email,
		Status:        order.StatusPending,
		ItemsJSON:     string(itemsJSON),
		ShippingJSON:  string(shippingJSON),
		TotalCents:    totalCents,
		Currency:      "USD",
	}
	if err := s.orders.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// sendConfirmation emails the payment link to the customer. Best effort;
// a mail failure is logged and the checkout still succeeds.
func (s *Service) sendConfirmation(ctx context.Context, customer CustomerInput, url string, totalCents int64, freeShipping bool) {
	if customer.Email == "" {
		return
	}
	err := s.mailer.SendOrderConfirmation(ctx, notification.OrderConfirmation{
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CheckoutURL:   url,
		TotalCents:    totalCents,
		FreeShipping:  freeShipping,
	})
	if err != nil {
		s.logger.Warn("Failed to send order confirmation email",
			zap.String("to", customer.Email),
			zap.Error(err))
	}
}

func optionText(color, size string) string {
	parts := make([]string, 0, 2)
	if color != "" {
		parts = append(parts, color)
	}
	if size != "" {
		parts = append(parts, size)
	}
	return strings.Join(parts, " / ")
}

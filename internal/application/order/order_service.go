package order

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/babel-30/sugarplum-backend/internal/domain/order"
	"github.com/babel-30/sugarplum-backend/internal/infrastructure/notification"
)

// recentOrdersLimit caps the admin dashboard list
const recentOrdersLimit = 50

// Service handles admin order management: listing, detail, and
// status/tracking updates with optional customer notification.
type Service struct {
	orders order.Repository
	mailer notification.Mailer
	logger *zap.Logger
}

// NewService creates a new order Service
func NewService(orders order.Repository, mailer notification.Mailer, logger *zap.Logger) *Service {
	return &Service{
		orders: orders,
		mailer: mailer,
		logger: logger,
	}
}

// ListRecent returns the newest orders for the admin dashboard
func (s *Service) ListRecent(ctx context.Context) ([]Summary, error) {
	rows, err := s.orders.ListRecent(ctx, recentOrdersLimit)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, len(rows))
	for i := range rows {
		summaries[i] = toSummary(&rows[i])
	}
	return summaries, nil
}

// Get returns the full detail of one order
func (s *Service) Get(ctx context.Context, id uint) (*Detail, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := toDetail(o, s.logger)
	return &detail, nil
}

// Update applies a status/tracking change and, when requested, emails the
// customer. A shipped order with a tracking number produces the tracking
// email; failures to send are logged, never returned.
func (s *Service) Update(ctx context.Context, id uint, req UpdateRequest) (*Detail, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		o.Status = order.Status(strings.ToUpper(strings.TrimSpace(*req.Status)))
	}
	if req.TrackingNumber != nil {
		o.TrackingNumber = strings.TrimSpace(*req.TrackingNumber)
	}

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}

	if req.NotifyCustomer && o.CustomerEmail != "" {
		err := s.mailer.SendStatusUpdate(ctx, notification.StatusUpdate{
			CustomerName:   o.CustomerName,
			CustomerEmail:  o.CustomerEmail,
			Status:         o.Status,
			TrackingNumber: o.TrackingNumber,
		})
		if err != nil {
			s.logger.Warn("Failed to send order update email",
				zap.Uint("order_id", o.ID),
				zap.String("to", o.CustomerEmail),
				zap.Error(err))
		}
	}

	detail := toDetail(o, s.logger)
	return &detail, nil
}

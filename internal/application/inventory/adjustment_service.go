package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/babel-30/sugarplum-backend/internal/domain/catalog"
	"github.com/babel-30/sugarplum-backend/internal/domain/integration"
	"github.com/babel-30/sugarplum-backend/internal/domain/inventory"
	"github.com/babel-30/sugarplum-backend/internal/domain/shared"
)

// SnapshotSource supplies the catalog used to resolve adjustment targets
// and refreshes counts after the vendor accepts them
type SnapshotSource interface {
	Products(ctx context.Context) ([]catalog.Item, error)
	RefreshInventory(ctx context.Context) error
}

// InventoryAdjuster is the slice of the vendor platform this service uses
type InventoryAdjuster interface {
	AdjustInventory(ctx context.Context, adjustments []integration.InventoryAdjustment) error
}

// DeltaEntry is one adjustment in an admin batch, referenced by variation
// id or by item plus color+size when the scan station only knows the
// option text
type DeltaEntry struct {
	VariationID string `json:"variationId"`
	ItemID      string `json:"itemId"`
	Color       string `json:"color"`
	Size        string `json:"size"`
	Delta       *int64 `json:"delta"`
	Absolute    *int64 `json:"absolute"`
}

// RejectedEntry reports one entry that never reached the vendor
type RejectedEntry struct {
	VariationID string `json:"variationId"`
	ItemID      string `json:"itemId"`
	Reason      string `json:"reason"`
}

// ApplyResult summarizes a processed batch. Applied counts deduplicated
// vendor adjustments, not raw input entries.
type ApplyResult struct {
	Applied  int             `json:"applied"`
	Rejected []RejectedEntry `json:"rejected"`
}

// Service applies manual stock adjustments to the vendor
type Service struct {
	snapshots SnapshotSource
	platform  InventoryAdjuster
	logger    *zap.Logger
}

// NewService creates a new inventory adjustment Service
func NewService(snapshots SnapshotSource, platform InventoryAdjuster, logger *zap.Logger) *Service {
	return &Service{
		snapshots: snapshots,
		platform:  platform,
		logger:    logger,
	}
}

// ApplyDeltas validates and forwards a batch of stock adjustments. An
// empty batch is an error; a batch with some unresolvable entries applies
// the rest and reports the rejects. After the vendor accepts, the local
// inventory snapshot is refreshed so the admin sees the new counts.
func (s *Service) ApplyDeltas(ctx context.Context, batch []DeltaEntry) (*ApplyResult, error) {
	if len(batch) == 0 {
		return nil, shared.ErrEmptyBatch
	}

	items, err := s.snapshots.Products(ctx)
	if err != nil {
		return nil, err
	}

	requests := make([]inventory.DeltaRequest, len(batch))
	for i, e := range batch {
		requests[i] = inventory.DeltaRequest{
			VariationID: e.VariationID,
			ItemID:      e.ItemID,
			Color:       e.Color,
			Size:        e.Size,
			Delta:       e.Delta,
			Absolute:    e.Absolute,
		}
	}

	adjustments, rejected := inventory.ResolveDeltas(items, requests)

	result := &ApplyResult{Rejected: make([]RejectedEntry, len(rejected))}
	for i, r := range rejected {
		result.Rejected[i] = RejectedEntry{
			VariationID: r.Request.VariationID,
			ItemID:      r.Request.ItemID,
			Reason:      r.Reason,
		}
	}

	if len(adjustments) > 0 {
		if err := s.platform.AdjustInventory(ctx, adjustments); err != nil {
			return nil, fmt.Errorf("apply adjustments: %w", err)
		}
		result.Applied = len(adjustments)

		if err := s.snapshots.RefreshInventory(ctx); err != nil {
			// Counts are correct vendor-side; the snapshot catches up on
			// the next scheduled refresh.
			s.logger.Warn("Inventory refresh after adjustment failed", zap.Error(err))
		}
	}

	s.logger.Info("Processed inventory adjustment batch",
		zap.Int("entries", len(batch)),
		zap.Int("applied", result.Applied),
		zap.Int("rejected", len(result.Rejected)))
	return result, nil
}

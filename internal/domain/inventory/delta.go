package inventory

import (
	"fmt"

	"github.com/babel-30/sugarplum-backend/internal/domain/catalog"
	"github.com/babel-30/sugarplum-backend/internal/domain/integration"
)

// DeltaRequest is one requested stock adjustment from a manual count
// or barcode scan. The variation is referenced by id or, when the id
// is unknown at the scan station, by item id plus color+size. Exactly
// one of Delta and Absolute should be set; Absolute wins when both are.
type DeltaRequest struct {
	VariationID string
	ItemID      string
	Color       string
	Size        string
	Delta       *int64
	Absolute    *int64
}

// RejectedDelta is a delta entry that could not be resolved or was
// malformed; it never reaches the vendor
type RejectedDelta struct {
	Request DeltaRequest
	Reason  string
}

// ResolveDeltas validates a batch against a snapshot and converts it
// to vendor adjustments. Entries referencing the same variation are
// deduplicated, last write wins. Unresolvable or empty entries are
// returned as rejections; the resolvable remainder still proceeds.
func ResolveDeltas(items []catalog.Item, batch []DeltaRequest) ([]integration.InventoryAdjustment, []RejectedDelta) {
	byVariationID := make(map[string]struct{})
	byItemID := make(map[string]*catalog.Item)
	for i := range items {
		byItemID[items[i].ID] = &items[i]
		for _, v := range items[i].Variations {
			byVariationID[v.ID] = struct{}{}
		}
	}

	var rejected []RejectedDelta
	order := make([]string, 0, len(batch))
	latest := make(map[string]integration.InventoryAdjustment)

	for _, req := range batch {
		if req.Delta == nil && req.Absolute == nil {
			rejected = append(rejected, RejectedDelta{req, "no delta or absolute quantity"})
			continue
		}

		variationID := req.VariationID
		if _, ok := byVariationID[variationID]; !ok {
			variationID = ""
			if item := byItemID[req.ItemID]; item != nil {
				if v := item.FindVariation(req.VariationID, req.Color, req.Size); v != nil {
					variationID = v.ID
				}
			}
		}
		if variationID == "" {
			rejected = append(rejected, RejectedDelta{req, fmt.Sprintf("unresolvable variation %q", req.VariationID)})
			continue
		}

		if _, seen := latest[variationID]; !seen {
			order = append(order, variationID)
		}
		latest[variationID] = integration.InventoryAdjustment{
			VariationID: variationID,
			Delta:       req.Delta,
			Absolute:    req.Absolute,
		}
	}

	adjustments := make([]integration.InventoryAdjustment, 0, len(order))
	for _, id := range order {
		adjustments = append(adjustments, latest[id])
	}
	return adjustments, rejected
}

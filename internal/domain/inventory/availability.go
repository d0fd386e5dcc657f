package inventory

import (
	"github.com/babel-30/sugarplum-backend/internal/domain/catalog"
)

// CartLine is one requested order line at checkout time. VariationID
// is the preferred reference; ItemID plus Color/Size is the fallback
// used when the id no longer resolves after a catalog refresh.
type CartLine struct {
	VariationID string
	ItemID      string
	Name        string
	Color       string
	Size        string
	Quantity    int64
}

// Conflict describes one line the current snapshot cannot satisfy
type Conflict struct {
	VariationID string `json:"variationId"`
	Name        string `json:"name"`
	Requested   int64  `json:"requested"`
	Available   int64  `json:"available"`
}

// CheckAvailability compares requested quantities against a snapshot
// and returns one conflict per unsatisfiable line. Resolution prefers
// an exact variation id match anywhere in the snapshot, then a
// case-insensitive color+size match within the line's item.
// Unresolvable lines fail closed as zero available. An empty result
// means the whole order is admissible; any conflict rejects it whole.
func CheckAvailability(items []catalog.Item, lines []CartLine) []Conflict {
	byVariationID := make(map[string]*catalog.Variation)
	byItemID := make(map[string]*catalog.Item)
	for i := range items {
		byItemID[items[i].ID] = &items[i]
		for j := range items[i].Variations {
			v := &items[i].Variations[j]
			byVariationID[v.ID] = v
		}
	}

	var conflicts []Conflict
	for _, line := range lines {
		variation := byVariationID[line.VariationID]
		if variation == nil {
			if item := byItemID[line.ItemID]; item != nil {
				variation = item.FindVariation("", line.Color, line.Size)
			}
		}

		var available int64
		if variation != nil {
			available = variation.Quantity
		}
		if available <= 0 || line.Quantity > available {
			conflicts = append(conflicts, Conflict{
				VariationID: line.VariationID,
				Name:        line.Name,
				Requested:   line.Quantity,
				Available:   available,
			})
		}
	}
	return conflicts
}

package catalog

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/babel-30/sugarplum-backend/internal/domain/catalog"
)

// ProductSource supplies the current classified catalog with quantities
// merged in. Backed by the snapshot cache in production.
type ProductSource interface {
	Products(ctx context.Context) ([]catalog.Item, error)
}

// ListingService builds the read-only product projections for the
// storefront, the in-store kiosk, and the admin dashboard.
type ListingService struct {
	source ProductSource
	flags  catalog.FlagRepository
	logger *zap.Logger
}

// NewListingService creates a new ListingService
func NewListingService(source ProductSource, flags catalog.FlagRepository, logger *zap.Logger) *ListingService {
	return &ListingService{
		source: source,
		flags:  flags,
		logger: logger,
	}
}

// StorefrontProducts returns the online shop listing: flagged-hidden items
// removed, pinned and highlighted items first.
func (s *ListingService) StorefrontProducts(ctx context.Context) ([]ProductView, error) {
	return s.listing(ctx, func(f catalog.Flags) bool { return f.HideOnline })
}

// KioskProducts returns the in-store kiosk listing, which has its own
// hide flag so seasonal online-only designs stay off the floor.
func (s *ListingService) KioskProducts(ctx context.Context) ([]ProductView, error) {
	return s.listing(ctx, func(f catalog.Flags) bool { return f.HideKiosk })
}

func (s *ListingService) listing(ctx context.Context, hidden func(catalog.Flags) bool) ([]ProductView, error) {
	items, err := s.source.Products(ctx)
	if err != nil {
		return nil, err
	}
	flags, err := s.loadFlags(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ProductView, 0, len(items))
	for _, item := range items {
		f := flagsFor(flags, item.ID)
		if hidden(f) {
			continue
		}
		views = append(views, toProductView(item, f))
	}
	sortViews(views)
	return views, nil
}

// AdminProducts returns every item (hidden ones included) with total
// inventory, sorted by name.
func (s *ListingService) AdminProducts(ctx context.Context) ([]AdminProductView, error) {
	items, err := s.source.Products(ctx)
	if err != nil {
		return nil, err
	}
	flags, err := s.loadFlags(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]AdminProductView, 0, len(items))
	for _, item := range items {
		views = append(views, AdminProductView{
			ID:             item.ID,
			Name:           item.Name,
			Type:           string(item.Garment),
			Subcategory:    item.Subcategory,
			TotalInventory: item.TotalQuantity(),
			Flags:          flagsFor(flags, item.ID),
		})
	}
	sort.Slice(views, func(i, j int) bool {
		return strings.ToLower(views[i].Name) < strings.ToLower(views[j].Name)
	})
	return views, nil
}

// UpdateFlags merges a partial flag edit for one item and returns the result
func (s *ListingService) UpdateFlags(ctx context.Context, itemID string, update catalog.FlagsUpdate) (catalog.Flags, error) {
	current, _, err := s.flags.Get(ctx, itemID)
	if err != nil {
		return catalog.Flags{}, err
	}
	merged := current.Apply(update)
	if err := s.flags.Save(ctx, itemID, merged); err != nil {
		return catalog.Flags{}, err
	}
	return merged, nil
}

// loadFlags fetches all stored flags; a storage error degrades to default
// flags rather than taking the listing down.
func (s *ListingService) loadFlags(ctx context.Context) (map[string]catalog.Flags, error) {
	flags, err := s.flags.GetAll(ctx)
	if err != nil {
		s.logger.Warn("Failed to load product flags, serving defaults", zap.Error(err))
		return map[string]catalog.Flags{}, nil
	}
	return flags, nil
}

func flagsFor(flags map[string]catalog.Flags, itemID string) catalog.Flags {
	if f, ok := flags[itemID]; ok {
		return f.Normalize()
	}
	return catalog.DefaultFlags()
}

// sortViews orders the listing: pinned first, then featured, then new,
// then name A to Z
func sortViews(views []ProductView) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if a.Flags.PinToTop != b.Flags.PinToTop {
			return a.Flags.PinToTop
		}
		if a.Flags.IsFeatured != b.Flags.IsFeatured {
			return a.Flags.IsFeatured
		}
		if a.Flags.IsNew != b.Flags.IsNew {
			return a.Flags.IsNew
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

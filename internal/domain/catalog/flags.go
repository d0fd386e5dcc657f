package catalog

import "context"

// RibbonType selects the ribbon shown on a product card
type RibbonType string

const (
	RibbonNone     RibbonType = "none"
	RibbonNew      RibbonType = "new"
	RibbonFeatured RibbonType = "featured"
	RibbonCustom   RibbonType = "custom"
)

// Flags are per-item administrative overrides, keyed by vendor item id.
// They are created on first admin edit, merged on later edits, and
// never expire.
type Flags struct {
	IsNew            bool       `json:"isNew"`
	IsFeatured       bool       `json:"isFeatured"`
	PinToTop         bool       `json:"pinToTop"`
	HideOnline       bool       `json:"hideOnline"`
	HideKiosk        bool       `json:"hideKiosk"`
	RibbonType       RibbonType `json:"ribbonType"`
	RibbonCustomText string     `json:"ribbonCustomText"`
}

// DefaultFlags returns the flag set applied to items with no stored
// overrides
func DefaultFlags() Flags {
	return Flags{RibbonType: RibbonNone}
}

// Normalize fills defaults for zero-valued fields loaded from storage
func (f Flags) Normalize() Flags {
	if f.RibbonType == "" {
		f.RibbonType = RibbonNone
	}
	return f
}

// FlagsUpdate is a partial flag edit; nil fields are left untouched so
// repeated admin edits merge rather than replace
type FlagsUpdate struct {
	IsNew            *bool   `json:"isNew"`
	IsFeatured       *bool   `json:"isFeatured"`
	PinToTop         *bool   `json:"pinToTop"`
	HideOnline       *bool   `json:"hideOnline"`
	HideKiosk        *bool   `json:"hideKiosk"`
	RibbonType       *string `json:"ribbonType"`
	RibbonCustomText *string `json:"ribbonCustomText"`
}

// Apply merges an update onto existing flags and returns the result
func (f Flags) Apply(u FlagsUpdate) Flags {
	if u.IsNew != nil {
		f.IsNew = *u.IsNew
	}
	if u.IsFeatured != nil {
		f.IsFeatured = *u.IsFeatured
	}
	if u.PinToTop != nil {
		f.PinToTop = *u.PinToTop
	}
	if u.HideOnline != nil {
		f.HideOnline = *u.HideOnline
	}
	if u.HideKiosk != nil {
		f.HideKiosk = *u.HideKiosk
	}
	if u.RibbonType != nil {
		f.RibbonType = RibbonType(*u.RibbonType)
	}
	if u.RibbonCustomText != nil {
		f.RibbonCustomText = *u.RibbonCustomText
	}
	return f.Normalize()
}

// FlagRepository persists per-item flags
type FlagRepository interface {
	Get(ctx context.Context, itemID string) (Flags, bool, error)
	GetAll(ctx context.Context) (map[string]Flags, error)
	Save(ctx context.Context, itemID string, flags Flags) error
}

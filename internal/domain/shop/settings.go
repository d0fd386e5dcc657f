package shop

import (
	"context"

	"github.com/shopspring/decimal"
)

// PopupMode selects what the storefront splash popup shows
type PopupMode string

const (
	PopupNone      PopupMode = "none"
	PopupEvent     PopupMode = "event"
	PopupInventory PopupMode = "inventory"
	PopupCustom    PopupMode = "custom"
)

// Settings are the shop-wide storefront knobs an admin can change at
// runtime: the announcement banner, the splash popup, and shipping rates.
// There is exactly one settings row.
type Settings struct {
	BannerText    string `json:"bannerText"`
	BannerVisible bool   `json:"bannerVisible"`

	PopupEnabled    bool      `json:"popupEnabled"`
	PopupMode       PopupMode `json:"popupMode"`
	PopupCustomText string    `json:"popupCustomText"`

	// Dollar amounts. Flat rate applies below the threshold, shipping is
	// free at or above it.
	ShippingFlatRate      decimal.Decimal `json:"shippingFlatRate"`
	FreeShippingThreshold decimal.Decimal `json:"freeShippingThreshold"`
}

// DefaultSettings returns the settings used before any admin edit
func DefaultSettings() Settings {
	return Settings{
		PopupMode:             PopupNone,
		ShippingFlatRate:      decimal.NewFromFloat(7.99),
		FreeShippingThreshold: decimal.NewFromInt(75),
	}
}

// Normalize fills defaults for zero-valued fields loaded from storage
func (s Settings) Normalize() Settings {
	if s.PopupMode == "" {
		s.PopupMode = PopupNone
	}
	return s
}

// SettingsUpdate is a partial edit; nil fields are left untouched
type SettingsUpdate struct {
	BannerText            *string          `json:"bannerText"`
	BannerVisible         *bool            `json:"bannerVisible"`
	PopupEnabled          *bool            `json:"popupEnabled"`
	PopupMode             *string          `json:"popupMode"`
	PopupCustomText       *string          `json:"popupCustomText"`
	ShippingFlatRate      *decimal.Decimal `json:"shippingFlatRate"`
	FreeShippingThreshold *decimal.Decimal `json:"freeShippingThreshold"`
}

// Apply merges an update onto existing settings and returns the result
func (s Settings) Apply(u SettingsUpdate) Settings {
	if u.BannerText != nil {
		s.BannerText = *u.BannerText
	}
	if u.BannerVisible != nil {
		s.BannerVisible = *u.BannerVisible
	}
	if u.PopupEnabled != nil {
		s.PopupEnabled = *u.PopupEnabled
	}
	if u.PopupMode != nil {
		s.PopupMode = PopupMode(*u.PopupMode)
	}
	if u.PopupCustomText != nil {
		s.PopupCustomText = *u.PopupCustomText
	}
	if u.ShippingFlatRate != nil && !u.ShippingFlatRate.IsNegative() {
		s.ShippingFlatRate = *u.ShippingFlatRate
	}
	if u.FreeShippingThreshold != nil && !u.FreeShippingThreshold.IsNegative() {
		s.FreeShippingThreshold = *u.FreeShippingThreshold
	}
	return s.Normalize()
}

// Repository persists the single settings row
type Repository interface {
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/babel-30/sugarplum-backend/internal/domain/shop"
)

// settingsRowID pins the settings table to a single row
const settingsRowID = 1

// ShopSettingsModel is the storage shape of the shop settings row
type ShopSettingsModel struct {
	ID                    uint            `gorm:"primaryKey"`
	BannerText            string          `gorm:"size:512;not null;default:''"`
	BannerVisible         bool            `gorm:"not null;default:false"`
	PopupEnabled          bool            `gorm:"not null;default:false"`
	PopupMode             string          `gorm:"size:16;not null;default:'none'"`
	PopupCustomText       string          `gorm:"size:1024;not null;default:''"`
	ShippingFlatRate      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	FreeShippingThreshold decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime"`
}

// TableName overrides the default table name
func (ShopSettingsModel) TableName() string {
	return "shop_settings"
}

// ToDomain converts the model to domain settings
func (m *ShopSettingsModel) ToDomain() shop.Settings {
	return shop.Settings{
		BannerText:            m.BannerText,
		BannerVisible:         m.BannerVisible,
		PopupEnabled:          m.PopupEnabled,
		PopupMode:             shop.PopupMode(m.PopupMode),
		PopupCustomText:       m.PopupCustomText,
		ShippingFlatRate:      m.ShippingFlatRate,
		FreeShippingThreshold: m.FreeShippingThreshold,
	}.Normalize()
}

// GormSettingsRepository implements shop.Repository using GORM
type GormSettingsRepository struct {
	db       *gorm.DB
	defaults shop.Settings
}

// NewGormSettingsRepository creates a new GormSettingsRepository. The
// defaults are served until an admin saves the first settings row.
func NewGormSettingsRepository(db *gorm.DB, opts ...SettingsRepositoryOption) *GormSettingsRepository {
	r := &GormSettingsRepository{db: db, defaults: shop.DefaultSettings()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SettingsRepositoryOption configures a GormSettingsRepository
type SettingsRepositoryOption func(*GormSettingsRepository)

// WithDefaultShipping overrides the shipping amounts in the default
// settings with the configured ones
func WithDefaultShipping(flatRate, freeThreshold decimal.Decimal) SettingsRepositoryOption {
	return func(r *GormSettingsRepository) {
		if !flatRate.IsNegative() {
			r.defaults.ShippingFlatRate = flatRate
		}
		if !freeThreshold.IsNegative() {
			r.defaults.FreeShippingThreshold = freeThreshold
		}
	}
}

// Get returns the settings row, or defaults when none has been saved yet
func (r *GormSettingsRepository) Get(ctx context.Context) (shop.Settings, error) {
	var model ShopSettingsModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", settingsRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.defaults, nil
		}
		return shop.Settings{}, err
	}
	return model.ToDomain(), nil
}

// Save upserts the single settings row
func (r *GormSettingsRepository) Save(ctx context.Context, s shop.Settings) error {
	s = s.Normalize()
	model := ShopSettingsModel{
		ID:                    settingsRowID,
		BannerText:            s.BannerText,
		BannerVisible:         s.BannerVisible,
		PopupEnabled:          s.PopupEnabled,
		PopupMode:             string(s.PopupMode),
		PopupCustomText:       s.PopupCustomText,
		ShippingFlatRate:      s.ShippingFlatRate,
		FreeShippingThreshold: s.FreeShippingThreshold,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&model).Error
}

// Ensure GormSettingsRepository implements shop.Repository
var _ shop.Repository = (*GormSettingsRepository)(nil)

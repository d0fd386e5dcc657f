package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/babel-30/sugarplum-backend/internal/domain/catalog"
)

// ProductFlagsModel is the storage shape of per-item admin flags
type ProductFlagsModel struct {
	ItemID           string    `gorm:"primaryKey;size:64"`
	IsNew            bool      `gorm:"not null;default:false"`
	IsFeatured       bool      `gorm:"not null;default:false"`
	PinToTop         bool      `gorm:"not null;default:false"`
	HideOnline       bool      `gorm:"not null;default:false"`
	HideKiosk        bool      `gorm:"not null;default:false"`
	RibbonType       string    `gorm:"size:16;not null;default:'none'"`
	RibbonCustomText string    `gorm:"size:128;not null;default:''"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the default table name
func (ProductFlagsModel) TableName() string {
	return "product_flags"
}

// ToDomain converts the model to domain flags
func (m *ProductFlagsModel) ToDomain() catalog.Flags {
	return catalog.Flags{
		IsNew:            m.IsNew,
		IsFeatured:       m.IsFeatured,
		PinToTop:         m.PinToTop,
		HideOnline:       m.HideOnline,
		HideKiosk:        m.HideKiosk,
		RibbonType:       catalog.RibbonType(m.RibbonType),
		RibbonCustomText: m.RibbonCustomText,
	}.Normalize()
}

// GormFlagRepository implements catalog.FlagRepository using GORM
type GormFlagRepository struct {
	db *gorm.DB
}

// NewGormFlagRepository creates a new GormFlagRepository
func NewGormFlagRepository(db *gorm.DB) *GormFlagRepository {
	return &GormFlagRepository{db: db}
}

// Get returns the stored flags for one item; found is false when the item
// has never been edited.
func (r *GormFlagRepository) Get(ctx context.Context, itemID string) (catalog.Flags, bool, error) {
	var model ProductFlagsModel
	if err := r.db.WithContext(ctx).First(&model, "item_id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.DefaultFlags(), false, nil
		}
		return catalog.Flags{}, false, err
	}
	return model.ToDomain(), true, nil
}

// GetAll returns flags for every item that has stored overrides
func (r *GormFlagRepository) GetAll(ctx context.Context) (map[string]catalog.Flags, error) {
	var rows []ProductFlagsModel
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]catalog.Flags, len(rows))
	for i := range rows {
		out[rows[i].ItemID] = rows[i].ToDomain()
	}
	return out, nil
}

// Save upserts the flags for one item
func (r *GormFlagRepository) Save(ctx context.Context, itemID string, flags catalog.Flags) error {
	flags = flags.Normalize()
	model := ProductFlagsModel{
		ItemID:           itemID,
		IsNew:            flags.IsNew,
		IsFeatured:       flags.IsFeatured,
		PinToTop:         flags.PinToTop,
		HideOnline:       flags.HideOnline,
		HideKiosk:        flags.HideKiosk,
		RibbonType:       string(flags.RibbonType),
		RibbonCustomText: flags.RibbonCustomText,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}},
			UpdateAll: true,
		}).
		Create(&model).Error
}

// Ensure GormFlagRepository implements FlagRepository
var _ catalog.FlagRepository = (*GormFlagRepository)(nil)

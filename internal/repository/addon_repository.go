package repository

import (
	"context"

	"gorm.io/gorm"

	addonDomain "github.com/staybook/service-booking/internal/domain/addon"
	"github.com/staybook/service-booking/internal/domain/pricing"
)

// GormAddOnRepository implements addon.Repository using GORM.
type GormAddOnRepository struct {
	db *gorm.DB
}

// NewGormAddOnRepository creates a new GormAddOnRepository.
func NewGormAddOnRepository(db *gorm.DB) *GormAddOnRepository {
	return &GormAddOnRepository{db: db}
}

// Save persists a catalog entry.
func (r *GormAddOnRepository) Save(ctx context.Context, a *addonDomain.AddOn) error {
	model := AddOnModel{
		ID:        a.ID,
		Code:      a.Code,
		Name:      a.Name,
		Mode:      a.Mode.String(),
		UnitPrice: a.UnitPrice,
		IsActive:  a.Active,
		CreatedAt: a.CreatedAt,
	}
	return translateWriteError(r.db.WithContext(ctx).Create(&model).Error)
}

// FindActiveByCodes returns the active add-ons among codes, keyed by code.
func (r *GormAddOnRepository) FindActiveByCodes(ctx context.Context, codes []string) (map[string]*addonDomain.AddOn, error) {
	out := make(map[string]*addonDomain.AddOn, len(codes))
	if len(codes) == 0 {
		return out, nil
	}
	var models []AddOnModel
	if err := r.db.WithContext(ctx).
		Where("code IN ? AND is_active = ?", codes, true).
		Find(&models).Error; err != nil {
		return nil, err
	}
	for i := range models {
		a, err := toAddOnDomain(&models[i])
		if err != nil {
			return nil, err
		}
		out[a.Code] = a
	}
	return out, nil
}

// ListActive returns the active catalog ordered by code.
func (r *GormAddOnRepository) ListActive(ctx context.Context) ([]*addonDomain.AddOn, error) {
	var models []AddOnModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("code").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*addonDomain.AddOn, 0, len(models))
	for i := range models {
		a, err := toAddOnDomain(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func toAddOnDomain(m *AddOnModel) (*addonDomain.AddOn, error) {
	mode, err := pricing.ParseMode(m.Mode)
	if err != nil {
		return nil, err
	}
	return &addonDomain.AddOn{
		ID:        m.ID,
		Code:      m.Code,
		Name:      m.Name,
		Mode:      mode,
		UnitPrice: m.UnitPrice,
		Active:    m.IsActive,
		CreatedAt: m.CreatedAt,
	}, nil
}

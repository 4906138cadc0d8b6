package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelvillar/pawmart-backend/pkg/db/models"
)

// Repository defines persistence for the singleton settings rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetContactInfo(ctx context.Context) (*models.ContactInfo, error)
	UpdateContactInfo(ctx context.Context, updates map[string]any) error
	GetAdminSettings(ctx context.Context) (*models.AdminSettings, error)
	UpdateAdminSettings(ctx context.Context, updates map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Singleton rows are seeded by migration, so First without a predicate is
// always the right row.
func (r *repository) GetContactInfo(ctx context.Context) (*models.ContactInfo, error) {
	var info models.ContactInfo
	if err := r.db.WithContext(ctx).First(&info).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *repository) UpdateContactInfo(ctx context.Context, updates map[string]any) error {
	info, err := r.GetContactInfo(ctx)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.ContactInfo{}).
		Where("id = ?", info.ID).
		Updates(updates).Error
}

func (r *repository) GetAdminSettings(ctx context.Context) (*models.AdminSettings, error) {
	var settings models.AdminSettings
	if err := r.db.WithContext(ctx).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *repository) UpdateAdminSettings(ctx context.Context, updates map[string]any) error {
	settings, err := r.GetAdminSettings(ctx)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.AdminSettings{}).
		Where("id = ?", settings.ID).
		Updates(updates).Error
}

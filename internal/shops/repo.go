package shops

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles shop persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to shop operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new shop row.
func (r *Repository) Create(ctx context.Context, shop *models.Shop) error {
	if shop == nil {
		return fmt.Errorf("shop is required")
	}
	return r.db.WithContext(ctx).Create(shop).Error
}

// FindByID loads a shop by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// FindByVendor returns the vendor's shop with an explicit found flag. A vendor
// without a shop is an expected state, not an error.
func (r *Repository) FindByVendor(ctx context.Context, vendorID uuid.UUID) (*models.Shop, bool, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).First(&shop).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &shop, true, nil
}

// List returns shops, optionally filtered by review status, newest first.
func (r *Repository) List(ctx context.Context, status *enums.ShopStatus) ([]models.Shop, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var shops []models.Shop
	if err := query.Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

// ListApproved returns the shops visible to students.
func (r *Repository) ListApproved(ctx context.Context) ([]models.Shop, error) {
	var shops []models.Shop
	if err := r.db.WithContext(ctx).
		Where("status = ? AND is_active = ?", enums.ShopStatusApproved, true).
		Order("name ASC").
		Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

// Update saves the provided shop.
func (r *Repository) Update(ctx context.Context, shop *models.Shop) error {
	if shop == nil {
		return fmt.Errorf("shop is required")
	}
	return r.db.WithContext(ctx).Save(shop).Error
}

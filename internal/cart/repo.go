package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles cart line persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to cart operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindLine returns the user's line for a food item with an explicit found
// flag; a missing line is an expected state.
func (r *Repository) FindLine(ctx context.Context, userID, foodItemID uuid.UUID) (*models.CartLine, bool, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND food_item_id = ?", userID, foodItemID).
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &line, true, nil
}

// ListByUser returns the user's cart lines in insertion order with items and
// shops preloaded. The ordering drives the grouped cart view.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.db.WithContext(ctx).
		Preload("FoodItem").
		Preload("FoodItem.Shop").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// Create persists a new cart line.
func (r *Repository) Create(ctx context.Context, line *models.CartLine) error {
	if line == nil {
		return fmt.Errorf("cart line is required")
	}
	return r.db.WithContext(ctx).Create(line).Error
}

// UpdateQuantity overwrites the quantity of an existing line. Update (not
// UpdateColumn) so GORM stamps updated_at.
func (r *Repository) UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ?", lineID).
		Update("quantity", quantity).Error
}

// DeleteLine removes one cart line.
func (r *Repository) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartLine{}, "id = ?", lineID).Error
}

// DeleteByUser clears the user's entire cart.
func (r *Repository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartLine{}, "user_id = ?", userID).Error
}

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemRepository handles food item persistence.
type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository binds a GORM DB to food item operations.
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create persists a new food item row.
func (r *ItemRepository) Create(ctx context.Context, item *models.FoodItem) error {
	if item == nil {
		return fmt.Errorf("food item is required")
	}
	return r.db.WithContext(ctx).Create(item).Error
}

// FindByID loads a food item with its shop and category associations.
func (r *ItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error) {
	var item models.FoodItem
	if err := r.db.WithContext(ctx).
		Preload("Shop").
		Preload("Category").
		First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByShop returns a shop's full menu, including unavailable items.
func (r *ItemRepository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]models.FoodItem, error) {
	var items []models.FoodItem
	if err := r.db.WithContext(ctx).
		Preload("Shop").
		Preload("Category").
		Where("shop_id = ?", shopID).
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AvailableByShop returns the orderable part of a shop's menu.
func (r *ItemRepository) AvailableByShop(ctx context.Context, shopID uuid.UUID) ([]models.FoodItem, error) {
	var items []models.FoodItem
	if err := r.db.WithContext(ctx).
		Preload("Shop").
		Preload("Category").
		Where("shop_id = ? AND is_available = ?", shopID, true).
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Browse lists available items of approved shops, narrowed by the filter.
// Filters combine with AND; the search term matches item name, item
// description, or shop name case-insensitively.
func (r *ItemRepository) Browse(ctx context.Context, filter BrowseFilter) ([]models.FoodItem, error) {
	query := r.db.WithContext(ctx).
		Preload("Shop").
		Preload("Category").
		Joins("JOIN shops ON shops.id = food_items.shop_id").
		Where("shops.status = ? AND shops.is_active = ?", enums.ShopStatusApproved, true).
		Where("food_items.is_available = ?", true)

	if filter.CategoryID != nil {
		query = query.Where("food_items.category_id = ?", *filter.CategoryID)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(food_items.name) LIKE ? OR LOWER(food_items.description) LIKE ? OR LOWER(shops.name) LIKE ?",
			like, like, like,
		)
	}
	if filter.Vegetarian {
		query = query.Where("food_items.is_vegetarian = ?", true)
	}
	if filter.Vegan {
		query = query.Where("food_items.is_vegan = ?", true)
	}

	var items []models.FoodItem
	if err := query.Order("food_items.name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update saves the provided food item.
func (r *ItemRepository) Update(ctx context.Context, item *models.FoodItem) error {
	if item == nil {
		return fmt.Errorf("food item is required")
	}
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes the food item. Cart lines cascade; order item references
// null out, keeping order history intact.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.FoodItem{}, "id = ?", id).Error
}

package checkout

import (
	"context"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes the persistence surface the checkout transaction needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CartLinesForShop(ctx context.Context, userID, shopID uuid.UUID) ([]models.CartLine, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	DeleteCartLines(ctx context.Context, lineIDs []uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a checkout repository backed by the provided DB.
func NewRepository(db *gorm.DB) Repository {
	if db == nil {
		return nil
	}
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// CartLinesForShop selects only the user's lines belonging to the given shop,
// in insertion order. Lines for other shops stay untouched by checkout.
func (r *repository) CartLinesForShop(ctx context.Context, userID, shopID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Preload("FoodItem").
		Joins("JOIN food_items ON food_items.id = cart_lines.food_item_id").
		Where("cart_lines.user_id = ? AND food_items.shop_id = ?", userID, shopID).
		Order("cart_lines.created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) DeleteCartLines(ctx context.Context, lineIDs []uuid.UUID) error {
	if len(lineIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.CartLine{}, "id IN ?", lineIDs).Error
}

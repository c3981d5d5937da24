package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
)

// Repository runs the live count queries behind the dashboards. Counts are
// computed on read; nothing is cached or denormalized.
type Repository interface {
	CountShops(ctx context.Context, status *enums.ShopStatus) (int64, error)
	CountApprovedActiveShops(ctx context.Context) (int64, error)
	CountItems(ctx context.Context) (int64, error)
	CountShopItems(ctx context.Context, shopID uuid.UUID, availableOnly bool) (int64, error)
	CountInStockItems(ctx context.Context) (int64, error)
	CountOrders(ctx context.Context) (int64, error)
	CountShopOrders(ctx context.Context, shopID uuid.UUID, status *enums.OrderStatus, since *time.Time) (int64, error)
	CountUserOrders(ctx context.Context, userID uuid.UUID, activeOnly bool) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a dashboard repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountShops(ctx context.Context, status *enums.ShopStatus) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Shop{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *repository) CountApprovedActiveShops(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Shop{}).
		Where("status = ? AND is_active = ?", enums.ShopStatusApproved, true).
		Count(&count).Error
	return count, err
}

func (r *repository) CountItems(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FoodItem{}).Count(&count).Error
	return count, err
}

func (r *repository) CountShopItems(ctx context.Context, shopID uuid.UUID, availableOnly bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.FoodItem{}).
		Where("shop_id = ?", shopID)
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// CountInStockItems counts items a student could order right now: the item is
// available and its shop is approved and active.
func (r *repository) CountInStockItems(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FoodItem{}).
		Joins("JOIN shops ON shops.id = food_items.shop_id").
		Where("food_items.is_available = ?", true).
		Where("shops.status = ? AND shops.is_active = ?", enums.ShopStatusApproved, true).
		Count(&count).Error
	return count, err
}

func (r *repository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

func (r *repository) CountShopOrders(ctx context.Context, shopID uuid.UUID, status *enums.OrderStatus, since *time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("shop_id = ?", shopID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *repository) CountUserOrders(ctx context.Context, userID uuid.UUID, activeOnly bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("status IN ?", enums.ActiveOrderStatuses)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

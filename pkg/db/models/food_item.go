package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FoodItem is a menu entry owned by a shop.
type FoodItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID          uuid.UUID       `gorm:"column:shop_id;type:uuid;not null;index"`
	CategoryID      *uuid.UUID      `gorm:"column:category_id;type:uuid;index"`
	Name            string          `gorm:"column:name;not null"`
	Description     string          `gorm:"column:description;not null"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	IsAvailable     bool            `gorm:"column:is_available;not null;default:true"`
	IsVegetarian    bool            `gorm:"column:is_vegetarian;not null;default:false"`
	IsVegan         bool            `gorm:"column:is_vegan;not null;default:false"`
	PreparationTime *int            `gorm:"column:preparation_time"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Shop     *Shop     `gorm:"foreignKey:ShopID"`
	Category *Category `gorm:"foreignKey:CategoryID"`
}

// InStock reports whether the item can currently be ordered.
func (f FoodItem) InStock() bool {
	return f.IsAvailable && f.Shop != nil && f.Shop.IsApproved()
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one (user, food item) pair in a student's cart. The pair is
// unique; re-adding an item increments the existing line.
type CartLine struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_user_item"`
	FoodItemID uuid.UUID `gorm:"column:food_item_id;type:uuid;not null;uniqueIndex:idx_cart_user_item"`
	Quantity   int       `gorm:"column:quantity;not null;default:1"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`

	FoodItem *FoodItem `gorm:"foreignKey:FoodItemID"`
}

// Subtotal is the live price of the line: the item's current price times
// quantity. Prices snapshot only at checkout.
func (c CartLine) Subtotal() decimal.Decimal {
	if c.FoodItem == nil {
		return decimal.Zero
	}
	return c.FoodItem.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

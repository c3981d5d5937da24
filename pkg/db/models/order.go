package models

import (
	"time"

	"github.com/campuseats/campuseats-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a checked-out purchase scoped to a single shop.
type Order struct {
	ID                  uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber         string              `gorm:"column:order_number;not null;uniqueIndex:orders_order_number_key"`
	UserID              uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	ShopID              uuid.UUID           `gorm:"column:shop_id;type:uuid;not null;index"`
	Status              enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus       enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	TotalAmount         decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null"`
	SpecialInstructions *string             `gorm:"column:special_instructions"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Shop  *Shop       `gorm:"foreignKey:ShopID"`
	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// IsActive reports whether the order is still in flight.
func (o Order) IsActive() bool {
	return !o.Status.IsTerminal()
}

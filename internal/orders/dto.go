package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
)

// ListFilters describe the inputs supported by the order lists.
type ListFilters struct {
	Status *enums.OrderStatus
}

// OrderItemDTO is one snapshotted line of a placed order.
type OrderItemDTO struct {
	ID         uuid.UUID       `json:"id"`
	FoodItemID *uuid.UUID      `json:"food_item_id,omitempty"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// OrderDTO is the transport shape of an order with its items.
type OrderDTO struct {
	ID                  uuid.UUID           `json:"id"`
	OrderNumber         string              `json:"order_number"`
	UserID              uuid.UUID           `json:"user_id"`
	ShopID              uuid.UUID           `json:"shop_id"`
	ShopName            string              `json:"shop_name,omitempty"`
	Status              enums.OrderStatus   `json:"status"`
	PaymentStatus       enums.PaymentStatus `json:"payment_status"`
	TotalAmount         decimal.Decimal     `json:"total_amount"`
	SpecialInstructions *string             `json:"special_instructions,omitempty"`
	IsActive            bool                `json:"is_active"`
	Items               []OrderItemDTO      `json:"items"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// OrderList wraps a page of orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// FromModel maps an order row (with items and shop preloaded) to transport
// shape.
func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:                  o.ID,
		OrderNumber:         o.OrderNumber,
		UserID:              o.UserID,
		ShopID:              o.ShopID,
		Status:              o.Status,
		PaymentStatus:       o.PaymentStatus,
		TotalAmount:         o.TotalAmount,
		SpecialInstructions: o.SpecialInstructions,
		IsActive:            o.IsActive(),
		Items:               make([]OrderItemDTO, 0, len(o.Items)),
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
	if o.Shop != nil {
		dto.ShopName = o.Shop.Name
	}
	for i := range o.Items {
		item := &o.Items[i]
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:         item.ID,
			FoodItemID: item.FoodItemID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
			Subtotal:   item.Subtotal(),
		})
	}
	return dto
}

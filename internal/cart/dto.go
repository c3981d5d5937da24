package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
)

// LineDTO is one cart line priced at the item's current price.
type LineDTO struct {
	ID          uuid.UUID       `json:"id"`
	FoodItemID  uuid.UUID       `json:"food_item_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	InStock     bool            `json:"in_stock"`
	ShopID      uuid.UUID       `json:"shop_id"`
	ShopName    string          `json:"shop_name,omitempty"`
}

// ShopGroupDTO bundles a cart's lines for one shop. Checkout operates on one
// group at a time.
type ShopGroupDTO struct {
	ShopID   uuid.UUID       `json:"shop_id"`
	ShopName string          `json:"shop_name"`
	Lines    []LineDTO       `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// ViewDTO is the full cart grouped by shop.
type ViewDTO struct {
	Groups    []ShopGroupDTO  `json:"groups"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// AddItemInput captures an add-to-cart request.
type AddItemInput struct {
	FoodItemID uuid.UUID
	Quantity   int
}

// LineFromModel maps a cart line (with its item preloaded) to transport shape.
func LineFromModel(l *models.CartLine) *LineDTO {
	if l == nil || l.FoodItem == nil {
		return nil
	}
	dto := &LineDTO{
		ID:         l.ID,
		FoodItemID: l.FoodItemID,
		Name:       l.FoodItem.Name,
		Price:      l.FoodItem.Price,
		Quantity:   l.Quantity,
		Subtotal:   l.Subtotal(),
		InStock:    l.FoodItem.InStock(),
		ShopID:     l.FoodItem.ShopID,
	}
	if l.FoodItem.Shop != nil {
		dto.ShopName = l.FoodItem.Shop.Name
	}
	return dto
}

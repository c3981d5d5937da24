package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
)

// CategoryDTO is the transport shape for a taxonomy entry.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Icon        *string   `json:"icon,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCategoryInput captures a new taxonomy entry.
type CreateCategoryInput struct {
	Name        string
	Description *string
	Icon        *string
}

// UpdateCategoryInput captures the mutable category fields.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Icon        *string
	IsActive    *bool
}

// FoodItemDTO is the transport shape for a menu entry.
type FoodItemDTO struct {
	ID              uuid.UUID       `json:"id"`
	ShopID          uuid.UUID       `json:"shop_id"`
	ShopName        string          `json:"shop_name,omitempty"`
	CategoryID      *uuid.UUID      `json:"category_id,omitempty"`
	CategoryName    *string         `json:"category_name,omitempty"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	IsAvailable     bool            `json:"is_available"`
	IsVegetarian    bool            `json:"is_vegetarian"`
	IsVegan         bool            `json:"is_vegan"`
	PreparationTime *int            `json:"preparation_time,omitempty"`
	InStock         bool            `json:"in_stock"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreateFoodItemInput captures a new menu entry.
type CreateFoodItemInput struct {
	CategoryID      *uuid.UUID
	Name            string
	Description     string
	Price           decimal.Decimal
	IsAvailable     *bool
	IsVegetarian    bool
	IsVegan         bool
	PreparationTime *int
}

// UpdateFoodItemInput captures the mutable menu entry fields.
type UpdateFoodItemInput struct {
	CategoryID      *uuid.UUID
	ClearCategory   bool
	Name            *string
	Description     *string
	Price           *decimal.Decimal
	IsAvailable     *bool
	IsVegetarian    *bool
	IsVegan         *bool
	PreparationTime *int
}

// BrowseFilter narrows the public menu listing. Filters combine with AND.
type BrowseFilter struct {
	CategoryID *uuid.UUID
	Search     string
	Vegetarian bool
	Vegan      bool
}

// CategoryFromModel maps a category row to its transport shape.
func CategoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ItemFromModel maps a food item row to its transport shape, pulling the shop
// and category names when those associations are loaded.
func ItemFromModel(f *models.FoodItem) *FoodItemDTO {
	if f == nil {
		return nil
	}
	dto := &FoodItemDTO{
		ID:              f.ID,
		ShopID:          f.ShopID,
		CategoryID:      f.CategoryID,
		Name:            f.Name,
		Description:     f.Description,
		Price:           f.Price,
		IsAvailable:     f.IsAvailable,
		IsVegetarian:    f.IsVegetarian,
		IsVegan:         f.IsVegan,
		PreparationTime: f.PreparationTime,
		InStock:         f.InStock(),
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
	if f.Shop != nil {
		dto.ShopName = f.Shop.Name
	}
	if f.Category != nil {
		name := f.Category.Name
		dto.CategoryName = &name
	}
	return dto
}

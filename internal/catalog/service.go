package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campuseats/campuseats-backend/pkg/db"
	"github.com/campuseats/campuseats-backend/pkg/db/models"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type categoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context, activeOnly bool) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type itemRepository interface {
	Create(ctx context.Context, item *models.FoodItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]models.FoodItem, error)
	AvailableByShop(ctx context.Context, shopID uuid.UUID) ([]models.FoodItem, error)
	Browse(ctx context.Context, filter BrowseFilter) ([]models.FoodItem, error)
	Update(ctx context.Context, item *models.FoodItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type shopRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	FindByVendor(ctx context.Context, vendorID uuid.UUID) (*models.Shop, bool, error)
}

// Service exposes category management, vendor menu management, and public
// menu browsing.
type Service interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context, includeInactive bool) ([]CategoryDTO, error)

	CreateItem(ctx context.Context, vendorID uuid.UUID, input CreateFoodItemInput) (*FoodItemDTO, error)
	UpdateItem(ctx context.Context, vendorID, itemID uuid.UUID, input UpdateFoodItemInput) (*FoodItemDTO, error)
	DeleteItem(ctx context.Context, vendorID, itemID uuid.UUID) error
	ListOwnItems(ctx context.Context, vendorID uuid.UUID) ([]FoodItemDTO, error)

	Browse(ctx context.Context, filter BrowseFilter) ([]FoodItemDTO, error)
	GetItem(ctx context.Context, itemID uuid.UUID) (*FoodItemDTO, error)
	ShopMenu(ctx context.Context, shopID uuid.UUID) ([]FoodItemDTO, error)
}

type service struct {
	categories categoryRepository
	items      itemRepository
	shops      shopRepository
}

// NewService builds a catalog service with the provided repositories.
func NewService(categories categoryRepository, items itemRepository, shops shopRepository) (Service, error) {
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shop repository required")
	}
	return &service{categories: categories, items: items, shops: shops}, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category := &models.Category{
		Name:        name,
		Description: input.Description,
		Icon:        input.Icon,
		IsActive:    true,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return CategoryFromModel(category), nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.loadCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
		}
		category.Name = name
	}
	if input.Description != nil {
		category.Description = input.Description
	}
	if input.Icon != nil {
		category.Icon = input.Icon
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.categories.Update(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return CategoryFromModel(category), nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadCategory(ctx, id); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) ListCategories(ctx context.Context, includeInactive bool) ([]CategoryDTO, error) {
	categories, err := s.categories.List(ctx, !includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		out = append(out, *CategoryFromModel(&categories[i]))
	}
	return out, nil
}

// CreateItem adds a menu entry to the vendor's shop. The shop must already be
// approved; pending or rejected vendors cannot publish menus.
func (s *service) CreateItem(ctx context.Context, vendorID uuid.UUID, input CreateFoodItemInput) (*FoodItemDTO, error) {
	shop, found, err := s.shops.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup shop")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	if !shop.IsApproved() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "shop is not approved")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	// Zero-priced items (giveaways, condiments) are legal; only negative
	// prices are rejected.
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	available := true
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}

	item := &models.FoodItem{
		ShopID:          shop.ID,
		CategoryID:      input.CategoryID,
		Name:            name,
		Description:     strings.TrimSpace(input.Description),
		Price:           input.Price,
		IsAvailable:     available,
		IsVegetarian:    input.IsVegetarian,
		IsVegan:         input.IsVegan,
		PreparationTime: input.PreparationTime,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}
	item.Shop = shop
	return ItemFromModel(item), nil
}

func (s *service) UpdateItem(ctx context.Context, vendorID, itemID uuid.UUID, input UpdateFoodItemInput) (*FoodItemDTO, error) {
	item, err := s.loadOwnedItem(ctx, vendorID, itemID)
	if err != nil {
		return nil, err
	}

	if input.ClearCategory {
		item.CategoryID = nil
		item.Category = nil
	} else if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		item.CategoryID = input.CategoryID
		item.Category = nil
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
		}
		item.Name = name
	}
	if input.Description != nil {
		item.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		item.Price = *input.Price
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	if input.IsVegetarian != nil {
		item.IsVegetarian = *input.IsVegetarian
	}
	if input.IsVegan != nil {
		item.IsVegan = *input.IsVegan
	}
	if input.PreparationTime != nil {
		item.PreparationTime = input.PreparationTime
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}
	return ItemFromModel(item), nil
}

func (s *service) DeleteItem(ctx context.Context, vendorID, itemID uuid.UUID) error {
	if _, err := s.loadOwnedItem(ctx, vendorID, itemID); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
	}
	return nil
}

func (s *service) ListOwnItems(ctx context.Context, vendorID uuid.UUID) ([]FoodItemDTO, error) {
	shop, found, err := s.shops.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup shop")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}

	items, err := s.items.ListByShop(ctx, shop.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	return itemDTOs(items), nil
}

func (s *service) Browse(ctx context.Context, filter BrowseFilter) ([]FoodItemDTO, error) {
	items, err := s.items.Browse(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "browse items")
	}
	return itemDTOs(items), nil
}

// GetItem loads a menu entry for public viewing. Items of non-approved shops
// read as missing.
func (s *service) GetItem(ctx context.Context, itemID uuid.UUID) (*FoodItemDTO, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if item.Shop == nil || !item.Shop.IsApproved() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return ItemFromModel(item), nil
}

// ShopMenu returns the orderable menu of an approved shop.
func (s *service) ShopMenu(ctx context.Context, shopID uuid.UUID) ([]FoodItemDTO, error) {
	shop, err := s.shops.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}
	if !shop.IsApproved() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}

	items, err := s.items.AvailableByShop(ctx, shop.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	return itemDTOs(items), nil
}

func (s *service) loadCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func (s *service) ensureCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return nil
}

func (s *service) loadOwnedItem(ctx context.Context, vendorID, itemID uuid.UUID) (*models.FoodItem, error) {
	shop, found, err := s.shops.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup shop")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if item.ShopID != shop.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "item belongs to another shop")
	}
	return item, nil
}

func itemDTOs(items []models.FoodItem) []FoodItemDTO {
	out := make([]FoodItemDTO, 0, len(items))
	for i := range items {
		out = append(out, *ItemFromModel(&items[i]))
	}
	return out
}

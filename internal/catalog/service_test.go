package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
)

func TestCreateItemRequiresApprovedShop(t *testing.T) {
	t.Parallel()

	shop := testShop(enums.ShopStatusPending, true)
	svc := newTestCatalogService(t, &stubCategoryRepo{}, &stubItemRepo{}, &stubShopLookup{shop: shop})

	_, err := svc.CreateItem(context.Background(), shop.VendorID, CreateFoodItemInput{
		Name:  "Burrito",
		Price: decimal.RequireFromString("9.50"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for unapproved shop, got %v", err)
	}
}

func TestCreateItemRejectsNegativePrice(t *testing.T) {
	t.Parallel()

	shop := testShop(enums.ShopStatusApproved, true)
	svc := newTestCatalogService(t, &stubCategoryRepo{}, &stubItemRepo{}, &stubShopLookup{shop: shop})

	_, err := svc.CreateItem(context.Background(), shop.VendorID, CreateFoodItemInput{
		Name:  "Refund Trap",
		Price: decimal.RequireFromString("-0.01"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}
}

func TestCreateItemAllowsZeroPrice(t *testing.T) {
	t.Parallel()

	shop := testShop(enums.ShopStatusApproved, true)
	svc := newTestCatalogService(t, &stubCategoryRepo{}, &stubItemRepo{}, &stubShopLookup{shop: shop})

	dto, err := svc.CreateItem(context.Background(), shop.VendorID, CreateFoodItemInput{
		Name:  "Free Water",
		Price: decimal.Zero,
	})
	if err != nil {
		t.Fatalf("zero-priced item should be creatable: %v", err)
	}
	if !dto.Price.IsZero() {
		t.Fatalf("expected price 0.00, got %s", dto.Price)
	}
}

func TestUpdateItemRejectsNegativePrice(t *testing.T) {
	t.Parallel()

	shop := testShop(enums.ShopStatusApproved, true)
	item := &models.FoodItem{
		ID:     uuid.New(),
		ShopID: shop.ID,
		Name:   "Burrito",
		Price:  decimal.RequireFromString("9.50"),
		Shop:   shop,
	}
	svc := newTestCatalogService(t, &stubCategoryRepo{}, &stubItemRepo{item: item}, &stubShopLookup{shop: shop})

	negative := decimal.RequireFromString("-1.00")
	_, err := svc.UpdateItem(context.Background(), shop.VendorID, item.ID, UpdateFoodItemInput{Price: &negative})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}

	free := decimal.Zero
	dto, err := svc.UpdateItem(context.Background(), shop.VendorID, item.ID, UpdateFoodItemInput{Price: &free})
	if err != nil {
		t.Fatalf("marking an item down to 0.00 should succeed: %v", err)
	}
	if !dto.Price.IsZero() {
		t.Fatalf("expected price 0.00, got %s", dto.Price)
	}
}

func TestCreateItemUnknownCategory(t *testing.T) {
	t.Parallel()

	shop := testShop(enums.ShopStatusApproved, true)
	svc := newTestCatalogService(t, &stubCategoryRepo{}, &stubItemRepo{}, &stubShopLookup{shop: shop})

	bogus := uuid.New()
	_, err := svc.CreateItem(context.Background(), shop.VendorID, CreateFoodItemInput{
		Name:       "Burrito",
		Price:      decimal.RequireFromString("9.50"),
		CategoryID: &bogus,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown category, got %v", err)
	}
}

func TestCreateItemDefaultsToAvailable(t *testing.T) {
	t.Parallel()

	shop := testShop(enums.ShopStatusApproved, true)
	items := &stubItemRepo{}
	svc := newTestCatalogService(t, &stubCategoryRepo{}, items, &stubShopLookup{shop: shop})

	dto, err := svc.CreateItem(context.Background(), shop.VendorID, CreateFoodItemInput{
		Name:  "  Burrito  ",
		Price: decimal.RequireFromString("9.50"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Name != "Burrito" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if !dto.IsAvailable {
		t.Fatal("expected availability to default to true")
	}
	if !dto.InStock {
		t.Fatal("approved shop item should be in stock")
	}
}

func TestUpdateItemClearsCategory(t *testing.T) {
	t.Parallel()

	shop := testShop(enums.ShopStatusApproved, true)
	categoryID := uuid.New()
	item := &models.FoodItem{
		ID:         uuid.New(),
		ShopID:     shop.ID,
		CategoryID: &categoryID,
		Name:       "Burrito",
		Price:      decimal.RequireFromString("9.50"),
		Shop:       shop,
	}
	items := &stubItemRepo{item: item}
	svc := newTestCatalogService(t, &stubCategoryRepo{}, items, &stubShopLookup{shop: shop})

	dto, err := svc.UpdateItem(context.Background(), shop.VendorID, item.ID, UpdateFoodItemInput{ClearCategory: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.CategoryID != nil {
		t.Fatalf("expected category cleared, got %v", dto.CategoryID)
	}
}

func TestUpdateItemOfForeignShopForbidden(t *testing.T) {
	t.Parallel()

	shop := testShop(enums.ShopStatusApproved, true)
	item := &models.FoodItem{
		ID:     uuid.New(),
		ShopID: uuid.New(),
		Name:   "Not Yours",
		Price:  decimal.RequireFromString("5.00"),
	}
	svc := newTestCatalogService(t, &stubCategoryRepo{}, &stubItemRepo{item: item}, &stubShopLookup{shop: shop})

	newName := "Mine Now"
	_, err := svc.UpdateItem(context.Background(), shop.VendorID, item.ID, UpdateFoodItemInput{Name: &newName})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for foreign item, got %v", err)
	}
}

func TestGetItemHidesUnapprovedShops(t *testing.T) {
	t.Parallel()

	shop := testShop(enums.ShopStatusApproved, false)
	item := &models.FoodItem{
		ID:          uuid.New(),
		ShopID:      shop.ID,
		Name:        "Hidden",
		Price:       decimal.RequireFromString("5.00"),
		IsAvailable: true,
		Shop:        shop,
	}
	svc := newTestCatalogService(t, &stubCategoryRepo{}, &stubItemRepo{item: item}, &stubShopLookup{shop: shop})

	_, err := svc.GetItem(context.Background(), item.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for inactive shop item, got %v", err)
	}
}

func TestShopMenuNotFoundForPendingShop(t *testing.T) {
	t.Parallel()

	shop := testShop(enums.ShopStatusPending, true)
	svc := newTestCatalogService(t, &stubCategoryRepo{}, &stubItemRepo{}, &stubShopLookup{shop: shop})

	_, err := svc.ShopMenu(context.Background(), shop.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for pending shop menu, got %v", err)
	}
}

func TestCreateCategoryConflictOnDuplicateName(t *testing.T) {
	t.Parallel()

	categories := &stubCategoryRepo{createErr: errDuplicate{}}
	svc := newTestCatalogService(t, categories, &stubItemRepo{}, &stubShopLookup{})

	_, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "Drinks"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateCategoryTogglesActive(t *testing.T) {
	t.Parallel()

	category := &models.Category{ID: uuid.New(), Name: "Drinks", IsActive: true}
	categories := &stubCategoryRepo{category: category}
	svc := newTestCatalogService(t, categories, &stubItemRepo{}, &stubShopLookup{})

	inactive := false
	dto, err := svc.UpdateCategory(context.Background(), category.ID, UpdateCategoryInput{IsActive: &inactive})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.IsActive {
		t.Fatal("expected category deactivated")
	}
}

func newTestCatalogService(t *testing.T, categories categoryRepository, items itemRepository, shops shopRepository) Service {
	t.Helper()
	svc, err := NewService(categories, items, shops)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func testShop(status enums.ShopStatus, active bool) *models.Shop {
	return &models.Shop{
		ID:       uuid.New(),
		VendorID: uuid.New(),
		Name:     "Test Shop",
		Status:   status,
		IsActive: active,
	}
}

type errDuplicate struct{}

func (errDuplicate) Error() string {
	return `duplicate key value violates unique constraint "categories_name_key"`
}

type stubCategoryRepo struct {
	category  *models.Category
	createErr error
}

func (s *stubCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	if s.createErr != nil {
		return s.createErr
	}
	category.ID = uuid.New()
	s.category = category
	return nil
}

func (s *stubCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if s.category == nil || s.category.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.category, nil
}

func (s *stubCategoryRepo) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	if s.category == nil || (activeOnly && !s.category.IsActive) {
		return nil, nil
	}
	return []models.Category{*s.category}, nil
}

func (s *stubCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	s.category = category
	return nil
}

func (s *stubCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.category = nil
	return nil
}

type stubItemRepo struct {
	item    *models.FoodItem
	created []*models.FoodItem
}

func (s *stubItemRepo) Create(ctx context.Context, item *models.FoodItem) error {
	item.ID = uuid.New()
	s.created = append(s.created, item)
	return nil
}

func (s *stubItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error) {
	if s.item == nil || s.item.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.item, nil
}

func (s *stubItemRepo) ListByShop(ctx context.Context, shopID uuid.UUID) ([]models.FoodItem, error) {
	if s.item == nil || s.item.ShopID != shopID {
		return nil, nil
	}
	return []models.FoodItem{*s.item}, nil
}

func (s *stubItemRepo) AvailableByShop(ctx context.Context, shopID uuid.UUID) ([]models.FoodItem, error) {
	return s.ListByShop(ctx, shopID)
}

func (s *stubItemRepo) Browse(ctx context.Context, filter BrowseFilter) ([]models.FoodItem, error) {
	if s.item == nil {
		return nil, nil
	}
	return []models.FoodItem{*s.item}, nil
}

func (s *stubItemRepo) Update(ctx context.Context, item *models.FoodItem) error {
	s.item = item
	return nil
}

func (s *stubItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.item = nil
	return nil
}

type stubShopLookup struct {
	shop *models.Shop
}

func (s *stubShopLookup) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	if s.shop == nil || s.shop.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.shop, nil
}

func (s *stubShopLookup) FindByVendor(ctx context.Context, vendorID uuid.UUID) (*models.Shop, bool, error) {
	if s.shop == nil || s.shop.VendorID != vendorID {
		return nil, false, nil
	}
	return s.shop, true, nil
}

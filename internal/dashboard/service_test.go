package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
)

func TestAdminStatsAggregatesCounts(t *testing.T) {
	t.Parallel()

	repo := &stubDashboardRepo{
		shops:         10,
		shopsByStatus: map[enums.ShopStatus]int64{enums.ShopStatusPending: 3, enums.ShopStatusApproved: 6},
		items:         42,
		orders:        128,
	}
	svc := newTestDashboardService(t, repo, nil)

	stats, err := svc.AdminStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalShops != 10 || stats.PendingShops != 3 || stats.ApprovedShops != 6 {
		t.Fatalf("unexpected shop counts: %+v", stats)
	}
	if stats.TotalItems != 42 || stats.TotalOrders != 128 {
		t.Fatalf("unexpected item/order counts: %+v", stats)
	}
}

func TestVendorStatsWithoutShop(t *testing.T) {
	t.Parallel()

	svc := newTestDashboardService(t, &stubDashboardRepo{}, nil)

	_, err := svc.VendorStats(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestVendorStatsScopesToOwnShop(t *testing.T) {
	t.Parallel()

	shop := &models.Shop{ID: uuid.New(), VendorID: uuid.New()}
	repo := &stubDashboardRepo{
		shopItems:          7,
		shopItemsAvailable: 5,
		shopOrders:         30,
		shopOrdersSince:    4,
		shopOrdersPending:  2,
	}
	svc := newTestDashboardService(t, repo, shop)

	stats, err := svc.VendorStats(context.Background(), shop.VendorID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalItems != 7 || stats.AvailableItems != 5 {
		t.Fatalf("unexpected item counts: %+v", stats)
	}
	if stats.TotalOrders != 30 || stats.OrdersToday != 4 || stats.PendingOrders != 2 {
		t.Fatalf("unexpected order counts: %+v", stats)
	}
	if repo.lastShopID != shop.ID {
		t.Fatalf("queries not scoped to the vendor's shop")
	}
	if repo.lastSince == nil {
		t.Fatal("expected a start-of-day bound for today's orders")
	}
	if h, m, s := repo.lastSince.Clock(); h != 0 || m != 0 || s != 0 {
		t.Fatalf("expected midnight boundary, got %v", repo.lastSince)
	}
}

func TestStudentStatsAggregatesCounts(t *testing.T) {
	t.Parallel()

	repo := &stubDashboardRepo{
		openShops:        4,
		inStockItems:     19,
		userOrders:       12,
		userOrdersActive: 2,
	}
	svc := newTestDashboardService(t, repo, nil)

	stats, err := svc.StudentStats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.AvailableShops != 4 || stats.AvailableItems != 19 {
		t.Fatalf("unexpected availability counts: %+v", stats)
	}
	if stats.TotalOrders != 12 || stats.ActiveOrders != 2 {
		t.Fatalf("unexpected order counts: %+v", stats)
	}
}

func newTestDashboardService(t *testing.T, repo Repository, shop *models.Shop) Service {
	t.Helper()
	svc, err := NewService(repo, stubShopLoader{shop: shop})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

type stubShopLoader struct {
	shop *models.Shop
}

func (s stubShopLoader) FindByVendor(ctx context.Context, vendorID uuid.UUID) (*models.Shop, bool, error) {
	if s.shop == nil || s.shop.VendorID != vendorID {
		return nil, false, nil
	}
	return s.shop, true, nil
}

type stubDashboardRepo struct {
	shops         int64
	shopsByStatus map[enums.ShopStatus]int64
	openShops     int64
	items         int64
	inStockItems  int64
	orders        int64

	shopItems          int64
	shopItemsAvailable int64
	shopOrders         int64
	shopOrdersSince    int64
	shopOrdersPending  int64

	userOrders       int64
	userOrdersActive int64

	lastShopID uuid.UUID
	lastSince  *time.Time
}

func (s *stubDashboardRepo) CountShops(ctx context.Context, status *enums.ShopStatus) (int64, error) {
	if status == nil {
		return s.shops, nil
	}
	return s.shopsByStatus[*status], nil
}

func (s *stubDashboardRepo) CountApprovedActiveShops(ctx context.Context) (int64, error) {
	return s.openShops, nil
}

func (s *stubDashboardRepo) CountItems(ctx context.Context) (int64, error) {
	return s.items, nil
}

func (s *stubDashboardRepo) CountShopItems(ctx context.Context, shopID uuid.UUID, availableOnly bool) (int64, error) {
	s.lastShopID = shopID
	if availableOnly {
		return s.shopItemsAvailable, nil
	}
	return s.shopItems, nil
}

func (s *stubDashboardRepo) CountInStockItems(ctx context.Context) (int64, error) {
	return s.inStockItems, nil
}

func (s *stubDashboardRepo) CountOrders(ctx context.Context) (int64, error) {
	return s.orders, nil
}

func (s *stubDashboardRepo) CountShopOrders(ctx context.Context, shopID uuid.UUID, status *enums.OrderStatus, since *time.Time) (int64, error) {
	s.lastShopID = shopID
	if since != nil {
		s.lastSince = since
		return s.shopOrdersSince, nil
	}
	if status != nil {
		return s.shopOrdersPending, nil
	}
	return s.shopOrders, nil
}

func (s *stubDashboardRepo) CountUserOrders(ctx context.Context, userID uuid.UUID, activeOnly bool) (int64, error) {
	if activeOnly {
		return s.userOrdersActive, nil
	}
	return s.userOrders, nil
}

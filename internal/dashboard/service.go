package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
)

type vendorShopLoader interface {
	FindByVendor(ctx context.Context, vendorID uuid.UUID) (*models.Shop, bool, error)
}

// Service assembles the role-scoped dashboard summaries.
type Service interface {
	AdminStats(ctx context.Context) (*AdminStats, error)
	VendorStats(ctx context.Context, vendorID uuid.UUID) (*VendorStats, error)
	StudentStats(ctx context.Context, userID uuid.UUID) (*StudentStats, error)
}

type service struct {
	repo  Repository
	shops vendorShopLoader
	now   func() time.Time
}

// NewService builds the dashboard service.
func NewService(repo Repository, shops vendorShopLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shop loader required")
	}
	return &service{
		repo:  repo,
		shops: shops,
		now:   time.Now,
	}, nil
}

func (s *service) AdminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}
	var err error

	if stats.TotalShops, err = s.repo.CountShops(ctx, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count shops")
	}
	pending := enums.ShopStatusPending
	if stats.PendingShops, err = s.repo.CountShops(ctx, &pending); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending shops")
	}
	approved := enums.ShopStatusApproved
	if stats.ApprovedShops, err = s.repo.CountShops(ctx, &approved); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count approved shops")
	}
	if stats.TotalItems, err = s.repo.CountItems(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count items")
	}
	if stats.TotalOrders, err = s.repo.CountOrders(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	return stats, nil
}

func (s *service) VendorStats(ctx context.Context, vendorID uuid.UUID) (*VendorStats, error) {
	shop, found, err := s.shops.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor shop")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}

	stats := &VendorStats{}
	if stats.TotalItems, err = s.repo.CountShopItems(ctx, shop.ID, false); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count shop items")
	}
	if stats.AvailableItems, err = s.repo.CountShopItems(ctx, shop.ID, true); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count available items")
	}
	if stats.TotalOrders, err = s.repo.CountShopOrders(ctx, shop.ID, nil, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count shop orders")
	}

	// "Today" is the server-local calendar day.
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if stats.OrdersToday, err = s.repo.CountShopOrders(ctx, shop.ID, nil, &startOfDay); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count today's orders")
	}
	pending := enums.OrderStatusPending
	if stats.PendingOrders, err = s.repo.CountShopOrders(ctx, shop.ID, &pending, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending orders")
	}
	return stats, nil
}

func (s *service) StudentStats(ctx context.Context, userID uuid.UUID) (*StudentStats, error) {
	stats := &StudentStats{}
	var err error

	if stats.AvailableShops, err = s.repo.CountApprovedActiveShops(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count open shops")
	}
	if stats.AvailableItems, err = s.repo.CountInStockItems(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count in-stock items")
	}
	if stats.TotalOrders, err = s.repo.CountUserOrders(ctx, userID, false); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count user orders")
	}
	if stats.ActiveOrders, err = s.repo.CountUserOrders(ctx, userID, true); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active orders")
	}
	return stats, nil
}

package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/campuseats/campuseats-backend/pkg/pagination"
)

// vendorShopLoader resolves the shop owned by a vendor. found is false when
// the vendor has not applied for a shop yet.
type vendorShopLoader interface {
	FindByVendor(ctx context.Context, vendorID uuid.UUID) (*models.Shop, bool, error)
}

// Service exposes order history and lifecycle operations for students and
// vendors. Creation happens in checkout, not here.
type Service interface {
	ListForStudent(ctx context.Context, userID uuid.UUID, filters ListFilters, params pagination.Params) (*OrderList, error)
	GetForStudent(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListForVendor(ctx context.Context, vendorID uuid.UUID, filters ListFilters, params pagination.Params) (*OrderList, error)
	GetForVendor(ctx context.Context, vendorID, orderID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, vendorID, orderID uuid.UUID, rawStatus string) (*OrderDTO, error)
}

type service struct {
	repo  Repository
	shops vendorShopLoader
}

// NewService builds the orders service.
func NewService(repo Repository, shops vendorShopLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shop loader required")
	}
	return &service{repo: repo, shops: shops}, nil
}

func (s *service) ListForStudent(ctx context.Context, userID uuid.UUID, filters ListFilters, params pagination.Params) (*OrderList, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status filter")
	}
	rows, next, err := s.repo.ListByUser(ctx, userID, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return toList(rows, next), nil
}

// GetForStudent returns the order only to its owner. Another student's order
// reads as not found rather than forbidden so order IDs are not probeable.
func (s *service) GetForStudent(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

// Cancel moves the student's own order to cancelled. Orders already in a
// terminal state stay put.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order in status %q cannot be cancelled", order.Status))
	}
	if err := s.repo.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}
	order.Status = enums.OrderStatusCancelled
	return FromModel(order), nil
}

func (s *service) ListForVendor(ctx context.Context, vendorID uuid.UUID, filters ListFilters, params pagination.Params) (*OrderList, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status filter")
	}
	shop, err := s.loadVendorShop(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	rows, next, err := s.repo.ListByShop(ctx, shop.ID, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shop orders")
	}
	return toList(rows, next), nil
}

func (s *service) GetForVendor(ctx context.Context, vendorID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadForVendor(ctx, vendorID, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

// UpdateStatus sets the order to any valid status. Vendors manage their own
// flow, so no transition graph is enforced beyond enum membership.
func (s *service) UpdateStatus(ctx context.Context, vendorID, orderID uuid.UUID, rawStatus string) (*OrderDTO, error) {
	status, err := enums.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid order status %q", rawStatus))
	}

	order, err := s.loadForVendor(ctx, vendorID, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = status
	return FromModel(order), nil
}

func (s *service) loadOwned(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) loadVendorShop(ctx context.Context, vendorID uuid.UUID) (*models.Shop, error) {
	shop, found, err := s.shops.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor shop")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	return shop, nil
}

// loadForVendor returns the order only when it belongs to the vendor's shop.
// Mismatches read as not found, same as the student path.
func (s *service) loadForVendor(ctx context.Context, vendorID, orderID uuid.UUID) (*models.Order, error) {
	shop, err := s.loadVendorShop(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.ShopID != shop.ID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func toList(rows []models.Order, next string) *OrderList {
	out := &OrderList{
		Orders:     make([]OrderDTO, 0, len(rows)),
		NextCursor: next,
	}
	for i := range rows {
		out.Orders = append(out.Orders, *FromModel(&rows[i]))
	}
	return out
}

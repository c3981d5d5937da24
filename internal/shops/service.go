package shops

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campuseats/campuseats-backend/pkg/db"
	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type shopRepository interface {
	Create(ctx context.Context, shop *models.Shop) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	FindByVendor(ctx context.Context, vendorID uuid.UUID) (*models.Shop, bool, error)
	List(ctx context.Context, status *enums.ShopStatus) ([]models.Shop, error)
	ListApproved(ctx context.Context) ([]models.Shop, error)
	Update(ctx context.Context, shop *models.Shop) error
}

// Service exposes shop application, review, and browsing operations.
type Service interface {
	Apply(ctx context.Context, vendorID uuid.UUID, input ApplyShopInput) (*ShopDTO, error)
	GetOwn(ctx context.Context, vendorID uuid.UUID) (*ShopDTO, error)
	UpdateOwn(ctx context.Context, vendorID uuid.UUID, input UpdateShopInput) (*ShopDTO, error)
	AdminList(ctx context.Context, status *enums.ShopStatus) ([]ShopDTO, error)
	Review(ctx context.Context, shopID uuid.UUID, input ReviewShopInput) (*ShopDTO, error)
	ListApproved(ctx context.Context) ([]ShopDTO, error)
	GetApproved(ctx context.Context, shopID uuid.UUID) (*ShopDTO, error)
}

type service struct {
	repo shopRepository
	now  func() time.Time
}

// NewService builds a shop service with the provided repository.
func NewService(repo shopRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shop repository required")
	}
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Apply files a vendor's shop application. A vendor holds at most one shop.
func (s *service) Apply(ctx context.Context, vendorID uuid.UUID, input ApplyShopInput) (*ShopDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name is required")
	}

	_, found, err := s.repo.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup shop")
	}
	if found {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "vendor already has a shop")
	}

	shop := &models.Shop{
		VendorID:    vendorID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Phone:       strings.TrimSpace(input.Phone),
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		Address:     strings.TrimSpace(input.Address),
		Status:      enums.ShopStatusPending,
		IsActive:    true,
		AppliedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, shop); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "vendor already has a shop")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shop")
	}
	return FromModel(shop), nil
}

func (s *service) GetOwn(ctx context.Context, vendorID uuid.UUID) (*ShopDTO, error) {
	shop, found, err := s.repo.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup shop")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	return FromModel(shop), nil
}

func (s *service) UpdateOwn(ctx context.Context, vendorID uuid.UUID, input UpdateShopInput) (*ShopDTO, error) {
	shop, found, err := s.repo.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup shop")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name is required")
		}
		shop.Name = name
	}
	if input.Description != nil {
		shop.Description = strings.TrimSpace(*input.Description)
	}
	if input.Phone != nil {
		shop.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		shop.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Address != nil {
		shop.Address = strings.TrimSpace(*input.Address)
	}

	if err := s.repo.Update(ctx, shop); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shop")
	}
	return FromModel(shop), nil
}

func (s *service) AdminList(ctx context.Context, status *enums.ShopStatus) ([]ShopDTO, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shop status")
	}
	shops, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shops")
	}
	out := make([]ShopDTO, 0, len(shops))
	for i := range shops {
		out = append(out, *FromModel(&shops[i]))
	}
	return out, nil
}

// Review applies an admin decision. Status moves are unrestricted; the side
// effects depend on the target status:
//   - approved: first approval stamps approved_at and re-activates the shop;
//     later approvals keep the original timestamp
//   - rejected/blocked: deactivates the shop
//   - pending: leaves the active flag untouched
func (s *service) Review(ctx context.Context, shopID uuid.UUID, input ReviewShopInput) (*ShopDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shop status")
	}

	shop, err := s.repo.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}

	shop.Status = input.Status
	if input.AdminNotes != nil {
		shop.AdminNotes = input.AdminNotes
	}

	switch input.Status {
	case enums.ShopStatusApproved:
		if shop.ApprovedAt == nil {
			now := s.now()
			shop.ApprovedAt = &now
		}
		shop.IsActive = true
	case enums.ShopStatusRejected, enums.ShopStatusBlocked:
		shop.IsActive = false
	}

	if err := s.repo.Update(ctx, shop); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shop")
	}
	return FromModel(shop), nil
}

func (s *service) ListApproved(ctx context.Context) ([]ShopDTO, error) {
	shops, err := s.repo.ListApproved(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shops")
	}
	out := make([]ShopDTO, 0, len(shops))
	for i := range shops {
		out = append(out, *PublicFromModel(&shops[i]))
	}
	return out, nil
}

// GetApproved loads a shop for public viewing. Non-approved shops read as
// missing rather than forbidden.
func (s *service) GetApproved(ctx context.Context, shopID uuid.UUID) (*ShopDTO, error) {
	shop, err := s.repo.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}
	if !shop.IsApproved() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	return PublicFromModel(shop), nil
}

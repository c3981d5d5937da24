package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type cartRepository interface {
	FindLine(ctx context.Context, userID, foodItemID uuid.UUID) (*models.CartLine, bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	Create(ctx context.Context, line *models.CartLine) error
	UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type itemLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error)
}

// Service exposes the student cart operations.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, input AddItemInput) (*LineDTO, error)
	SetQuantity(ctx context.Context, userID, foodItemID uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID, foodItemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
	View(ctx context.Context, userID uuid.UUID) (*ViewDTO, error)
}

type service struct {
	repo  cartRepository
	items itemLoader
}

// NewService builds a cart service with the provided repositories.
func NewService(repo cartRepository, items itemLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item loader required")
	}
	return &service{repo: repo, items: items}, nil
}

// Add puts an item in the cart. Re-adding an item the cart already holds
// increments the existing line instead of duplicating it.
func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddItemInput) (*LineDTO, error) {
	qty := input.Quantity
	if qty <= 0 {
		qty = 1
	}

	item, err := s.items.FindByID(ctx, input.FoodItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if !item.IsAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	if item.Shop == nil || !item.Shop.IsApproved() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "shop is not accepting orders")
	}

	line, found, err := s.repo.FindLine(ctx, userID, item.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup cart line")
	}
	if found {
		line.Quantity += qty
		if err := s.repo.UpdateQuantity(ctx, line.ID, line.Quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
		}
	} else {
		line = &models.CartLine{
			UserID:     userID,
			FoodItemID: item.ID,
			Quantity:   qty,
		}
		if err := s.repo.Create(ctx, line); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
		}
	}

	line.FoodItem = item
	return LineFromModel(line), nil
}

// SetQuantity overwrites a line's quantity. Zero or negative quantities
// remove the line; that is a removal, not an error.
func (s *service) SetQuantity(ctx context.Context, userID, foodItemID uuid.UUID, quantity int) error {
	line, found, err := s.repo.FindLine(ctx, userID, foodItemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup cart line")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	if quantity <= 0 {
		if err := s.repo.DeleteLine(ctx, line.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
		}
		return nil
	}

	if err := s.repo.UpdateQuantity(ctx, line.ID, quantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, userID, foodItemID uuid.UUID) error {
	line, found, err := s.repo.FindLine(ctx, userID, foodItemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup cart line")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	if err := s.repo.DeleteLine(ctx, line.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteByUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// View renders the cart grouped by shop. Groups appear in the order the
// first item of each shop entered the cart, and every line is priced live.
func (s *service) View(ctx context.Context, userID uuid.UUID) (*ViewDTO, error) {
	lines, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}

	view := &ViewDTO{
		Groups: []ShopGroupDTO{},
		Total:  decimal.Zero,
	}
	groupIndex := map[uuid.UUID]int{}

	for i := range lines {
		dto := LineFromModel(&lines[i])
		if dto == nil {
			continue
		}

		idx, ok := groupIndex[dto.ShopID]
		if !ok {
			view.Groups = append(view.Groups, ShopGroupDTO{
				ShopID:   dto.ShopID,
				ShopName: dto.ShopName,
				Lines:    []LineDTO{},
				Subtotal: decimal.Zero,
			})
			idx = len(view.Groups) - 1
			groupIndex[dto.ShopID] = idx
		}

		view.Groups[idx].Lines = append(view.Groups[idx].Lines, *dto)
		view.Groups[idx].Subtotal = view.Groups[idx].Subtotal.Add(dto.Subtotal)
		view.Total = view.Total.Add(dto.Subtotal)
		view.ItemCount += dto.Quantity
	}

	return view, nil
}

package checkout

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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const orderNumberConstraint = "orders_order_number_key"

const defaultOrderNumberAttempts = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type shopLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
}

// Service executes the checkout transaction.
type Service interface {
	Execute(ctx context.Context, userID, shopID uuid.UUID, input Input) (*models.Order, error)
}

// Input captures optional data posted with checkout.
type Input struct {
	SpecialInstructions *string
}

type service struct {
	tx       txRunner
	repo     Repository
	shops    shopLoader
	attempts int
	now      func() time.Time
}

// NewService builds the checkout service. attempts bounds how many times a
// colliding order number is regenerated before giving up.
func NewService(tx txRunner, repo Repository, shops shopLoader, attempts int) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shop loader required")
	}
	if attempts <= 0 {
		attempts = defaultOrderNumberAttempts
	}
	return &service{
		tx:       tx,
		repo:     repo,
		shops:    shops,
		attempts: attempts,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Execute converts the user's cart lines for one shop into an order. The
// whole conversion is a single transaction: order, snapshot items, and cart
// cleanup land together or not at all. Lines for other shops are untouched.
func (s *service) Execute(ctx context.Context, userID, shopID uuid.UUID, input Input) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id required")
	}

	shop, err := s.shops.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}
	if !shop.IsApproved() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "shop is not accepting orders")
	}

	var instructions *string
	if input.SpecialInstructions != nil {
		trimmed := strings.TrimSpace(*input.SpecialInstructions)
		if trimmed != "" {
			instructions = &trimmed
		}
	}

	var lastErr error
	for attempt := 0; attempt < s.attempts; attempt++ {
		order, err := s.runOnce(ctx, userID, shop, instructions)
		if err == nil {
			return order, nil
		}
		if db.IsUniqueViolation(err, orderNumberConstraint) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, lastErr, "allocate order number")
}

func (s *service) runOnce(ctx context.Context, userID uuid.UUID, shop *models.Shop, instructions *string) (*models.Order, error) {
	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		lines, err := repo.CartLinesForShop(ctx, userID, shop.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart lines")
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart has no items for this shop")
		}

		total := decimal.Zero
		for i := range lines {
			if lines[i].FoodItem == nil {
				return pkgerrors.New(pkgerrors.CodeInternal, "cart line missing item")
			}
			total = total.Add(lines[i].Subtotal())
		}

		orderNumber, err := GenerateOrderNumber(s.now())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
		}

		order := &models.Order{
			OrderNumber:         orderNumber,
			UserID:              userID,
			ShopID:              shop.ID,
			Status:              enums.OrderStatusPending,
			PaymentStatus:       enums.PaymentStatusPending,
			TotalAmount:         total,
			SpecialInstructions: instructions,
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			// Bubbled raw so the caller can spot the unique violation and retry.
			return err
		}

		items := make([]models.OrderItem, 0, len(lines))
		lineIDs := make([]uuid.UUID, 0, len(lines))
		for i := range lines {
			item := lines[i].FoodItem
			itemID := item.ID
			items = append(items, models.OrderItem{
				OrderID:    order.ID,
				FoodItemID: &itemID,
				Name:       item.Name,
				Price:      item.Price,
				Quantity:   lines[i].Quantity,
			})
			lineIDs = append(lineIDs, lines[i].ID)
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		if err := repo.DeleteCartLines(ctx, lineIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart lines")
		}

		order.Items = items
		order.Shop = shop
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

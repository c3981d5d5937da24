package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	shops := `
CREATE TABLE IF NOT EXISTS shops (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  is_active INTEGER NOT NULL DEFAULT 1,
  admin_notes TEXT,
  applied_at DATETIME NOT NULL,
  approved_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	foodItems := `
CREATE TABLE IF NOT EXISTS food_items (
  id TEXT PRIMARY KEY,
  shop_id TEXT NOT NULL,
  category_id TEXT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  is_available INTEGER NOT NULL DEFAULT 1,
  is_vegetarian INTEGER NOT NULL DEFAULT 0,
  is_vegan INTEGER NOT NULL DEFAULT 0,
  preparation_time INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartLines := `
CREATE TABLE IF NOT EXISTS cart_lines (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  food_item_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, food_item_id)
);`
	require.NoError(t, db.Exec(shops).Error)
	require.NoError(t, db.Exec(foodItems).Error)
	require.NoError(t, db.Exec(cartLines).Error)
	return db
}

func seedCartLine(t *testing.T, db *gorm.DB, userID uuid.UUID, quantity int, at time.Time) *models.CartLine {
	t.Helper()

	item := &models.FoodItem{
		ID:          uuid.New(),
		ShopID:      uuid.New(),
		Name:        "Burrito",
		Price:       decimal.RequireFromString("9.50"),
		IsAvailable: true,
	}
	require.NoError(t, db.Create(item).Error)

	line := &models.CartLine{
		ID:         uuid.New(),
		UserID:     userID,
		FoodItemID: item.ID,
		Quantity:   quantity,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	require.NoError(t, db.Create(line).Error)
	return line
}

func TestRepositoryFindLineReportsMissingWithoutError(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	line := seedCartLine(t, db, userID, 2, time.Now().UTC())

	found, ok, err := repo.FindLine(context.Background(), userID, line.FoodItemID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, found.Quantity)

	_, ok, err = repo.FindLine(context.Background(), userID, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepositoryUpdateQuantityBumpsUpdatedAt(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	created := time.Now().UTC().Add(-time.Hour)
	line := seedCartLine(t, db, userID, 1, created)

	require.NoError(t, repo.UpdateQuantity(context.Background(), line.ID, 5))

	found, ok, err := repo.FindLine(context.Background(), userID, line.FoodItemID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, found.Quantity)
	assert.True(t, found.UpdatedAt.After(created), "quantity change must bump updated_at")
}

func TestRepositoryListByUserOrdersByInsertion(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	now := time.Now().UTC()
	first := seedCartLine(t, db, userID, 1, now.Add(-2*time.Minute))
	second := seedCartLine(t, db, userID, 1, now.Add(-time.Minute))
	seedCartLine(t, db, uuid.New(), 1, now)

	lines, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, first.ID, lines[0].ID)
	assert.Equal(t, second.ID, lines[1].ID)
	require.NotNil(t, lines[0].FoodItem)
}

func TestRepositoryDeleteByUserClearsCart(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	seedCartLine(t, db, userID, 1, time.Now().UTC())
	other := seedCartLine(t, db, uuid.New(), 1, time.Now().UTC())

	require.NoError(t, repo.DeleteByUser(context.Background(), userID))

	lines, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	kept, err := repo.ListByUser(context.Background(), other.UserID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

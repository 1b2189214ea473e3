package meals

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/feastly-app/feastly-backend/pkg/oid"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
)

func setupMealsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS restaurants (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  email TEXT NOT NULL,
  phone_no TEXT NOT NULL,
  address TEXT NOT NULL,
  category TEXT NOT NULL,
  images TEXT NOT NULL DEFAULT '{}',
  location TEXT,
  menu_ids TEXT NOT NULL DEFAULT '{}',
  user_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS meals (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  price TEXT NOT NULL,
  category TEXT NOT NULL,
  restaurant_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)

	return conn
}

func seedMealRestaurant(t *testing.T, conn *gorm.DB, userID string) *models.Restaurant {
	t.Helper()

	restaurant := &models.Restaurant{
		ID:          oid.New(),
		Name:        "Menu Test Kitchen",
		Description: "Testing fixtures",
		Email:       "kitchen@example.com",
		PhoneNo:     "555-0102",
		Address:     "456 Side St",
		Category:    enums.RestaurantCategoryCafe,
		Images:      pq.StringArray{},
		MenuIDs:     pq.StringArray{},
		UserID:      userID,
	}
	require.NoError(t, conn.Create(restaurant).Error)
	return restaurant
}

func seedMeal(t *testing.T, conn *gorm.DB, restaurantID, userID, name string, createdAt time.Time) *models.Meal {
	t.Helper()

	meal := &models.Meal{
		ID:           oid.New(),
		Name:         name,
		Description:  "Fixture meal",
		Price:        decimal.NewFromFloat(9.99),
		Category:     enums.MealCategorySalads,
		RestaurantID: restaurantID,
		UserID:       userID,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	require.NoError(t, conn.Create(meal).Error)
	return meal
}

func TestMealsRepoCreateAndFind(t *testing.T) {
	conn := setupMealsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	restaurant := seedMealRestaurant(t, conn, oid.New())

	meal := &models.Meal{
		ID:           oid.New(),
		Name:         "Caesar Salad",
		Description:  "Romaine, parmesan, croutons",
		Price:        decimal.NewFromFloat(12.50),
		Category:     enums.MealCategorySalads,
		RestaurantID: restaurant.ID,
		UserID:       restaurant.UserID,
	}

	created, err := repo.Create(ctx, meal)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Caesar Salad", found.Name)
	assert.True(t, decimal.NewFromFloat(12.50).Equal(found.Price))

	_, err = repo.FindByID(ctx, oid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMealsRepoListByRestaurant(t *testing.T) {
	conn := setupMealsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	owner := oid.New()
	first := seedMealRestaurant(t, conn, owner)
	second := seedMealRestaurant(t, conn, owner)

	base := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	seedMeal(t, conn, first.ID, owner, "Minestrone", base)
	seedMeal(t, conn, first.ID, owner, "Gazpacho", base.Add(time.Minute))
	seedMeal(t, conn, second.ID, owner, "Pho", base.Add(2*time.Minute))

	all, err := repo.List(ctx, pagination.Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Minestrone", all[0].Name)

	scoped, err := repo.ListByRestaurant(ctx, first.ID, pagination.Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, scoped, 2)

	paged, err := repo.ListByRestaurant(ctx, first.ID, pagination.Params{Page: 2, PerPage: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "Gazpacho", paged[0].Name)
}

func TestMealsRepoAppendMenuIDIdempotent(t *testing.T) {
	conn := setupMealsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	restaurant := seedMealRestaurant(t, conn, oid.New())
	mealID := oid.New()

	require.NoError(t, repo.AppendMenuID(ctx, restaurant.ID, mealID))
	require.NoError(t, repo.AppendMenuID(ctx, restaurant.ID, mealID))

	found, err := repo.FindRestaurantByID(ctx, restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{mealID}, found.MenuIDs)
}

func TestMealsRepoRemoveMenuID(t *testing.T) {
	conn := setupMealsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	restaurant := seedMealRestaurant(t, conn, oid.New())
	keep := oid.New()
	remove := oid.New()

	require.NoError(t, repo.AppendMenuID(ctx, restaurant.ID, keep))
	require.NoError(t, repo.AppendMenuID(ctx, restaurant.ID, remove))

	require.NoError(t, repo.RemoveMenuID(ctx, restaurant.ID, remove))

	found, err := repo.FindRestaurantByID(ctx, restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{keep}, found.MenuIDs)

	// removing an id that is not present leaves the menu untouched
	require.NoError(t, repo.RemoveMenuID(ctx, restaurant.ID, oid.New()))
	found, err = repo.FindRestaurantByID(ctx, restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{keep}, found.MenuIDs)
}

func TestMealsRepoAppendMenuIDMissingRestaurant(t *testing.T) {
	conn := setupMealsTestDB(t)
	repo := NewRepository(conn)

	err := repo.AppendMenuID(context.Background(), oid.New(), oid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMealsRepoDelete(t *testing.T) {
	conn := setupMealsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	restaurant := seedMealRestaurant(t, conn, oid.New())
	meal := seedMeal(t, conn, restaurant.ID, restaurant.UserID, "Ephemeral", time.Now().UTC())

	require.NoError(t, repo.Delete(ctx, meal.ID))

	_, err := repo.FindByID(ctx, meal.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

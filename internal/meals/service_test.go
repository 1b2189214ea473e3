package meals

import (
	"context"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db"
	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/oid"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
)

// buildMealTestService wires the service against a throwaway sqlite DB so the
// transactional create/delete paths run for real.
func buildMealTestService(t *testing.T) (Service, *Repository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

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
	if err := conn.Exec(schema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}

	repo := NewRepository(conn)
	svc, err := NewService(repo, db.FromGorm(conn))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo, conn
}

func createTestRestaurant(t *testing.T, conn *gorm.DB, ownerID string) *models.Restaurant {
	t.Helper()

	restaurant := &models.Restaurant{
		ID:          oid.New(),
		Name:        "Meal Service Kitchen",
		Description: "Fixture",
		Email:       "kitchen@example.com",
		PhoneNo:     "555-0104",
		Address:     "789 Back St",
		Category:    enums.RestaurantCategoryFineDining,
		Images:      pq.StringArray{},
		MenuIDs:     pq.StringArray{},
		UserID:      ownerID,
	}
	if err := conn.Create(restaurant).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	return restaurant
}

func TestMealCreateAppendsToMenu(t *testing.T) {
	svc, repo, conn := buildMealTestService(t)
	ctx := context.Background()

	owner := oid.New()
	restaurant := createTestRestaurant(t, conn, owner)

	dto, err := svc.Create(ctx, owner, CreateMealInput{
		Name:         " Carbonara ",
		Description:  "Guanciale and pecorino",
		Price:        decimal.NewFromFloat(14.50),
		Category:     enums.MealCategoryPasta,
		RestaurantID: restaurant.ID,
	})
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}
	if dto.Name != "Carbonara" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.RestaurantID != restaurant.ID || dto.UserID != owner {
		t.Fatalf("unexpected ownership fields %+v", dto)
	}

	updated, err := repo.FindRestaurantByID(ctx, restaurant.ID)
	if err != nil {
		t.Fatalf("reload restaurant: %v", err)
	}
	if len(updated.MenuIDs) != 1 || updated.MenuIDs[0] != dto.ID {
		t.Fatalf("expected menu to contain %s, got %v", dto.ID, updated.MenuIDs)
	}
}

func TestMealCreateForbiddenForNonOwner(t *testing.T) {
	svc, repo, conn := buildMealTestService(t)
	ctx := context.Background()

	restaurant := createTestRestaurant(t, conn, oid.New())

	_, err := svc.Create(ctx, oid.New(), CreateMealInput{
		Name:         "Trespass Pasta",
		Description:  "Should not exist",
		Price:        decimal.NewFromInt(9),
		Category:     enums.MealCategoryPasta,
		RestaurantID: restaurant.ID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}

	// nothing persisted, menu untouched
	rows, listErr := repo.List(ctx, pagination.Params{Page: 1, PerPage: 10})
	if listErr != nil {
		t.Fatalf("list meals: %v", listErr)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no meals, got %d", len(rows))
	}
	reloaded, loadErr := repo.FindRestaurantByID(ctx, restaurant.ID)
	if loadErr != nil {
		t.Fatalf("reload restaurant: %v", loadErr)
	}
	if len(reloaded.MenuIDs) != 0 {
		t.Fatalf("expected empty menu, got %v", reloaded.MenuIDs)
	}
}

func TestMealCreateMissingRestaurant(t *testing.T) {
	svc, _, _ := buildMealTestService(t)

	_, err := svc.Create(context.Background(), oid.New(), CreateMealInput{
		Name:         "Orphan Soup",
		Description:  "No parent",
		Price:        decimal.NewFromInt(5),
		Category:     enums.MealCategorySoups,
		RestaurantID: oid.New(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestMealCreateRejectsBadInput(t *testing.T) {
	svc, _, conn := buildMealTestService(t)
	ctx := context.Background()

	owner := oid.New()
	restaurant := createTestRestaurant(t, conn, owner)

	_, err := svc.Create(ctx, owner, CreateMealInput{
		Name:         "Negative Price",
		Description:  "x",
		Price:        decimal.NewFromInt(-1),
		Category:     enums.MealCategorySoups,
		RestaurantID: restaurant.ID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}

	_, err = svc.Create(ctx, owner, CreateMealInput{
		Name:         "Bad Category",
		Description:  "x",
		Price:        decimal.NewFromInt(1),
		Category:     enums.MealCategory("Desserts"),
		RestaurantID: restaurant.ID,
	})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown category, got %v", err)
	}
}

func TestMealUpdateCreatorOnly(t *testing.T) {
	svc, _, conn := buildMealTestService(t)
	ctx := context.Background()

	owner := oid.New()
	restaurant := createTestRestaurant(t, conn, owner)

	created, err := svc.Create(ctx, owner, CreateMealInput{
		Name:         "Original",
		Description:  "v1",
		Price:        decimal.NewFromInt(10),
		Category:     enums.MealCategorySandwiches,
		RestaurantID: restaurant.ID,
	})
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}

	name := "Hijacked"
	_, err = svc.Update(ctx, oid.New(), created.ID, UpdateMealInput{Name: &name})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}

	newPrice := decimal.NewFromFloat(11.25)
	updated, err := svc.Update(ctx, owner, created.ID, UpdateMealInput{Price: &newPrice})
	if err != nil {
		t.Fatalf("update meal: %v", err)
	}
	if !updated.Price.Equal(newPrice) {
		t.Fatalf("expected price %s, got %s", newPrice, updated.Price)
	}
	if updated.Name != "Original" {
		t.Fatalf("expected untouched name, got %q", updated.Name)
	}
}

func TestMealDeletePrunesMenu(t *testing.T) {
	svc, repo, conn := buildMealTestService(t)
	ctx := context.Background()

	owner := oid.New()
	restaurant := createTestRestaurant(t, conn, owner)

	keep, err := svc.Create(ctx, owner, CreateMealInput{
		Name:         "Keeper",
		Description:  "stays",
		Price:        decimal.NewFromInt(8),
		Category:     enums.MealCategorySoups,
		RestaurantID: restaurant.ID,
	})
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}
	doomed, err := svc.Create(ctx, owner, CreateMealInput{
		Name:         "Doomed",
		Description:  "goes away",
		Price:        decimal.NewFromInt(8),
		Category:     enums.MealCategorySoups,
		RestaurantID: restaurant.ID,
	})
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}

	result, err := svc.Delete(ctx, owner, doomed.ID)
	if err != nil {
		t.Fatalf("delete meal: %v", err)
	}
	if !result.Deleted {
		t.Fatalf("expected deleted result")
	}

	if _, err := repo.FindByID(ctx, doomed.ID); err == nil {
		t.Fatalf("expected meal row to be gone")
	}

	reloaded, err := repo.FindRestaurantByID(ctx, restaurant.ID)
	if err != nil {
		t.Fatalf("reload restaurant: %v", err)
	}
	if len(reloaded.MenuIDs) != 1 || reloaded.MenuIDs[0] != keep.ID {
		t.Fatalf("expected menu [%s], got %v", keep.ID, reloaded.MenuIDs)
	}
}

func TestMealDeleteCreatorOnly(t *testing.T) {
	svc, _, conn := buildMealTestService(t)
	ctx := context.Background()

	owner := oid.New()
	restaurant := createTestRestaurant(t, conn, owner)

	created, err := svc.Create(ctx, owner, CreateMealInput{
		Name:         "Protected",
		Description:  "stays",
		Price:        decimal.NewFromInt(8),
		Category:     enums.MealCategorySalads,
		RestaurantID: restaurant.ID,
	})
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}

	_, err = svc.Delete(ctx, oid.New(), created.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestMealGetByIDNotFound(t *testing.T) {
	svc, _, _ := buildMealTestService(t)

	_, err := svc.GetByID(context.Background(), oid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

package meals

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/oid"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
)

type mealRepository interface {
	WithTx(tx *gorm.DB) *Repository
	Create(ctx context.Context, meal *models.Meal) (*models.Meal, error)
	FindByID(ctx context.Context, id string) (*models.Meal, error)
	List(ctx context.Context, page pagination.Params) ([]models.Meal, error)
	ListByRestaurant(ctx context.Context, restaurantID string, page pagination.Params) ([]models.Meal, error)
	FindRestaurantByID(ctx context.Context, id string) (*models.Restaurant, error)
	Update(ctx context.Context, meal *models.Meal) error
	Delete(ctx context.Context, id string) error
	AppendMenuID(ctx context.Context, restaurantID, mealID string) error
	RemoveMenuID(ctx context.Context, restaurantID, mealID string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes meal operations.
type Service interface {
	List(ctx context.Context, page pagination.Params) ([]MealDTO, error)
	ListByRestaurant(ctx context.Context, restaurantID string, page pagination.Params) ([]MealDTO, error)
	GetByID(ctx context.Context, id string) (*MealDTO, error)
	Create(ctx context.Context, actorID string, input CreateMealInput) (*MealDTO, error)
	Update(ctx context.Context, actorID, id string, input UpdateMealInput) (*MealDTO, error)
	Delete(ctx context.Context, actorID, id string) (*DeleteResult, error)
}

type service struct {
	repo mealRepository
	tx   txRunner
}

// NewService builds a meal service with the provided repository and
// transaction runner.
func NewService(repo mealRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("meal repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context, page pagination.Params) ([]MealDTO, error) {
	rows, err := s.repo.List(ctx, page.Normalize())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list meals")
	}
	return FromModels(rows), nil
}

func (s *service) ListByRestaurant(ctx context.Context, restaurantID string, page pagination.Params) ([]MealDTO, error) {
	rows, err := s.repo.ListByRestaurant(ctx, restaurantID, page.Normalize())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurant meals")
	}
	return FromModels(rows), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*MealDTO, error) {
	meal, err := s.loadMeal(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(meal), nil
}

// Create inserts the meal and appends its id to the parent restaurant's menu
// in one transaction, so the two sides never diverge.
func (s *service) Create(ctx context.Context, actorID string, input CreateMealInput) (*MealDTO, error) {
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	restaurant, err := s.repo.FindRestaurantByID(ctx, input.RestaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	if restaurant.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you do not own this restaurant")
	}

	meal := &models.Meal{
		ID:           oid.New(),
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		Price:        input.Price,
		Category:     input.Category,
		RestaurantID: restaurant.ID,
		UserID:       actorID,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.Create(ctx, meal); err != nil {
			return err
		}
		return txRepo.AppendMenuID(ctx, restaurant.ID, meal.ID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create meal")
	}

	return FromModel(meal), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, input UpdateMealInput) (*MealDTO, error) {
	meal, err := s.loadMeal(ctx, id)
	if err != nil {
		return nil, err
	}
	if meal.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you did not create this meal")
	}

	if input.Name != nil {
		meal.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		meal.Description = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		meal.Price = *input.Price
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		meal.Category = *input.Category
	}

	if err := s.repo.Update(ctx, meal); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update meal")
	}
	return FromModel(meal), nil
}

// Delete removes the meal and prunes it from the parent restaurant's menu in
// one transaction.
func (s *service) Delete(ctx context.Context, actorID, id string) (*DeleteResult, error) {
	meal, err := s.loadMeal(ctx, id)
	if err != nil {
		return nil, err
	}
	if meal.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you did not create this meal")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Delete(ctx, meal.ID); err != nil {
			return err
		}
		err := txRepo.RemoveMenuID(ctx, meal.RestaurantID, meal.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// parent already gone; nothing to prune
			return nil
		}
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete meal")
	}

	return &DeleteResult{Deleted: true}, nil
}

func (s *service) loadMeal(ctx context.Context, id string) (*models.Meal, error) {
	meal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "meal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load meal")
	}
	return meal, nil
}

package meals

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
)

// MealDTO is the transport shape for a meal row.
type MealDTO struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Price        decimal.Decimal    `json:"price"`
	Category     enums.MealCategory `json:"category"`
	RestaurantID string             `json:"restaurant_id"`
	UserID       string             `json:"user_id"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// CreateMealRequest is the JSON body accepted by the create endpoint.
type CreateMealRequest struct {
	Name         string          `json:"name" validate:"required,min=2,max=100"`
	Description  string          `json:"description" validate:"required"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category" validate:"required"`
	RestaurantID string          `json:"restaurant_id" validate:"required,len=24,hexadecimal"`
}

// ToInput parses the request into a service input.
func (r CreateMealRequest) ToInput() (CreateMealInput, error) {
	category, err := enums.ParseMealCategory(r.Category)
	if err != nil {
		return CreateMealInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	return CreateMealInput{
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Category:     category,
		RestaurantID: r.RestaurantID,
	}, nil
}

// UpdateMealRequest is the JSON body accepted by the update endpoint.
type UpdateMealRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
}

// ToInput parses the request into a service input.
func (r UpdateMealRequest) ToInput() (UpdateMealInput, error) {
	input := UpdateMealInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
	}
	if r.Category != nil {
		category, err := enums.ParseMealCategory(*r.Category)
		if err != nil {
			return UpdateMealInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		input.Category = &category
	}
	return input, nil
}

// CreateMealInput captures the fields accepted on creation.
type CreateMealInput struct {
	Name         string
	Description  string
	Price        decimal.Decimal
	Category     enums.MealCategory
	RestaurantID string
}

// UpdateMealInput captures the allowed fields for mutation.
type UpdateMealInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *enums.MealCategory
}

// DeleteResult reports whether a meal row was removed.
type DeleteResult struct {
	Deleted bool `json:"deleted"`
}

func FromModel(m *models.Meal) *MealDTO {
	if m == nil {
		return nil
	}

	return &MealDTO{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		Category:     m.Category,
		RestaurantID: m.RestaurantID,
		UserID:       m.UserID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromModels maps a page of meal rows to DTOs.
func FromModels(rows []models.Meal) []MealDTO {
	out := make([]MealDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

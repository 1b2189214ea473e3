package restaurants

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/feastly-app/feastly-backend/internal/users"
	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/types"
)

// RestaurantDTO is the transport shape for a restaurant row.
type RestaurantDTO struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Email       string                   `json:"email"`
	PhoneNo     string                   `json:"phone_no"`
	Address     string                   `json:"address"`
	Category    enums.RestaurantCategory `json:"category"`
	Images      []string                 `json:"images"`
	Location    *types.Location          `json:"location"`
	MenuIDs     []string                 `json:"menu_ids"`
	UserID      string                   `json:"user_id"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// MenuItemDTO is the embedded meal shape returned on restaurant detail.
type MenuItemDTO struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       decimal.Decimal    `json:"price"`
	Category    enums.MealCategory `json:"category"`
}

// RestaurantDetailDTO expands the owner and menu on top of the list shape.
type RestaurantDetailDTO struct {
	RestaurantDTO
	Owner *users.UserDTO `json:"owner"`
	Menu  []MenuItemDTO  `json:"menu"`
}

// CreateRestaurantRequest is the JSON body accepted by the create endpoint.
type CreateRestaurantRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNo     string `json:"phone_no" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Category    string `json:"category" validate:"required"`
}

// ToInput parses the request into a service input.
func (r CreateRestaurantRequest) ToInput() (CreateRestaurantInput, error) {
	category, err := enums.ParseRestaurantCategory(r.Category)
	if err != nil {
		return CreateRestaurantInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	return CreateRestaurantInput{
		Name:        r.Name,
		Description: r.Description,
		Email:       r.Email,
		PhoneNo:     r.PhoneNo,
		Address:     r.Address,
		Category:    category,
	}, nil
}

// UpdateRestaurantRequest is the JSON body accepted by the update endpoint.
type UpdateRestaurantRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNo     *string `json:"phone_no"`
	Address     *string `json:"address"`
	Category    *string `json:"category"`
}

// ToInput parses the request into a service input.
func (r UpdateRestaurantRequest) ToInput() (UpdateRestaurantInput, error) {
	input := UpdateRestaurantInput{
		Name:        r.Name,
		Description: r.Description,
		Email:       r.Email,
		PhoneNo:     r.PhoneNo,
		Address:     r.Address,
	}
	if r.Category != nil {
		category, err := enums.ParseRestaurantCategory(*r.Category)
		if err != nil {
			return UpdateRestaurantInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		input.Category = &category
	}
	return input, nil
}

// CreateRestaurantInput captures the fields accepted on creation.
type CreateRestaurantInput struct {
	Name        string
	Description string
	Email       string
	PhoneNo     string
	Address     string
	Category    enums.RestaurantCategory
}

// UpdateRestaurantInput captures the allowed fields for mutation.
type UpdateRestaurantInput struct {
	Name        *string
	Description *string
	Email       *string
	PhoneNo     *string
	Address     *string
	Category    *enums.RestaurantCategory
}

func FromModel(r *models.Restaurant) *RestaurantDTO {
	if r == nil {
		return nil
	}

	return &RestaurantDTO{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Email:       r.Email,
		PhoneNo:     r.PhoneNo,
		Address:     r.Address,
		Category:    r.Category,
		Images:      append([]string{}, r.Images...),
		Location:    r.Location,
		MenuIDs:     append([]string{}, r.MenuIDs...),
		UserID:      r.UserID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// FromModels maps a page of restaurant rows to DTOs.
func FromModels(rows []models.Restaurant) []RestaurantDTO {
	out := make([]RestaurantDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func menuFromModels(rows []models.Meal) []MenuItemDTO {
	out := make([]MenuItemDTO, 0, len(rows))
	for _, m := range rows {
		out = append(out, MenuItemDTO{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
			Price:       m.Price,
			Category:    m.Category,
		})
	}
	return out
}

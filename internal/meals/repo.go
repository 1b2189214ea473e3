package meals

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
)

// Repository exposes meal persistence operations. The menu mutation helpers
// touch the parent restaurant row and are meant to run inside the same
// transaction as the meal write, via WithTx.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a meals repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new meal row.
func (r *Repository) Create(ctx context.Context, meal *models.Meal) (*models.Meal, error) {
	if err := r.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, err
	}
	return meal, nil
}

// FindByID loads a meal by its object id.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Meal, error) {
	var meal models.Meal
	if err := r.db.WithContext(ctx).First(&meal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

// List returns a page of meals.
func (r *Repository) List(ctx context.Context, page pagination.Params) ([]models.Meal, error) {
	var rows []models.Meal
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByRestaurant returns a page of the meals belonging to a restaurant.
func (r *Repository) ListByRestaurant(ctx context.Context, restaurantID string, page pagination.Params) ([]models.Meal, error) {
	var rows []models.Meal
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindRestaurantByID loads the parent restaurant row.
func (r *Repository) FindRestaurantByID(ctx context.Context, id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).First(&restaurant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// Update persists the full meal row.
func (r *Repository) Update(ctx context.Context, meal *models.Meal) error {
	return r.db.WithContext(ctx).Save(meal).Error
}

// Delete removes a meal row.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Meal{}).Error
}

// AppendMenuID adds a meal id to the restaurant's menu list.
func (r *Repository) AppendMenuID(ctx context.Context, restaurantID, mealID string) error {
	restaurant, err := r.FindRestaurantByID(ctx, restaurantID)
	if err != nil {
		return err
	}
	for _, existing := range restaurant.MenuIDs {
		if existing == mealID {
			return nil
		}
	}
	menu := append(pq.StringArray{}, restaurant.MenuIDs...)
	menu = append(menu, mealID)
	return r.updateMenu(ctx, restaurantID, menu)
}

// RemoveMenuID prunes a meal id from the restaurant's menu list.
func (r *Repository) RemoveMenuID(ctx context.Context, restaurantID, mealID string) error {
	restaurant, err := r.FindRestaurantByID(ctx, restaurantID)
	if err != nil {
		return err
	}
	menu := make(pq.StringArray, 0, len(restaurant.MenuIDs))
	for _, existing := range restaurant.MenuIDs {
		if existing != mealID {
			menu = append(menu, existing)
		}
	}
	return r.updateMenu(ctx, restaurantID, menu)
}

func (r *Repository) updateMenu(ctx context.Context, restaurantID string, menu pq.StringArray) error {
	return r.db.WithContext(ctx).
		Model(&models.Restaurant{}).
		Where("id = ?", restaurantID).
		UpdateColumn("menu_ids", menu).Error
}

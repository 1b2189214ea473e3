package restaurants

import (
	"context"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
)

// Repository exposes restaurant persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a restaurants repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new restaurant row.
func (r *Repository) Create(ctx context.Context, restaurant *models.Restaurant) (*models.Restaurant, error) {
	if err := r.db.WithContext(ctx).Create(restaurant).Error; err != nil {
		return nil, err
	}
	return restaurant, nil
}

// FindByID loads a restaurant by its object id.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).First(&restaurant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// List returns a page of restaurants. A non-empty keyword filters by
// case-insensitive substring match on the name.
func (r *Repository) List(ctx context.Context, keyword string, page pagination.Params) ([]models.Restaurant, error) {
	return r.list(ctx, "", keyword, page)
}

// ListByUser returns a page of the restaurants owned by userID.
func (r *Repository) ListByUser(ctx context.Context, userID, keyword string, page pagination.Params) ([]models.Restaurant, error) {
	return r.list(ctx, userID, keyword, page)
}

func (r *Repository) list(ctx context.Context, userID, keyword string, page pagination.Params) ([]models.Restaurant, error) {
	q := r.db.WithContext(ctx).Model(&models.Restaurant{})

	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	keyword = strings.TrimSpace(keyword)
	if keyword != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(keyword)+"%")
	}

	var rows []models.Restaurant
	err := q.Order("created_at ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindMealsByIDs loads the meal rows backing a restaurant's menu list.
func (r *Repository) FindMealsByIDs(ctx context.Context, ids []string) ([]models.Meal, error) {
	if len(ids) == 0 {
		return []models.Meal{}, nil
	}
	var rows []models.Meal
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindOwner loads the user row owning a restaurant.
func (r *Repository) FindOwner(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update persists the full restaurant row.
func (r *Repository) Update(ctx context.Context, restaurant *models.Restaurant) error {
	return r.db.WithContext(ctx).Save(restaurant).Error
}

// UpdateImages overwrites the stored image keys.
func (r *Repository) UpdateImages(ctx context.Context, id string, images []string) error {
	return r.db.WithContext(ctx).
		Model(&models.Restaurant{}).
		Where("id = ?", id).
		UpdateColumn("images", imagesColumn(images)).Error
}

func imagesColumn(images []string) pq.StringArray {
	out := make(pq.StringArray, len(images))
	copy(out, images)
	return out
}

// Delete removes a restaurant row and its meals.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.Meal{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Restaurant{}).Error
	})
}

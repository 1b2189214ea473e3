package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/feastly-app/feastly-backend/pkg/types"
)

// Restaurant owns a denormalized menu: MenuIDs lists the ids of the meals
// whose RestaurantID points back here. Both sides are maintained inside one
// transaction by internal/meals.
type Restaurant struct {
	ID          string                   `gorm:"type:char(24);primaryKey"`
	Name        string                   `gorm:"column:name;not null"`
	Description string                   `gorm:"column:description;not null"`
	Email       string                   `gorm:"column:email;not null"`
	PhoneNo     string                   `gorm:"column:phone_no;not null"`
	Address     string                   `gorm:"column:address;not null"`
	Category    enums.RestaurantCategory `gorm:"column:category;not null"`
	Images      pq.StringArray           `gorm:"column:images;type:text[]"`
	Location    *types.Location          `gorm:"column:location;type:jsonb"`
	MenuIDs     pq.StringArray           `gorm:"column:menu_ids;type:text[]"`
	UserID      string                   `gorm:"column:user_id;type:char(24);not null;index"`
	CreatedAt   time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

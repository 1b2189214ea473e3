package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/feastly-app/feastly-backend/pkg/enums"
)

// Meal is a menu entry. RestaurantID is required and UserID records the
// creator, which must match the restaurant owner at creation time.
type Meal struct {
	ID           string             `gorm:"type:char(24);primaryKey"`
	Name         string             `gorm:"column:name;not null"`
	Description  string             `gorm:"column:description;not null"`
	Price        decimal.Decimal    `gorm:"column:price;type:numeric(10,2);not null"`
	Category     enums.MealCategory `gorm:"column:category;not null"`
	RestaurantID string             `gorm:"column:restaurant_id;type:char(24);not null;index"`
	UserID       string             `gorm:"column:user_id;type:char(24);not null;index"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

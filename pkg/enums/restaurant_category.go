package enums

import "fmt"

// RestaurantCategory classifies a restaurant for discovery filters.
type RestaurantCategory string

// Category spellings are kept as the mobile clients already send them.
const (
	RestaurantCategoryFastFood   RestaurantCategory = "Fast Food"
	RestaurantCategoryCafe       RestaurantCategory = "cafe"
	RestaurantCategoryFineDining RestaurantCategory = "Fine Dinning"
)

var validRestaurantCategories = []RestaurantCategory{
	RestaurantCategoryFastFood,
	RestaurantCategoryCafe,
	RestaurantCategoryFineDining,
}

// String implements fmt.Stringer.
func (c RestaurantCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known RestaurantCategory.
func (c RestaurantCategory) IsValid() bool {
	for _, candidate := range validRestaurantCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseRestaurantCategory converts raw input into a RestaurantCategory.
func ParseRestaurantCategory(value string) (RestaurantCategory, error) {
	for _, candidate := range validRestaurantCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid restaurant category %q", value)
}

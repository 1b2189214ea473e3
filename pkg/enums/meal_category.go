package enums

import "fmt"

// MealCategory groups menu entries into sections.
type MealCategory string

const (
	MealCategorySoups      MealCategory = "Soups"
	MealCategorySalads     MealCategory = "Salads"
	MealCategorySandwiches MealCategory = "Sandwiches"
	MealCategoryPasta      MealCategory = "Pasta"
)

var validMealCategories = []MealCategory{
	MealCategorySoups,
	MealCategorySalads,
	MealCategorySandwiches,
	MealCategoryPasta,
}

// String implements fmt.Stringer.
func (c MealCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known MealCategory.
func (c MealCategory) IsValid() bool {
	for _, candidate := range validMealCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseMealCategory converts raw input into a MealCategory.
func ParseMealCategory(value string) (MealCategory, error) {
	for _, candidate := range validMealCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid meal category %q", value)
}

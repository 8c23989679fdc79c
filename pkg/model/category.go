package model

import "fmt"

// Category classifies transactions and maps each one onto a budget goal.
type Category string

const (
	CategoryNeeds   Category = "needs"
	CategoryWants   Category = "wants"
	CategorySavings Category = "savings"
)

// Categories returns all budget categories in their fixed evaluation order.
func Categories() []Category {
	return []Category{CategoryNeeds, CategoryWants, CategorySavings}
}

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryNeeds, CategoryWants, CategorySavings:
		return Category(s), nil
	}
	return "", fmt.Errorf("model: unknown category %q", s)
}

// Valid reports whether the category is one of the three budget categories.
func (c Category) Valid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

// GoalName returns the display name of the goal tracking this category.
func (c Category) GoalName() string {
	switch c {
	case CategoryNeeds:
		return "Essential Needs Budget"
	case CategoryWants:
		return "Wants Budget"
	case CategorySavings:
		return "Savings Budget"
	}
	return ""
}

// GoalType returns the goal type provisioned for this category.
func (c Category) GoalType() GoalType {
	if c == CategorySavings {
		return GoalSavingsTarget
	}
	return GoalSpendingLimit
}

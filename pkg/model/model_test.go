package model

import "testing"

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    Category
		expectError bool
	}{
		{name: "needs", input: "needs", expected: CategoryNeeds},
		{name: "wants", input: "wants", expected: CategoryWants},
		{name: "savings", input: "savings", expected: CategorySavings},
		{name: "empty", input: "", expectError: true},
		{name: "unknown", input: "luxuries", expectError: true},
		{name: "case sensitive", input: "Needs", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for %q but got none", tt.input)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCategoryGoalMapping(t *testing.T) {
	tests := []struct {
		category Category
		goalName string
		goalType GoalType
	}{
		{CategoryNeeds, "Essential Needs Budget", GoalSpendingLimit},
		{CategoryWants, "Wants Budget", GoalSpendingLimit},
		{CategorySavings, "Savings Budget", GoalSavingsTarget},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if got := tt.category.GoalName(); got != tt.goalName {
				t.Errorf("GoalName: expected %q, got %q", tt.goalName, got)
			}
			if got := tt.category.GoalType(); got != tt.goalType {
				t.Errorf("GoalType: expected %q, got %q", tt.goalType, got)
			}
		})
	}
}

func TestCategoriesOrder(t *testing.T) {
	categories := Categories()

	if len(categories) != 3 {
		t.Fatalf("Expected 3 categories, got %d", len(categories))
	}

	expected := []Category{CategoryNeeds, CategoryWants, CategorySavings}
	for i, category := range expected {
		if categories[i] != category {
			t.Errorf("Position %d: expected %q, got %q", i, category, categories[i])
		}
	}
}

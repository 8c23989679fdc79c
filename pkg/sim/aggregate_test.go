package sim

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"budgetsim/pkg/model"
)

func tx(category model.Category, amount string) model.Transaction {
	return model.Transaction{
		AccountID: "acct-1",
		Category:  category,
		Amount:    decimal.RequireFromString(amount),
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		batch    []model.Transaction
		expected map[model.Category]string
		grand    string
	}{
		{
			name:     "empty batch",
			batch:    nil,
			expected: map[model.Category]string{},
			grand:    "0",
		},
		{
			name: "single category",
			batch: []model.Transaction{
				tx(model.CategoryNeeds, "10.50"),
				tx(model.CategoryNeeds, "20.25"),
			},
			expected: map[model.Category]string{model.CategoryNeeds: "30.75"},
			grand:    "30.75",
		},
		{
			name: "all categories",
			batch: []model.Transaction{
				tx(model.CategoryNeeds, "5.01"),
				tx(model.CategoryWants, "54.99"),
				tx(model.CategorySavings, "17.30"),
			},
			expected: map[model.Category]string{
				model.CategoryNeeds:   "5.01",
				model.CategoryWants:   "54.99",
				model.CategorySavings: "17.30",
			},
			grand: "77.30",
		},
		{
			// 0.10+0.20 style sums drift under binary floats; decimals must not.
			name: "exact decimal sums",
			batch: []model.Transaction{
				tx(model.CategoryWants, "0.10"),
				tx(model.CategoryWants, "0.20"),
				tx(model.CategoryWants, "0.30"),
			},
			expected: map[model.Category]string{model.CategoryWants: "0.60"},
			grand:    "0.60",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := Aggregate(tt.batch)

			if len(totals.ByCategory) != len(tt.expected) {
				t.Errorf("Expected %d categories, got %d", len(tt.expected), len(totals.ByCategory))
			}
			for category, amount := range tt.expected {
				if !totals.ByCategory[category].Equal(decimal.RequireFromString(amount)) {
					t.Errorf("Category %s: expected %s, got %s", category, amount, totals.ByCategory[category])
				}
			}
			if !totals.Grand.Equal(decimal.RequireFromString(tt.grand)) {
				t.Errorf("Grand total: expected %s, got %s", tt.grand, totals.Grand)
			}
		})
	}
}

func TestAggregate_CategorySumsEqualGrandTotal(t *testing.T) {
	gen := NewGenerator(rand.NewSource(3))

	for i := 0; i < 100; i++ {
		totals := Aggregate(gen.Generate("acct-1"))

		sum := decimal.Zero
		for _, amount := range totals.ByCategory {
			sum = sum.Add(amount)
		}

		if !sum.Equal(totals.Grand) {
			t.Fatalf("Category sums %s != grand total %s", sum, totals.Grand)
		}
	}
}

func TestTotals_ForAbsentCategory(t *testing.T) {
	totals := Aggregate([]model.Transaction{tx(model.CategoryNeeds, "12.00")})

	if !totals.For(model.CategoryWants).IsZero() {
		t.Errorf("Expected zero for absent category, got %s", totals.For(model.CategoryWants))
	}
	if _, present := totals.ByCategory[model.CategoryWants]; present {
		t.Error("Absent category must not be a key in ByCategory")
	}
}

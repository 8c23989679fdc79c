package sim

import (
	"github.com/shopspring/decimal"

	"budgetsim/pkg/model"
)

// Totals holds the per-category sums and the grand total of one batch.
// Only categories present in the batch appear in ByCategory.
type Totals struct {
	ByCategory map[model.Category]decimal.Decimal
	Grand      decimal.Decimal
}

// For returns the total spent in a category, zero if the category is absent.
func (t Totals) For(category model.Category) decimal.Decimal {
	if amount, ok := t.ByCategory[category]; ok {
		return amount
	}
	return decimal.Zero
}

// Aggregate sums transaction amounts per category and overall.
// Decimal arithmetic keeps the sums exact.
func Aggregate(batch []model.Transaction) Totals {
	totals := Totals{
		ByCategory: make(map[model.Category]decimal.Decimal, len(model.Categories())),
		Grand:      decimal.Zero,
	}

	for _, tx := range batch {
		totals.ByCategory[tx.Category] = totals.ByCategory[tx.Category].Add(tx.Amount)
		totals.Grand = totals.Grand.Add(tx.Amount)
	}

	return totals
}

package sim

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budgetsim/pkg/model"
)

// BatchSize is the fixed number of transactions generated per simulation request.
const BatchSize = 3

// Amount bounds for generated transactions, inclusive.
var (
	minAmount  = 5.0
	amountSpan = 50.0
)

var descriptions = map[model.Category][]string{
	model.CategoryNeeds: {
		"Grocery shopping",
		"Utility bill payment",
		"Public transport fare",
		"Medical expenses",
		"Rent payment",
		"Car fuel",
	},
	model.CategoryWants: {
		"Dining out",
		"Streaming service subscription",
		"Gym membership",
		"Clothing purchase",
		"Electronics purchase",
		"Concert tickets",
		"Gaming subscription",
	},
	model.CategorySavings: {
		"Investment deposit",
		"Emergency fund contribution",
		"Retirement savings",
		"Stock market investment",
		"Crypto investment",
		"High-yield savings deposit",
	},
}

// Generator produces synthetic transaction batches for an account.
// The random source is injected so test output is reproducible.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded from src. A nil src seeds from the
// current time.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{rng: rand.New(src)}
}

// Generate returns a batch of BatchSize transactions for the account. Each
// draws a uniform category, a uniform description from that category's list,
// and a uniform amount in [5.00, 55.00] rounded to two decimal places.
// The batch is not persisted here; the pipeline persists it.
func (g *Generator) Generate(accountID string) []model.Transaction {
	categories := model.Categories()
	now := time.Now().UTC()

	batch := make([]model.Transaction, 0, BatchSize)
	for i := 0; i < BatchSize; i++ {
		category := categories[g.rng.Intn(len(categories))]
		options := descriptions[category]

		batch = append(batch, model.Transaction{
			ID:          uuid.New().String(),
			AccountID:   accountID,
			Category:    category,
			Amount:      decimal.NewFromFloat(minAmount + g.rng.Float64()*amountSpan).Round(2),
			Description: options[g.rng.Intn(len(options))],
			CreatedAt:   now,
		})
	}

	return batch
}

package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func bucketsFromNets(incomes, expenses []float64) []MonthlyBucket {
	buckets := make([]MonthlyBucket, len(incomes))
	for i := range incomes {
		buckets[i] = MonthlyBucket{
			Income:     incomes[i],
			Expense:    expenses[i],
			Net:        incomes[i] - expenses[i],
			Confidence: 1.0,
		}
	}
	return buckets
}

func TestTrends(t *testing.T) {
	engine := New(DefaultConfig())

	t.Run("equal halves are stable at exactly zero", func(t *testing.T) {
		recent := bucketsFromNets(
			[]float64{1000, 1000, 1000, 1000},
			[]float64{400, 400, 400, 400},
		)
		trends := engine.Trends(recent)

		for _, tr := range []TrendResult{trends.Income, trends.Expense, trends.Savings} {
			assert.Equal(t, TrendStable, tr.Direction)
			assert.Equal(t, 0.0, tr.Percentage)
		}
	})

	t.Run("five percent boundary stays stable", func(t *testing.T) {
		// First half averages 100, second half 105: exactly +5%.
		recent := bucketsFromNets(
			[]float64{100, 100, 105, 105},
			[]float64{0, 0, 0, 0},
		)
		trends := engine.Trends(recent)
		assert.Equal(t, TrendStable, trends.Income.Direction)
		assert.InDelta(t, 5.0, trends.Income.Percentage, 1e-9)
	})

	t.Run("movement past the band classifies", func(t *testing.T) {
		recent := bucketsFromNets(
			[]float64{100, 100, 120, 120}, // +20% income
			[]float64{100, 100, 80, 80},   // -20% expense
		)
		trends := engine.Trends(recent)

		assert.Equal(t, TrendIncreasing, trends.Income.Direction)
		assert.InDelta(t, 20.0, trends.Income.Percentage, 1e-9)
		assert.Contains(t, trends.Income.Description, "20.0%")

		assert.Equal(t, TrendDecreasing, trends.Expense.Direction)
		assert.InDelta(t, -20.0, trends.Expense.Percentage, 1e-9)
	})

	t.Run("odd window splits first half larger", func(t *testing.T) {
		// ceil(5/2)=3 in the first half, floor(5/2)=2 from the tail.
		recent := bucketsFromNets(
			[]float64{90, 100, 110, 200, 200}, // halves average 100 and 200
			[]float64{0, 0, 0, 0, 0},
		)
		trends := engine.Trends(recent)
		assert.Equal(t, TrendIncreasing, trends.Income.Direction)
		assert.InDelta(t, 100.0, trends.Income.Percentage, 1e-9)
	})

	t.Run("insufficient data", func(t *testing.T) {
		for _, recent := range [][]MonthlyBucket{nil, bucketsFromNets([]float64{100}, []float64{50})} {
			trends := engine.Trends(recent)
			for _, tr := range []TrendResult{trends.Income, trends.Expense, trends.Savings} {
				assert.Equal(t, TrendStable, tr.Direction)
				assert.Equal(t, 0.0, tr.Percentage)
				assert.Equal(t, "Insufficient data", tr.Description)
			}
		}
	})
}

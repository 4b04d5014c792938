package analytics

import (
	"time"

	"github.com/pennypilot/backend/internal/model"
)

// Forecast buckets the snapshot, projects the horizon forward from the
// recent window, and classifies trends. The result is the historical
// buckets concatenated with the forecast buckets in chronological order.
//
// With an empty snapshot the averages are zero and every projection is a
// zero bucket with the usual decaying confidence; that is a valid result,
// not an error.
func (e *Engine) Forecast(txns []model.Transaction, now time.Time) ForecastResult {
	history := e.MonthlyBuckets(txns, now)
	recent := recentWindow(history, e.cfg.RecentMonths)

	incomes := make([]float64, len(recent))
	expenses := make([]float64, len(recent))
	for i, b := range recent {
		incomes[i] = b.Income
		expenses[i] = b.Expense
	}

	avgIncome := mean(incomes)
	avgExpense := mean(expenses)
	incomeGrowth := growthRate(incomes)
	expenseGrowth := growthRate(expenses)

	buckets := make([]MonthlyBucket, 0, len(history)+e.cfg.ForecastHorizon)
	buckets = append(buckets, history...)

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 1; i <= e.cfg.ForecastHorizon; i++ {
		m := monthStart.AddDate(0, i, 0)
		seasonIdx := int(m.Month()) - 1

		income := avgIncome * (1 + incomeGrowth*float64(i)) * e.cfg.IncomeSeasonal[seasonIdx]
		expense := avgExpense * (1 + expenseGrowth*float64(i)) * e.cfg.ExpenseSeasonal[seasonIdx]

		confidence := e.cfg.ConfidenceStart - e.cfg.ConfidenceDecay*float64(i)
		if confidence < e.cfg.ConfidenceFloor {
			confidence = e.cfg.ConfidenceFloor
		}

		buckets = append(buckets, MonthlyBucket{
			Month:      m.Format(monthLabelFormat),
			Income:     income,
			Expense:    expense,
			Net:        income - expense,
			Predicted:  true,
			Confidence: confidence,
		})
	}

	slope, rSquared := linearRegression(expenses)

	return ForecastResult{
		Buckets:       buckets,
		Trends:        e.Trends(recent),
		TrendSlope:    slope,
		TrendRSquared: rSquared,
	}
}

// growthRate is the mean of consecutive relative changes, skipping steps
// with a zero baseline. No valid step means no growth.
func growthRate(series []float64) float64 {
	var changes []float64
	for i := 1; i < len(series); i++ {
		if series[i-1] == 0 {
			continue
		}
		changes = append(changes, (series[i]-series[i-1])/series[i-1])
	}
	if len(changes) == 0 {
		return 0
	}
	return mean(changes)
}

// recentWindow takes the last n buckets, or everything when the history is
// shorter.
func recentWindow(buckets []MonthlyBucket, n int) []MonthlyBucket {
	if len(buckets) <= n {
		return buckets
	}
	return buckets[len(buckets)-n:]
}

package analytics

import "fmt"

// Trends labels income, expense, and savings movement across the recent
// window by comparing split-half averages: the first ceil(n/2) buckets
// against the last floor(n/2).
func (e *Engine) Trends(recent []MonthlyBucket) TrendSummary {
	if len(recent) < 2 {
		insufficient := TrendResult{
			Direction:   TrendStable,
			Percentage:  0,
			Description: "Insufficient data",
		}
		return TrendSummary{Income: insufficient, Expense: insufficient, Savings: insufficient}
	}

	incomes := make([]float64, len(recent))
	expenses := make([]float64, len(recent))
	nets := make([]float64, len(recent))
	for i, b := range recent {
		incomes[i] = b.Income
		expenses[i] = b.Expense
		nets[i] = b.Net
	}

	return TrendSummary{
		Income:  e.classify("income", incomes),
		Expense: e.classify("expenses", expenses),
		Savings: e.classify("savings", nets),
	}
}

func (e *Engine) classify(metric string, series []float64) TrendResult {
	mid := (len(series) + 1) / 2
	firstAvg := mean(series[:mid])
	secondAvg := mean(series[mid:])
	pct := percentChange(firstAvg, secondAvg)

	direction := TrendStable
	switch {
	case pct > e.cfg.TrendStabilityPct:
		direction = TrendIncreasing
	case pct < -e.cfg.TrendStabilityPct:
		direction = TrendDecreasing
	}

	abs := pct
	if abs < 0 {
		abs = -abs
	}

	var description string
	switch direction {
	case TrendIncreasing:
		description = fmt.Sprintf("Your %s increased by %.1f%% over recent months", metric, abs)
	case TrendDecreasing:
		description = fmt.Sprintf("Your %s decreased by %.1f%% over recent months", metric, abs)
	default:
		description = fmt.Sprintf("Your %s stayed stable (%.1f%% change)", metric, abs)
	}

	return TrendResult{
		Direction:   direction,
		Percentage:  pct,
		Description: description,
	}
}

package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/pennypilot/backend/internal/model"
)

// Insights derives warning/positive/neutral observations from the last
// three months of history, the first three forecast months, and all-time
// category concentration. Every insight has a triggering condition; an
// empty list is a valid result.
func (e *Engine) Insights(txns []model.Transaction, now time.Time) []Insight {
	result := e.Forecast(txns, now)

	var history, forecast []MonthlyBucket
	for _, b := range result.Buckets {
		if b.Predicted {
			forecast = append(forecast, b)
		} else {
			history = append(history, b)
		}
	}
	if len(history) > 3 {
		history = history[len(history)-3:]
	}
	if len(forecast) > 3 {
		forecast = forecast[:3]
	}

	var insights []Insight
	insights = append(insights, e.savingsRateInsights(history)...)
	insights = append(insights, e.expenseDriftInsights(history, forecast)...)
	insights = append(insights, e.concentrationInsights(txns)...)
	return insights
}

func (e *Engine) savingsRateInsights(history []MonthlyBucket) []Insight {
	var incomes, nets []float64
	for _, b := range history {
		incomes = append(incomes, b.Income)
		nets = append(nets, b.Net)
	}
	avgIncome := mean(incomes)
	avgSavings := mean(nets)

	var savingsRate float64
	if avgIncome != 0 {
		savingsRate = avgSavings / avgIncome * 100
	}

	target := avgIncome * e.cfg.SavingsTargetRate

	switch {
	case savingsRate < e.cfg.SavingsRateLowPct:
		return []Insight{{
			Kind:  InsightWarning,
			Title: "Low Savings Rate",
			Description: fmt.Sprintf(
				"You're saving %.1f%% of your income. Aim for at least %.0f%% to build a healthy buffer.",
				savingsRate, e.cfg.SavingsTargetRate*100),
			FinancialImpact: target - avgSavings,
		}}
	case savingsRate > e.cfg.SavingsRateHighPct:
		return []Insight{{
			Kind:  InsightPositive,
			Title: "Excellent Savings Rate",
			Description: fmt.Sprintf(
				"You're saving %.1f%% of your income, well above the %.0f%% target.",
				savingsRate, e.cfg.SavingsTargetRate*100),
			FinancialImpact: avgSavings - target,
		}}
	}
	return nil
}

func (e *Engine) expenseDriftInsights(history, forecast []MonthlyBucket) []Insight {
	var past, future []float64
	for _, b := range history {
		past = append(past, b.Expense)
	}
	for _, b := range forecast {
		future = append(future, b.Expense)
	}
	avgExpense := mean(past)
	futureAvgExpense := mean(future)

	if percentChange(avgExpense, futureAvgExpense) <= e.cfg.ExpenseDriftPct {
		return nil
	}
	return []Insight{{
		Kind:  InsightWarning,
		Title: "Rising Expenses Predicted",
		Description: fmt.Sprintf(
			"Your monthly expenses are projected to rise from %.2f to %.2f over the next few months.",
			avgExpense, futureAvgExpense),
		FinancialImpact: futureAvgExpense - avgExpense,
	}}
}

func (e *Engine) concentrationInsights(txns []model.Transaction) []Insight {
	type categoryTotal struct {
		name  string
		total float64
	}
	byCategory := make(map[string]*categoryTotal)
	var total float64
	for _, tx := range txns {
		if tx.Type != model.TransactionTypeExpense {
			continue
		}
		ct, ok := byCategory[tx.CategoryID]
		if !ok {
			ct = &categoryTotal{name: tx.CategoryName}
			byCategory[tx.CategoryID] = ct
		}
		if ct.name == "" {
			ct.name = tx.CategoryName
		}
		ct.total += tx.Amount
		total += tx.Amount
	}
	if total == 0 {
		return nil
	}

	exempt := make(map[string]bool, len(e.cfg.ConcentrationExempt))
	for _, name := range e.cfg.ConcentrationExempt {
		exempt[name] = true
	}

	var insights []Insight
	for _, ct := range byCategory {
		if exempt[ct.name] {
			continue
		}
		share := ct.total / total
		if share <= e.cfg.ConcentrationShare {
			continue
		}
		name := ct.name
		if name == "" {
			name = "Uncategorized"
		}
		insights = append(insights, Insight{
			Kind:  InsightWarning,
			Title: fmt.Sprintf("High %s Spending", name),
			Description: fmt.Sprintf(
				"%s accounts for %.0f%% of your total expenses.", name, share*100),
			FinancialImpact: ct.total,
			Category:        name,
		})
	}

	// Map iteration order is random; keep repeated runs bit-identical.
	sort.Slice(insights, func(i, j int) bool {
		if insights[i].FinancialImpact != insights[j].FinancialImpact {
			return insights[i].FinancialImpact > insights[j].FinancialImpact
		}
		return insights[i].Category < insights[j].Category
	})
	return insights
}

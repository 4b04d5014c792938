package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pennypilot/backend/internal/model"
)

// BudgetSuggestions derives per-category spending ceilings from the
// trailing RecommendationWindowDays of expenses. Categories already
// covered by an active budget are skipped, as are categories averaging
// below the materiality floor. The suggested ceiling is the monthly
// average plus the configured buffer; the confidence band comes from how
// evenly the spend is distributed across the three ~30-day slices of the
// window. The MaxSuggestions largest by average spend are returned.
func (e *Engine) BudgetSuggestions(txns []model.Transaction, budgets []model.Budget, now time.Time) []BudgetSuggestion {
	windowStart := now.AddDate(0, 0, -e.cfg.RecommendationWindowDays)
	sliceDays := e.cfg.RecommendationWindowDays / 3

	budgeted := make(map[string]bool, len(budgets))
	for _, b := range budgets {
		if b.IsActive {
			budgeted[b.CategoryID] = true
		}
	}

	type categorySpend struct {
		name   string
		total  float64
		slices [3]float64
	}
	byCategory := make(map[string]*categorySpend)

	for _, tx := range txns {
		if tx.Type != model.TransactionTypeExpense {
			continue
		}
		if tx.Date.Before(windowStart) || tx.Date.After(now) {
			continue
		}
		if budgeted[tx.CategoryID] {
			continue
		}
		cs, ok := byCategory[tx.CategoryID]
		if !ok {
			cs = &categorySpend{name: tx.CategoryName}
			byCategory[tx.CategoryID] = cs
		}
		if cs.name == "" {
			cs.name = tx.CategoryName
		}
		cs.total += tx.Amount

		slice := int(now.Sub(tx.Date).Hours() / 24 / float64(sliceDays))
		if slice > 2 {
			slice = 2
		}
		// Slice 0 is the oldest third of the window.
		cs.slices[2-slice] += tx.Amount
	}

	var suggestions []BudgetSuggestion
	for categoryID, cs := range byCategory {
		avgMonthly := cs.total / 3
		if avgMonthly < e.cfg.MaterialityFloor {
			continue
		}

		slices := cs.slices[:]
		cv := coefficientOfVariation(slices)

		var band ConfidenceBand
		var reasoning string
		switch {
		case cv < e.cfg.HighVariationMax:
			band = ConfidenceHigh
			reasoning = fmt.Sprintf(
				"Spending is consistent, averaging %.2f per month over the last %d days.",
				avgMonthly, e.cfg.RecommendationWindowDays)
		case cv < e.cfg.MediumVariationMax:
			band = ConfidenceMedium
			reasoning = fmt.Sprintf(
				"Spending varies month to month, averaging %.2f over the last %d days.",
				avgMonthly, e.cfg.RecommendationWindowDays)
		default:
			band = ConfidenceLow
			minSlice, maxSlice := slices[0], slices[0]
			for _, s := range slices[1:] {
				minSlice = math.Min(minSlice, s)
				maxSlice = math.Max(maxSlice, s)
			}
			reasoning = fmt.Sprintf(
				"Spending is irregular, ranging from %.2f to %.2f per month (average %.2f).",
				minSlice, maxSlice, avgMonthly)
		}

		suggestions = append(suggestions, BudgetSuggestion{
			CategoryID:             categoryID,
			CategoryName:           cs.name,
			SuggestedAmount:        math.Ceil(avgMonthly * e.cfg.BudgetBuffer),
			CurrentAverageSpending: avgMonthly,
			ConfidenceBand:         band,
			Reasoning:              reasoning,
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].CurrentAverageSpending != suggestions[j].CurrentAverageSpending {
			return suggestions[i].CurrentAverageSpending > suggestions[j].CurrentAverageSpending
		}
		return suggestions[i].CategoryID < suggestions[j].CategoryID
	})
	if len(suggestions) > e.cfg.MaxSuggestions {
		suggestions = suggestions[:e.cfg.MaxSuggestions]
	}
	return suggestions
}

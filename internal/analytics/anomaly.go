package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pennypilot/backend/internal/model"
)

var severityRank = map[AnomalySeverity]int{
	SeverityLow:    0,
	SeverityMedium: 1,
	SeverityHigh:   2,
}

// Anomalies flags unusual expenses in the lookback window using per-category
// z-scores, plus merchants seen for the first and only time. Sensitivity in
// [0,1] tightens the z-score threshold: 0 flags only 3-sigma outliers, 1
// flags anything past 1 sigma. Categories with fewer than AnomalyMinSamples
// expenses are left alone; small samples make the baseline meaningless.
func (e *Engine) Anomalies(txns []model.Transaction, now time.Time, sensitivity float64) []Anomaly {
	if sensitivity <= 0 {
		sensitivity = 0.5
	}
	threshold := 3.0 - sensitivity*2.0
	windowStart := now.AddDate(0, 0, -e.cfg.AnomalyLookbackDays)

	var expenses []model.Transaction
	for _, tx := range txns {
		if tx.Type != model.TransactionTypeExpense {
			continue
		}
		if tx.Date.Before(windowStart) || tx.Date.After(now) {
			continue
		}
		expenses = append(expenses, tx)
	}

	byCategory := make(map[string][]model.Transaction)
	merchantCount := make(map[string]int)
	for _, tx := range expenses {
		byCategory[tx.CategoryID] = append(byCategory[tx.CategoryID], tx)
		if tx.Description != "" {
			merchantCount[NormalizeDescription(tx.Description)]++
		}
	}

	var anomalies []Anomaly
	for _, group := range byCategory {
		if len(group) < e.cfg.AnomalyMinSamples {
			continue
		}
		amounts := make([]float64, len(group))
		for i, tx := range group {
			amounts[i] = tx.Amount
		}
		m := mean(amounts)
		sd := stdDev(amounts)
		if sd == 0 {
			continue
		}
		for _, tx := range group {
			z := (tx.Amount - m) / sd
			if math.Abs(z) <= threshold {
				continue
			}
			anomalies = append(anomalies, Anomaly{
				TransactionID:  tx.ID,
				Description:    tx.Description,
				Amount:         tx.Amount,
				CategoryID:     tx.CategoryID,
				CategoryName:   tx.CategoryName,
				Date:           tx.Date,
				ZScore:         z,
				ExpectedAmount: m,
				Type:           AnomalyAmountOutlier,
				Severity:       severityForZ(math.Abs(z)),
			})
		}
	}

	for _, tx := range expenses {
		if tx.Description == "" {
			continue
		}
		if merchantCount[NormalizeDescription(tx.Description)] != 1 {
			continue
		}
		anomalies = append(anomalies, Anomaly{
			TransactionID: tx.ID,
			Description:   fmt.Sprintf("New merchant: %s", tx.Description),
			Amount:        tx.Amount,
			CategoryID:    tx.CategoryID,
			CategoryName:  tx.CategoryName,
			Date:          tx.Date,
			Type:          AnomalyNewMerchant,
			Severity:      SeverityLow,
		})
	}

	sort.Slice(anomalies, func(i, j int) bool {
		ri, rj := severityRank[anomalies[i].Severity], severityRank[anomalies[j].Severity]
		if ri != rj {
			return ri > rj
		}
		if anomalies[i].Amount != anomalies[j].Amount {
			return anomalies[i].Amount > anomalies[j].Amount
		}
		return anomalies[i].TransactionID < anomalies[j].TransactionID
	})
	return anomalies
}

func severityForZ(absZ float64) AnomalySeverity {
	switch {
	case absZ > 3.0:
		return SeverityHigh
	case absZ > 2.5:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

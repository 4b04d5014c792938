package analytics

import (
	"time"

	"github.com/pennypilot/backend/internal/model"
)

const monthLabelFormat = "Jan 2006"

// MonthlyBuckets folds the snapshot into calendar-month totals covering
// [now-WindowMonths, now] inclusive, oldest first. Months without activity
// stay as all-zero buckets; later variance and trend math depends on them
// being present. Transfers are ignored.
func (e *Engine) MonthlyBuckets(txns []model.Transaction, now time.Time) []MonthlyBucket {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -e.cfg.WindowMonths, 0)

	buckets := make([]MonthlyBucket, 0, e.cfg.WindowMonths+1)
	index := make(map[string]int, e.cfg.WindowMonths+1)
	for i := 0; i <= e.cfg.WindowMonths; i++ {
		m := start.AddDate(0, i, 0)
		index[monthKey(m)] = len(buckets)
		buckets = append(buckets, MonthlyBucket{
			Month:      m.Format(monthLabelFormat),
			Confidence: 1.0,
		})
	}

	for _, tx := range txns {
		i, ok := index[monthKey(tx.Date)]
		if !ok {
			continue
		}
		switch tx.Type {
		case model.TransactionTypeIncome:
			buckets[i].Income += tx.Amount
		case model.TransactionTypeExpense:
			buckets[i].Expense += tx.Amount
		}
	}

	for i := range buckets {
		buckets[i].Net = buckets[i].Income - buckets[i].Expense
	}
	return buckets
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

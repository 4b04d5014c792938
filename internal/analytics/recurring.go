package analytics

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pennypilot/backend/internal/model"
)

var digitRuns = regexp.MustCompile(`\d+`)

// NormalizeDescription reduces a transaction description to its grouping
// key: lowercase, trimmed, digit runs removed. "Netflix #4821" and
// "NETFLIX 4822" collapse to the same key. Kept as a standalone function
// so the normalization policy can be swapped without touching the
// grouping or interval logic.
func NormalizeDescription(description string) string {
	key := strings.ToLower(strings.TrimSpace(description))
	key = digitRuns.ReplaceAllString(key, "")
	return strings.TrimSpace(key)
}

// frequencyBand maps an average day-interval range onto a cadence.
type frequencyBand struct {
	freq     Frequency
	min, max float64
}

var frequencyBands = []frequencyBand{
	{FrequencyWeekly, 5, 9},
	{FrequencyBiweekly, 12, 16},
	{FrequencyMonthly, 25, 35},
	{FrequencyYearly, 350, 380},
}

// RecurringPatterns groups transactions by normalized description and
// reports the groups whose intervals are regular enough to look like a
// scheduled payment. A group needs MinOccurrences members, an interval
// coefficient of variation at or below IntervalVariationMax, and an
// average interval inside one of the frequency bands; anything else is
// dropped, not reported. The best MaxPatterns by confidence are returned.
func (e *Engine) RecurringPatterns(txns []model.Transaction) []RecurringPattern {
	groups := make(map[string][]model.Transaction)
	for _, tx := range txns {
		key := NormalizeDescription(tx.Description)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], tx)
	}

	var patterns []RecurringPattern
	for key, group := range groups {
		if len(group) < e.cfg.MinOccurrences {
			continue
		}

		sort.Slice(group, func(i, j int) bool {
			return group[i].Date.Before(group[j].Date)
		})

		intervals := make([]float64, 0, len(group)-1)
		for i := 1; i < len(group); i++ {
			days := group[i].Date.Sub(group[i-1].Date).Hours() / 24
			intervals = append(intervals, days)
		}

		avgInterval := mean(intervals)
		cv := coefficientOfVariation(intervals)
		if cv > e.cfg.IntervalVariationMax {
			continue
		}

		freq, ok := classifyInterval(avgInterval)
		if !ok {
			continue
		}

		amounts := make([]float64, len(group))
		for i, tx := range group {
			amounts[i] = math.Abs(tx.Amount)
		}

		last := group[len(group)-1]
		patterns = append(patterns, RecurringPattern{
			DescriptionKey:   key,
			CategoryID:       last.CategoryID,
			CategoryName:     last.CategoryName,
			Amount:           mean(amounts),
			Frequency:        freq,
			OccurrenceCount:  len(group),
			LastDate:         last.Date,
			NextExpectedDate: last.Date.Add(time.Duration(avgInterval * 24 * float64(time.Hour))),
			Confidence:       int(math.Round(clampConfidence((1-cv)*100, 0, 100, len(intervals)))),
		})
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Confidence != patterns[j].Confidence {
			return patterns[i].Confidence > patterns[j].Confidence
		}
		return patterns[i].DescriptionKey < patterns[j].DescriptionKey
	})
	if len(patterns) > e.cfg.MaxPatterns {
		patterns = patterns[:e.cfg.MaxPatterns]
	}
	return patterns
}

func classifyInterval(avgInterval float64) (Frequency, bool) {
	for _, band := range frequencyBands {
		if avgInterval >= band.min && avgInterval <= band.max {
			return band.freq, true
		}
	}
	return "", false
}

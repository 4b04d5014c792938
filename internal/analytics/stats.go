package analytics

import "math"

// Descriptive statistics shared across the engine. Divide-by-zero cases
// resolve to defined defaults rather than NaN so downstream math stays
// finite on degenerate input.

// mean returns the arithmetic mean, or 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// variance returns the population variance (divisor n).
func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var sumSq float64
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return sumSq / float64(len(xs))
}

// stdDev returns the population standard deviation.
func stdDev(xs []float64) float64 {
	return math.Sqrt(variance(xs))
}

// coefficientOfVariation returns stddev/mean, or 0 when the mean is 0.
func coefficientOfVariation(xs []float64) float64 {
	m := mean(xs)
	if m == 0 {
		return 0
	}
	return stdDev(xs) / m
}

// percentChange returns the relative change from a to b in percent, or 0
// when the baseline is 0.
func percentChange(a, b float64) float64 {
	if a == 0 {
		return 0
	}
	return (b - a) / a * 100
}

// clampConfidence bounds a confidence score to [floor, ceil]. Scores built
// from fewer than two observations fall back to 0.5 (on a 0..1 scale).
func clampConfidence(v, floor, ceil float64, n int) float64 {
	if n < 2 {
		mid := 0.5
		if ceil > 1 {
			mid = 0.5 * ceil
		}
		return mid
	}
	if v < floor {
		return floor
	}
	if v > ceil {
		return ceil
	}
	return v
}

// linearRegression fits y = slope*x + intercept over x = 0, 1, 2, ... and
// returns the slope with the R-squared of the fit.
func linearRegression(points []float64) (slope, rSquared float64) {
	n := float64(len(points))
	if n < 2 {
		return 0, 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range points {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n
	meanY := sumY / n
	var ssRes, ssTot float64
	for i, y := range points {
		predicted := slope*float64(i) + intercept
		ssRes += (y - predicted) * (y - predicted)
		ssTot += (y - meanY) * (y - meanY)
	}
	if ssTot == 0 {
		return slope, 1
	}
	rSquared = 1 - ssRes/ssTot
	return slope, rSquared
}

package analytics

// Config carries the numeric policy the engine applies. The values are
// product policy, not fitted parameters; deployments tune them without
// touching the algorithms.
type Config struct {
	// Monthly aggregation and forecasting.
	WindowMonths    int // trailing calendar months to bucket
	RecentMonths    int // tail of the window used for averages and trends
	ForecastHorizon int // months to project forward

	// Forecast confidence: max(ConfidenceFloor, ConfidenceStart - ConfidenceDecay*i).
	ConfidenceStart float64
	ConfidenceDecay float64
	ConfidenceFloor float64

	// Seasonal multipliers indexed by calendar month (Jan=0 .. Dec=11).
	IncomeSeasonal  [12]float64
	ExpenseSeasonal [12]float64

	// Trend classification: |pct change| at or below this is stable.
	TrendStabilityPct float64

	// Insight thresholds.
	SavingsRateLowPct   float64  // below this, warn
	SavingsRateHighPct  float64  // above this, praise
	SavingsTargetRate   float64  // fraction of income used for impact math
	ExpenseDriftPct     float64  // predicted expense rise worth warning about
	ConcentrationShare  float64  // share of total expense flagging a category
	ConcentrationExempt []string // category names never flagged

	// Recurring pattern detection.
	MinOccurrences       int     // group size floor
	IntervalVariationMax float64 // reject groups with interval CV above this
	MaxPatterns          int     // patterns returned, best first

	// Budget recommendations.
	RecommendationWindowDays int     // spending history considered
	MaterialityFloor         float64 // skip categories averaging below this
	BudgetBuffer             float64 // multiplier over average spend
	MaxSuggestions           int
	HighVariationMax         float64 // slice CV below this is a high band
	MediumVariationMax       float64 // slice CV below this is a medium band

	// Anomaly detection.
	AnomalyLookbackDays int
	AnomalyMinSamples   int // category sample floor for z-scores
}

// DefaultConfig returns the stock policy. The seasonal tables model a mild
// December income uplift with a January dip, and a holiday-season expense
// climb with a February dip.
func DefaultConfig() Config {
	return Config{
		WindowMonths:    12,
		RecentMonths:    6,
		ForecastHorizon: 6,

		ConfidenceStart: 0.9,
		ConfidenceDecay: 0.1,
		ConfidenceFloor: 0.3,

		IncomeSeasonal: [12]float64{
			0.95, 1.0, 1.0, 1.0, 1.0, 1.0,
			1.0, 1.0, 1.0, 1.0, 1.0, 1.15,
		},
		ExpenseSeasonal: [12]float64{
			1.0, 0.9, 1.0, 1.0, 1.0, 1.0,
			1.0, 1.0, 1.0, 1.0, 1.1, 1.2,
		},

		TrendStabilityPct: 5,

		SavingsRateLowPct:   10,
		SavingsRateHighPct:  30,
		SavingsTargetRate:   0.2,
		ExpenseDriftPct:     10,
		ConcentrationShare:  0.25,
		ConcentrationExempt: []string{"Housing", "Rent"},

		MinOccurrences:       3,
		IntervalVariationMax: 0.3,
		MaxPatterns:          5,

		RecommendationWindowDays: 90,
		MaterialityFloor:         50,
		BudgetBuffer:             1.10,
		MaxSuggestions:           5,
		HighVariationMax:         0.2,
		MediumVariationMax:       0.5,

		AnomalyLookbackDays: 90,
		AnomalyMinSamples:   10,
	}
}

// Engine evaluates a tenant's transaction snapshot. All methods are pure:
// results depend only on the arguments and the configured policy, so
// concurrent calls need no locking.
type Engine struct {
	cfg Config
}

// New returns an Engine applying the given policy.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the policy the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

package analytics

import "time"

// MonthlyBucket is one calendar month of aggregated activity, either
// historical (Predicted=false, Confidence=1) or forecast.
type MonthlyBucket struct {
	Month      string  `json:"month"`
	Income     float64 `json:"income"`
	Expense    float64 `json:"expense"`
	Net        float64 `json:"net"`
	Predicted  bool    `json:"predicted"`
	Confidence float64 `json:"confidence"`
}

// TrendDirection classifies how a metric moved across the recent window.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// TrendResult describes the movement of a single metric.
type TrendResult struct {
	Direction   TrendDirection `json:"direction"`
	Percentage  float64        `json:"percentage"`
	Description string         `json:"description"`
}

// TrendSummary bundles the three classified metrics.
type TrendSummary struct {
	Income  TrendResult `json:"income"`
	Expense TrendResult `json:"expense"`
	Savings TrendResult `json:"savings"`
}

// ForecastResult is the historical window concatenated with the forecast
// horizon, plus trend classification and the expense-series regression.
type ForecastResult struct {
	Buckets       []MonthlyBucket `json:"buckets"`
	Trends        TrendSummary    `json:"trends"`
	TrendSlope    float64         `json:"trendSlope"`
	TrendRSquared float64         `json:"trendRSquared"`
}

// Frequency is the cadence of a detected recurring pattern.
type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyYearly   Frequency = "yearly"
)

// RecurringPattern is a group of similar transactions recurring at a
// statistically regular interval.
type RecurringPattern struct {
	DescriptionKey   string    `json:"descriptionKey"`
	CategoryID       string    `json:"categoryId"`
	CategoryName     string    `json:"categoryName,omitempty"`
	Amount           float64   `json:"amount"`
	Frequency        Frequency `json:"frequency"`
	OccurrenceCount  int       `json:"occurrenceCount"`
	LastDate         time.Time `json:"lastDate"`
	NextExpectedDate time.Time `json:"nextExpectedDate"`
	Confidence       int       `json:"confidence"`
}

// ConfidenceBand expresses how much trust a budget suggestion carries.
type ConfidenceBand string

const (
	ConfidenceHigh   ConfidenceBand = "high"
	ConfidenceMedium ConfidenceBand = "medium"
	ConfidenceLow    ConfidenceBand = "low"
)

// BudgetSuggestion is a recommended spending ceiling for one category.
type BudgetSuggestion struct {
	CategoryID             string         `json:"categoryId"`
	CategoryName           string         `json:"categoryName,omitempty"`
	SuggestedAmount        float64        `json:"suggestedAmount"`
	CurrentAverageSpending float64        `json:"currentAverageSpending"`
	ConfidenceBand         ConfidenceBand `json:"confidenceBand"`
	Reasoning              string         `json:"reasoning"`
}

// InsightKind is the tone of a generated insight.
type InsightKind string

const (
	InsightWarning  InsightKind = "warning"
	InsightPositive InsightKind = "positive"
	InsightNeutral  InsightKind = "neutral"
)

// Insight is a natural-language observation derived from the aggregated
// and forecast data.
type Insight struct {
	Kind            InsightKind `json:"kind"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	FinancialImpact float64     `json:"financialImpact"`
	Category        string      `json:"category,omitempty"`
}

// AnomalySeverity ranks how far an outlier sits from its category baseline.
type AnomalySeverity string

const (
	SeverityHigh   AnomalySeverity = "high"
	SeverityMedium AnomalySeverity = "medium"
	SeverityLow    AnomalySeverity = "low"
)

// AnomalyType distinguishes amount outliers from first-time merchants.
type AnomalyType string

const (
	AnomalyAmountOutlier AnomalyType = "amount_outlier"
	AnomalyNewMerchant   AnomalyType = "new_merchant"
)

// Anomaly is a single unusual transaction flagged by z-score analysis.
type Anomaly struct {
	TransactionID  string          `json:"transactionId"`
	Description    string          `json:"description"`
	Amount         float64         `json:"amount"`
	CategoryID     string          `json:"categoryId"`
	CategoryName   string          `json:"categoryName,omitempty"`
	Date           time.Time       `json:"date"`
	ZScore         float64         `json:"zScore"`
	ExpectedAmount float64         `json:"expectedAmount"`
	Type           AnomalyType     `json:"type"`
	Severity       AnomalySeverity `json:"severity"`
}

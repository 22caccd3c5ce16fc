package multiverse

// Trend classifies a metric's projected direction.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// RiskBand groups a universe's numeric risk score.
type RiskBand string

const (
	RiskMinimal  RiskBand = "minimal"
	RiskLow      RiskBand = "low"
	RiskModerate RiskBand = "moderate"
	RiskHigh     RiskBand = "high"
	RiskCritical RiskBand = "critical"
)

// Fixed metric names every universe projects. Baselines come from the
// industry benchmark where one applies.
const (
	MetricRevenueGrowth = "revenue_growth"
	MetricCustomerChurn = "customer_churn"
	MetricMarketShare   = "market_share"
	MetricTeamVelocity  = "team_velocity"
	MetricOperatingCost = "operating_cost"
)

// OutcomeMetric is one projected measurement in a universe.
type OutcomeMetric struct {
	Name       string  `json:"name"`
	Baseline   float64 `json:"baseline"`
	Projected  float64 `json:"projected"`
	Delta      float64 `json:"delta"`
	Confidence float64 `json:"confidence"`
	Trend      Trend   `json:"trend"`
}

// RiskProfile summarizes a universe's risk exposure.
type RiskProfile struct {
	Band  RiskBand `json:"band"`
	Score float64  `json:"score"`
}

// TimelineEvent is a projected event within a universe's horizon.
type TimelineEvent struct {
	DayOffset   int     `json:"day_offset"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"` // milestone, risk, opportunity, pivot, cascade, external, checkpoint
	Impact      string  `json:"impact"`   // positive, negative, neutral
	Confidence  float64 `json:"confidence"`
}

// Universe is one alternative decision path with its projected outcomes.
type Universe struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Posture  string `json:"posture"`
	Decision string `json:"decision"`

	// Probability is the independent likelihood this path would be chosen;
	// probabilities across a simulation need not sum to 1.
	Probability float64 `json:"probability"`

	Metrics     []OutcomeMetric `json:"metrics"`
	RiskProfile RiskProfile     `json:"risk_profile"`
	// Reversibility scores how cheaply the decision can be undone, 0-100.
	Reversibility float64         `json:"reversibility"`
	Timeline      []TimelineEvent `json:"timeline"`

	// OverallScore ranks universes for the final recommendation.
	OverallScore float64 `json:"overall_score"`
}

// Analogue is a historical precedent resembling the simulated decision.
type Analogue struct {
	Case      string  `json:"case"`
	Decision  string  `json:"decision"`
	Outcome   string  `json:"outcome"`
	Relevance float64 `json:"relevance"`
}

// Recommendation is the simulator's final pick across universes.
type Recommendation struct {
	UniverseID string   `json:"universe_id"`
	Confidence float64  `json:"confidence"`
	Rationale  string   `json:"rationale"`
	KeyFactors []string `json:"key_factors"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Simulation is the complete multiverse result for one question.
type Simulation struct {
	Question       string         `json:"question"`
	HorizonDays    int            `json:"horizon_days"`
	Universes      []Universe     `json:"universes"`
	Analogues      []Analogue     `json:"analogues"`
	Recommendation Recommendation `json:"recommendation"`
}

package modes

// Bias is a mode's outlook profile. It shifts how the multiverse simulator
// skews outcome deltas.
type Bias string

const (
	BiasOptimistic  Bias = "optimistic"
	BiasPessimistic Bias = "pessimistic"
	BiasBalanced    Bias = "balanced"
	BiasContrarian  Bias = "contrarian"
)

// IndustryModifiers scale calibration output per mode.
type IndustryModifiers struct {
	RiskMultiplier       float64 `yaml:"risk_multiplier" json:"risk_multiplier"`
	ConfidenceMultiplier float64 `yaml:"confidence_multiplier" json:"confidence_multiplier"`
}

// Mode is an immutable analysis configuration. Cascade modes drive the
// propagation engine; simulation modes drive the multiverse simulator.
// A mode is never mutated after the registry loads.
type Mode struct {
	ID          string `yaml:"id" json:"id"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
	Bias        Bias   `yaml:"bias" json:"bias"`

	// RiskWeighting amplifies propagation along risk-polarity edges and
	// probabilities below the coin-flip line.
	RiskWeighting float64 `yaml:"risk_weighting" json:"risk_weighting"`
	// OpportunityWeighting amplifies propagation along opportunity-polarity
	// edges and probabilities above the coin-flip line.
	OpportunityWeighting float64 `yaml:"opportunity_weighting" json:"opportunity_weighting"`

	// AnalysisDepth is the maximum causal order a cascade traversal reaches.
	AnalysisDepth int `yaml:"analysis_depth" json:"analysis_depth"`
	// DefaultUniverseCount is how many universes a simulation generates when
	// the caller does not ask for a specific count. Zero for cascade modes.
	DefaultUniverseCount int `yaml:"default_universe_count" json:"default_universe_count,omitempty"`

	ConfidenceAdjustment float64           `yaml:"confidence_adjustment" json:"confidence_adjustment"`
	IndustryModifiers    IndustryModifiers `yaml:"industry_modifiers" json:"industry_modifiers"`

	// Constraints are default guardrail hints attached to every report the
	// mode produces.
	Constraints []string `yaml:"constraints" json:"constraints,omitempty"`
}

// IndustryBenchmark is an immutable record of baseline rates for one
// industry. The multiverse calibration step is its only heavy consumer;
// the cascade engine uses only CascadeModifier.
type IndustryBenchmark struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`

	BaselineChurnRate    float64 `yaml:"baseline_churn_rate" json:"baseline_churn_rate"`
	GrowthVolatility     float64 `yaml:"growth_volatility" json:"growth_volatility"`
	RegulatoryRisk       float64 `yaml:"regulatory_risk" json:"regulatory_risk"`
	CompetitiveIntensity float64 `yaml:"competitive_intensity" json:"competitive_intensity"`
	DataReliability      float64 `yaml:"data_reliability" json:"data_reliability"`
	ForecastAccuracy     float64 `yaml:"forecast_accuracy" json:"forecast_accuracy"`

	// CascadeModifier scales propagation probability when an analysis runs
	// with an industry context attached.
	CascadeModifier float64 `yaml:"cascade_modifier" json:"cascade_modifier"`
}

// catalog is the YAML shape of the embedded registry file.
type catalog struct {
	CascadeModes    []Mode              `yaml:"cascade_modes"`
	SimulationModes []Mode              `yaml:"simulation_modes"`
	Industries      []IndustryBenchmark `yaml:"industries"`

	// SuggestedModes maps a change type to the cascade mode best suited to
	// analyze it. Unlisted types fall back to DefaultSuggestedMode.
	SuggestedModes       map[string]string `yaml:"suggested_modes"`
	DefaultSuggestedMode string            `yaml:"default_suggested_mode"`
}

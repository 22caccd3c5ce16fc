package multiverse

// posture defines one strategic stance a universe can take. The catalog
// order is fixed: a simulation for N universes takes the first N postures,
// which guarantees no two universes share a stance or decision text.
type posture struct {
	id       string
	name     string
	decision string // format arg: the question

	// deltas are baseline percentage-point shifts per metric before mode,
	// bias and industry adjustments.
	deltas map[string]float64

	// baseProbability feeds calibration to produce the universe's
	// probability of selection.
	baseProbability float64
	// riskBase anchors the risk score before volatility contributions.
	riskBase float64
	// reversibilityBase anchors how undoable the stance is, 0-100.
	reversibilityBase float64
}

// MaxUniverses is the posture catalog size and therefore the largest
// universe count a simulation accepts.
const MaxUniverses = 6

var postureCatalog = []posture{
	{
		id:       "bold-expansion",
		name:     "Bold Expansion",
		decision: "Commit fully and at once: %s answered with maximum investment",
		deltas: map[string]float64{
			MetricRevenueGrowth: 24,
			MetricCustomerChurn: 3.5,
			MetricMarketShare:   6,
			MetricTeamVelocity:  -12,
			MetricOperatingCost: 18,
		},
		baseProbability:   0.45,
		riskBase:          55,
		reversibilityBase: 30,
	},
	{
		id:       "steady-course",
		name:     "Steady Course",
		decision: "Decline for now: %s answered by holding the current trajectory",
		deltas: map[string]float64{
			MetricRevenueGrowth: 2,
			MetricCustomerChurn: 0.5,
			MetricMarketShare:   -1,
			MetricTeamVelocity:  1,
			MetricOperatingCost: 0,
		},
		baseProbability:   0.6,
		riskBase:          18,
		reversibilityBase: 90,
	},
	{
		id:       "staged-experiment",
		name:     "Staged Experiment",
		decision: "Pilot first: %s answered with a bounded, reversible experiment",
		deltas: map[string]float64{
			MetricRevenueGrowth: 8,
			MetricCustomerChurn: 1,
			MetricMarketShare:   2,
			MetricTeamVelocity:  -4,
			MetricOperatingCost: 5,
		},
		baseProbability:   0.55,
		riskBase:          28,
		reversibilityBase: 80,
	},
	{
		id:       "strategic-alliance",
		name:     "Strategic Alliance",
		decision: "Share the bet: %s answered through a partnership that splits cost and risk",
		deltas: map[string]float64{
			MetricRevenueGrowth: 12,
			MetricCustomerChurn: 1.5,
			MetricMarketShare:   4,
			MetricTeamVelocity:  -6,
			MetricOperatingCost: 8,
		},
		baseProbability:   0.4,
		riskBase:          35,
		reversibilityBase: 55,
	},
	{
		id:       "defensive-hold",
		name:     "Defensive Hold",
		decision: "Fortify instead: %s answered by strengthening the current position",
		deltas: map[string]float64{
			MetricRevenueGrowth: -2,
			MetricCustomerChurn: -1.5,
			MetricMarketShare:   -2,
			MetricTeamVelocity:  3,
			MetricOperatingCost: -4,
		},
		baseProbability:   0.35,
		riskBase:          22,
		reversibilityBase: 85,
	},
	{
		id:       "opportunistic-pivot",
		name:     "Opportunistic Pivot",
		decision: "Redirect the momentum: %s answered by pivoting resources to the adjacent opening",
		deltas: map[string]float64{
			MetricRevenueGrowth: 16,
			MetricCustomerChurn: 2.5,
			MetricMarketShare:   3,
			MetricTeamVelocity:  -15,
			MetricOperatingCost: 10,
		},
		baseProbability:   0.3,
		riskBase:          48,
		reversibilityBase: 40,
	},
}

package mitigation

// strategy holds the description/implementation templates for one category
// and mitigation type. Both templates take the node name as their single
// format argument.
type strategy struct {
	description    string
	implementation string
}

// strategies maps consequence category -> mitigation type -> templates.
// Categories come from the cascade engine's node-type mapping.
var strategies = map[string]map[Type]strategy{
	"organizational": {
		TypePrevent: {
			description:    "Stage the change affecting %s in phases with explicit opt-out checkpoints",
			implementation: "Split the rollout into cohorts, confirm %s capacity and morale signals before each phase",
		},
		TypeDetect: {
			description:    "Track attrition, engagement and delivery signals around %s weekly",
			implementation: "Add %s to the weekly people-metrics review with explicit thresholds",
		},
		TypeRespond: {
			description:    "Prepare a retention and backfill plan for %s before announcing",
			implementation: "Pre-approve counteroffers and contractor budget scoped to %s",
		},
	},
	"technical": {
		TypePrevent: {
			description:    "Gate the change behind a rollback-ready deployment for %s",
			implementation: "Ship behind a feature flag, keep the previous %s build deployable for one full cycle",
		},
		TypeDetect: {
			description:    "Alert on error rate and latency regressions in %s",
			implementation: "Lower alert thresholds for %s during the rollout window",
		},
		TypeRespond: {
			description:    "Define the rollback runbook for %s ahead of the change",
			implementation: "Rehearse the %s rollback in staging and record the time-to-restore",
		},
	},
	"operational": {
		TypePrevent: {
			description:    "Run the old and new %s procedures in parallel before cutover",
			implementation: "Shadow the new %s process for one cycle and diff the outcomes",
		},
		TypeDetect: {
			description:    "Measure cycle time and defect escape rate for %s",
			implementation: "Instrument %s hand-offs and review the trend at each standup",
		},
		TypeRespond: {
			description:    "Keep a documented fallback procedure for %s",
			implementation: "Store the pre-change %s runbook and name an owner who can invoke it",
		},
	},
	"compliance": {
		TypePrevent: {
			description:    "Obtain a compliance review of the change against %s before rollout",
			implementation: "Route the change through legal review with %s obligations enumerated",
		},
		TypeDetect: {
			description:    "Schedule an interim audit of %s after the change lands",
			implementation: "Add a 30-day post-change audit checkpoint covering %s",
		},
		TypeRespond: {
			description:    "Prepare a remediation and disclosure plan for %s findings",
			implementation: "Draft the %s corrective-action template with owners and deadlines",
		},
	},
	"performance": {
		TypePrevent: {
			description:    "Set an explicit acceptable-degradation band for %s before the change",
			implementation: "Agree the %s floor with stakeholders and encode it as a release criterion",
		},
		TypeDetect: {
			description:    "Compare %s against its pre-change baseline daily",
			implementation: "Snapshot the %s baseline now and chart deviation through the rollout",
		},
		TypeRespond: {
			description:    "Pre-plan corrective levers that move %s back toward baseline",
			implementation: "List the three fastest levers for %s recovery and their owners",
		},
	},
	"supply_chain": {
		TypePrevent: {
			description:    "Qualify a secondary option before changing exposure to %s",
			implementation: "Complete due diligence on an alternative to %s and keep contracts warm",
		},
		TypeDetect: {
			description:    "Monitor SLA attainment and delivery variance from %s",
			implementation: "Add %s SLA metrics to the vendor scorecard with monthly review",
		},
		TypeRespond: {
			description:    "Negotiate contractual protections covering %s disruption",
			implementation: "Add termination-assistance and escrow clauses to the %s agreement",
		},
	},
	"market": {
		TypePrevent: {
			description:    "Pilot the change in a low-stakes slice of %s first",
			implementation: "Select a representative cohort within %s and run a 30-day pilot",
		},
		TypeDetect: {
			description:    "Watch win rate and churn signals from %s",
			implementation: "Segment pipeline and churn reporting by %s and review weekly",
		},
		TypeRespond: {
			description:    "Prepare repositioning messaging for %s if reception sours",
			implementation: "Draft the %s response narrative and pre-brief customer-facing teams",
		},
	},
}

// fallbackStrategies covers categories without a dedicated table.
var fallbackStrategies = map[Type]strategy{
	TypePrevent: {
		description:    "Stage the change touching %s with a defined rollback point",
		implementation: "Document the current %s state and the restore procedure before starting",
	},
	TypeDetect: {
		description:    "Define and monitor a leading health indicator for %s",
		implementation: "Pick the single best early-warning metric for %s and review it weekly",
	},
	TypeRespond: {
		description:    "Assign an owner empowered to pause the change on %s regressions",
		implementation: "Name the %s owner and the criteria that trigger a pause",
	},
}

// indicators maps a consequence category to its observable leading
// indicator, used in guardrail triggers.
var indicators = map[string]string{
	"organizational": "team attrition rate",
	"technical":      "error rate",
	"operational":    "cycle time",
	"compliance":     "open audit findings",
	"performance":    "metric baseline drift",
	"supply_chain":   "vendor SLA attainment",
	"market":         "segment win rate",
}

func strategyFor(category string, mt Type) strategy {
	if byType, ok := strategies[category]; ok {
		if s, ok := byType[mt]; ok {
			return s
		}
	}
	return fallbackStrategies[mt]
}

func indicatorFor(category string) string {
	if ind, ok := indicators[category]; ok {
		return ind
	}
	return "primary health indicator"
}

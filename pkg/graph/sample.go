package graph

// sampleGraph returns the built-in demonstration graph: a mid-size SaaS
// organization with teams, systems, policies, metrics, vendors, processes
// and market segments. Attribute values are hand-tuned so that analyses on
// the sample produce a spread of severities rather than a flat result.
func sampleGraph() ([]Node, []Edge) {
	nodes := []Node{
		{ID: "eng-platform", Type: "team", Name: "Platform Engineering", Weight: 0.85, Sensitivity: 0.60, Inertia: 0.40},
		{ID: "sre-team", Type: "team", Name: "Site Reliability", Weight: 0.80, Sensitivity: 0.70, Inertia: 0.30},
		{ID: "data-team", Type: "team", Name: "Data Engineering", Weight: 0.70, Sensitivity: 0.65, Inertia: 0.35},
		{ID: "sales-team", Type: "team", Name: "Enterprise Sales", Weight: 0.75, Sensitivity: 0.55, Inertia: 0.45},
		{ID: "support-team", Type: "team", Name: "Customer Support", Weight: 0.65, Sensitivity: 0.75, Inertia: 0.30},
		{ID: "marketing-team", Type: "team", Name: "Growth Marketing", Weight: 0.55, Sensitivity: 0.50, Inertia: 0.40},
		{ID: "compliance-team", Type: "team", Name: "Risk & Compliance", Weight: 0.60, Sensitivity: 0.45, Inertia: 0.70},

		{ID: "payments-api", Type: "system", Name: "Payments API", Weight: 0.95, Sensitivity: 0.80, Inertia: 0.50},
		{ID: "auth-service", Type: "system", Name: "Auth Service", Weight: 0.90, Sensitivity: 0.75, Inertia: 0.55},
		{ID: "billing-pipeline", Type: "system", Name: "Billing Pipeline", Weight: 0.85, Sensitivity: 0.70, Inertia: 0.45},
		{ID: "analytics-warehouse", Type: "system", Name: "Analytics Warehouse", Weight: 0.60, Sensitivity: 0.55, Inertia: 0.50},

		{ID: "cloud-vendor", Type: "vendor", Name: "Primary Cloud Provider", Weight: 0.90, Sensitivity: 0.30, Inertia: 0.80},
		{ID: "payments-vendor", Type: "vendor", Name: "Payment Processor", Weight: 0.85, Sensitivity: 0.35, Inertia: 0.75},

		{ID: "pricing-policy", Type: "policy", Name: "Pricing Policy", Weight: 0.80, Sensitivity: 0.40, Inertia: 0.65},
		{ID: "remote-policy", Type: "policy", Name: "Remote Work Policy", Weight: 0.50, Sensitivity: 0.45, Inertia: 0.60},
		{ID: "data-retention-policy", Type: "policy", Name: "Data Retention Policy", Weight: 0.55, Sensitivity: 0.35, Inertia: 0.75},

		{ID: "hiring-process", Type: "process", Name: "Hiring Pipeline", Weight: 0.60, Sensitivity: 0.55, Inertia: 0.50},
		{ID: "deploy-process", Type: "process", Name: "Deployment Process", Weight: 0.70, Sensitivity: 0.65, Inertia: 0.40},
		{ID: "incident-process", Type: "process", Name: "Incident Response", Weight: 0.75, Sensitivity: 0.70, Inertia: 0.35},

		{ID: "revenue-metric", Type: "metric", Name: "Monthly Recurring Revenue", Weight: 0.95, Sensitivity: 0.85, Inertia: 0.20},
		{ID: "churn-metric", Type: "metric", Name: "Customer Churn", Weight: 0.85, Sensitivity: 0.80, Inertia: 0.25},
		{ID: "uptime-metric", Type: "metric", Name: "Service Uptime", Weight: 0.80, Sensitivity: 0.90, Inertia: 0.15},

		{ID: "enterprise-market", Type: "market", Name: "Enterprise Segment", Weight: 0.85, Sensitivity: 0.50, Inertia: 0.60},
		{ID: "smb-market", Type: "market", Name: "SMB Segment", Weight: 0.65, Sensitivity: 0.60, Inertia: 0.45},
	}

	edges := []Edge{
		{From: "eng-platform", To: "payments-api", Relation: "operates", Strength: 0.85, LatencyDays: 3},
		{From: "eng-platform", To: "auth-service", Relation: "operates", Strength: 0.80, LatencyDays: 3},
		{From: "eng-platform", To: "deploy-process", Relation: "operates", Strength: 0.75, LatencyDays: 2},
		{From: "eng-platform", To: "hiring-process", Relation: "depends_on", Strength: 0.55, LatencyDays: 30},
		{From: "sre-team", To: "uptime-metric", Relation: "supports", Strength: 0.85, LatencyDays: 1},
		{From: "sre-team", To: "incident-process", Relation: "operates", Strength: 0.90, LatencyDays: 1},
		{From: "data-team", To: "analytics-warehouse", Relation: "operates", Strength: 0.85, LatencyDays: 5},
		{From: "data-team", To: "billing-pipeline", Relation: "supports", Strength: 0.60, LatencyDays: 7},

		{From: "payments-api", To: "billing-pipeline", Relation: "feeds", Strength: 0.90, LatencyDays: 1},
		{From: "payments-api", To: "revenue-metric", Relation: "feeds", Strength: 0.85, LatencyDays: 2},
		{From: "payments-api", To: "uptime-metric", Relation: "feeds", Strength: 0.70, LatencyDays: 0},
		{From: "auth-service", To: "payments-api", Relation: "supports", Strength: 0.80, LatencyDays: 0},
		{From: "auth-service", To: "uptime-metric", Relation: "feeds", Strength: 0.65, LatencyDays: 0},
		{From: "billing-pipeline", To: "revenue-metric", Relation: "feeds", Strength: 0.90, LatencyDays: 3},
		{From: "analytics-warehouse", To: "churn-metric", Relation: "feeds", Strength: 0.70, LatencyDays: 7},
		{From: "analytics-warehouse", To: "marketing-team", Relation: "enables", Strength: 0.55, LatencyDays: 7},

		{From: "cloud-vendor", To: "payments-api", Relation: "supplies", Strength: 0.90, LatencyDays: 0},
		{From: "cloud-vendor", To: "auth-service", Relation: "supplies", Strength: 0.90, LatencyDays: 0},
		{From: "cloud-vendor", To: "analytics-warehouse", Relation: "supplies", Strength: 0.80, LatencyDays: 0},
		{From: "payments-vendor", To: "payments-api", Relation: "supplies", Strength: 0.85, LatencyDays: 1},

		{From: "pricing-policy", To: "revenue-metric", Relation: "governs", Strength: 0.80, LatencyDays: 30},
		{From: "pricing-policy", To: "enterprise-market", Relation: "governs", Strength: 0.70, LatencyDays: 45},
		{From: "pricing-policy", To: "smb-market", Relation: "governs", Strength: 0.75, LatencyDays: 30},
		{From: "remote-policy", To: "hiring-process", Relation: "enables", Strength: 0.65, LatencyDays: 14},
		{From: "remote-policy", To: "eng-platform", Relation: "constrains", Strength: 0.45, LatencyDays: 30},
		{From: "data-retention-policy", To: "analytics-warehouse", Relation: "constrains", Strength: 0.60, LatencyDays: 14},
		{From: "data-retention-policy", To: "compliance-team", Relation: "governs", Strength: 0.70, LatencyDays: 7},

		{From: "hiring-process", To: "eng-platform", Relation: "supports", Strength: 0.60, LatencyDays: 60},
		{From: "hiring-process", To: "sales-team", Relation: "supports", Strength: 0.55, LatencyDays: 45},
		{From: "deploy-process", To: "uptime-metric", Relation: "feeds", Strength: 0.60, LatencyDays: 1},
		{From: "incident-process", To: "uptime-metric", Relation: "supports", Strength: 0.75, LatencyDays: 0},
		{From: "incident-process", To: "support-team", Relation: "supports", Strength: 0.55, LatencyDays: 1},

		{From: "uptime-metric", To: "churn-metric", Relation: "feeds", Strength: 0.70, LatencyDays: 14},
		{From: "churn-metric", To: "revenue-metric", Relation: "feeds", Strength: 0.85, LatencyDays: 30},
		{From: "support-team", To: "churn-metric", Relation: "supports", Strength: 0.65, LatencyDays: 14},
		{From: "sales-team", To: "enterprise-market", Relation: "supports", Strength: 0.75, LatencyDays: 30},
		{From: "sales-team", To: "revenue-metric", Relation: "feeds", Strength: 0.70, LatencyDays: 30},
		{From: "marketing-team", To: "smb-market", Relation: "supports", Strength: 0.65, LatencyDays: 21},
		{From: "compliance-team", To: "enterprise-market", Relation: "enables", Strength: 0.60, LatencyDays: 30},
		{From: "enterprise-market", To: "revenue-metric", Relation: "feeds", Strength: 0.80, LatencyDays: 30},
		{From: "smb-market", To: "revenue-metric", Relation: "feeds", Strength: 0.65, LatencyDays: 30},
	}

	return nodes, edges
}

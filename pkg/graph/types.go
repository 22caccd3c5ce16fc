package graph

// Node is an organizational entity in the graph. Nodes are immutable once a
// snapshot is built.
type Node struct {
	ID   string `json:"id"`
	Type string `json:"type"` // team, system, policy, metric, vendor, process, role, market
	Name string `json:"name"`

	// Weight is the entity's importance to the organization, in [0,1].
	Weight float64 `json:"weight"`
	// Sensitivity is how strongly the entity reacts to upstream change, in [0,1].
	Sensitivity float64 `json:"sensitivity"`
	// Inertia is the entity's resistance to change, in [0,1]. High inertia
	// dampens the impact of consequences landing on this node.
	Inertia float64 `json:"inertia"`
}

// Edge is a directed, weighted relation between two nodes.
type Edge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`

	// Strength is the coupling strength of the relation, in [0,1].
	Strength float64 `json:"strength"`
	// LatencyDays is how long an effect takes to propagate across this edge.
	LatencyDays int `json:"latency_days"`
}

// Stats summarizes a snapshot for dashboards and health checks.
type Stats struct {
	NodeCount        int            `json:"node_count"`
	EdgeCount        int            `json:"edge_count"`
	AvgDegree        float64        `json:"avg_degree"`
	TypeDistribution map[string]int `json:"node_type_distribution"`
}

// File is the on-disk interchange format for graph snapshots.
type File struct {
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

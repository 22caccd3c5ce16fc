package health

import "time"

// Status classifies a component, or the process as a whole.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// statusRank orders statuses by severity. Aggregation keeps the worst.
var statusRank = map[Status]int{
	StatusHealthy:   0,
	StatusDegraded:  1,
	StatusUnhealthy: 2,
}

func worse(a, b Status) Status {
	if statusRank[b] > statusRank[a] {
		return b
	}
	return a
}

// Check is a single component's verdict. Probes fill Name, Status, and
// optionally Message and Details; the checker stamps timing.
type Check struct {
	Name        string         `json:"name"`
	Status      Status         `json:"status"`
	Message     string         `json:"message,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	LastChecked time.Time      `json:"last_checked"`
	DurationMS  int64          `json:"duration_ms"`
}

// CheckFunc probes one component. It must be safe to call concurrently
// and should return quickly; slow probes inflate every health request.
type CheckFunc func() Check

// Response is the aggregate verdict over a set of components.
type Response struct {
	Status    Status           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
}

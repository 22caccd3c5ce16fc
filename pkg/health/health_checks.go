package health

import "time"

// Common health check functions

// SimpleCheck creates a simple health check that always returns healthy
func SimpleCheck(name string) Check {
	return Check{
		Name:        name,
		Status:      StatusHealthy,
		LastChecked: time.Now(),
	}
}

// StoreCheck creates a health check for report store connectivity
func StoreCheck(pingFunc func() error) CheckFunc {
	return func() Check {
		check := Check{
			Name: "report_store",
		}

		if err := pingFunc(); err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
		} else {
			check.Status = StatusHealthy
			check.Message = "Connected"
		}

		return check
	}
}

// GraphCheck creates a health check for the loaded dependency graph
func GraphCheck(getGraphState func() (loaded bool, nodes, edges int)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "graph",
			Details: make(map[string]any),
		}

		loaded, nodes, edges := getGraphState()

		check.Details["loaded"] = loaded
		check.Details["nodes"] = nodes
		check.Details["edges"] = edges

		if !loaded {
			// Analyses will be rejected until a graph is loaded
			check.Status = StatusDegraded
			check.Message = "No graph loaded"
		} else if nodes == 0 {
			check.Status = StatusDegraded
			check.Message = "Graph is empty"
		} else {
			check.Status = StatusHealthy
			check.Message = "Graph loaded"
		}

		return check
	}
}

// ModeCheck creates a health check for the analysis mode registry
func ModeCheck(countModes func() int) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "modes",
			Details: make(map[string]any),
		}

		count := countModes()
		check.Details["registered"] = count

		if count == 0 {
			check.Status = StatusUnhealthy
			check.Message = "No analysis modes registered"
		} else {
			check.Status = StatusHealthy
			check.Message = "Modes registered"
		}

		return check
	}
}

// StreamCheck creates a health check for the event stream publisher
func StreamCheck(getStreamState func() (enabled, running bool)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "stream",
			Details: make(map[string]any),
		}

		enabled, running := getStreamState()

		check.Details["enabled"] = enabled
		check.Details["running"] = running

		if !enabled {
			// Streaming is optional
			check.Status = StatusHealthy
			check.Message = "Streaming disabled"
		} else if !running {
			check.Status = StatusDegraded
			check.Message = "Publisher not running"
		} else {
			check.Status = StatusHealthy
			check.Message = "Streaming healthy"
		}

		return check
	}
}

// DiskSpaceCheck creates a health check for disk space
func DiskSpaceCheck(getUsage func() (used, total uint64)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "disk_space",
			Details: make(map[string]any),
		}

		used, total := getUsage()

		usagePercent := float64(used) / float64(total) * 100

		check.Details["used_bytes"] = used
		check.Details["total_bytes"] = total
		check.Details["usage_percent"] = usagePercent

		if usagePercent > 95 {
			check.Status = StatusUnhealthy
			check.Message = "Critical disk space"
		} else if usagePercent > 80 {
			check.Status = StatusDegraded
			check.Message = "Low disk space"
		} else {
			check.Status = StatusHealthy
			check.Message = "Sufficient disk space"
		}

		return check
	}
}

// MemoryCheck creates a health check for memory usage
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "memory",
			Details: make(map[string]any),
		}

		alloc, sys := getUsage()

		check.Details["alloc_bytes"] = alloc
		check.Details["sys_bytes"] = sys

		usagePercent := float64(alloc) / float64(sys) * 100

		if usagePercent > 90 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}

		return check
	}
}

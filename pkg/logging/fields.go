package logging

import "time"

// Typed field constructors.

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration renders as a human-readable string ("250ms"), not nanoseconds.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Fields with fixed keys, so the same concept logs under the same name
// everywhere.

func Component(name string) Field {
	return String("component", name)
}

func ReportID(id string) Field {
	return String("report_id", id)
}

func SimulationID(id string) Field {
	return String("simulation_id", id)
}

func NodeID(id string) Field {
	return String("node_id", id)
}

func ModeID(id string) Field {
	return String("mode_id", id)
}

func Seed(seed int64) Field {
	return Int64("seed", seed)
}

func Order(order int) Field {
	return Int("order", order)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

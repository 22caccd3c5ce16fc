package logging

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// LogEntry is the wire form of a single log line.
type LogEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// JSONLogger writes line-delimited JSON to a single sink. Loggers
// derived via With share the sink and its level threshold, so SetLevel
// on any of them takes effect for the whole family at once; a runtime
// log-level change reaches component loggers created at startup.
type JSONLogger struct {
	sink *sink
	base []Field
}

// sink owns the writer and the threshold shared by a logger family.
// Entries are marshaled outside the lock; only the write is serialized.
type sink struct {
	mu  sync.Mutex
	out io.Writer
	min atomic.Int32
}

// NewJSONLogger returns a logger writing to out, dropping entries below min.
func NewJSONLogger(out io.Writer, min Level) *JSONLogger {
	s := &sink{out: out}
	s.min.Store(int32(min))
	return &JSONLogger{sink: s}
}

func (l *JSONLogger) emit(lvl Level, msg string, extra []Field) {
	if int32(lvl) < l.sink.min.Load() {
		return
	}

	var fields map[string]any
	if n := len(l.base) + len(extra); n > 0 {
		fields = make(map[string]any, n)
		for _, f := range l.base {
			fields[f.Key] = f.Value
		}
		for _, f := range extra {
			fields[f.Key] = f.Value
		}
	}

	line, err := json.Marshal(LogEntry{
		Time:    time.Now().Format(time.RFC3339Nano),
		Level:   lvl.String(),
		Message: msg,
		Fields:  fields,
	})
	if err != nil {
		// A field value json can't encode (func, channel) lands here.
		line = []byte(`{"level":"ERROR","msg":"log entry dropped: unencodable field"}`)
	}
	line = append(line, '\n')

	l.sink.mu.Lock()
	l.sink.out.Write(line)
	l.sink.mu.Unlock()
}

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.emit(DebugLevel, msg, fields) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.emit(InfoLevel, msg, fields) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.emit(WarnLevel, msg, fields) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.emit(ErrorLevel, msg, fields) }

// With returns a logger that prefixes every entry with fields. The
// preset slice is never mutated after construction, so no lock is
// needed here.
func (l *JSONLogger) With(fields ...Field) Logger {
	base := make([]Field, 0, len(l.base)+len(fields))
	base = append(base, l.base...)
	base = append(base, fields...)
	return &JSONLogger{sink: l.sink, base: base}
}

func (l *JSONLogger) SetLevel(min Level) { l.sink.min.Store(int32(min)) }

func (l *JSONLogger) GetLevel() Level { return Level(l.sink.min.Load()) }

var (
	defaultMu sync.RWMutex
	defaultL  Logger
)

// DefaultLogger returns the process-wide logger, creating a stdout
// JSON logger honoring LOG_LEVEL on first use. Components fall back to
// it when constructed without an explicit logger.
func DefaultLogger() Logger {
	defaultMu.RLock()
	l := defaultL
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultL == nil {
		defaultL = NewJSONLogger(os.Stdout, ParseLevel(os.Getenv("LOG_LEVEL")))
	}
	return defaultL
}

// SetDefaultLogger replaces the process-wide logger. Call it early,
// before components capture the previous one.
func SetDefaultLogger(logger Logger) {
	defaultMu.Lock()
	defaultL = logger
	defaultMu.Unlock()
}

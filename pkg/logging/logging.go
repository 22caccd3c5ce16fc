// Package logging provides leveled, structured JSON logging. Every
// component takes a Logger; loggers derived with With carry preset
// fields so one line of context (component, report ID) follows an
// operation through the stack.
package logging

import "strings"

// Level orders log entries by severity. Entries below a logger's
// threshold are dropped before any allocation happens.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = [...]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

func (l Level) String() string {
	if l < DebugLevel || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

var levelsByName = map[string]Level{
	"debug":   DebugLevel,
	"info":    InfoLevel,
	"warn":    WarnLevel,
	"warning": WarnLevel,
	"error":   ErrorLevel,
}

// ParseLevel maps a level name to its Level, accepting any casing.
// Unknown names fall back to InfoLevel so a typo in a config file or
// LOG_LEVEL never silences the log.
func ParseLevel(s string) Level {
	if lvl, ok := levelsByName[strings.ToLower(s)]; ok {
		return lvl
	}
	return InfoLevel
}

// Field is one key-value pair attached to a log entry. Constructors in
// fields.go cover the common keys.
type Field struct {
	Key   string
	Value any
}

// Logger is the structured logging interface shared by every package.
// Implementations must be safe for concurrent use.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a logger that attaches the given fields to every
	// entry it emits.
	With(fields ...Field) Logger

	SetLevel(level Level)
	GetLevel() Level
}

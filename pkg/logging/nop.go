package logging

// NopLogger discards every entry. Tests and optional components use it
// in place of a real sink.
type NopLogger struct{}

// NewNopLogger returns a logger that drops all output.
func NewNopLogger() Logger { return NopLogger{} }

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}

func (n NopLogger) With(...Field) Logger { return n }

func (NopLogger) SetLevel(Level)  {}
func (NopLogger) GetLevel() Level { return InfoLevel }

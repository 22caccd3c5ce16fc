package logging

import "time"

// TimedOperation measures one unit of work and logs it on completion
// with a latency field.
type TimedOperation struct {
	logger Logger
	label  string
	began  time.Time
	fields []Field
}

// StartTimer begins timing an operation. Fields given here appear on
// the completion entry.
func StartTimer(logger Logger, label string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		label:  label,
		began:  time.Now(),
		fields: fields,
	}
}

// End logs the operation at info level with its elapsed time.
func (t *TimedOperation) End() {
	t.logger.Info(t.label, append(t.fields, Latency(time.Since(t.began)))...)
}

// EndError logs the operation at error level with its elapsed time and
// the failure.
func (t *TimedOperation) EndError(err error) {
	t.logger.Error(t.label, append(t.fields, Latency(time.Since(t.began)), Error(err))...)
}

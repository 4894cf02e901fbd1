package casso

import "go.uber.org/zap"

// Logger is the tracing seam the solver writes admit/pivot/drain
// events to. It is never required for correctness: a Solver with no
// configured Logger traces nothing. Modeled on costela-golpa's
// golpa.Logger interface.
type Logger interface {
	Debugf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger adapts a *zap.Logger for use with WithLogger.
func NewZapLogger(l *zap.Logger) Logger {
	return zapLogger{sugar: l.Sugar()}
}

func (z zapLogger) Debugf(format string, args ...interface{}) {
	z.sugar.Debugf(format, args...)
}

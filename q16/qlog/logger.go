// Package qlog provides a thin structured-logging wrapper so that
// expr.Evaluator and its callers can report what they did (which
// expression ran, which operator failed a precondition check, which
// base or places setting changed) without every caller having to pull in zap
// directly or nil-check a logger before using it.
package qlog

import "go.uber.org/zap"

// Logger wraps a *zap.SugaredLogger. The zero value is not usable;
// construct one with New or Nop.
type Logger struct {
	s *zap.SugaredLogger
}

// New wraps an existing zap logger.
func New(l *zap.Logger) *Logger {
	return &Logger{s: l.Sugar()}
}

// Production builds a Logger backed by zap's production configuration
// (JSON output, info level and above).
func Production() (*Logger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return New(l), nil
}

// Nop returns a Logger that discards everything, for callers that
// don't want logging but don't want to nil-check either.
func Nop() *Logger {
	return New(zap.NewNop())
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error { return l.s.Sync() }

// EvalStart logs that evaluation of expr began.
func (l *Logger) EvalStart(expr string) {
	l.s.Infow("expr: eval start", "expr", expr)
}

// EvalResult logs a successful evaluation's result.
func (l *Logger) EvalResult(expr string, result string) {
	l.s.Infow("expr: eval ok", "expr", expr, "result", result)
}

// EvalError logs a failed evaluation.
func (l *Logger) EvalError(expr string, err error) {
	l.s.Warnw("expr: eval failed", "expr", expr, "error", err)
}

// OperatorCheckFailed logs a precondition-check rejection (e.g.
// division by zero, sqrt of a negative number).
func (l *Logger) OperatorCheckFailed(op string, reason string) {
	l.s.Warnw("expr: operator check failed", "op", op, "reason", reason)
}

// ConfigChanged logs a base/places mutation performed by the "base" or
// "places" operators.
func (l *Logger) ConfigChanged(setting string, value int) {
	l.s.Infow("qcontext: config changed", "setting", setting, "value", value)
}

// Debugf logs a formatted debug-level message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.s.Debugf(format, args...)
}

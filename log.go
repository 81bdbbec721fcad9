package guidemask

import "go.uber.org/zap"

// logger is the package logger. It discards everything until SetLogger is
// called or a scene enables debug mode.
var (
	logger    = zap.NewNop()
	loggerSet bool
)

// SetLogger replaces the package logger. A nil logger restores the no-op
// logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger, loggerSet = zap.NewNop(), false
		return
	}
	logger, loggerSet = l.Named("guidemask"), true
}

// Logger returns the package logger.
func Logger() *zap.Logger {
	return logger
}

// ensure logs a failed assertion and returns cond. Configuration problems
// abort the current guide operation but never panic.
func ensure(cond bool, msg string, fields ...zap.Field) bool {
	if !cond {
		logger.Error("assertion failed: "+msg, fields...)
	}
	return cond
}

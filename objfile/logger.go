package objfile

import "go.uber.org/zap"

var logger = zap.NewNop()

// Logger returns the package logger.
func Logger() *zap.Logger { return logger }

// SetLogger replaces the package logger. A nil logger restores the no-op
// default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

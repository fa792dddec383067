package rustsym

import "go.uber.org/zap"

var logger = zap.NewNop()

// Logger returns the package logger.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	return logger
}

// SetLogger configures the package logger.
// This must be called before opening any files.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// NopLogger discards everything
type NopLogger struct{}

// Printf implements Logger
func (NopLogger) Printf(format string, args ...interface{}) {}

// LoggerOrNop returns logger, or a NopLogger when logger is nil
func LoggerOrNop(logger Logger) Logger {
	if logger == nil {
		return NopLogger{}
	}
	return logger
}

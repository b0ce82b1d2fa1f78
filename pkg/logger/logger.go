package logger

// Debug logs a printf-style message at debug level
func Debug(format string, args ...interface{}) {
	zlog.Debug().Msgf(format, args...)
}

// Info logs a printf-style message at info level
func Info(format string, args ...interface{}) {
	zlog.Info().Msgf(format, args...)
}

// Warn logs a printf-style message at warn level
func Warn(format string, args ...interface{}) {
	zlog.Warn().Msgf(format, args...)
}

// Error logs a printf-style message at error level
func Error(format string, args ...interface{}) {
	zlog.Error().Msgf(format, args...)
}

// Fatal logs a printf-style message and exits the process
func Fatal(format string, args ...interface{}) {
	zlog.Fatal().Msgf(format, args...)
}

package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across geckocaps.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRequestID = "request_id"

	// Operations
	FieldOperation = "operation"
	FieldStage     = "stage"
	FieldPath      = "path"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError  = "error"
	FieldStatus = "status"

	// Counts and sizes
	FieldCount = "count"
	FieldSize  = "size"

	// Browser launch
	FieldBinary      = "binary"
	FieldVersion     = "version"
	FieldSource      = "source"
	FieldProfile     = "profile"
	FieldArgs        = "args"
	FieldPassthrough = "passthrough"
	FieldCommandLine = "command_line"
	FieldPackage     = "package"
	FieldPort        = "port"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Resolver struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewResolver() *Resolver {
//	    return &Resolver{
//	        logger: logger.ComponentLogger("mozversion"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	reqLogger := logger.ChildLogger(baseLogger, logger.FieldRequestID, id)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}

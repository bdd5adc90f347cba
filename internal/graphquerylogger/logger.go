// Package graphquerylogger is a small stdlib log.New wrapper: a
// package-level logger plus LogError/LogInfo/LogWarning/LogDebug
// helpers.
package graphquerylogger

import (
	"log"
	"os"
)

var logger = log.New(os.Stderr, "[QueryCompiler] ", log.LstdFlags|log.Lshortfile)

// LogError logs err with context.
func LogError(context string, err error) {
	logger.Printf("ERROR: %s: %v", context, err)
}

// LogInfo logs an informational message.
func LogInfo(format string, args ...any) {
	logger.Printf("INFO: "+format, args...)
}

// LogWarning logs a warning message.
func LogWarning(format string, args ...any) {
	logger.Printf("WARN: "+format, args...)
}

// LogDebug logs a debug message.
func LogDebug(format string, args ...any) {
	logger.Printf("DEBUG: "+format, args...)
}

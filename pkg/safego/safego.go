// Package safego runs functions with panic recovery.
package safego

import (
	"go.uber.org/zap"
)

// Go launches fn in a goroutine. A panic is logged with its stack and the
// goroutine exits instead of crashing the process.
func Go(logger *zap.Logger, name string, fn func()) {
	go func() {
		defer Recover(logger, name)
		fn()
	}()
}

// Recover logs a panic in progress. It must be called directly by defer.
func Recover(logger *zap.Logger, name string, fields ...zap.Field) {
	if r := recover(); r != nil {
		logger.Error("Goroutine panicked", append(fields,
			zap.String("goroutine", name),
			zap.Any("panic", r),
			zap.Stack("stack"),
		)...)
	}
}

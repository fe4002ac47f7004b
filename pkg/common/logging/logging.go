// Package logging holds the process-wide logger used by reactflow components.
//
// The default logger discards everything. Applications that want to see
// unhandled stream errors or adapter failures install their own:
//
//	logger, _ := zap.NewProduction()
//	restore := logging.SetLogger(logger)
//	defer restore()
package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// L returns the current logger. It is never nil.
func L() *zap.Logger {
	return current.Load()
}

// Named returns the current logger scoped to a component name.
func Named(component string) *zap.Logger {
	return L().Named(component)
}

// SetLogger replaces the process-wide logger and returns a function that
// restores the previous one. A nil logger installs a no-op logger.
func SetLogger(logger *zap.Logger) (restore func()) {
	if logger == nil {
		logger = zap.NewNop()
	}
	prev := current.Swap(logger)
	return func() {
		current.Store(prev)
	}
}

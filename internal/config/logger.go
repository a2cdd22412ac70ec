package config

import (
	"go.uber.org/zap"
)

// NewLogger builds the process logger. Debug mode uses the human-readable
// development encoder; otherwise JSON at info level.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Package logging constructs the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"
)

// New returns a sugared logger. debug switches to the human-readable
// development encoder.
func New(debug bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.DisableStacktrace = true
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

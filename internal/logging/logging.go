// Package logging configures the shared zap logger.
package logging

import (
	"go.uber.org/zap"
)

// New builds a SugaredLogger with console encoding. Debug mode enables
// development output and lowers the level to Debug; otherwise only
// Info and above are emitted.
func New(debug bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

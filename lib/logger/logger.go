package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// level is shared by every logger built through New so a single LOG_LEVEL
// setting applies to the whole process.
var level = zap.NewAtomicLevelAt(zap.InfoLevel)

// New constructs a sugared logger tagged with the given service name.
// On failure it still returns a usable no-op logger alongside the error.
func New(service string) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()
	config.Level = level
	config.OutputPaths = []string{"stdout"}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	config.InitialFields = map[string]interface{}{
		"service": service,
	}

	log, err := config.Build()
	if err != nil {
		return zap.NewNop().Sugar(), err
	}

	return log.Sugar(), nil
}

// SetLevel changes the level of every logger created by New.
func SetLevel(l string) error {
	if l == "" {
		return nil
	}

	return level.UnmarshalText([]byte(l))
}

package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging surface handed to services.
type Logger interface {
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

type zapLogger struct {
	zap *zap.Logger
}

func (l zapLogger) Info(msg string, fields ...Field)  { l.zap.Info(msg, fields...) }
func (l zapLogger) Warn(msg string, fields ...Field)  { l.zap.Warn(msg, fields...) }
func (l zapLogger) Error(msg string, fields ...Field) { l.zap.Error(msg, fields...) }

// New builds a Logger tagged with the given component name.
func New(component string) Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.InitialFields = map[string]interface{}{
		"component": component,
	}

	z, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return zapLogger{zap: z}
}

// NewNop returns a Logger that discards everything. For tests.
func NewNop() Logger {
	return zapLogger{zap: zap.NewNop()}
}

// Package errsink records unexpected errors in a rotated JSON file so they
// can be shipped to an error tracker. Expected failures (validation,
// not found, conflicts) never reach it.
package errsink

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jwalitptl/practice-dashboard/pkg/errors"
	"github.com/jwalitptl/practice-dashboard/pkg/reqctx"
)

type Config struct {
	Enabled    bool
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New builds the sink logger and installs it as zap's global logger. A
// disabled sink is a no-op logger.
func New(cfg Config) *zap.Logger {
	if !cfg.Enabled || cfg.Path == "" {
		l := zap.NewNop()
		zap.ReplaceGlobals(l)
		return l
	}

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	})
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), w, zap.ErrorLevel)
	l := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	zap.ReplaceGlobals(l)
	return l
}

// Capture forwards err to the global sink unless it is a classified
// application error. It reports whether the error was captured.
func Capture(ctx context.Context, err error, msg string, fields ...zap.Field) bool {
	if err == nil || errors.IsClassified(err) {
		return false
	}
	if id := reqctx.RequestIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if p, ok := reqctx.PrincipalFromContext(ctx); ok {
		fields = append(fields, zap.String("user_id", p.UserID))
	}
	zap.L().Error(msg, append(fields, zap.Error(err))...)
	return true
}

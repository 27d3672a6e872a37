// Package logger is a context-aware facade over zap. Fields attached to a
// context with WithFields are added to every record logged with that context.
package logger

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var global atomic.Pointer[zap.SugaredLogger]

func init() {
	global.Store(zap.NewNop().Sugar())
}

// Init builds a production JSON logger at the given level and installs it
// as the package logger.
func Init(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	SetLogger(l)
	return nil
}

func SetLogger(l *zap.Logger) {
	global.Store(l.Sugar())
}

func Sync() {
	_ = global.Load().Sync()
}

// WithFields returns a copy of ctx whose logger carries the extra key/value pairs.
func WithFields(ctx context.Context, keysAndValues ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, fromContext(ctx).With(keysAndValues...))
}

func fromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok {
			return l
		}
	}
	return global.Load()
}

func Debug(ctx context.Context, args ...any) { fromContext(ctx).Debug(args...) }
func Info(ctx context.Context, args ...any)  { fromContext(ctx).Info(args...) }
func Warn(ctx context.Context, args ...any)  { fromContext(ctx).Warn(args...) }
func Error(ctx context.Context, args ...any) { fromContext(ctx).Error(args...) }
func Fatal(ctx context.Context, args ...any) { fromContext(ctx).Fatal(args...) }

func Debugf(ctx context.Context, template string, args ...any) {
	fromContext(ctx).Debugf(template, args...)
}

func Infof(ctx context.Context, template string, args ...any) {
	fromContext(ctx).Infof(template, args...)
}

func Warnf(ctx context.Context, template string, args ...any) {
	fromContext(ctx).Warnf(template, args...)
}

func Errorf(ctx context.Context, template string, args ...any) {
	fromContext(ctx).Errorf(template, args...)
}

func Fatalf(ctx context.Context, template string, args ...any) {
	fromContext(ctx).Fatalf(template, args...)
}

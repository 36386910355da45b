package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var (
	mx     sync.RWMutex
	global = zap.NewNop().Sugar()
)

// Init builds the process logger. level is a zap level name ("debug", "info", ...).
func Init(level string, development bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	Replace(l)
	return nil
}

// Replace swaps the process logger. Tests pass zaptest or zap.NewNop loggers here.
func Replace(l *zap.Logger) {
	mx.Lock()
	defer mx.Unlock()
	global = l.Sugar()
}

func Sync() {
	mx.RLock()
	defer mx.RUnlock()
	_ = global.Sync()
}

// WithFields returns a context whose log lines carry the given key/value pairs.
func WithFields(ctx context.Context, keysAndValues ...interface{}) context.Context {
	fields := append(fieldsFrom(ctx), keysAndValues...)
	return context.WithValue(ctx, ctxKey{}, fields)
}

func fieldsFrom(ctx context.Context) []interface{} {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(ctxKey{}).([]interface{})
	out := make([]interface{}, len(fields))
	copy(out, fields)
	return out
}

func from(ctx context.Context) *zap.SugaredLogger {
	mx.RLock()
	l := global
	mx.RUnlock()

	if fields := fieldsFrom(ctx); len(fields) > 0 {
		return l.With(fields...)
	}
	return l
}

func Debug(ctx context.Context, msg string) {
	from(ctx).Debug(msg)
}

func Debugf(ctx context.Context, format string, args ...interface{}) {
	from(ctx).Debugf(format, args...)
}

func Info(ctx context.Context, msg string) {
	from(ctx).Info(msg)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	from(ctx).Infof(format, args...)
}

func Warn(ctx context.Context, msg string) {
	from(ctx).Warn(msg)
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	from(ctx).Warnf(format, args...)
}

func Error(ctx context.Context, msg string) {
	from(ctx).Error(msg)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	from(ctx).Errorf(format, args...)
}

// Fatal logs err and exits the process. A nil err is ignored.
func Fatal(ctx context.Context, err error) {
	if err == nil {
		return
	}
	from(ctx).Fatal(err.Error())
}

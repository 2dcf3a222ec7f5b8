package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// WithLogger returns a copy of ctx carrying log.
func WithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// WithFields returns a copy of ctx whose logger carries fields. The
// logger of ctx is extended, or a no-op logger if ctx has none.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(fields...))
}

// FromContext returns the logger carried by ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && log != nil {
		return log
	}
	return zap.NewNop()
}

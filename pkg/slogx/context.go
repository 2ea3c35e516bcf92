package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithAccount scopes the request logger to an authenticated account and its
// tenant namespace.
func WithAccount(ctx context.Context, accountID, tenant string) context.Context {
	l := FromContext(ctx).With("account_id", accountID)
	if tenant != "" {
		l = l.With("tenant", tenant)
	}
	return WithContext(ctx, l)
}

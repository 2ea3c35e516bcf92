package httpx

import (
	"context"

	"github.com/hsshealth/hss/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyAccountID ctxKey = "account_id"
	CtxKeyRole      ctxKey = "role"
	CtxKeyTenant    ctxKey = "tenant"
	CtxKeyClaims    ctxKey = "claims" // full jwtx.Claims
)

func contextWithSession(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyAccountID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyRole, c.Role)
	ctx = context.WithValue(ctx, CtxKeyTenant, c.Tenant)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// AccountID returns the authenticated account id, or "" when the request
// carries no verified session.
func AccountID(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyAccountID).(string)
	return v
}

// Role returns the session role.
func Role(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyRole).(string)
	return v
}

// Tenant returns the tenant namespace carried by the session token.
func Tenant(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyTenant).(string)
	return v
}

// ClaimsFromContext returns the verified session claims.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}

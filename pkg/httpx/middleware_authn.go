package httpx

import (
	"net/http"
	"strings"

	"github.com/hsshealth/hss/pkg/jwtx"
	"github.com/hsshealth/hss/pkg/slogx"
)

// RequireSession admits only full session tokens. Pending-2FA tokens,
// tokens without a role or tenant, and anything that fails verification are
// rejected with the same invalid_token response.
func RequireSession(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, "invalid or expired token")
				return
			}

			if err := claims.ValidateSession(); err != nil {
				log.Warn("jwt rejected", "err", err, "two_fa_pending", claims.TwoFAPending)
				writeBearerError(w, "invalid or expired token")
				return
			}

			// Inject into context for downstream handlers.
			ctx = contextWithSession(ctx, claims)
			ctx = slogx.WithAccount(ctx, claims.Subject, claims.Tenant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if len(authz) < len("Bearer ") || !strings.EqualFold(authz[:len("Bearer ")], "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(authz[len("Bearer "):])
	return raw, raw != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "invalid_token", "invalid or expired token")
}

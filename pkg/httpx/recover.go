package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/hsshealth/hss/pkg/slogx"
)

// Recoverer turns a panicking handler into a generic 500. The stack is always
// logged and only included in the body when exposeStack is set.
func Recoverer(exposeStack bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				stack := string(debug.Stack())
				slogx.FromContext(r.Context()).Error("panic recovered",
					"panic", rec,
					"stack", stack,
				)

				body := map[string]string{
					"error":   "server_error",
					"message": "internal server error",
				}
				if exposeStack {
					body["stack"] = stack
				}
				WriteJSON(w, http.StatusInternalServerError, body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package httpx

import (
	"net/http"
	"strings"
)

// RequireRole the caller must hold one of the provided roles.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	want := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		want[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			have := roleFromCtx(r.Context())

			if _, ok := want[have]; ok {
				next.ServeHTTP(w, r)
				return
			}

			writeBearerRoleError(w, http.StatusForbidden, allowed...)
		})
	}
}

// RFC 6750-style error response when the caller's role is insufficient.
func writeBearerRoleError(w http.ResponseWriter, code int, allowed ...string) {
	w.Header().
		Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+strings.Join(allowed, " ")+`"`)
	w.WriteHeader(code)
	_, _ = w.Write([]byte("insufficient_role"))
}

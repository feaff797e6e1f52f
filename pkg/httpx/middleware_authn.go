package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/assignhub/assignhub/pkg/jwtx"
	"github.com/assignhub/assignhub/pkg/slogx"
)

// SessionChecker reports whether the session a credential is bound to is
// still active. Tokens with a revoked or unknown session are rejected even
// if their signature and expiry are valid.
type SessionChecker interface {
	SessionActive(ctx context.Context, sid string) (bool, error)
}

func AuthnMiddleware(v jwtx.Verifier, sessions SessionChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				writeBearerError(w, "token verification failed")
				log.Warn("jwt verify failed", "err", err)
				return
			}

			if err := claims.ValidateExpiry(); err != nil {
				writeBearerError(w, "token expired")
				return
			}

			if sessions != nil && claims.SID != "" {
				active, err := sessions.SessionActive(ctx, claims.SID)
				if err != nil {
					log.Error("session lookup failed", "err", err)
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				if !active {
					writeBearerError(w, "session revoked")
					return
				}
			}

			// Inject into context for downstream handlers.
			ctx = contextWithAuth(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyRole, c.Role)
	ctx = context.WithValue(ctx, CtxKeySessionID, c.SID)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}

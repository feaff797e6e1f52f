package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/assignhub/assignhub/internal/accounts/service"
	"github.com/assignhub/assignhub/internal/accounts/store"
	"github.com/assignhub/assignhub/pkg/httpx"
	"github.com/assignhub/assignhub/pkg/jwtx"
	"github.com/assignhub/assignhub/pkg/slogx"

	_ "github.com/assignhub/assignhub/api/accounts" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	issuer       string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	AccountService   *service.AccountService
	SessionService   *service.SessionService
	UserService      *service.UserService
	AdminService     *service.AdminService
	BootstrapService *service.BootstrapService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	issuer, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		issuer:       issuer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerAdmin()
	r.registerSystem()
	r.registerBootstrap()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			AssignHub Accounts Service API
//	@version		0.1.0
//	@description	Account lifecycle and access control for the AssignHub platform: registration, email verification, admin approval, login with one-time codes, and role-based sessions.
//	@description
//	@description				Session credentials are EdDSA-signed JWTs and can be verified against the JWKS endpoint. Every credential is backed by a server-side session that can be revoked before expiry.
//
//	@contact.name				AssignHub Team
//	@contact.url				https://github.com/assignhub/assignhub
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session credential. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AccountService: r.AccountService,
		SessionService: r.SessionService,
		UserService:    r.UserService,
	}

	// POST /register - strict rate limit by IP (public signup endpoint)
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login - strict rate limit by IP (authentication attempts)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /verify-otp - strict rate limit by IP (code guessing)
	r.Mux.Handle("POST /v1/auth/verify-otp",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyOTP),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /resend-otp - strict rate limit by IP (triggers outbound email)
	r.Mux.Handle("POST /v1/auth/resend-otp",
		httpx.Chain(http.HandlerFunc(h.HandleResendOTP),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /verify-email/{token} - moderate rate limit (clicked from email)
	r.Mux.Handle("GET /v1/auth/verify-email/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyEmail),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /resend-verification - strict rate limit by IP (triggers outbound email)
	r.Mux.Handle("POST /v1/auth/resend-verification",
		httpx.Chain(http.HandlerFunc(h.HandleResendVerification),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /me - authenticated, lenient rate limit by user
	r.Mux.Handle("GET /v1/auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			httpx.AuthnMiddleware(r.verifier, r.SessionService),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// POST /logout - authenticated, moderate rate limit by user
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.AuthnMiddleware(r.verifier, r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{
		AccountService: r.AccountService,
		UserService:    r.UserService,
	}

	// POST /change-password - strict rate limit by user (password attempts)
	r.Mux.Handle("POST /v1/users/change-password",
		httpx.Chain(http.HandlerFunc(h.HandleChangePassword),
			httpx.AuthnMiddleware(r.verifier, r.SessionService),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)

	// PATCH /name - moderate rate limit by user
	r.Mux.Handle("PATCH /v1/users/name",
		httpx.Chain(http.HandlerFunc(h.HandleUpdateName),
			httpx.AuthnMiddleware(r.verifier, r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// DELETE /me - moderate rate limit by user
	r.Mux.Handle("DELETE /v1/users/me",
		httpx.Chain(http.HandlerFunc(h.HandleDeleteMe),
			httpx.AuthnMiddleware(r.verifier, r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /{id}/verification-status - public, used by onboarding screens to
	// poll for approval; moderate rate limit by IP
	r.Mux.Handle("GET /v1/users/{id}/verification-status",
		httpx.Chain(http.HandlerFunc(h.HandleVerificationStatus),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{AdminService: r.AdminService}

	adminChain := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier, r.SessionService),
			httpx.RequireRole("admin"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/users", adminChain(h.HandleList))
	r.Mux.Handle("GET /v1/users/pending", adminChain(h.HandleListPending))
	r.Mux.Handle("GET /v1/users/stats/overview", adminChain(h.HandleStats))
	r.Mux.Handle("POST /v1/users/{id}/approve", adminChain(h.HandleApprove))
	r.Mux.Handle("POST /v1/users/{id}/unlock", adminChain(h.HandleUnlock))
	r.Mux.Handle("PATCH /v1/users/{id}/role", adminChain(h.HandleUpdateRole))
	r.Mux.Handle("DELETE /v1/users/{id}", adminChain(h.HandleDelete))
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(bootstrapHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// GET /jwks.json - public endpoint with high limit
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys))
}

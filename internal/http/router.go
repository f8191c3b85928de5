package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	"github.com/lanternlabs/gatehouse/internal/keycloak"
	"github.com/lanternlabs/gatehouse/internal/service"
	"github.com/lanternlabs/gatehouse/internal/session"
	"github.com/lanternlabs/gatehouse/internal/store"
	"github.com/lanternlabs/gatehouse/internal/web"
	"github.com/lanternlabs/gatehouse/pkg/httpx"
	"github.com/lanternlabs/gatehouse/pkg/slogx"

	_ "github.com/lanternlabs/gatehouse/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	secureCookie bool

	store     store.Store
	sessions  *session.Manager
	templates *web.Templates
	oidc      *keycloak.OIDC // nil when Keycloak is not configured

	UserService  *service.UserService
	TOTPService  *service.TOTPService
	AdminService *service.AdminService
}

type RouterConfig struct {
	BuildVersion string
	SecureCookie bool
	CSRFKey      []byte // empty disables CSRF protection (tests)
}

func NewRouter(
	cfg RouterConfig,
	st store.Store,
	sessions *session.Manager,
	templates *web.Templates,
	oidc *keycloak.OIDC,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: cfg.BuildVersion,
		startTime:    time.Now(),
		logger:       logger,
		secureCookie: cfg.SecureCookie,
		store:        st,
		sessions:     sessions,
		templates:    templates,
		oidc:         oidc,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}
	if len(cfg.CSRFKey) > 0 {
		r.middlewares = append(r.middlewares, csrf.Protect(cfg.CSRFKey,
			csrf.CookieName("csrftoken"),
			csrf.RequestHeader("X-CSRF-Token"),
			csrf.Path("/"),
			csrf.Secure(cfg.SecureCookie),
		))
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerTOTP()
	r.registerKeycloak()
	r.registerAdmin()
	r.registerPages()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Gatehouse API
//	@version		0.1.0
//	@description	Cookie-session authentication service: local accounts with optional
//	@description	TOTP, plus federated login through a Keycloak realm. Sessions are
//	@description	signed JWTs that must also be present in Redis, so logout revokes
//	@description	them immediately.
//
//	@contact.name	Lantern Labs
//	@contact.url	https://github.com/lanternlabs/gatehouse
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host						localhost:5000
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						access_token
//	@description				Session cookie set by the login endpoint.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /auth/register - strict rate limit by IP (public signup endpoint)
	registerHandler := &RegisterHandler{UserService: r.UserService}
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/jwt/login - strict rate limit by IP + username form field to
	// slow brute force against a single account
	loginHandler := &LoginHandler{
		UserService:  r.UserService,
		Sessions:     r.sessions,
		SecureCookie: r.secureCookie,
	}
	r.Mux.Handle("POST /auth/jwt/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		),
	)

	// POST /auth/jwt/logout - moderate rate limit
	logoutHandler := &LogoutHandler{Sessions: r.sessions, SecureCookie: r.secureCookie}
	r.Mux.Handle("POST /auth/jwt/logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /auth/password - strict rate limit (each attempt verifies the
	// current password, so this is another credential-guessing surface)
	passwordHandler := &PasswordHandler{UserService: r.UserService}
	r.Mux.Handle("POST /auth/password",
		httpx.Chain(passwordHandler,
			AuthnMiddleware(r.sessions, r.UserService),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Authenticated endpoints - lenient rate limit
	r.Mux.Handle("GET /auth/me",
		httpx.Chain(MeHandler(),
			AuthnMiddleware(r.sessions, r.UserService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /auth/protected",
		httpx.Chain(ProtectedHandler(),
			AuthnMiddleware(r.sessions, r.UserService),
			RequireSuperuser(),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerTOTP() {
	h := &TOTPHandler{TOTPService: r.TOTPService}

	// POST /auth/totp/enroll - moderate rate limit
	securedEnroll := httpx.Chain(http.HandlerFunc(h.HandleEnroll),
		AuthnMiddleware(r.sessions, r.UserService),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)

	// POST /auth/totp/verify - strict rate limit (prevent brute force of TOTP codes)
	securedVerify := httpx.Chain(http.HandlerFunc(h.HandleVerify),
		AuthnMiddleware(r.sessions, r.UserService),
		httpx.RateLimitByIP(httpx.StrictLimit),
	)

	// DELETE /auth/totp - moderate rate limit
	securedRemove := httpx.Chain(http.HandlerFunc(h.HandleRemove),
		AuthnMiddleware(r.sessions, r.UserService),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)

	r.Mux.Handle("POST /auth/totp/enroll", securedEnroll)
	r.Mux.Handle("POST /auth/totp/verify", securedVerify)
	r.Mux.Handle("DELETE /auth/totp", securedRemove)
}

func (r *Router) registerKeycloak() {
	if r.oidc == nil {
		return
	}

	h := &KeycloakHandler{
		OIDC:         r.oidc,
		UserService:  r.UserService,
		Sessions:     r.sessions,
		SecureCookie: r.secureCookie,
	}

	r.Mux.Handle("GET /auth/keycloak/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /auth/keycloak/callback",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminUsersHandler{AdminService: r.AdminService}

	// Superuser-only endpoints - moderate rate limit
	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		AuthnMiddleware(r.sessions, r.UserService),
		RequireSuperuser(),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)
	securedDelete := httpx.Chain(http.HandlerFunc(h.HandleDelete),
		AuthnMiddleware(r.sessions, r.UserService),
		RequireSuperuser(),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /admin/users", securedList)
	r.Mux.Handle("DELETE /admin/users/{id}", securedDelete)
}

func (r *Router) registerPages() {
	pages := &PagesHandler{
		Templates:       r.templates,
		Sessions:        r.sessions,
		UserService:     r.UserService,
		KeycloakEnabled: r.oidc != nil,
	}

	lenient := httpx.RateLimitByIP(httpx.LenientLimit)
	r.Mux.Handle("GET /", httpx.Chain(http.HandlerFunc(pages.HandleHome), lenient))
	r.Mux.Handle("GET /login", httpx.Chain(http.HandlerFunc(pages.HandleLogin), lenient))
	r.Mux.Handle("GET /register", httpx.Chain(http.HandlerFunc(pages.HandleRegister), lenient))

	r.Mux.Handle("GET /static/",
		http.StripPrefix("/static/", http.FileServerFS(web.Static())),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, asPinger(r.sessions.KV)),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

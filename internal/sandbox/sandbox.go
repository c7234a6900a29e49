// Package sandbox is an in-process stand-in for the remote marketplace API.
// The integration tests run the real client stack against it, and cmd/sandboxd
// serves it standalone for local development.
package sandbox

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/internhub/portal-client/internal/core/domain"
)

const (
	defaultJWTSecret = "sandbox-dev-secret"
	defaultTokenTTL  = 24 * time.Hour
)

// echoprometheus registers its collectors with the default registry, so the
// request middleware is built once per process no matter how many servers the
// tests spin up.
var (
	promOnce       sync.Once
	promMiddleware echo.MiddlewareFunc
)

func requestMetrics() echo.MiddlewareFunc {
	promOnce.Do(func() {
		promMiddleware = echoprometheus.NewMiddleware(namespace)
	})
	return promMiddleware
}

// Options configures a sandbox Server.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	Logger    zerolog.Logger
}

// Server hosts the marketplace API over an in-memory store with seeded demo
// accounts.
type Server struct {
	e      *echo.Echo
	store  *memStore
	secret string
	ttl    time.Duration
	log    zerolog.Logger
}

// New builds the sandbox with all routes registered and demo data seeded.
func New(opts Options) *Server {
	secret := opts.JWTSecret
	if secret == "" {
		secret = defaultJWTSecret
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	s := &Server{
		store:  newMemStore(),
		secret: secret,
		ttl:    ttl,
		log:    opts.Logger.With().Str("component", "sandbox").Logger(),
	}
	s.seed()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newValidator()
	e.HTTPErrorHandler = newHTTPErrorHandler(s.log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestMetrics())

	e.GET("/metrics", echoprometheus.NewHandler())

	g := e.Group("/api")

	// --- Auth (never behind the credential middleware) ---
	g.POST("/auth/signin", s.signIn)
	g.POST("/auth/signup", s.signUp)

	// --- Users ---
	users := g.Group("/users", requireAuth(s.secret))
	users.GET("/profile", s.profile)
	users.PUT("/profile", s.updateProfile)

	usersAdmin := users.Group("/admin", requireRole(domain.RoleAdmin))
	usersAdmin.GET("/all", s.adminListUsers)
	usersAdmin.GET("/:id", s.adminGetUser)
	usersAdmin.PUT("/:id/enable", s.adminSetEnabled)
	usersAdmin.DELETE("/:id", s.adminDeleteUser)

	// --- Internships ---
	g.GET("/internships/public", s.publicInternships)
	g.GET("/internships/public/:id", s.publicInternship)

	company := g.Group("/internships/company", requireAuth(s.secret), requireRole(domain.RoleCompany))
	company.POST("", s.createInternship)
	company.GET("/my", s.myInternships)
	company.PUT("/:id", s.updateInternship)
	company.PUT("/:id/status", s.setInternshipStatus)
	company.DELETE("/:id", s.deleteInternship)

	postAdmin := g.Group("/internships/admin", requireAuth(s.secret), requireRole(domain.RoleAdmin))
	postAdmin.GET("/all", s.adminListInternships)
	postAdmin.PUT("/:id/status", s.adminSetInternshipStatus)

	// --- Applications ---
	student := g.Group("/applications/student", requireAuth(s.secret), requireRole(domain.RoleStudent))
	student.POST("/apply", s.apply)
	student.GET("/my", s.myApplications)
	student.PUT("/:id/withdraw", s.withdrawApplication)

	received := g.Group("/applications/company", requireAuth(s.secret), requireRole(domain.RoleCompany))
	received.GET("/received", s.receivedApplications)
	received.GET("/internship/:id", s.applicationsForInternship)
	received.PUT("/:id/status", s.setApplicationStatus)

	appAdmin := g.Group("/applications/admin", requireAuth(s.secret), requireRole(domain.RoleAdmin))
	appAdmin.GET("/all", s.adminListApplications)

	s.e = e
	return s
}

// Handler exposes the server for httptest.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Start serves on addr until the process exits.
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("sandbox listening")
	return s.e.Start(addr)
}

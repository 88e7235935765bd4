package adapthttp

import (
	"log/slog"
	"net/http"

	"bmitrack/internal/app"
	"bmitrack/internal/metrics"
)

var apiRoutes = map[string]struct{}{
	"/api/health":            {},
	"/api/config":            {},
	"/api/auth/login":        {},
	"/api/auth/logout":       {},
	"/api/auth/setup":        {},
	"/api/auth/sso/login":    {},
	"/api/auth/sso/callback": {},
	"/api/bmi":               {},
	"/api/bmi/categories":    {},
	"/api/report":            {},
	"/api/settings":          {},
	"/api/settings/system":   {},
	"/api/history":           {},
	"/api/charts/daily":      {},
}

// Services groups the application services the adapter drives.
type Services struct {
	Settings *app.SettingsService
	History  *app.HistoryService
	BMI      *app.BMIService
	Charts   *app.ChartsService
	Auth     *app.AuthService
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	settings *app.SettingsService
	history  *app.HistoryService
	bmi      *app.BMIService
	charts   *app.ChartsService
	authSvc  *app.AuthService

	webDir      string
	disableAuth bool
	oidcConfig  OIDCConfig
	log         *slog.Logger
	metrics     *metrics.Metrics
}

// New creates a Server wired to the given application services.
func New(svc Services, webDir string) *Server {
	return &Server{
		settings: svc.Settings,
		history:  svc.History,
		bmi:      svc.BMI,
		charts:   svc.Charts,
		authSvc:  svc.Auth,
		webDir:   webDir,
		log:      slog.Default(),
	}
}

// WithoutAuth serves every route without a session.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// WithOIDC enables the SSO login routes.
func (s *Server) WithOIDC(cfg OIDCConfig) *Server {
	s.oidcConfig = cfg
	return s
}

// WithLogger sets the request and error logger.
func (s *Server) WithLogger(log *slog.Logger) *Server {
	if log != nil {
		s.log = log
	}
	return s
}

// WithMetrics records request metrics and serves them at /metrics.
func (s *Server) WithMetrics(m *metrics.Metrics) *Server {
	s.metrics = m
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	api.HandleFunc("/config", s.handleConfig)

	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/setup", s.handleSetupUser)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	protected := http.NewServeMux()
	protected.HandleFunc("/bmi", s.handleBMI)
	protected.HandleFunc("/bmi/categories", s.handleCategories)
	protected.HandleFunc("/report", s.handleReport)
	protected.HandleFunc("/settings", s.handleSettings)
	protected.HandleFunc("/settings/system", s.handleSettingsSystem)
	protected.HandleFunc("/history", s.handleHistory)
	protected.HandleFunc("/charts/daily", s.handleChartsDaily)
	api.Handle("/", s.authMiddleware(protected))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	if s.metrics != nil {
		root.Handle("/metrics", s.metrics.Handler())
	}
	root.Handle("/", webApp(s.webDir))

	return s.loggingMiddleware(withNoCache(root))
}

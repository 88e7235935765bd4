package adapthttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bmitrack/internal/app"
	"bmitrack/internal/domain"
	"bmitrack/internal/logging"
)

type contextKey string

const userContextKey contextKey = "user"

// authMiddleware validates session tokens and forward auth headers.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.disableAuth {
			next.ServeHTTP(w, r)
			return
		}

		// Forward-auth proxies (Authelia and friends) set Remote-User.
		if remoteUser := r.Header.Get("Remote-User"); remoteUser != "" {
			user, err := s.authSvc.ValidateForwardAuth(r.Context(), remoteUser)
			if err == nil && user != nil {
				ctx := context.WithValue(r.Context(), userContextKey, user)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}

		user, err := s.authSvc.ValidateSession(r.Context(), cookie.Value, r.UserAgent())
		if errors.Is(err, app.ErrSessionNotFound) || errors.Is(err, app.ErrSessionExpired) || errors.Is(err, app.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		if err != nil {
			s.logger(r).Error("session lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, errors.New("internal error"))
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext returns the authenticated user, or nil when auth is off.
func userFromContext(r *http.Request) *domain.User {
	u, _ := r.Context().Value(userContextKey).(*domain.User)
	return u
}

// currentUser resolves the caller on public routes, where authMiddleware
// has not run. It never fails; unknown callers are nil.
func (s *Server) currentUser(r *http.Request) *domain.User {
	if u := userFromContext(r); u != nil {
		return u
	}
	if s.disableAuth || s.authSvc == nil {
		return nil
	}
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	u, err := s.authSvc.ValidateSession(r.Context(), cookie.Value, r.UserAgent())
	if err != nil {
		return nil
	}
	return u
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware tags each request with an ID, then logs and counts it
// once it completes.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, id := logging.WithRequestID(r.Context())
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		elapsed := time.Since(start)
		s.metrics.RecordRequest(routeLabel(r.URL.Path), r.Method, rec.status, elapsed)
		logging.FromContext(ctx, s.log).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed,
			"remote", r.RemoteAddr,
		)
	})
}

func (s *Server) logger(r *http.Request) *slog.Logger {
	return logging.FromContext(r.Context(), s.log)
}

// routeLabel bounds the metrics label set to the known API routes.
func routeLabel(path string) string {
	if _, ok := apiRoutes[path]; ok {
		return path
	}
	if strings.HasPrefix(path, "/api/") {
		return "/api/other"
	}
	if path == "/metrics" {
		return path
	}
	return "/static"
}

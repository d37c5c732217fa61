// Package adapthttp is the driving HTTP adapter for the habit tracker API.
package adapthttp

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"habitstreak/internal/app"
)

// localUser is the identity used for every request when auth is disabled.
const localUser = "local"

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	habits      *app.HabitService
	analytics   *app.AnalyticsService
	users       *app.UserService
	log         *zap.Logger
	now         func() time.Time
	loc         *time.Location
	disableAuth bool
}

// New creates a Server wired to the given application services.
func New(hs *app.HabitService, as *app.AnalyticsService, us *app.UserService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{habits: hs, analytics: as, users: us, log: log, now: time.Now, loc: time.UTC}
}

// WithoutAuth treats every request as coming from a single local user.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// WithClock replaces the time source used as "now" by analytics endpoints.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}

// WithLocation sets the time zone in which calendar days are evaluated.
func (s *Server) WithLocation(loc *time.Location) *Server {
	if loc != nil {
		s.loc = loc
	}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	route := func(pattern string, h http.HandlerFunc) {
		api.Handle(pattern, s.instrument(pattern, h))
	}
	authed := func(pattern string, h http.HandlerFunc) {
		api.Handle(pattern, s.instrument(pattern, s.authMiddleware(h)))
	}

	route("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	authed("GET /habits", s.handleListHabits)
	authed("POST /habits", s.handleCreateHabit)
	authed("GET /habits/{id}", s.handleGetHabit)
	authed("PUT /habits/{id}", s.handleUpdateHabit)
	authed("DELETE /habits/{id}", s.handleDeleteHabit)

	authed("GET /habits/{id}/completions", s.handleListCompletions)
	authed("POST /habits/{id}/completions", s.handleComplete)
	authed("DELETE /habits/{id}/completions/{cid}", s.handleDeleteCompletion)

	authed("GET /habits/{id}/stats", s.handleHabitStats)
	authed("GET /analytics/success-rates", s.handleSuccessRates)
	authed("GET /analytics/dashboard", s.handleDashboard)

	root := http.NewServeMux()
	root.Handle("/api/", withNoCache(http.StripPrefix("/api", api)))
	root.Handle("GET /metrics", promhttp.Handler())

	return s.loggingMiddleware(root)
}

// today returns the current instant in the server's time zone.
func (s *Server) today() time.Time {
	return s.now().In(s.loc)
}

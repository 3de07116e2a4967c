package server

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"crate/internal/repositories"
	"crate/internal/services"
	"crate/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// DefaultSessionTTL is how long a login stays valid.
const DefaultSessionTTL = 24 * time.Hour

// Server holds the API's dependencies and its router.
type Server struct {
	logger  *log.Logger
	router  *mux.Router
	metrics *metrics

	users    *repositories.UserRepository
	sessions *repositories.SessionRepository
	records  *repositories.RecordRepository
	columns  *repositories.CustomColumnRepository

	lookup  services.Lookup
	spotify *services.SpotifyService

	sessionTTL time.Duration
}

// Opts contains the dependencies a Server needs.
//
// Lookup may be nil when no Discogs token is configured; the lookup endpoints
// then answer 503. Spotify is likewise optional.
type Opts struct {
	DB         *sql.DB
	Logger     *log.Logger
	Lookup     services.Lookup
	Spotify    *services.SpotifyService
	SessionTTL time.Duration
}

// New creates a Server with its routes registered.
func New(opts Opts) *Server {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}

	s := &Server{
		logger:     opts.Logger,
		metrics:    newMetrics(),
		users:      repositories.NewUserRepository(opts.DB),
		sessions:   repositories.NewSessionRepository(opts.DB),
		records:    repositories.NewRecordRepository(opts.DB),
		columns:    repositories.NewCustomColumnRepository(opts.DB),
		lookup:     opts.Lookup,
		spotify:    opts.Spotify,
		sessionTTL: opts.SessionTTL,
	}
	s.router = s.routes()

	return s
}

// ServeHTTP implements [http.Handler] for the entire API.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes builds the router: public auth and operational endpoints, then the
// authenticated /api subrouter.
func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(mux.MiddlewareFunc(s.observe))

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.handler()).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(mux.MiddlewareFunc(s.requireAuth))

	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)

	api.HandleFunc("/records", s.handleListRecords).Methods(http.MethodGet)
	api.HandleFunc("/records", s.handleAddRecord).Methods(http.MethodPost)
	api.HandleFunc("/records/{id}", s.handleDeleteRecord).Methods(http.MethodDelete)
	api.HandleFunc("/records/{id}/notes", s.handleUpdateNotes).Methods(http.MethodPut)
	api.HandleFunc("/records/{id}/custom-values/{columnID}", s.handleSetCustomValue).Methods(http.MethodPut)

	api.HandleFunc("/custom-columns", s.handleListColumns).Methods(http.MethodGet)
	api.HandleFunc("/custom-columns", s.handleAddColumn).Methods(http.MethodPost)
	api.HandleFunc("/custom-columns/{id}", s.handleDeleteColumn).Methods(http.MethodDelete)

	api.HandleFunc("/lookup/barcode/{barcode}", s.handleLookupBarcode).Methods(http.MethodGet)
	api.HandleFunc("/lookup/discogs", s.handleLookupDiscogs).Methods(http.MethodGet)
	api.HandleFunc("/lookup/spotify", s.handleLookupSpotify).Methods(http.MethodGet)

	api.HandleFunc("/musician-network", s.handleMusicianNetwork).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// observe logs each request and records its metrics.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		elapsed := time.Since(start)
		s.metrics.observe(r.Method, routePattern(r), recorder.status, elapsed)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", elapsed,
		)
	})
}

// routePattern returns the matched route template so metrics don't explode
// into per-ID label values.
func routePattern(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if pattern, err := route.GetPathTemplate(); err == nil {
			return pattern
		}
	}
	return r.URL.Path
}

type contextKey string

const userKey contextKey = "user"

// requireAuth validates the bearer token and stores the session's user ID in
// the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeErr(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		session, err := s.sessions.GetByToken(token)
		if err != nil {
			writeErr(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, session.UserID())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return ""
	}
	return header[len(prefix):]
}

// userID returns the authenticated user's ID from the request context.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userKey).(string)
	return id
}

// Listen serves the API on the given address until the context is cancelled.
func (s *Server) Listen(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// itoa is used for metric status labels.
func itoa(status int) string { return strconv.Itoa(status) }

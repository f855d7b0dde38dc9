// Package http exposes the ledger over a JSON API: derived views for
// the chart and report collaborators, and the mutation endpoints that
// feed them.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"cashlens/internal/auth"
	"cashlens/internal/cache"
	"cashlens/internal/middleware/ratelimit"
	"cashlens/internal/middleware/security"
	"cashlens/internal/middleware/trace"
	"cashlens/internal/services"
)

// Config carries the wiring the server needs beyond the service itself.
type Config struct {
	Addr               string
	Auth               auth.Config
	RateLimitPerMinute int
}

type Server struct {
	http.Server

	svc  *services.LedgerService
	gate *services.ConfirmGate
	auth *auth.Authenticator

	limiter     *ratelimit.Limiter
	ipExtractor *security.IPExtractor
	validate    *validator.Validate

	// Derived-view caches, purged on every mutation so a stale view is
	// never served.
	viewCache    *cache.LRU[expensesResponse]
	reportCache  *cache.LRU[reportResponse]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(cfg Config, svc *services.LedgerService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		svc:          svc,
		gate:         services.NewConfirmGate(),
		auth:         auth.New(cfg.Auth),
		limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute}),
		ipExtractor:  security.NewIPExtractor(),
		validate:     validator.New(),
		viewCache:    cache.NewLRU[expensesResponse](100, 5*time.Minute),
		reportCache:  cache.NewLRU[reportResponse](10, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.viewCache)
	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.Handle("GET /api/summary", s.protected(s.handleSummary))
	mux.Handle("GET /api/expenses", s.protected(s.handleListExpenses))
	mux.Handle("GET /api/report", s.protected(s.handleReport))
	mux.Handle("POST /api/income", s.protected(s.handleSetIncome))
	mux.Handle("POST /api/expenses", s.protected(s.handleCreateExpense))
	mux.Handle("DELETE /api/expenses/{id}", s.protected(s.handleDeleteExpense))
	mux.Handle("POST /api/clear", s.protected(s.handleClearRequest))
	mux.Handle("POST /api/clear/confirm", s.protected(s.handleClearConfirm))
	mux.Handle("POST /api/clear/cancel", s.protected(s.handleClearCancel))
	mux.HandleFunc("POST /api/logout", s.auth.HandleLogout)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.ipExtractor.ExtractClientIP)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           tracer.Middleware(headers.Middleware(s.withRateLimit(mux))),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// protected applies the auth gate to a handler. The gate is a no-op
// when no secret is configured.
func (s *Server) protected(h http.HandlerFunc) http.Handler {
	return s.auth.Middleware(h)
}

// withRateLimit throttles mutation requests per client IP. Reads stay
// unthrottled, matching the external collaborators' polling pattern.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodDelete {
			clientIP := s.ipExtractor.ExtractClientIP(r)
			if !s.limiter.Allow(clientIP) {
				w.Header().Set("Retry-After", "60")
				respondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// invalidateViews purges the derived-view caches after a mutation.
func (s *Server) invalidateViews() {
	s.viewCache.Purge()
	s.reportCache.Purge()
}

// Shutdown stops the HTTP server and the background cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"finease/internal/auth"
	"finease/internal/backend"
	"finease/internal/cache"
	"finease/internal/core"
	"finease/internal/log"
	"finease/internal/middleware/ratelimit"
	"finease/internal/middleware/security"
	"finease/internal/middleware/trace"
)

// Options configures the API server.
type Options struct {
	Addr         string
	Store        backend.Store
	Sessions     *auth.Manager
	Google       auth.Verifier
	Logger       *log.Logger
	CacheTTL     time.Duration
	CacheMaxSize int
	RateLimit    ratelimit.Config
}

// Server is the JSON API server. It owns per-email caches for transaction
// lists and overviews, both invalidated on any mutation for that user.
type Server struct {
	http.Server

	store    backend.Store
	sessions *auth.Manager
	google   auth.Verifier
	logger   *log.Logger

	limiter      *ratelimit.Limiter
	cacheManager *cache.Manager

	itemsCache    *cache.LRUCache[[]core.Transaction]
	overviewCache *cache.LRUCache[core.OverviewSummary]

	shutdownOnce sync.Once
}

func NewServer(opts Options) *Server {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.CacheMaxSize <= 0 {
		opts.CacheMaxSize = 200
	}

	logger := opts.Logger.WithComponent(log.ComponentHTTP)
	mux := http.NewServeMux()

	s := &Server{
		store:    opts.Store,
		sessions: opts.Sessions,
		google:   opts.Google,
		logger:   logger,

		limiter:      ratelimit.NewLimiter(opts.RateLimit),
		cacheManager: cache.NewManager(),

		itemsCache:    cache.NewLRUCache[[]core.Transaction](opts.CacheMaxSize, opts.CacheTTL),
		overviewCache: cache.NewLRUCache[core.OverviewSummary](opts.CacheMaxSize, opts.CacheTTL),
	}

	s.cacheManager.Register(s.itemsCache)
	s.cacheManager.Register(s.overviewCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /transactions", s.handleListTransactions)
	mux.HandleFunc("POST /transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /transactions/overview", s.handleOverview)
	mux.HandleFunc("GET /transactions/category-total", s.handleCategoryTotal)
	mux.HandleFunc("GET /transactions/breakdown", s.handleBreakdown)
	mux.HandleFunc("GET /transactions/health", s.handleHealthScore)
	mux.HandleFunc("GET /transactions/report", s.handleReport)
	mux.HandleFunc("GET /transactions/page", s.handlePage)
	mux.HandleFunc("GET /users", s.handleGetUser)
	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("POST /auth/signin", s.handleSignIn)
	mux.HandleFunc("POST /auth/google", s.handleGoogleSignIn)
	mux.HandleFunc("POST /auth/signout", s.handleSignOut)
	mux.HandleFunc("GET /auth/session", s.handleSession)
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", handleReadyz)

	traceMW := trace.NewMiddleware(clientIP, opts.Logger)
	securityMW := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limitMW := s.limiter.Middleware(clientIP, nil)

	handler := traceMW.Middleware(securityMW.Middleware(s.limitMutations(limitMW, mux)))

	s.Server = http.Server{
		Addr:           opts.Addr,
		Handler:        handler,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return s
}

// limitMutations applies the rate limiter to mutating methods only.
func (s *Server) limitMutations(limit func(http.Handler) http.Handler, next http.Handler) http.Handler {
	limited := limit(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// invalidateUser drops cached state for one email after a mutation.
func (s *Server) invalidateUser(email string) {
	s.itemsCache.Delete(email)
	s.overviewCache.Delete(email)
}

// userTransactions returns the user's transactions, serving from cache when
// possible.
func (s *Server) userTransactions(ctx context.Context, email string) ([]core.Transaction, error) {
	if cached, ok := s.itemsCache.Get(email); ok {
		return cached, nil
	}

	transactions, err := s.store.ListTransactions(ctx, email)
	if err != nil {
		return nil, err
	}

	s.itemsCache.Set(email, transactions)
	return transactions, nil
}

// Shutdown stops the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

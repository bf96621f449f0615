package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/balagrajendran/purchase-management-sub001/domain"
	"github.com/balagrajendran/purchase-management-sub001/internal/logger"
	"github.com/balagrajendran/purchase-management-sub001/internal/metrics"
	"github.com/balagrajendran/purchase-management-sub001/internal/settings"
	"github.com/balagrajendran/purchase-management-sub001/internal/store"
	"github.com/balagrajendran/purchase-management-sub001/internal/validation"
)

// Options configures a Handler.
type Options struct {
	Secret            string
	AdminUsername     string
	AdminPasswordHash string

	CORSOrigins    []string
	RateLimitRPS   int
	RateLimitBurst int

	// SettingsStrict rejects settings writes carrying unknown or mistyped fields.
	SettingsStrict bool

	// Clock overrides time.Now for timestamps and date defaults.
	Clock func() time.Time
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store    store.Store
	settings *settings.Service
	validate *validator.Validate
	log      zerolog.Logger
	now      func() time.Time
	opts     Options
	limiter  *RateLimiter

	clients   *resource[domain.Client, *domain.Client]
	purchases *resource[domain.Purchase, *domain.Purchase]
	invoices  *resource[domain.Invoice, *domain.Invoice]
	finance   *resource[domain.FinanceRecord, *domain.FinanceRecord]
}

// New constructs a Handler over an explicitly provided store.
func New(st store.Store, opts Options) *Handler {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	h := &Handler{
		store:    st,
		settings: settings.NewService(st, now),
		validate: validation.New(),
		log:      logger.WithComponent("api"),
		now:      now,
		opts:     opts,
	}
	if opts.RateLimitRPS > 0 {
		h.limiter = NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)
	}
	h.registerResources()
	return h
}

func (h *Handler) timestamp() string {
	return h.now().UTC().Format(store.TimeLayout)
}

func (h *Handler) authEnabled() bool {
	return h.opts.AdminPasswordHash != ""
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(h.log))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))
	if h.limiter != nil {
		r.Use(h.limiter.Handler)
	}

	r.Get("/health", h.health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.login)

		r.Group(func(pr chi.Router) {
			if h.authEnabled() {
				pr.Use(h.authMiddleware)
			}

			pr.Route("/clients", h.clients.routes)
			pr.Route("/purchases", h.purchases.routes)
			pr.Route("/invoices", h.invoices.routes)
			pr.Route("/finance", func(r chi.Router) {
				r.Get("/stats", h.financeStats)
				h.finance.routes(r)
			})

			pr.Route("/settings", func(r chi.Router) {
				r.Get("/", h.getSettings)
				r.Patch("/", h.patchSettings)
				r.Put("/", h.putSettings)
				r.Get("/history", h.settingsHistory)
			})
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

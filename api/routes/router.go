package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sortezap/sortezap-backend/api/controllers"
	webhookcontrollers "github.com/sortezap/sortezap-backend/api/controllers/webhooks"
	"github.com/sortezap/sortezap-backend/api/middleware"
	"github.com/sortezap/sortezap-backend/internal/checkout"
	"github.com/sortezap/sortezap-backend/internal/transactions"
	"github.com/sortezap/sortezap-backend/internal/webhooks"
	"github.com/sortezap/sortezap-backend/pkg/config"
	"github.com/sortezap/sortezap-backend/pkg/logger"
	"github.com/sortezap/sortezap-backend/pkg/metrics"
	"github.com/sortezap/sortezap-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient redis.Pinger,
	transactionService *transactions.Service,
	sessionRegistry *checkout.Registry,
	webhookService *webhooks.Service,
	checkoutMetrics *metrics.CheckoutMetrics,
	promGatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisClient, transactionService))
	})

	if promGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/pricing", func(r chi.Router) {
			r.Get("/tiers", controllers.PricingTiers())
			r.Get("/quote", controllers.PricingQuote(logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", controllers.TransactionCreate(transactionService, logg))
			r.Get("/{transactionId}", controllers.TransactionGet(transactionService, logg))
		})

		r.Route("/checkout/sessions", func(r chi.Router) {
			r.Post("/", controllers.CheckoutSessionCreate(sessionRegistry, transactionService, cfg.Checkout, logg, checkoutMetrics))
			r.Get("/{sessionId}", controllers.CheckoutSessionGet(sessionRegistry, logg))
			r.Delete("/{sessionId}", controllers.CheckoutSessionDelete(sessionRegistry, logg))
		})

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/lirapay", webhookcontrollers.LiraPayWebhook(webhookService, logg))
		})
	})

	return r
}

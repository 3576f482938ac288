package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sortezap/sortezap-backend/api/middleware"
	"github.com/sortezap/sortezap-backend/api/responses"
	"github.com/sortezap/sortezap-backend/api/validators"
	"github.com/sortezap/sortezap-backend/internal/buyer"
	"github.com/sortezap/sortezap-backend/internal/checkout"
	"github.com/sortezap/sortezap-backend/pkg/config"
	"github.com/sortezap/sortezap-backend/pkg/logger"
	"github.com/sortezap/sortezap-backend/pkg/metrics"
)

type createSessionPayload struct {
	Quantity      int           `json:"quantity" validate:"required"`
	Buyer         buyer.Profile `json:"buyer"`
	TermsAccepted bool          `json:"terms_accepted"`
}

// CheckoutSessionCreate opens a session, submits it, and returns the PIX
// payment code. The session keeps polling the gateway server-side; clients
// follow up with GET until the state turns terminal.
func CheckoutSessionCreate(
	registry *checkout.Registry,
	gateway checkout.Gateway,
	cfg config.CheckoutConfig,
	logg *logger.Logger,
	m *metrics.CheckoutMetrics,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createSessionPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		session, err := checkout.NewSession(checkout.SessionParams{
			Quantity:     payload.Quantity,
			Gateway:      gateway,
			PollInterval: cfg.PollInterval,
			PollCeiling:  cfg.PollCeiling,
			Logger:       logg,
			Metrics:      m,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := session.Submit(ctx, payload.Buyer, payload.TermsAccepted, middleware.ClientIP(r)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		registry.Put(session)
		responses.WriteSuccessStatus(w, http.StatusCreated, session.Snapshot())
	}
}

// CheckoutSessionGet returns the current session state.
func CheckoutSessionGet(registry *checkout.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		session, err := registry.Get(chi.URLParam(r, "sessionId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, session.Snapshot())
	}
}

// CheckoutSessionDelete closes the session and stops its polling task.
func CheckoutSessionDelete(registry *checkout.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := registry.Delete(chi.URLParam(r, "sessionId")); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "closed"})
	}
}

package controllers

import (
	"net/http"
	"strings"

	"github.com/sortezap/sortezap-backend/api/responses"
	"github.com/sortezap/sortezap-backend/internal/pricing"
	"github.com/sortezap/sortezap-backend/pkg/logger"
)

type tierView struct {
	MinQuantity int    `json:"min_quantity"`
	UnitPrice   string `json:"unit_price"`
}

type quoteView struct {
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}

// PricingTiers returns the volume price table the storefront renders.
func PricingTiers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tiers := pricing.Tiers()
		views := make([]tierView, 0, len(tiers))
		for _, tier := range tiers {
			views = append(views, tierView{
				MinQuantity: tier.MinQuantity,
				UnitPrice:   tier.UnitPrice.StringFixed(2),
			})
		}
		responses.WriteSuccess(w, map[string]any{
			"tiers":        views,
			"min_quantity": pricing.MinQuantity,
			"min_total":    pricing.MinTotal.StringFixed(2),
		})
	}
}

// PricingQuote derives unit price and total for a requested quantity.
// Non-numeric input falls back to the minimum quantity, matching the
// storefront's manual entry behavior; the quote itself is always derived
// server-side.
func PricingQuote(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.URL.Query().Get("quantity"))
		quantity := pricing.ParseQuantity(raw)

		if err := pricing.ValidateQuantity(quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote := pricing.QuoteFor(quantity)
		responses.WriteSuccess(w, quoteView{
			Quantity:  quote.Quantity,
			UnitPrice: quote.UnitPrice.StringFixed(2),
			Total:     quote.Total.StringFixed(2),
		})
	}
}

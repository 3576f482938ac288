package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sortezap/sortezap-backend/api/middleware"
	"github.com/sortezap/sortezap-backend/api/responses"
	"github.com/sortezap/sortezap-backend/api/validators"
	"github.com/sortezap/sortezap-backend/internal/buyer"
	"github.com/sortezap/sortezap-backend/internal/transactions"
	"github.com/sortezap/sortezap-backend/pkg/lirapay"
	"github.com/sortezap/sortezap-backend/pkg/logger"
)

type createTransactionPayload struct {
	Buyer       buyer.Profile `json:"buyer"`
	Quantity    int           `json:"quantity" validate:"required"`
	TotalAmount float64       `json:"total_amount"`
}

// createdTransactionView is the POST response: what the storefront needs to
// render the PIX payment step.
type createdTransactionView struct {
	ID            string         `json:"id"`
	ExternalRef   string         `json:"external_reference"`
	Status        lirapay.Status `json:"status"`
	TotalValue    float64        `json:"total_value"`
	PaymentCode   string         `json:"payment_code,omitempty"`
	PaymentMethod string         `json:"payment_method,omitempty"`
}

type buyerView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// transactionStatusView is the GET response: the gateway's current record of
// the charge, buyer included.
type transactionStatusView struct {
	ID          string         `json:"id"`
	ExternalRef string         `json:"external_reference"`
	Status      lirapay.Status `json:"status"`
	Amount      float64        `json:"amount"`
	Buyer       buyerView      `json:"buyer"`
	CreatedAt   string         `json:"created_at,omitempty"`
}

func createdViewOf(txn *lirapay.Transaction) createdTransactionView {
	return createdTransactionView{
		ID:            txn.ID,
		ExternalRef:   txn.ExternalRef,
		Status:        txn.Status,
		TotalValue:    txn.TotalValue,
		PaymentCode:   txn.PaymentCode,
		PaymentMethod: txn.PaymentMethod,
	}
}

func statusViewOf(txn *lirapay.Transaction) transactionStatusView {
	return transactionStatusView{
		ID:          txn.ID,
		ExternalRef: txn.ExternalRef,
		Status:      txn.Status,
		Amount:      txn.TotalValue,
		Buyer: buyerView{
			Name:  txn.BuyerName,
			Email: txn.BuyerEmail,
		},
		CreatedAt: txn.CreatedAt,
	}
}

// TransactionCreate proxies charge creation to the gateway. Pricing is
// re-derived server-side; the declared total is only cross-checked.
func TransactionCreate(svc *transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createTransactionPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		txn, err := svc.CreateFromRequest(ctx, transactions.CreateParams{
			Quantity:    payload.Quantity,
			TotalAmount: payload.TotalAmount,
			Buyer:       payload.Buyer,
			OriginIP:    middleware.ClientIP(r),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, createdViewOf(txn))
	}
}

// TransactionGet proxies a status lookup.
func TransactionGet(svc *transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		txn, err := svc.Get(ctx, chi.URLParam(r, "transactionId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, statusViewOf(txn))
	}
}

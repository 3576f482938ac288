package transactions

import (
	"context"
	"math"
	"strings"

	"github.com/sortezap/sortezap-backend/internal/buyer"
	"github.com/sortezap/sortezap-backend/internal/pricing"
	pkgerrors "github.com/sortezap/sortezap-backend/pkg/errors"
	"github.com/sortezap/sortezap-backend/pkg/lirapay"
	"github.com/sortezap/sortezap-backend/pkg/logger"
	"github.com/sortezap/sortezap-backend/pkg/metrics"
)

// totalTolerance absorbs float rounding between a client-declared total and
// the server-derived one. Anything larger is treated as tampering.
const totalTolerance = 0.01

// GatewayClient is the slice of the LiraPay client the service depends on.
type GatewayClient interface {
	CreateTransaction(ctx context.Context, params lirapay.CreateTransactionParams) (*lirapay.Transaction, error)
	GetTransaction(ctx context.Context, transactionID string) (*lirapay.Transaction, error)
	GetAccountInfo(ctx context.Context) (*lirapay.AccountInfo, error)
}

// Service fronts the payment gateway for both the checkout flow and the
// proxy endpoints. The gateway is the system of record; nothing is
// persisted here.
type Service struct {
	client     GatewayClient
	webhookURL string
	logg       *logger.Logger
	metrics    *metrics.CheckoutMetrics
}

// NewService wires the gateway client. A nil client is valid and means the
// API secret was never configured; every operation then fails with a
// configuration error instead of a misleading gateway one.
func NewService(client GatewayClient, webhookURL string, logg *logger.Logger, m *metrics.CheckoutMetrics) *Service {
	return &Service{
		client:     client,
		webhookURL: webhookURL,
		logg:       logg,
		metrics:    m,
	}
}

func (s *Service) ready() error {
	if s.client == nil {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "payment gateway credentials are not configured")
	}
	return nil
}

// CreateParams is the proxy-facing request to open a PIX charge.
type CreateParams struct {
	Quantity    int
	TotalAmount float64
	Buyer       buyer.Profile
	OriginIP    string
}

// CreateFromRequest validates a proxy request end to end and opens the
// charge. The declared total must agree with the server-derived quote
// within a one-cent tolerance; prices are never taken from the client.
func (s *Service) CreateFromRequest(ctx context.Context, params CreateParams) (*lirapay.Transaction, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	profile := params.Buyer.Normalize()
	if errs := profile.Validate(); errs != nil {
		return nil, errs.AsError()
	}
	if err := pricing.ValidateQuantity(params.Quantity); err != nil {
		return nil, err
	}

	quote := pricing.QuoteFor(params.Quantity)
	if params.TotalAmount != 0 {
		derived := quote.Total.InexactFloat64()
		if math.Abs(params.TotalAmount-derived) > totalTolerance {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "declared total does not match the current price table").
				WithDetails(map[string]any{
					"declared_total": params.TotalAmount,
					"derived_total":  derived,
				})
		}
	}

	return s.Create(ctx, profile, quote, params.OriginIP)
}

// Create opens the charge for an already validated buyer and quote. This is
// the path the checkout session takes on submit.
func (s *Service) Create(ctx context.Context, profile buyer.Profile, quote pricing.Quote, originIP string) (*lirapay.Transaction, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	externalRef := lirapay.NewExternalRef()
	txn, err := s.client.CreateTransaction(ctx, lirapay.CreateTransactionParams{
		ExternalRef: externalRef,
		TotalAmount: quote.Total.InexactFloat64(),
		UnitPrice:   quote.UnitPrice.InexactFloat64(),
		Quantity:    quote.Quantity,
		WebhookURL:  s.webhookURL,
		OriginIP:    originIP,

		BuyerName:     profile.FullName,
		BuyerEmail:    profile.Email,
		BuyerPhone:    profile.PhoneDigits,
		BuyerDocument: profile.TaxID,
	})
	if err != nil {
		s.metrics.IncTransactionFailed()
		return nil, err
	}
	s.metrics.IncTransactionCreated()

	if s.logg != nil {
		tctx := s.logg.WithFields(ctx, map[string]any{
			"transaction_id": txn.ID,
			"external_ref":   externalRef,
			"quantity":       quote.Quantity,
		})
		s.logg.Info(tctx, "pix transaction created")
	}
	return txn, nil
}

// Get proxies a transaction lookup.
func (s *Service) Get(ctx context.Context, transactionID string) (*lirapay.Transaction, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(transactionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	return s.client.GetTransaction(ctx, transactionID)
}

// Status reports the gateway's current view of a transaction. The checkout
// poller calls this on every tick.
func (s *Service) Status(ctx context.Context, transactionID string) (lirapay.Status, error) {
	txn, err := s.Get(ctx, transactionID)
	if err != nil {
		return "", err
	}
	return txn.Status, nil
}

// AccountInfo proxies the gateway account lookup used by the deploy
// healthcheck.
func (s *Service) AccountInfo(ctx context.Context) (*lirapay.AccountInfo, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.client.GetAccountInfo(ctx)
}

package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sortezap/sortezap-backend/internal/buyer"
	"github.com/sortezap/sortezap-backend/internal/pricing"
	pkgerrors "github.com/sortezap/sortezap-backend/pkg/errors"
	"github.com/sortezap/sortezap-backend/pkg/lirapay"
	"github.com/sortezap/sortezap-backend/pkg/logger"
	"github.com/sortezap/sortezap-backend/pkg/metrics"
)

const (
	defaultPollInterval = 3 * time.Second
	defaultPollCeiling  = 15 * time.Minute
)

// TransactionCreator opens the gateway charge backing a checkout submission.
type TransactionCreator interface {
	Create(ctx context.Context, profile buyer.Profile, quote pricing.Quote, originIP string) (*lirapay.Transaction, error)
}

// Gateway is the full collaborator surface a session needs.
type Gateway interface {
	TransactionCreator
	StatusChecker
}

// Session owns one checkout attempt: its quote, its buyer, the gateway
// transaction, and exactly one polling task. Constructed fresh per attempt;
// nothing survives Close.
type Session struct {
	mu sync.Mutex

	id          string
	state       State
	quote       pricing.Quote
	buyerInfo   buyer.Profile
	transaction *lirapay.Transaction
	submittedAt time.Time
	createdAt   time.Time

	poller *poller

	gateway Gateway
	pollCfg pollerConfig
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics
}

// SessionParams configures a new checkout session.
type SessionParams struct {
	Quantity     int
	Gateway      Gateway
	PollInterval time.Duration
	PollCeiling  time.Duration
	Logger       *logger.Logger
	Metrics      *metrics.CheckoutMetrics
}

// NewSession opens a session in CollectingInfo with an initial quote. The
// quantity gates are enforced at submit, not here, so a visitor can start
// from any quantity and adjust.
func NewSession(params SessionParams) (*Session, error) {
	if params.Gateway == nil {
		return nil, fmt.Errorf("gateway required")
	}
	if params.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	quantity := params.Quantity
	if quantity == 0 {
		quantity = pricing.MinQuantity
	}
	interval := params.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ceiling := params.PollCeiling
	if ceiling <= 0 {
		ceiling = defaultPollCeiling
	}
	return &Session{
		id:        uuid.NewString(),
		state:     StateCollectingInfo,
		quote:     pricing.QuoteFor(quantity),
		createdAt: time.Now(),
		gateway:   params.Gateway,
		pollCfg:   pollerConfig{interval: interval, ceiling: ceiling},
		logg:      params.Logger,
		metrics:   params.Metrics,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// ExternalRef returns the correlation id of the backing transaction, if any.
func (s *Session) ExternalRef() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transaction == nil {
		return ""
	}
	return s.transaction.ExternalRef
}

// SetQuantity replaces the quantity and recomputes the quote. Values below
// the minimum are rejected with the quantity unchanged, never clamped.
func (s *Session) SetQuantity(quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCollectingInfo {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "quantity is locked once payment starts")
	}
	if quantity < pricing.MinQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum of 5 numbers required to cover payment fees").
			WithDetails(map[string]string{"quantity": "must be at least 5"})
	}
	s.quote = pricing.QuoteFor(quantity)
	return nil
}

// Add applies one of the storefront "+N" shortcuts.
func (s *Session) Add(amount int) error {
	s.mu.Lock()
	quantity := s.quote.Quantity
	s.mu.Unlock()
	return s.SetQuantity(quantity + amount)
}

// Increment raises the quantity by one.
func (s *Session) Increment() error {
	return s.Add(1)
}

// Decrement lowers the quantity by one; stepping below the minimum is
// rejected and the current quantity kept.
func (s *Session) Decrement() error {
	return s.Add(-1)
}

// SetQuantityFromInput handles manual entry: non-numeric input falls back to
// the minimum before the usual gate applies.
func (s *Session) SetQuantityFromInput(raw string) error {
	return s.SetQuantity(pricing.ParseQuantity(raw))
}

// Submit validates the buyer and quote gates, creates the gateway
// transaction, and moves the session to AwaitingPayment with polling
// started. On gateway failure the session stays in CollectingInfo and no
// retry is attempted.
func (s *Session) Submit(ctx context.Context, profile buyer.Profile, termsAccepted bool, originIP string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCollectingInfo {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already submitted")
	}
	if !termsAccepted {
		return pkgerrors.New(pkgerrors.CodeValidation, "terms must be accepted").
			WithDetails(map[string]string{"terms": "must be accepted"})
	}
	profile = profile.Normalize()
	if errs := profile.Validate(); errs != nil {
		return errs.AsError()
	}
	if err := pricing.ValidateQuantity(s.quote.Quantity); err != nil {
		return err
	}

	txn, err := s.gateway.Create(ctx, profile, s.quote, originIP)
	if err != nil {
		return err
	}

	next, err := Reduce(s.state, EventSubmit)
	if err != nil {
		return err
	}
	s.state = next
	s.buyerInfo = profile
	s.transaction = txn
	s.submittedAt = time.Now()

	s.poller = startPoller(
		context.Background(),
		s.pollCfg,
		s.gateway,
		txn.ID,
		s.onAuthorized,
		s.onCeiling,
		s.logg,
	)

	if s.logg != nil {
		tctx := s.logg.WithSessionID(ctx, s.id)
		tctx = s.logg.WithTransactionID(tctx, txn.ID)
		tctx = s.logg.WithExternalRef(tctx, txn.ExternalRef)
		s.logg.Info(tctx, "checkout submitted, awaiting payment")
	}
	return nil
}

// NotifyAuthorized lets the webhook path confirm the session without waiting
// for the next poll tick.
func (s *Session) NotifyAuthorized() {
	s.onAuthorized()
}

func (s *Session) onAuthorized() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAwaitingPayment {
		return
	}
	next, err := Reduce(s.state, EventPaymentAuthorized)
	if err != nil {
		return
	}
	s.state = next
	if s.transaction != nil {
		s.transaction.Status = lirapay.StatusAuthorized
	}
	s.poller.Cancel()
	s.metrics.IncSessionConfirmed()
	s.metrics.ObserveConfirmation(time.Since(s.submittedAt))
	if s.logg != nil {
		s.logg.Info(s.logg.WithSessionID(context.Background(), s.id), "payment confirmed")
	}
}

func (s *Session) onCeiling() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAwaitingPayment {
		return
	}
	next, err := Reduce(s.state, EventPollCeilingReached)
	if err != nil {
		return
	}
	s.state = next
	s.poller.Cancel()
	s.metrics.IncSessionTimedOut()
	if s.logg != nil {
		s.logg.Warn(s.logg.WithSessionID(context.Background(), s.id), "payment not confirmed within ceiling, session timed out")
	}
}

// Close tears the session down from any state, cancelling the polling task.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poller.Cancel()
	next, err := Reduce(s.state, EventClose)
	if err != nil {
		return
	}
	s.state = next
}

// State returns the current lifecycle position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CreatedAt reports when the session was opened.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// TransactionView is the client-safe slice of the backing transaction.
type TransactionView struct {
	ID          string         `json:"id"`
	ExternalRef string         `json:"external_reference"`
	Status      lirapay.Status `json:"status"`
	PaymentCode string         `json:"payment_code,omitempty"`
	TotalValue  float64        `json:"total_value"`
}

// View is the snapshot returned to API clients.
type View struct {
	ID          string           `json:"id"`
	State       State            `json:"state"`
	Quantity    int              `json:"quantity"`
	UnitPrice   string           `json:"unit_price"`
	Total       string           `json:"total"`
	Transaction *TransactionView `json:"transaction,omitempty"`
}

// Snapshot captures the session for serialization.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := View{
		ID:        s.id,
		State:     s.state,
		Quantity:  s.quote.Quantity,
		UnitPrice: s.quote.UnitPrice.StringFixed(2),
		Total:     s.quote.Total.StringFixed(2),
	}
	if s.transaction != nil {
		view.Transaction = &TransactionView{
			ID:          s.transaction.ID,
			ExternalRef: s.transaction.ExternalRef,
			Status:      s.transaction.Status,
			PaymentCode: s.transaction.PaymentCode,
			TotalValue:  s.transaction.TotalValue,
		}
	}
	return view
}

package webhooks

import (
	"context"
	"strings"

	"github.com/sortezap/sortezap-backend/internal/checkout"
	"github.com/sortezap/sortezap-backend/pkg/lirapay"
	"github.com/sortezap/sortezap-backend/pkg/logger"
	"github.com/sortezap/sortezap-backend/pkg/metrics"
)

// Payload is the body LiraPay posts on every transaction status change.
type Payload struct {
	ID            string         `json:"id"`
	ExternalRef   string         `json:"external_id"`
	TotalAmount   float64        `json:"total_amount"`
	Status        lirapay.Status `json:"status"`
	PaymentMethod string         `json:"payment_method"`
}

// dedupeID identifies one status change. The gateway posts a fresh delivery
// per transition under the same transaction id, so the id alone cannot tell
// a redelivery from the next transition.
func (p Payload) dedupeID() string {
	return p.ID + ":" + string(p.Status)
}

// SessionLookup finds the live checkout session a delivery refers to.
type SessionLookup interface {
	ByExternalRef(externalRef string) (*checkout.Session, bool)
}

// Service processes LiraPay webhook deliveries. Processing never blocks
// acknowledgement: the controller returns 200 regardless of what happens
// here, matching the gateway's retry contract.
type Service struct {
	sessions SessionLookup
	guard    *Guard
	logg     *logger.Logger
	metrics  *metrics.CheckoutMetrics
}

// NewService wires the delivery processor. Both sessions and guard may be
// nil; the service then only records the event.
func NewService(sessions SessionLookup, guard *Guard, logg *logger.Logger, m *metrics.CheckoutMetrics) *Service {
	return &Service{
		sessions: sessions,
		guard:    guard,
		logg:     logg,
		metrics:  m,
	}
}

// Process handles one delivery. Duplicates and payloads for unknown
// transactions are recorded and dropped.
func (s *Service) Process(ctx context.Context, payload Payload) {
	ctx = s.withFields(ctx, payload)

	if strings.TrimSpace(payload.ID) == "" {
		s.warn(ctx, "webhook delivery without transaction id, dropped")
		return
	}
	if !s.guard.FirstDelivery(ctx, payload.dedupeID()) {
		s.info(ctx, "duplicate webhook delivery, dropped")
		return
	}

	s.metrics.IncWebhookEvent(string(payload.Status))
	if !payload.Status.Known() {
		s.warn(ctx, "webhook delivery with unrecognized status")
	}

	if payload.Status == lirapay.StatusAuthorized && s.sessions != nil {
		if session, ok := s.sessions.ByExternalRef(payload.ExternalRef); ok {
			session.NotifyAuthorized()
			s.info(ctx, "payment authorized via webhook, session confirmed")
			return
		}
	}
	s.info(ctx, "webhook delivery recorded")
}

func (s *Service) withFields(ctx context.Context, payload Payload) context.Context {
	if s.logg == nil {
		return ctx
	}
	return s.logg.WithFields(ctx, map[string]any{
		"transaction_id": payload.ID,
		"external_ref":   payload.ExternalRef,
		"status":         string(payload.Status),
	})
}

func (s *Service) info(ctx context.Context, msg string) {
	if s.logg != nil {
		s.logg.Info(ctx, msg)
	}
}

func (s *Service) warn(ctx context.Context, msg string) {
	if s.logg != nil {
		s.logg.Warn(ctx, msg)
	}
}

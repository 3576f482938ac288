package checkout

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sortezap/sortezap-backend/internal/buyer"
	"github.com/sortezap/sortezap-backend/internal/pricing"
	pkgerrors "github.com/sortezap/sortezap-backend/pkg/errors"
	"github.com/sortezap/sortezap-backend/pkg/lirapay"
)

type fakeGateway struct {
	createErr   error
	created     atomic.Int64
	status      atomic.Value // lirapay.Status
	statusCalls atomic.Int64
}

func newFakeGateway() *fakeGateway {
	g := &fakeGateway{}
	g.status.Store(lirapay.StatusPending)
	return g
}

func (g *fakeGateway) Create(ctx context.Context, profile buyer.Profile, quote pricing.Quote, originIP string) (*lirapay.Transaction, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created.Add(1)
	return &lirapay.Transaction{
		ID:          "txn-1",
		ExternalRef: "rifa_1700000000000_abc123def",
		Status:      lirapay.StatusPending,
		TotalValue:  quote.Total.InexactFloat64(),
		PaymentCode: "00020126pixcopypaste",
		BuyerName:   profile.FullName,
		BuyerEmail:  profile.Email,
	}, nil
}

func (g *fakeGateway) Status(ctx context.Context, transactionID string) (lirapay.Status, error) {
	g.statusCalls.Add(1)
	return g.status.Load().(lirapay.Status), nil
}

func validProfile() buyer.Profile {
	return buyer.Profile{
		FullName:    "Maria Souza",
		Email:       "maria@example.com",
		PhoneDigits: "(11) 98888-7777",
		TaxID:       "123.456.789-09",
	}
}

func newTestSession(t *testing.T, gateway Gateway, quantity int) *Session {
	t.Helper()
	session, err := NewSession(SessionParams{
		Quantity:     quantity,
		Gateway:      gateway,
		PollInterval: 5 * time.Millisecond,
		PollCeiling:  time.Second,
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return session
}

func waitForState(t *testing.T, session *Session, want State) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if session.State() == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("session never reached %s, stuck in %s", want, session.State())
		case <-time.After(2 * time.Millisecond):
		}
	}
}

func TestSessionQuantityAdjustments(t *testing.T) {
	session := newTestSession(t, newFakeGateway(), 10)

	if err := session.Increment(); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := session.Add(100); err != nil {
		t.Fatalf("add 100: %v", err)
	}
	view := session.Snapshot()
	if view.Quantity != 111 {
		t.Fatalf("quantity: got %d, want 111", view.Quantity)
	}
	if view.UnitPrice != "1.89" {
		t.Fatalf("unit price at tier 100: got %s", view.UnitPrice)
	}
}

func TestSessionDecrementBelowMinimumRejected(t *testing.T) {
	session := newTestSession(t, newFakeGateway(), pricing.MinQuantity)

	err := session.Decrement()
	if err == nil {
		t.Fatal("expected rejection below minimum")
	}
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("got %v, want validation error", err)
	}
	if got := session.Snapshot().Quantity; got != pricing.MinQuantity {
		t.Fatalf("quantity changed to %d on rejected decrement", got)
	}
}

func TestSessionManualEntryFallsBackToMinimum(t *testing.T) {
	session := newTestSession(t, newFakeGateway(), 50)

	if err := session.SetQuantityFromInput("abc"); err != nil {
		t.Fatalf("manual entry: %v", err)
	}
	if got := session.Snapshot().Quantity; got != pricing.MinQuantity {
		t.Fatalf("got %d, want fallback to %d", got, pricing.MinQuantity)
	}
}

func TestSessionSubmitMovesToAwaitingPayment(t *testing.T) {
	gateway := newFakeGateway()
	session := newTestSession(t, gateway, 10)
	defer session.Close()

	if err := session.Submit(context.Background(), validProfile(), true, "203.0.113.7"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := session.State(); got != StateAwaitingPayment {
		t.Fatalf("state after submit: %s", got)
	}
	view := session.Snapshot()
	if view.Transaction == nil || view.Transaction.PaymentCode == "" {
		t.Fatal("snapshot missing transaction payment code")
	}
	if session.ExternalRef() == "" {
		t.Fatal("external ref not recorded")
	}
}

func TestSessionSubmitRequiresTerms(t *testing.T) {
	session := newTestSession(t, newFakeGateway(), 10)

	err := session.Submit(context.Background(), validProfile(), false, "")
	if err == nil {
		t.Fatal("expected terms rejection")
	}
	if got := session.State(); got != StateCollectingInfo {
		t.Fatalf("state after rejected submit: %s", got)
	}
}

func TestSessionSubmitRejectsInvalidBuyer(t *testing.T) {
	session := newTestSession(t, newFakeGateway(), 10)

	profile := validProfile()
	profile.Email = "not-an-email"
	err := session.Submit(context.Background(), profile, true, "")
	if err == nil {
		t.Fatal("expected buyer validation failure")
	}
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestSessionGatewayFailureLeavesCollectingInfo(t *testing.T) {
	gateway := newFakeGateway()
	gateway.createErr = pkgerrors.New(pkgerrors.CodeGateway, "gateway unavailable")
	session := newTestSession(t, gateway, 10)

	err := session.Submit(context.Background(), validProfile(), true, "")
	if err == nil {
		t.Fatal("expected gateway error to surface")
	}
	if got := session.State(); got != StateCollectingInfo {
		t.Fatalf("state after gateway failure: %s", got)
	}

	gateway.createErr = nil
	if err := session.Submit(context.Background(), validProfile(), true, ""); err != nil {
		t.Fatalf("resubmit after recovery: %v", err)
	}
	session.Close()
}

func TestSessionDoubleSubmitRejected(t *testing.T) {
	session := newTestSession(t, newFakeGateway(), 10)
	defer session.Close()

	if err := session.Submit(context.Background(), validProfile(), true, ""); err != nil {
		t.Fatalf("submit: %v", err)
	}
	err := session.Submit(context.Background(), validProfile(), true, "")
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("got %v, want state conflict", err)
	}
}

func TestSessionQuantityLockedAfterSubmit(t *testing.T) {
	session := newTestSession(t, newFakeGateway(), 10)
	defer session.Close()

	if err := session.Submit(context.Background(), validProfile(), true, ""); err != nil {
		t.Fatalf("submit: %v", err)
	}
	err := session.SetQuantity(20)
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("got %v, want state conflict", err)
	}
}

func TestSessionConfirmedByPolling(t *testing.T) {
	gateway := newFakeGateway()
	session := newTestSession(t, gateway, 10)
	defer session.Close()

	if err := session.Submit(context.Background(), validProfile(), true, ""); err != nil {
		t.Fatalf("submit: %v", err)
	}
	gateway.status.Store(lirapay.StatusAuthorized)

	waitForState(t, session, StateConfirmed)
	if view := session.Snapshot(); view.Transaction.Status != lirapay.StatusAuthorized {
		t.Fatalf("transaction status: %s", view.Transaction.Status)
	}
}

func TestSessionTimesOutAtCeiling(t *testing.T) {
	gateway := newFakeGateway()
	session, err := NewSession(SessionParams{
		Quantity:     10,
		Gateway:      gateway,
		PollInterval: 5 * time.Millisecond,
		PollCeiling:  30 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer session.Close()

	if err := session.Submit(context.Background(), validProfile(), true, ""); err != nil {
		t.Fatalf("submit: %v", err)
	}
	waitForState(t, session, StateTimedOut)
}

func TestSessionWebhookConfirmsEarly(t *testing.T) {
	gateway := newFakeGateway()
	session := newTestSession(t, gateway, 10)
	defer session.Close()

	if err := session.Submit(context.Background(), validProfile(), true, ""); err != nil {
		t.Fatalf("submit: %v", err)
	}
	session.NotifyAuthorized()

	if got := session.State(); got != StateConfirmed {
		t.Fatalf("state after webhook: %s", got)
	}
	session.NotifyAuthorized()
	if got := session.State(); got != StateConfirmed {
		t.Fatalf("state after duplicate webhook: %s", got)
	}
}

func TestSessionCloseCancelsPolling(t *testing.T) {
	gateway := newFakeGateway()
	session := newTestSession(t, gateway, 10)

	if err := session.Submit(context.Background(), validProfile(), true, ""); err != nil {
		t.Fatalf("submit: %v", err)
	}
	session.Close()
	session.poller.Wait()

	if got := session.State(); got != StateClosed {
		t.Fatalf("state after close: %s", got)
	}
	before := gateway.statusCalls.Load()
	time.Sleep(20 * time.Millisecond)
	if after := gateway.statusCalls.Load(); after != before {
		t.Fatalf("status checks continued after close: %d -> %d", before, after)
	}
}

func TestSessionCloseBeforeSubmit(t *testing.T) {
	session := newTestSession(t, newFakeGateway(), 10)
	session.Close()
	if got := session.State(); got != StateClosed {
		t.Fatalf("state: %s", got)
	}
}

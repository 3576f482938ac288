package transactions

import (
	"context"
	"strings"
	"testing"

	"github.com/sortezap/sortezap-backend/internal/buyer"
	"github.com/sortezap/sortezap-backend/internal/pricing"
	pkgerrors "github.com/sortezap/sortezap-backend/pkg/errors"
	"github.com/sortezap/sortezap-backend/pkg/lirapay"
)

type recordingClient struct {
	lastCreate lirapay.CreateTransactionParams
	createErr  error
	lastGetID  string
	getStatus  lirapay.Status
	getErr     error
}

func (c *recordingClient) CreateTransaction(ctx context.Context, params lirapay.CreateTransactionParams) (*lirapay.Transaction, error) {
	c.lastCreate = params
	if c.createErr != nil {
		return nil, c.createErr
	}
	return &lirapay.Transaction{
		ID:          "txn-9",
		ExternalRef: params.ExternalRef,
		Status:      lirapay.StatusPending,
		TotalValue:  params.TotalAmount,
		PaymentCode: "00020126pixcopypaste",
	}, nil
}

func (c *recordingClient) GetTransaction(ctx context.Context, transactionID string) (*lirapay.Transaction, error) {
	c.lastGetID = transactionID
	if c.getErr != nil {
		return nil, c.getErr
	}
	return &lirapay.Transaction{ID: transactionID, Status: c.getStatus}, nil
}

func (c *recordingClient) GetAccountInfo(ctx context.Context) (*lirapay.AccountInfo, error) {
	return &lirapay.AccountInfo{Name: "Sorteza"}, nil
}

func validBuyer() buyer.Profile {
	return buyer.Profile{
		FullName:    "Maria Souza",
		Email:       "maria@example.com",
		PhoneDigits: "(11) 98888-7777",
		TaxID:       "123.456.789-09",
	}
}

func validParams() CreateParams {
	return CreateParams{
		Quantity: 10,
		Buyer:    validBuyer(),
		OriginIP: "203.0.113.7",
	}
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != want {
		t.Fatalf("got %v, want code %s", err, want)
	}
}

func TestCreateFromRequestForwardsServerDerivedPricing(t *testing.T) {
	client := &recordingClient{}
	service := NewService(client, "https://api.sorteza.example/webhooks/lirapay", nil, nil)

	txn, err := service.CreateFromRequest(context.Background(), validParams())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if txn.ID != "txn-9" {
		t.Fatalf("transaction id: %s", txn.ID)
	}
	if client.lastCreate.TotalAmount != 19.90 {
		t.Fatalf("total sent to gateway: %v, want 19.90", client.lastCreate.TotalAmount)
	}
	if client.lastCreate.UnitPrice != 1.99 {
		t.Fatalf("unit price sent to gateway: %v", client.lastCreate.UnitPrice)
	}
	if client.lastCreate.WebhookURL != "https://api.sorteza.example/webhooks/lirapay" {
		t.Fatalf("webhook url: %s", client.lastCreate.WebhookURL)
	}
	if !strings.HasPrefix(client.lastCreate.ExternalRef, "rifa_") {
		t.Fatalf("external ref shape: %s", client.lastCreate.ExternalRef)
	}
	if client.lastCreate.BuyerPhone != "11988887777" {
		t.Fatalf("buyer phone not normalized: %s", client.lastCreate.BuyerPhone)
	}
}

func TestCreateFromRequestTotalWithinTolerance(t *testing.T) {
	service := NewService(&recordingClient{}, "https://example.com/hook", nil, nil)

	params := validParams()
	params.TotalAmount = 19.895
	if _, err := service.CreateFromRequest(context.Background(), params); err != nil {
		t.Fatalf("total within tolerance rejected: %v", err)
	}
}

func TestCreateFromRequestTotalMismatchRejected(t *testing.T) {
	client := &recordingClient{}
	service := NewService(client, "https://example.com/hook", nil, nil)

	params := validParams()
	params.TotalAmount = 5.00
	_, err := service.CreateFromRequest(context.Background(), params)
	assertCode(t, err, pkgerrors.CodeValidation)
	if client.lastCreate.ExternalRef != "" {
		t.Fatal("gateway must not be called on total mismatch")
	}
}

func TestCreateFromRequestQuantityGate(t *testing.T) {
	service := NewService(&recordingClient{}, "https://example.com/hook", nil, nil)

	params := validParams()
	params.Quantity = 4
	_, err := service.CreateFromRequest(context.Background(), params)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateFromRequestInvalidBuyer(t *testing.T) {
	service := NewService(&recordingClient{}, "https://example.com/hook", nil, nil)

	params := validParams()
	params.Buyer.Email = "nope"
	_, err := service.CreateFromRequest(context.Background(), params)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestNilClientYieldsConfigurationError(t *testing.T) {
	service := NewService(nil, "https://example.com/hook", nil, nil)

	_, err := service.CreateFromRequest(context.Background(), validParams())
	assertCode(t, err, pkgerrors.CodeConfiguration)

	_, err = service.Get(context.Background(), "txn-1")
	assertCode(t, err, pkgerrors.CodeConfiguration)

	_, err = service.AccountInfo(context.Background())
	assertCode(t, err, pkgerrors.CodeConfiguration)
}

func TestCreateGatewayFailureSurfaces(t *testing.T) {
	client := &recordingClient{createErr: pkgerrors.New(pkgerrors.CodeGateway, "gateway unavailable")}
	service := NewService(client, "https://example.com/hook", nil, nil)

	_, err := service.CreateFromRequest(context.Background(), validParams())
	assertCode(t, err, pkgerrors.CodeGateway)
}

func TestGetRequiresID(t *testing.T) {
	service := NewService(&recordingClient{}, "https://example.com/hook", nil, nil)

	_, err := service.Get(context.Background(), "  ")
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestStatusReturnsGatewayView(t *testing.T) {
	client := &recordingClient{getStatus: lirapay.StatusAuthorized}
	service := NewService(client, "https://example.com/hook", nil, nil)

	status, err := service.Status(context.Background(), "txn-3")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status != lirapay.StatusAuthorized {
		t.Fatalf("status: %s", status)
	}
	if client.lastGetID != "txn-3" {
		t.Fatalf("looked up %s", client.lastGetID)
	}
}

func TestServiceSatisfiesCheckoutQuote(t *testing.T) {
	client := &recordingClient{}
	service := NewService(client, "https://example.com/hook", nil, nil)

	quote := pricing.QuoteFor(500)
	txn, err := service.Create(context.Background(), validBuyer(), quote, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if txn.TotalValue != 845.00 {
		t.Fatalf("total at tier 500: %v", txn.TotalValue)
	}
	if client.lastCreate.Quantity != 500 {
		t.Fatalf("quantity: %d", client.lastCreate.Quantity)
	}
}

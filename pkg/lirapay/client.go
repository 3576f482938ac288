package lirapay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sortezap/sortezap-backend/pkg/config"
	pkgerrors "github.com/sortezap/sortezap-backend/pkg/errors"
	"github.com/sortezap/sortezap-backend/pkg/logger"
)

const (
	apiSecretHeader = "api-secret"

	transactionsPath = "/v1/transactions"
	accountInfoPath  = "/v1/account-info"

	maxErrorBodyBytes = 4 << 10
)

var (
	errAPISecretRequired = errors.New("lirapay api secret is required")
	errBaseURLRequired   = errors.New("lirapay base url is required")
	errLoggerRequired    = errors.New("lirapay logger is required")
)

// Client exposes the LiraPay transaction primitives with centralized auth,
// logging, and error mapping. Calls are never retried or cached; failures
// surface immediately to the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiSecret  string
	logger     *logger.Logger
}

// NewClient initializes the LiraPay wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.LiraPayConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	if !cfg.HasSecret() {
		return nil, errAPISecretRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
		apiSecret:  strings.TrimSpace(cfg.APISecret),
		logger:     logg,
	}

	logg.Info(ctx, "lirapay client initialized")
	return c, nil
}

// CreateTransaction opens a PIX charge at the gateway and returns the created
// transaction with its payment payload.
func (c *Client) CreateTransaction(ctx context.Context, params CreateTransactionParams) (*Transaction, error) {
	req := params.toRequest()
	c.log(ctx, "request", "create_transaction", map[string]any{
		"external_ref": params.ExternalRef,
		"total_amount": params.TotalAmount,
		"quantity":     params.Quantity,
		"email":        params.BuyerEmail,
	})

	var resp createTransactionResponse
	if err := c.do(ctx, http.MethodPost, transactionsPath, req, &resp); err != nil {
		c.log(ctx, "error", "create_transaction", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "create_transaction", map[string]any{
		"transaction_id": resp.ID,
		"status":         string(resp.Status),
	})

	return &Transaction{
		ID:            resp.ID,
		ExternalRef:   resp.ExternalID,
		Status:        resp.Status,
		TotalValue:    resp.TotalValue,
		PaymentCode:   resp.PIX.Payload,
		PaymentMethod: resp.PaymentMethod,
		BuyerName:     resp.Customer.Name,
		BuyerEmail:    resp.Customer.Email,
	}, nil
}

// GetTransaction fetches the current gateway status for a transaction.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*Transaction, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}

	c.log(ctx, "request", "get_transaction", map[string]any{"transaction_id": transactionID})

	var resp transactionStatusResponse
	if err := c.do(ctx, http.MethodGet, transactionsPath+"/"+transactionID, nil, &resp); err != nil {
		c.log(ctx, "error", "get_transaction", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "get_transaction", map[string]any{
		"transaction_id": resp.ID,
		"status":         string(resp.Status),
	})

	externalRef := ""
	if resp.ExternalID != nil {
		externalRef = *resp.ExternalID
	}
	return &Transaction{
		ID:            resp.ID,
		ExternalRef:   externalRef,
		Status:        resp.Status,
		TotalValue:    resp.Amount,
		PaymentMethod: resp.PaymentMethod,
		BuyerName:     resp.Customer.Name,
		BuyerEmail:    resp.Customer.Email,
		CreatedAt:     resp.CreatedAt,
	}, nil
}

// GetAccountInfo returns the merchant account the configured secret belongs to.
func (c *Client) GetAccountInfo(ctx context.Context) (*AccountInfo, error) {
	c.log(ctx, "request", "get_account_info", nil)

	var resp AccountInfo
	if err := c.do(ctx, http.MethodGet, accountInfoPath, nil, &resp); err != nil {
		c.log(ctx, "error", "get_account_info", map[string]any{"error": err.Error()})
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode gateway request")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build gateway request")
	}
	req.Header.Set(apiSecretHeader, c.apiSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "lirapay request failed").
			WithDetails(map[string]any{"path": path})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapErrorResponse(resp, path)
	}

	if dest == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "decode gateway response")
	}
	return nil
}

func (c *Client) mapErrorResponse(resp *http.Response, path string) error {
	detail := fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes)); err == nil {
		if excerpt := strings.TrimSpace(string(raw)); excerpt != "" {
			detail += " - " + excerpt
		}
	}

	code := domainCodeForStatus(resp.StatusCode)
	return pkgerrors.New(code, fmt.Sprintf("lirapay %s failed", path)).
		WithDetails(map[string]any{"gateway_response": detail})
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusUnprocessableEntity:
		return pkgerrors.CodeStateConflict
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeGateway
	}
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("lirapay %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("lirapay %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"secret", "document", "cpf", "email", "phone", "payload"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

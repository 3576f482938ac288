package lirapay

// Status is the gateway-owned transaction status. Transitions are observed,
// never set, by this service.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusAuthorized Status = "AUTHORIZED"
	StatusFailed     Status = "FAILED"
	StatusChargeback Status = "CHARGEBACK"
	StatusInDispute  Status = "IN_DISPUTE"
)

// IsTerminal reports whether the gateway will not move the transaction again.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusAuthorized, StatusFailed, StatusChargeback:
		return true
	}
	return false
}

// Known reports whether the status is one of the documented gateway values.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusAuthorized, StatusFailed, StatusChargeback, StatusInDispute:
		return true
	}
	return false
}

// Customer is the gateway's buyer representation.
type Customer struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	DocumentType string `json:"document_type"`
	Document     string `json:"document"`
	UTMSource    string `json:"utm_source,omitempty"`
	UTMMedium    string `json:"utm_medium,omitempty"`
	UTMCampaign  string `json:"utm_campaign,omitempty"`
	UTMContent   string `json:"utm_content,omitempty"`
	UTMTerm      string `json:"utm_term,omitempty"`
}

// Item is a single transaction line.
type Item struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	IsPhysical  bool    `json:"is_physical"`
}

type createTransactionRequest struct {
	ExternalID    string   `json:"external_id"`
	TotalAmount   float64  `json:"total_amount"`
	PaymentMethod string   `json:"payment_method"`
	WebhookURL    string   `json:"webhook_url"`
	Items         []Item   `json:"items"`
	IP            string   `json:"ip"`
	Customer      Customer `json:"customer"`
}

type pixPayload struct {
	Payload string `json:"payload"`
}

type createTransactionResponse struct {
	ID            string     `json:"id"`
	ExternalID    string     `json:"external_id"`
	Status        Status     `json:"status"`
	TotalValue    float64    `json:"total_value"`
	PaymentMethod string     `json:"payment_method"`
	PIX           pixPayload `json:"pix"`
	Customer      struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"customer"`
	HasError bool `json:"hasError"`
}

type transactionStatusResponse struct {
	ID            string  `json:"id"`
	ExternalID    *string `json:"external_id"`
	Status        Status  `json:"status"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	Customer      struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Document string `json:"document"`
	} `json:"customer"`
	CreatedAt string `json:"created_at"`
}

// Transaction is the normalized view of a gateway transaction returned to
// callers by both CreateTransaction and GetTransaction.
type Transaction struct {
	ID            string
	ExternalRef   string
	Status        Status
	TotalValue    float64
	PaymentCode   string
	PaymentMethod string
	BuyerName     string
	BuyerEmail    string
	CreatedAt     string
}

// AccountInfo describes the merchant account the secret authenticates as.
type AccountInfo struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Document string `json:"document"`
}

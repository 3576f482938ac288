package lirapay

import (
	"fmt"
	"strings"
)

const (
	paymentMethodPIX = "PIX"

	raffleItemID = "rifa_numbers"

	utmSource   = "site_rifa"
	utmMedium   = "web"
	utmCampaign = "rifa_2025"
)

// CreateTransactionParams collects everything needed to open a PIX charge for
// a raffle-entry bundle.
type CreateTransactionParams struct {
	ExternalRef string
	TotalAmount float64
	UnitPrice   float64
	Quantity    int
	WebhookURL  string
	OriginIP    string

	BuyerName     string
	BuyerEmail    string
	BuyerPhone    string
	BuyerDocument string
}

func (p CreateTransactionParams) toRequest() createTransactionRequest {
	return createTransactionRequest{
		ExternalID:    p.ExternalRef,
		TotalAmount:   p.TotalAmount,
		PaymentMethod: paymentMethodPIX,
		WebhookURL:    p.WebhookURL,
		Items: []Item{
			{
				ID:          raffleItemID,
				Title:       fmt.Sprintf("%d Números da Rifa", p.Quantity),
				Description: fmt.Sprintf("Participação na rifa com %d números", p.Quantity),
				Price:       p.UnitPrice,
				Quantity:    p.Quantity,
				IsPhysical:  false,
			},
		},
		IP:       p.OriginIP,
		Customer: p.customer(),
	}
}

func (p CreateTransactionParams) customer() Customer {
	return Customer{
		Name:         p.BuyerName,
		Email:        p.BuyerEmail,
		Phone:        digitsOnly(p.BuyerPhone),
		DocumentType: "CPF",
		Document:     digitsOnly(p.BuyerDocument),
		UTMSource:    utmSource,
		UTMMedium:    utmMedium,
		UTMCampaign:  utmCampaign,
	}
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

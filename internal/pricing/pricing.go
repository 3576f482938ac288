package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/sortezap/sortezap-backend/pkg/errors"
)

const (
	// MinQuantity is the smallest purchasable bundle; smaller orders do not
	// amortize the gateway fee.
	MinQuantity = 5
)

// MinTotal is the smallest charge the gateway accepts profitably.
var MinTotal = decimal.NewFromFloat(5.00)

// Tier maps a minimum quantity to a unit price. A tier applies from its
// MinQuantity up to (but excluding) the next tier's MinQuantity.
type Tier struct {
	MinQuantity int
	UnitPrice   decimal.Decimal
}

var tiers = []Tier{
	{MinQuantity: 1, UnitPrice: decimal.NewFromFloat(1.99)},
	{MinQuantity: 100, UnitPrice: decimal.NewFromFloat(1.89)},
	{MinQuantity: 500, UnitPrice: decimal.NewFromFloat(1.69)},
	{MinQuantity: 1000, UnitPrice: decimal.NewFromFloat(1.49)},
	{MinQuantity: 5000, UnitPrice: decimal.NewFromFloat(0.99)},
}

// Tiers returns a copy of the tier table, ordered by ascending MinQuantity.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// PriceFor returns the unit price applicable to the given quantity. Defined
// for every quantity >= 0; quantities below the first tier price at the first
// tier's rate.
func PriceFor(quantity int) decimal.Decimal {
	price := tiers[0].UnitPrice
	for _, tier := range tiers {
		if quantity >= tier.MinQuantity {
			price = tier.UnitPrice
		}
	}
	return price
}

// Quote binds a quantity to its tier price and derived total. Total is never
// stored independently: it is always quantity x unit price rounded to cents.
type Quote struct {
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// QuoteFor recomputes the full quote for a quantity.
func QuoteFor(quantity int) Quote {
	unit := PriceFor(quantity)
	return Quote{
		Quantity:  quantity,
		UnitPrice: unit,
		Total:     unit.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
	}
}

// ValidateQuantity applies the checkout gates in order: quantity minimum
// first, then the derived-total minimum. Each violation is a distinct
// validation error; neither contacts the gateway.
func ValidateQuantity(quantity int) error {
	if quantity < MinQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum of 5 numbers required to cover payment fees").
			WithDetails(map[string]string{"quantity": "must be at least 5"})
	}
	if QuoteFor(quantity).Total.LessThan(MinTotal) {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum total of R$ 5.00 required to cover payment fees").
			WithDetails(map[string]string{"total": "must be at least 5.00"})
	}
	return nil
}

// ParseQuantity interprets manual quantity input. Non-numeric input falls
// back to the minimum instead of failing.
func ParseQuantity(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return MinQuantity
	}
	return value
}

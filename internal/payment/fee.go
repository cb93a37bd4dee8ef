package payment

import (
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// Quote is the breakdown of what the payer is charged.
type Quote struct {
	Base  int64 `json:"base_amount"`
	Fee   int64 `json:"fee_amount"`
	Total int64 `json:"amount"`
}

// FeeCalculator applies the platform fee percentage.
type FeeCalculator struct {
	percent decimal.Decimal
}

// NewFeeCalculator creates a calculator charging percent of the base amount
func NewFeeCalculator(percent int64) FeeCalculator {
	return FeeCalculator{percent: decimal.NewFromInt(percent)}
}

// Quote rounds the fee half away from zero to whole units.
func (f FeeCalculator) Quote(base int64) Quote {
	fee := decimal.NewFromInt(base).Mul(f.percent).Div(decimal.NewFromInt(100)).Round(0)
	return Quote{
		Base:  base,
		Fee:   fee.IntPart(),
		Total: base + fee.IntPart(),
	}
}

// PayoutURI builds a UPI deep link paying amount to payee.
func PayoutURI(payee string, amount int64, note string) string {
	q := url.Values{}
	q.Set("pa", payee)
	q.Set("pn", "Campus Works")
	q.Set("am", fmt.Sprintf("%d", amount))
	q.Set("cu", "INR")
	q.Set("tn", note)
	return "upi://pay?" + q.Encode()
}

package model

import "fmt"

// Billing plan identifiers as registered with the provider. The core only
// selects among these two; pricing metadata lives with the provider except
// for the monthly price needed to compute the one-time credit.
const (
	MonthlyPlan           = "VisualCart Pro"
	DiscountedMonthlyPlan = "VisualCart Pro 50"

	MonthlyPlanPriceCents           int64 = 1000 // $10.00
	DiscountedMonthlyPlanPriceCents int64 = 500  // $5.00

	BillingCurrency = "USD"
)

// Money is an amount in minor units with an ISO currency code. The provider
// wire format wants 2-decimal strings; minor units avoid float drift.
type Money struct {
	Cents    int64
	Currency string
}

func NewMoney(cents int64, currency string) Money {
	return Money{Cents: cents, Currency: currency}
}

// String renders the amount with 2-decimal precision, e.g. "9.00".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.Cents/100, m.Cents%100)
}

// OneTimeCreditAmount computes the deferred credit for a ONE_TIME promo:
// discountPercent of the standard monthly price.
func OneTimeCreditAmount(discountPercent int) Money {
	cents := MonthlyPlanPriceCents * int64(discountPercent) / 100
	return NewMoney(cents, BillingCurrency)
}

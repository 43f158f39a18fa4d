package model

import (
	"strings"

	"visualcart-billing/internal/domain"
)

type PromoType string

const (
	PromoTypeOneTime   PromoType = "ONE_TIME"
	PromoTypeRecurring PromoType = "RECURRING"
)

// PromoCode is operator-provisioned reference data, not shop-specific.
// Inactive codes stay in the catalog and are rejected at resolve time.
type PromoCode struct {
	Code            string // stored normalized (trimmed, upper-case)
	Type            PromoType
	DiscountPercent int
	IsActive        bool
	Description     string
}

// NormalizePromoCode canonicalizes free-form user input for catalog lookup.
func NormalizePromoCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// NewPromoCode validates and constructs a catalog entry.
func NewPromoCode(code string, typ PromoType, discountPercent int, active bool, description string) (*PromoCode, error) {
	code = NormalizePromoCode(code)
	if code == "" || discountPercent <= 0 || discountPercent > 100 {
		return nil, domain.ErrInvalidArgument
	}
	if typ != PromoTypeOneTime && typ != PromoTypeRecurring {
		return nil, domain.ErrInvalidArgument
	}
	return &PromoCode{
		Code:            code,
		Type:            typ,
		DiscountPercent: discountPercent,
		IsActive:        active,
		Description:     description,
	}, nil
}

// PlanSelection is the resolver's output: which billing plan to request from
// the provider, plus an optional deferred-credit intent for ONE_TIME codes.
type PlanSelection struct {
	PlanToUse      string
	DeferredCredit *DeferredCredit
}

// DeferredCredit carries the promo code whose one-time credit is owed after
// the subscription becomes active.
type DeferredCredit struct {
	Code string
}

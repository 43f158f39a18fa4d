package model

import (
	"time"

	"visualcart-billing/internal/domain"
)

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// ShopAccount is the persisted entitlement record for one shop installation.
// subscription_active mirrors the billing provider and is authoritative only
// between reconciliations; pending_promo_code/credit_applied track a deferred
// one-time credit that must be granted exactly once.
type ShopAccount struct {
	ShopDomain         string
	AccessToken        string
	SubscriptionActive bool
	Plan               Plan
	PendingPromoCode   string // empty when no credit is owed
	CreditApplied      bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewShopAccount constructs an account in the default (unsubscribed) state.
func NewShopAccount(shopDomain, accessToken string) (*ShopAccount, error) {
	if shopDomain == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &ShopAccount{
		ShopDomain:         shopDomain,
		AccessToken:        accessToken,
		SubscriptionActive: false,
		Plan:               PlanFree,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

func (s *ShopAccount) IsZero() bool { return s == nil || s.ShopDomain == "" }

// CreditOwed reports whether the deferred one-time credit is still pending.
func (s *ShopAccount) CreditOwed() bool {
	return s != nil && s.PendingPromoCode != "" && !s.CreditApplied
}

// PlanForActive maps provider subscription state to the local plan enum.
// Inactive always means free: the invariant subscription_active == false
// implies plan == free holds at every write site.
func PlanForActive(active bool) Plan {
	if active {
		return PlanPro
	}
	return PlanFree
}

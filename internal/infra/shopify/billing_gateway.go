package shopify

import (
	"context"
	"fmt"
	"time"

	"visualcart-billing/internal/domain"
	"visualcart-billing/internal/domain/model"
	"visualcart-billing/internal/domain/ports/adapter"
	"visualcart-billing/internal/infra/metrics"
)

// Ensure compile-time conformance
var _ adapter.BillingGateway = (*BillingGateway)(nil)

// BillingGateway talks to Shopify's billing mutations. The provider offers no
// idempotency keys on any of these calls; duplicate avoidance lives with the
// caller.
type BillingGateway struct {
	gql  *GraphQLClient
	test bool // create test charges/credits
}

func NewBillingGateway(gql *GraphQLClient, test bool) *BillingGateway {
	return &BillingGateway{gql: gql, test: test}
}

func (g *BillingGateway) Name() string { return "shopify" }

// planPriceCents resolves the fixed monthly price for the two registered plans.
func planPriceCents(plan string) (int64, error) {
	switch plan {
	case model.MonthlyPlan:
		return model.MonthlyPlanPriceCents, nil
	case model.DiscountedMonthlyPlan:
		return model.DiscountedMonthlyPlanPriceCents, nil
	default:
		return 0, domain.ErrInvalidArgument
	}
}

const checkQuery = `
query ActiveSubscriptions {
  currentAppInstallation {
    activeSubscriptions {
      name
      status
    }
  }
}`

func (g *BillingGateway) Check(ctx context.Context, shop, accessToken string, planCandidates []string) (adapter.BillingStatus, error) {
	var out struct {
		CurrentAppInstallation struct {
			ActiveSubscriptions []struct {
				Name   string `json:"name"`
				Status string `json:"status"`
			} `json:"activeSubscriptions"`
		} `json:"currentAppInstallation"`
	}

	start := time.Now()
	err := g.gql.Do(ctx, shop, accessToken, checkQuery, nil, &out)
	metrics.ObserveBillingCall("check", float64(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		return adapter.BillingStatus{}, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	for _, sub := range out.CurrentAppInstallation.ActiveSubscriptions {
		if sub.Status != model.SubscriptionStatusActive {
			continue
		}
		for _, candidate := range planCandidates {
			if sub.Name == candidate {
				return adapter.BillingStatus{ActivePayment: true, MatchedPlan: sub.Name}, nil
			}
		}
	}
	return adapter.BillingStatus{}, nil
}

const requireMutation = `
mutation AppSubscriptionCreate($name: String!, $returnUrl: URL!, $test: Boolean, $lineItems: [AppSubscriptionLineItemInput!]!) {
  appSubscriptionCreate(name: $name, returnUrl: $returnUrl, test: $test, lineItems: $lineItems) {
    confirmationUrl
    userErrors {
      field
      message
    }
  }
}`

func (g *BillingGateway) Require(ctx context.Context, shop, accessToken, plan, returnURL string) (string, error) {
	price, err := planPriceCents(plan)
	if err != nil {
		return "", err
	}

	variables := map[string]interface{}{
		"name":      plan,
		"returnUrl": returnURL,
		"test":      g.test,
		"lineItems": []map[string]interface{}{
			{
				"plan": map[string]interface{}{
					"appRecurringPricingDetails": map[string]interface{}{
						"price": map[string]interface{}{
							"amount":       model.NewMoney(price, model.BillingCurrency).String(),
							"currencyCode": model.BillingCurrency,
						},
						"interval": "EVERY_30_DAYS",
					},
				},
			},
		},
	}

	var out struct {
		AppSubscriptionCreate struct {
			ConfirmationURL string `json:"confirmationUrl"`
			UserErrors      []struct {
				Message string `json:"message"`
			} `json:"userErrors"`
		} `json:"appSubscriptionCreate"`
	}

	start := time.Now()
	err = g.gql.Do(ctx, shop, accessToken, requireMutation, variables, &out)
	metrics.ObserveBillingCall("require", float64(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	if len(out.AppSubscriptionCreate.UserErrors) > 0 {
		return "", fmt.Errorf("appSubscriptionCreate: %s", out.AppSubscriptionCreate.UserErrors[0].Message)
	}
	if out.AppSubscriptionCreate.ConfirmationURL == "" {
		return "", fmt.Errorf("appSubscriptionCreate: no confirmation url returned")
	}
	return out.AppSubscriptionCreate.ConfirmationURL, nil
}

const creditMutation = `
mutation AppCreditCreate($description: String!, $amount: MoneyInput!, $test: Boolean) {
  appCreditCreate(description: $description, amount: $amount, test: $test) {
    appCredit {
      id
    }
    userErrors {
      field
      message
    }
  }
}`

func (g *BillingGateway) CreateCredit(ctx context.Context, shop, accessToken, description string, amount model.Money) (string, error) {
	variables := map[string]interface{}{
		"description": description,
		"test":        g.test,
		"amount": map[string]interface{}{
			"amount":       amount.String(),
			"currencyCode": amount.Currency,
		},
	}

	var out struct {
		AppCreditCreate struct {
			AppCredit struct {
				ID string `json:"id"`
			} `json:"appCredit"`
			UserErrors []struct {
				Message string `json:"message"`
			} `json:"userErrors"`
		} `json:"appCreditCreate"`
	}

	start := time.Now()
	err := g.gql.Do(ctx, shop, accessToken, creditMutation, variables, &out)
	metrics.ObserveBillingCall("create_credit", float64(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	if len(out.AppCreditCreate.UserErrors) > 0 {
		return "", fmt.Errorf("appCreditCreate: %s", out.AppCreditCreate.UserErrors[0].Message)
	}
	if out.AppCreditCreate.AppCredit.ID == "" {
		return "", fmt.Errorf("appCreditCreate: no credit id returned")
	}
	return out.AppCreditCreate.AppCredit.ID, nil
}

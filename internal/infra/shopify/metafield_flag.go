package shopify

import (
	"context"
	"fmt"

	"visualcart-billing/internal/domain/ports/adapter"
)

// Metafield coordinates the storefront theme reads to decide whether the paid
// feature is unlocked.
const (
	metafieldNamespace = "popclips"
	metafieldKey       = "subscription_active"
)

var _ adapter.StorefrontAPI = (*MetafieldFlag)(nil)

// MetafieldFlag implements the feature-flag write as a single shop-scoped
// metafield set.
type MetafieldFlag struct {
	gql *GraphQLClient
}

func NewMetafieldFlag(gql *GraphQLClient) *MetafieldFlag {
	return &MetafieldFlag{gql: gql}
}

const shopIDQuery = `
query ShopID {
  shop {
    id
  }
}`

const metafieldsSetMutation = `
mutation SetSubscriptionMetafield($metafields: [MetafieldsSetInput!]!) {
  metafieldsSet(metafields: $metafields) {
    metafields {
      key
      namespace
      value
    }
    userErrors {
      field
      message
    }
  }
}`

func (m *MetafieldFlag) SetFeatureActive(ctx context.Context, shop, accessToken string, active bool) error {
	var shopOut struct {
		Shop struct {
			ID string `json:"id"`
		} `json:"shop"`
	}
	if err := m.gql.Do(ctx, shop, accessToken, shopIDQuery, nil, &shopOut); err != nil {
		return fmt.Errorf("resolve shop id: %w", err)
	}

	value := "false"
	if active {
		value = "true"
	}

	variables := map[string]interface{}{
		"metafields": []map[string]interface{}{
			{
				"namespace": metafieldNamespace,
				"key":       metafieldKey,
				"type":      "single_line_text_field",
				"value":     value,
				"ownerId":   shopOut.Shop.ID,
			},
		},
	}

	var out struct {
		MetafieldsSet struct {
			UserErrors []struct {
				Message string `json:"message"`
			} `json:"userErrors"`
		} `json:"metafieldsSet"`
	}
	if err := m.gql.Do(ctx, shop, accessToken, metafieldsSetMutation, variables, &out); err != nil {
		return fmt.Errorf("metafieldsSet: %w", err)
	}
	if len(out.MetafieldsSet.UserErrors) > 0 {
		return fmt.Errorf("metafieldsSet: %s", out.MetafieldsSet.UserErrors[0].Message)
	}
	return nil
}

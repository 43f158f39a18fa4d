package adapter

import "context"

// StorefrontAPI is the port for the externally visible feature flag: a single
// shop-scoped key/value write that unlocks the paid feature on the storefront.
// The core depends only on the success or failure of that write.
type StorefrontAPI interface {
	SetFeatureActive(ctx context.Context, shop, accessToken string, active bool) error
}

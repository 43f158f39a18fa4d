package model

// Webhook topics as delivered by the provider. Anything else is rejected.
const (
	TopicAppUninstalled       = "APP_UNINSTALLED"
	TopicSubscriptionsUpdate  = "APP_SUBSCRIPTIONS_UPDATE"
	TopicCustomersDataRequest = "CUSTOMERS_DATA_REQUEST"
	TopicCustomersRedact      = "CUSTOMERS_REDACT"
	TopicShopRedact           = "SHOP_REDACT"
)

// WebhookEvent is one provider-initiated delivery. Payload is the raw JSON
// body; each topic handler decodes only the fields it needs.
type WebhookEvent struct {
	Topic   string
	Shop    string
	Payload []byte
}

// SubscriptionUpdatePayload is the slice of the APP_SUBSCRIPTIONS_UPDATE body
// the synchronizer cares about.
type SubscriptionUpdatePayload struct {
	AppSubscription struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	} `json:"app_subscription"`
}

// SubscriptionStatusActive is the provider's status string for a live charge.
const SubscriptionStatusActive = "ACTIVE"

package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"visualcart-billing/internal/domain"
	"visualcart-billing/internal/domain/model"
	"visualcart-billing/internal/infra/shopify"
)

type subscribeRequest struct {
	PromoCode string `json:"promo_code"`
}

type subscribeResponse struct {
	ConfirmationURL string `json:"confirmation_url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shop := shopFromContext(ctx)

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := s.tokens.AccessToken(ctx, shop)
	if err != nil {
		s.log.Warn().Err(err).Str("shop", shop).Msg("no stored token for subscribe")
		http.Error(w, "Shop is not installed", http.StatusForbidden)
		return
	}

	confirmationURL, err := s.subscribeUC.Subscribe(ctx, shop, token, req.PromoCode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPromoCode),
			errors.Is(err, domain.ErrInactivePromoCode),
			errors.Is(err, domain.ErrUnsupportedPromoCombination):
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrGatewayUnavailable):
			http.Error(w, "Billing provider unavailable", http.StatusBadGateway)
		default:
			s.log.Error().Err(err).Str("shop", shop).Msg("subscribe failed")
			http.Error(w, "Failed to start subscription", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, subscribeResponse{ConfirmationURL: confirmationURL})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shop := shopFromContext(ctx)

	res, err := s.entitlementUC.Status(ctx, shop)
	if err != nil {
		if errors.Is(err, domain.ErrGatewayUnavailable) {
			http.Error(w, "Billing provider unavailable", http.StatusBadGateway)
			return
		}
		s.log.Error().Err(err).Str("shop", shop).Msg("status check failed")
		http.Error(w, "Failed to check subscription status", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shop := shopFromContext(ctx)

	if err := s.entitlementUC.Activate(ctx, shop); err != nil {
		s.log.Error().Err(err).Str("shop", shop).Msg("activation failed")
		http.Error(w, "Failed to activate", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleWebhook authenticates the raw body against the app secret before any
// parsing, then hands the event to the synchronizer. The delivery is acked
// only after every effect completed; a 5xx makes the provider redeliver.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	if !shopify.VerifyWebhookSignature(s.webhookSecret, body, r.Header.Get(shopify.HeaderHmacSHA256)) {
		s.log.Warn().Str("topic", r.Header.Get(shopify.HeaderTopic)).Msg("webhook HMAC rejected")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	event := model.WebhookEvent{
		Topic:   shopify.NormalizeTopic(r.Header.Get(shopify.HeaderTopic)),
		Shop:    r.Header.Get(shopify.HeaderShopDomain),
		Payload: body,
	}

	if err := s.webhookUC.Handle(r.Context(), event); err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownWebhookTopic):
			http.Error(w, "Unknown topic", http.StatusNotFound)
		case errors.Is(err, domain.ErrInvalidArgument):
			http.Error(w, "Malformed payload", http.StatusBadRequest)
		default:
			s.log.Error().Err(err).Str("topic", event.Topic).Str("shop", event.Shop).Msg("webhook processing failed")
			http.Error(w, "Processing failed", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

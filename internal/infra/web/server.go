package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"visualcart-billing/internal/domain/ports/repository"
	"visualcart-billing/internal/infra/shopify"
	"visualcart-billing/internal/usecase"
)

// Server wires the embedded-app API and the webhook receiver. Webhook bodies
// are authenticated by HMAC, API calls by the session token the embedded
// frontend sends on every request.
type Server struct {
	subscribeUC   usecase.SubscribeUseCase
	entitlementUC usecase.EntitlementUseCase
	webhookUC     usecase.WebhookUseCase
	tokens        *usecase.TokenResolver
	verifier      *shopify.SessionTokenVerifier
	webhookSecret string
	log           *zerolog.Logger

	srv *http.Server
}

func NewServer(
	subscribeUC usecase.SubscribeUseCase,
	entitlementUC usecase.EntitlementUseCase,
	webhookUC usecase.WebhookUseCase,
	sessions repository.SessionRepository,
	shops repository.ShopAccountRepository,
	verifier *shopify.SessionTokenVerifier,
	webhookSecret string,
	log *zerolog.Logger,
) *Server {
	return &Server{
		subscribeUC:   subscribeUC,
		entitlementUC: entitlementUC,
		webhookUC:     webhookUC,
		tokens:        usecase.NewTokenResolver(shops, sessions),
		verifier:      verifier,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

// Router builds the full route tree. Exposed for tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/webhooks", s.handleWebhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.sessionAuth)
		r.Post("/subscribe", s.handleSubscribe)
		r.Get("/status", s.handleStatus)
		r.Post("/activate", s.handleActivate)
	})

	return r
}

func (s *Server) Start(port int) error {
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Str("addr", s.srv.Addr).Msg("HTTP server listening")
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

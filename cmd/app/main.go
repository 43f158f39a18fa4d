// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"visualcart-billing/internal/config"
	pg "visualcart-billing/internal/infra/db/postgres"
	"visualcart-billing/internal/infra/logging"
	"visualcart-billing/internal/infra/metrics"
	red "visualcart-billing/internal/infra/redis"
	"visualcart-billing/internal/infra/security"
	"visualcart-billing/internal/infra/shopify"
	"visualcart-billing/internal/infra/web"
	"visualcart-billing/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, extra detail)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}
	logger.Info().
		Str("api_key", logging.Redact(cfg.Shopify.APIKey, cfg.Runtime.Dev)).
		Str("api_version", cfg.Shopify.APIVersion).
		Msg("shopify app configured")

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)

	// ---- Token encryption ----
	var cipher *security.TokenCipher
	if cfg.Security.EncryptionKey != "" {
		cipher, err = security.NewTokenCipher(cfg.Security.EncryptionKey)
		if err != nil {
			logger.Fatal().Err(err).Msg("token cipher")
		}
	} else {
		logger.Warn().Msg("security.encryption_key not set; access tokens stored in plaintext")
	}

	// ---- Repositories ----
	shopRepo := pg.NewShopRepo(pool, cipher)
	promoRepo := pg.NewPromoRepoCacheDecorator(pg.NewPromoRepo(pool), redisClient, cfg.Redis.TTL)
	sessionRepo := pg.NewSessionRepo(pool, cipher)
	txManager := pg.NewTxManager(pool)

	// ---- Provider adapters ----
	gql := shopify.NewGraphQLClient(cfg.Shopify.APIVersion)
	gateway := shopify.NewBillingGateway(gql, cfg.Shopify.TestBilling)
	storefront := shopify.NewMetafieldFlag(gql)
	verifier := shopify.NewSessionTokenVerifier(cfg.Shopify.APIKey, cfg.Shopify.APISecret)

	// ---- Use cases ----
	resolver := usecase.NewPromoResolver(promoRepo)
	subscribeUC := usecase.NewSubscribeUseCase(resolver, shopRepo, gateway, cfg.Shopify.AppURL, logger)
	entitlementUC := usecase.NewEntitlementUseCase(shopRepo, promoRepo, sessionRepo, gateway, storefront, locker, logger)
	webhookUC := usecase.NewWebhookUseCase(txManager, shopRepo, sessionRepo, storefront, logger)

	// ---- HTTP server ----
	srv := web.NewServer(subscribeUC, entitlementUC, webhookUC, sessionRepo, shopRepo, verifier, cfg.Shopify.APISecret, logger)
	go func() {
		if err := srv.Start(cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}

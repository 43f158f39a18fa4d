package main

import (
	"context"
	"flag"
	"log"

	"visualcart-billing/internal/config"
	"visualcart-billing/internal/domain/model"
	"visualcart-billing/internal/infra/db/postgres"
	"visualcart-billing/internal/infra/redis"

	"github.com/jackc/pgx/v4/pgxpool"
)

// This script sets up a clean, predictable database state for manual
// end-to-end testing against a development store.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	// --- Connect to Postgres ---
	pool, err := postgres.NewPgxPool(ctx, cfg.Database.URL, 5)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer pool.Close()

	// --- Connect to Redis ---
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	defer redisClient.Close()

	log.Println("--- Starting E2E Environment Setup ---")

	log.Println("[1/4] Ensuring schema...")
	ensureSchema(ctx, pool)

	log.Println("[2/4] Wiping Redis cache...")
	if err := redisClient.FlushDB(ctx); err != nil {
		log.Fatalf("failed to flush redis: %v", err)
	}

	log.Println("[3/4] Wiping existing rows...")
	if _, err := pool.Exec(ctx, `TRUNCATE shops, promo_codes, sessions RESTART IDENTITY CASCADE;`); err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	log.Println("[4/4] Seeding promo catalog...")
	seedPromos(ctx, pool)

	log.Println("--- E2E Environment Setup Complete ---")
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS shops (
			shop_domain         TEXT PRIMARY KEY,
			access_token        TEXT NOT NULL DEFAULT '',
			subscription_active BOOLEAN NOT NULL DEFAULT FALSE,
			plan                TEXT NOT NULL DEFAULT 'free',
			pending_promo_code  TEXT,
			credit_applied      BOOLEAN NOT NULL DEFAULT FALSE,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS promo_codes (
			code             TEXT PRIMARY KEY,
			type             TEXT NOT NULL,
			discount_percent INT NOT NULL,
			is_active        BOOLEAN NOT NULL DEFAULT TRUE,
			description      TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id           TEXT PRIMARY KEY,
			shop         TEXT NOT NULL,
			access_token TEXT NOT NULL,
			scope        TEXT NOT NULL DEFAULT '',
			expires_at   TIMESTAMPTZ,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_shop ON sessions (shop)`,
	}
	for _, stmt := range ddl {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalf("schema: %v", err)
		}
	}
}

func seedPromos(ctx context.Context, pool *pgxpool.Pool) {
	promoRepo := postgres.NewPromoRepo(pool)

	oneTime, _ := model.NewPromoCode("90FIRSTMONTH", model.PromoTypeOneTime, 90, true, "90% off first month - one-time discount")
	if err := promoRepo.Save(ctx, nil, oneTime); err != nil {
		log.Printf("failed to save 90FIRSTMONTH: %v", err)
	}

	recurring, _ := model.NewPromoCode("50MONTHLY", model.PromoTypeRecurring, 50, true, "50% off every month - recurring discount")
	if err := promoRepo.Save(ctx, nil, recurring); err != nil {
		log.Printf("failed to save 50MONTHLY: %v", err)
	}
}

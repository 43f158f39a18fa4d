package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"visualcart-billing/internal/config"
	"visualcart-billing/internal/domain/model"
	pg "visualcart-billing/internal/infra/db/postgres"
)

// Seeds the promo catalog. Safe to run repeatedly: Save upserts by code.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	promoRepo := pg.NewPromoRepo(pool)

	seed := []struct {
		Code        string
		Type        model.PromoType
		Percent     int
		Description string
	}{
		{"90FIRSTMONTH", model.PromoTypeOneTime, 90, "90% off first month - one-time discount"},
		{"50MONTHLY", model.PromoTypeRecurring, 50, "50% off every month - recurring discount"},
	}

	for _, s := range seed {
		promo, err := model.NewPromoCode(s.Code, s.Type, s.Percent, true, s.Description)
		if err != nil {
			log.Fatalf("build promo %q: %v", s.Code, err)
		}
		if err := promoRepo.Save(ctx, nil, promo); err != nil {
			log.Fatalf("save promo %q: %v", s.Code, err)
		}
		fmt.Printf("seeded: %s (%s, %d%%)\n", promo.Code, promo.Type, promo.DiscountPercent)
	}

	fmt.Println("Seeding complete.")
}

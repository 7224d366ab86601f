package main

import (
	"context"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"shopapi/internal/config"
	"shopapi/internal/db"
	"shopapi/internal/metrics"
	cartrepo "shopapi/internal/repository/cart"
	cartsvc "shopapi/internal/service/cart"
)

// Sweeps session carts that have been idle longer than CART_MAX_AGE_DAYS.
// Intended to run from cron; user carts are never touched.
func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[cleanup] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	carts := cartsvc.New(cartrepo.NewPostgres(pool, logger), metrics.New(prometheus.NewRegistry()))
	removed, err := carts.CleanupOldCarts(ctx, cfg.CartMaxAgeDays)
	if err != nil {
		logger.Fatalf("cleanup old carts: %v", err)
	}

	logger.Printf("removed %d stale session cart lines (older than %d days)", removed, cfg.CartMaxAgeDays)
}

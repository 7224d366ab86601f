package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"shopapi/internal/config"
	"shopapi/internal/db"
	"shopapi/internal/httpserver"
	"shopapi/internal/metrics"
	cartrepo "shopapi/internal/repository/cart"
	orderrepo "shopapi/internal/repository/order"
	productrepo "shopapi/internal/repository/product"
	supplierrepo "shopapi/internal/repository/supplier"
	tokenrepo "shopapi/internal/repository/token"
	userrepo "shopapi/internal/repository/user"
	cartsvc "shopapi/internal/service/cart"
	ordersvc "shopapi/internal/service/order"
	productsvc "shopapi/internal/service/product"
	suppliersvc "shopapi/internal/service/supplier"
	usersvc "shopapi/internal/service/user"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	m := metrics.New(prometheus.DefaultRegisterer)

	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	userService := usersvc.New(userRepo, tokenRepo)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	productService := productsvc.New(productRepo)
	supplierRepo := supplierrepo.NewPostgres(dbpool, logger)
	supplierService := suppliersvc.New(supplierRepo)
	cartRepo := cartrepo.NewPostgres(dbpool, logger)
	cartService := cartsvc.New(cartRepo, m)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	orderService := ordersvc.New(orderRepo, cartRepo, m)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		UserSvc:     userService,
		ProductSvc:  productService,
		SupplierSvc: supplierService,
		CartSvc:     cartService,
		OrderSvc:    orderService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"appliance_store/cache"
	"appliance_store/checkout"
	"appliance_store/config"
	"appliance_store/coupon"
	"appliance_store/database"
	"appliance_store/handler"
	"appliance_store/helper"
	"appliance_store/ledger"
	"appliance_store/logger"
	"appliance_store/metrics"
	"appliance_store/notify"
	"appliance_store/payment"
	"appliance_store/pricing"
	"appliance_store/router"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const serviceName = "appliance-store"

func newCache(cfg config.AppConfig, log *zap.Logger) cache.Cache {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, using in-memory cache")
		return cache.NewMemoryCache(serviceName)
	}

	rc, err := cache.NewRedisCache(cfg.RedisURL, serviceName)
	if err != nil {
		log.Warn("invalid REDIS_URL, using in-memory cache", zap.Error(err))
		return cache.NewMemoryCache(serviceName)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		log.Warn("redis unreachable, using in-memory cache", zap.Error(err))
		_ = rc.Close()
		return cache.NewMemoryCache(serviceName)
	}
	log.Info("connected to redis")
	return rc
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	c := newCache(cfg, log)
	if closer, ok := c.(*cache.RedisCache); ok {
		defer func() { _ = closer.Close() }()
	}

	runner := notify.NewRunner(notify.NewMailDispatcher(cfg.SMTP, cfg.FrontendURL, log), log, m)
	orders := ledger.New(db)
	coupons := coupon.NewService(db, log, m)
	warranty := pricing.NewWarrantyResolver(db, c)
	payments := payment.NewService(db, orders, c, runner, log, m, payment.Options{
		APIBaseURL:  cfg.APIBaseURL,
		FrontendURL: cfg.FrontendURL,
	})
	checkouts := checkout.NewService(db, orders, coupons, warranty, payments, runner, log, m)

	h := handler.New(handler.Deps{
		DB:           db,
		Ledger:       orders,
		Coupons:      coupons,
		Payments:     payments,
		Checkout:     checkouts,
		Notifier:     runner,
		Log:          log,
		JWTSecret:    []byte(cfg.JWTSecret),
		SecureCookie: !cfg.IsDevelopment(),
	})

	app := router.New(h, router.Options{
		DB:          db,
		JWTSecret:   []byte(cfg.JWTSecret),
		FrontendURL: cfg.FrontendURL,
		DevMode:     cfg.IsDevelopment(),
		Log:         log,
		Metrics:     m,
		Gatherer:    registry,
	})

	paymentExpiry, err := helper.StartPaymentExpiryScheduler(cfg.PaymentExpirySchedule, cfg.PaymentTransactionTTL, payments, log)
	if err != nil {
		log.Fatal("failed to start payment expiry scheduler", zap.Error(err))
	}
	couponExpiry, err := helper.StartCouponExpiryScheduler(uint(cfg.CouponExpiryHour), coupons, log)
	if err != nil {
		log.Fatal("failed to start coupon expiry scheduler", zap.Error(err))
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("server stopped", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	<-paymentExpiry.Stop().Done()
	if err := couponExpiry.Shutdown(); err != nil {
		log.Error("coupon scheduler shutdown failed", zap.Error(err))
	}
	runner.Wait()
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-ordering-api/cart"
	"food-ordering-api/chat"
	"food-ordering-api/config"
	"food-ordering-api/handlers"
	"food-ordering-api/middleware"
	"food-ordering-api/payment"
	"food-ordering-api/repository"
	"food-ordering-api/routes"
	"food-ordering-api/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	log := config.NewLogger(cfg)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	db, err := config.OpenDB(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis not reachable, cart operations will fail until it is", "addr", cfg.RedisAddr, "error", err)
	}

	if cfg.PaymentKeyID == "" || cfg.PaymentKeySecret == "" {
		log.Warn("payment gateway keys are not configured")
	}

	issuer := middleware.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	hub := chat.NewHub(log)
	svc := services.New(services.Deps{
		Repos:       repository.New(db),
		Carts:       cart.NewRedisStore(rdb, cfg.CartTTL),
		Gateway:     payment.NewRazorpay(cfg.PaymentGatewayURL, cfg.PaymentKeyID, cfg.PaymentKeySecret),
		Tokens:      issuer,
		Chat:        hub,
		Currency:    cfg.PaymentCurrency,
		DeliveryFee: cfg.DeliveryFee,
		Log:         log,
	})

	// gin.Default adds the request logger and panic recovery
	r := gin.Default()
	routes.SetupRoutes(r, handlers.New(svc, hub, log), issuer)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		log.Info("server running", "addr", "http://localhost:"+cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

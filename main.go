package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"ticketing-api/internal/admin"
	admindb "ticketing-api/internal/admin/db"
	"ticketing-api/internal/analytics"
	"ticketing-api/internal/auth"
	"ticketing-api/internal/catalog"
	catalogdb "ticketing-api/internal/catalog/db"
	"ticketing-api/internal/config"
	"ticketing-api/internal/customer"
	customerdb "ticketing-api/internal/customer/db"
	"ticketing-api/internal/database"
	"ticketing-api/internal/database/migrations"
	"ticketing-api/internal/kafka"
	"ticketing-api/internal/logger"
	"ticketing-api/internal/purchase"
	purchasedb "ticketing-api/internal/purchase/db"
	"ticketing-api/internal/purchase/qr"
	"ticketing-api/internal/server"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	log := logger.NewLogger(cfg.Log.Dir, cfg.Log.Level)
	defer log.Close()

	if envErr != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal("APP", errors.FlattenDetails(err))
	}
	log.Info("APP", "Ticketing API shutdown complete")
}

func run(cfg *config.Config, log *logger.Logger) error {
	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bunDB, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer bunDB.Close()

	if cfg.Database.AutoMigrate {
		if err := migrations.NewRunner(bunDB, log).Up(ctx); err != nil {
			return err
		}
	}

	var revoker auth.Revoker = auth.NoopRevoker{}
	if cfg.Redis.Addr != "" {
		rdb, err := auth.ConnectRedis(ctx, cfg.Redis, log)
		if err != nil {
			return err
		}
		defer rdb.Close()
		revoker = auth.NewRedisRevoker(rdb)
	} else {
		log.Warn("REDIS", "REDIS_ADDR not set, logout will not revoke tokens")
	}

	var publisher purchase.EventPublisher
	if cfg.Kafka.Enabled {
		topic := cfg.Kafka.Topics.PurchaseCompleted
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, []string{topic}, log); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
		producer := kafka.NewProducer(cfg.Kafka.Brokers, topic, log)
		defer producer.Close()
		publisher = producer
		log.Info("KAFKA", "Kafka producer initialized successfully")
	}

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)
	customers := customer.NewCustomerService(&customerdb.DB{Bun: bunDB}, issuer, revoker, log)
	if cfg.Auth.AdminEmail != "" {
		if err := customers.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			return err
		}
	}

	handler := server.NewRouter(server.Deps{
		Logger:        log,
		Authenticator: auth.NewAuthenticator(issuer, revoker, log),
		Customers:     customers,
		Catalog:       catalog.NewCatalogService(&catalogdb.DB{Bun: bunDB}),
		Purchases:     purchase.NewPurchaseService(&purchasedb.DB{Bun: bunDB}, publisher, qr.NewQRGenerator(cfg.Auth.QRSecret), log),
		Admin:         admin.NewAdminService(&admindb.DB{Bun: bunDB}, log),
		Analytics:     analytics.NewService(&analytics.DB{Bun: bunDB}),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP", fmt.Sprintf("Ticketing API running on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return errors.Wrap(srv.Shutdown(shutdownCtx), "http shutdown")
	})

	return g.Wait()
}

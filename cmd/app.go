package cmd

import (
	"fmt"

	"stripe-sync/core/config"
	"stripe-sync/core/database"
	"stripe-sync/core/lock"
	"stripe-sync/core/logger"
	"stripe-sync/core/payments"
	"stripe-sync/core/platform"
	"stripe-sync/core/reconcile"
	"stripe-sync/core/storage"
	"stripe-sync/feature/customers"
	"stripe-sync/feature/integrity"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the wired collaborators shared by every command.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *gorm.DB
	store  *platform.Store
	redis  *redis.Client
	bucket storage.Client

	// Nil when no Stripe secret key is configured.
	stripe     payments.Client
	engine     *reconcile.Engine
	customers  *customers.Service
	dispatcher *reconcile.Dispatcher
}

// bootstrap loads the configuration and wires the application. With needStripe the
// Stripe secret key is mandatory; without it the Stripe-backed parts stay nil.
func bootstrap(needStripe bool) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if needStripe {
		if err := cfg.RequireStripe(); err != nil {
			return nil, err
		}
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, log: logg}

	a.db, err = database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}
	a.store, err = platform.NewStore(a.db, cfg.Platform)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.log = a.log.With(zap.String("platform", cfg.Platform.Profile))

	if cfg.Storage.Enabled {
		a.bucket, err = storage.NewClient(cfg.Storage)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	if cfg.Stripe.SecretKey == "" {
		a.log.Warn("STRIPE_SECRET_KEY is not set, Stripe-backed operations are unavailable")
		return a, nil
	}

	client, err := payments.NewStripeClient(cfg.Stripe, a.log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.stripe = client

	opts, err := a.engineOptions()
	if err != nil {
		a.Close()
		return nil, err
	}

	resolver := reconcile.NewResolver(client, cfg.Stripe.Timeout(), a.log)
	a.engine = reconcile.NewEngine(a.store, reconcile.NewPlatformMapping(a.store), resolver, cfg.Sync, a.log, opts...)
	a.customers = customers.NewService(a.engine, a.store, client, a.log)
	a.dispatcher = reconcile.NewDispatcher(a.engine, a.log)
	return a, nil
}

func (a *app) engineOptions() ([]reconcile.Option, error) {
	var locker lock.Locker
	if a.cfg.Redis.Enabled() {
		rdb, err := lock.NewRedisClient(a.cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.redis = rdb
		locker = lock.NewRedisLocker(rdb, a.cfg.Redis, a.log)
		a.log.Info("Distributed run lock enabled")
	}

	opts := []reconcile.Option{reconcile.WithGuard(lock.NewGuard(locker, a.log))}
	if a.bucket != nil {
		opts = append(opts, reconcile.WithReporter(
			customers.NewArchive(a.bucket, a.cfg.Storage.Bucket, a.cfg.Storage.ReportPrefix, a.log)))
	}
	return opts, nil
}

// integrity builds the integrity service; storage and Stripe checks degrade when unconfigured.
func (a *app) integrity() *integrity.Service {
	return integrity.NewService(a.db, a.store.Schema(), a.bucket, a.cfg.Storage, a.stripe, a.log)
}

// Close releases the database and redis connections and flushes the logger.
func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = a.log.Sync()
}

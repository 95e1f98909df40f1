package main

import (
	"context"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Tin21habesha/primetrade.ai-backend/adapters/cache"
	"github.com/Tin21habesha/primetrade.ai-backend/adapters/events"
	"github.com/Tin21habesha/primetrade.ai-backend/adapters/hasher"
	"github.com/Tin21habesha/primetrade.ai-backend/adapters/store"
	"github.com/Tin21habesha/primetrade.ai-backend/adapters/tokenizer"
	"github.com/Tin21habesha/primetrade.ai-backend/config"
	"github.com/Tin21habesha/primetrade.ai-backend/ports"
	"github.com/Tin21habesha/primetrade.ai-backend/service"
	transport "github.com/Tin21habesha/primetrade.ai-backend/transport/http"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	tok, err := tokenizer.NewJWTTokenizer(tokenizer.Config{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTTL(),
		RefreshTTL:    cfg.RefreshTTL(),
		Issuer:        "primetrade",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("tokenizer setup failed")
	}

	bcryptHasher, err := hasher.NewBcryptHasher(cfg.BcryptCost, cfg.HashWorkers)
	if err != nil {
		log.Fatal().Err(err).Msg("hasher setup failed")
	}
	defer bcryptHasher.Close()

	db := connectPostgres(cfg, log)
	gormStore := store.NewGormStore(db, store.DefaultOpTimeout)

	var responseCache ports.ResponseCache
	var eventPub ports.EventPublisher
	if cfg.RedisURL != "" {
		redisClient := connectRedis(cfg, log)
		responseCache = cache.NewRedisCache(redisClient)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			log.Fatal().Err(err).Msg("event publisher setup failed")
		}
		eventPub = events.NewWatermillPublisher(publisher)
	}

	authService := service.NewAuthService(
		gormStore.Principals(),
		gormStore.Sessions(),
		tok,
		bcryptHasher,
		eventPub,
		log,
	)
	productService := service.NewProductService(gormStore.Products())
	userService := service.NewUserService(gormStore.Principals(), gormStore.Sessions())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := transport.NewMetrics(registry)

	router := transport.SetupRouter(transport.RouterConfig{
		Auth:          authService,
		Products:      productService,
		Users:         userService,
		Cache:         responseCache,
		CacheTTL:      cfg.CacheTTL(),
		Metrics:       metrics,
		Registry:      registry,
		SecureCookies: cfg.Production(),
		Log:           log,
	})

	log.Info().Str("addr", cfg.ServerAddr).Msg("starting server")
	if err := router.Run(cfg.ServerAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// connectPostgres opens and migrates the relational store, retrying a bounded
// number of times before giving up. The process exits rather than serving
// requests it cannot persist.
func connectPostgres(cfg *config.Config, log zerolog.Logger) *gorm.DB {
	var db *gorm.DB
	err := withRetry(cfg, log, "postgres", func() error {
		var openErr error
		db, openErr = store.Open(cfg.DatabaseURL)
		return openErr
	})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres unreachable, giving up")
	}

	if err := store.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	return db
}

// connectRedis dials redis with the same bounded retry policy.
func connectRedis(cfg *config.Config, log zerolog.Logger) *redis.Client {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_URL")
	}

	client := redis.NewClient(opts)
	err = withRetry(cfg, log, "redis", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return client.Ping(ctx).Err()
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis unreachable, giving up")
	}
	return client
}

// withRetry runs connect up to the configured attempt count with a fixed
// backoff between failures.
func withRetry(cfg *config.Config, log zerolog.Logger, target string, connect func() error) error {
	attempts := cfg.ConnectAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = connect(); err == nil {
			log.Info().Str("target", target).Int("attempt", attempt).Msg("connected")
			return nil
		}
		log.Warn().Err(err).Str("target", target).
			Int("attempt", attempt).Int("max_attempts", attempts).
			Msg("connection failed")
		if attempt < attempts {
			time.Sleep(cfg.RetryBackoff())
		}
	}
	return err
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pos-api/cache"
	"pos-api/config"
	"pos-api/controllers"
	"pos-api/database"
	"pos-api/dtos"
	"pos-api/events"
	"pos-api/logger"
	"pos-api/metrics"
	"pos-api/routes"
	"pos-api/seeders"
	"pos-api/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info")
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log := logger.New(cfg.LogLevel)
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	gin.SetMode(cfg.GinMode)
	dtos.RegisterValidation()

	// connect db
	store, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return err
	}

	ctx := context.Background()
	if cfg.Seed {
		if err := seeders.Seed(ctx, store, log); err != nil {
			return err
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = cache.Connect(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, log)
		if redisClient != nil {
			defer redisClient.Close()
		}
	}
	catalog := cache.NewCatalog(redisClient, cfg.Redis.TTL, log)

	var publisher events.Publisher = events.Nop{}
	if cfg.Kafka.Enabled() {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Publishing purchase events")
	}
	defer publisher.Close()

	m := metrics.New("api")

	h := routes.Controllers{
		Health:       controllers.NewHealthController(store),
		Products:     controllers.NewProductController(services.NewProductService(store, catalog)),
		Purchases:    controllers.NewPurchaseController(services.NewPurchaseService(store, publisher, m)),
		Transactions: controllers.NewTransactionController(services.NewTransactionService(store)),
	}

	var origins []string
	if !cfg.AllowAllOrigins() {
		origins = cfg.CORSOrigins
	}
	r := routes.NewRouter(log, origins, h, m)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

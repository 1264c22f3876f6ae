package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-warung-pos/internal/activity"
	"github.com/ariefcatur/go-warung-pos/internal/cart"
	"github.com/ariefcatur/go-warung-pos/internal/config"
	"github.com/ariefcatur/go-warung-pos/internal/events"
	"github.com/ariefcatur/go-warung-pos/internal/httpx"
	kafkax "github.com/ariefcatur/go-warung-pos/internal/kafka"
	"github.com/ariefcatur/go-warung-pos/internal/live"
	"github.com/ariefcatur/go-warung-pos/internal/logx"
	"github.com/ariefcatur/go-warung-pos/internal/menu"
	"github.com/ariefcatur/go-warung-pos/internal/orders"
	"github.com/ariefcatur/go-warung-pos/internal/postgres"
	"github.com/ariefcatur/go-warung-pos/internal/redisx"
	"github.com/ariefcatur/go-warung-pos/internal/report"
	"github.com/ariefcatur/go-warung-pos/internal/schedule"
	"github.com/ariefcatur/go-warung-pos/internal/users"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logx.New(cfg.LogLevel, cfg.ServiceName)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer, one writer for every topic
	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024, log)
	prod.Start(ctx)
	publisher := &events.KafkaPublisher{Producer: prod, Service: cfg.ServiceName}

	// Repos & services
	menuRepo := &menu.Repo{DB: db}
	scheduleRepo := &schedule.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	activityRepo := &activity.Repo{DB: db}
	carts := cart.NewRedisStore(rdb)
	kitchen := &report.RedisKitchenCache{Redis: rdb}

	svc := &orders.Service{
		Orders:       orderRepo,
		Stock:        menuRepo,
		Schedules:    scheduleRepo,
		Carts:        carts,
		Activity:     activityRepo,
		Events:       publisher,
		Idempotency:  &orders.RedisIdempotency{Redis: rdb},
		Kitchen:      kitchen,
		Location:     cfg.Location,
		PublicUserID: cfg.PublicUserID,
		AdminPhone:   cfg.AdminPhone,
		Log:          log.With().Str("component", "orders").Logger(),
	}

	router := httpx.NewRouter(&httpx.API{
		Menu:              menuRepo,
		Schedules:         scheduleRepo,
		Carts:             carts,
		Orders:            svc,
		Reports:           orderRepo,
		Users:             &users.Repo{DB: db},
		Activity:          activityRepo,
		Events:            publisher,
		Kitchen:           kitchen,
		Live:              live.NewRedisBroker(rdb, log),
		Location:          cfg.Location,
		PaymentQRPath:     cfg.PaymentQRPath,
		AdminPhone:        cfg.AdminPhone,
		LowStockThreshold: cfg.LowStockThreshold,
		Log:               log,
	})

	// HTTP server; no write timeout because /live streams
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	// graceful shutdown
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // close inbox, flush and close the writer
	cancel()          // stop producer loop
	prod.WaitClosed() // drain
}

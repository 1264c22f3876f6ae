package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-warung-pos/internal/config"
	"github.com/ariefcatur/go-warung-pos/internal/events"
	kafkax "github.com/ariefcatur/go-warung-pos/internal/kafka"
	"github.com/ariefcatur/go-warung-pos/internal/live"
	"github.com/ariefcatur/go-warung-pos/internal/logx"
	"github.com/ariefcatur/go-warung-pos/internal/redisx"
	"github.com/joho/godotenv"
)

// worker consumes domain events and keeps the Redis read side (kitchen cache, live feed) current.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	service := cfg.ServiceName + "-worker"
	log := logx.New(cfg.LogLevel, service)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	projector := &live.Projector{
		Cache:    &live.RedisCache{Redis: rdb},
		Notifier: live.NewRedisBroker(rdb, log),
		Service:  service,
		Log:      log,
	}

	// Consumer
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.WorkerGroup, events.AllTopics, cfg.WorkerConcurrency, log)
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info().
			Str("group", cfg.WorkerGroup).
			Strs("topics", events.AllTopics).
			Int("workers", cfg.WorkerConcurrency).
			Msg("worker consumer started")
		if err := cons.Start(ctx, projector.Handle); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("consumer exit")
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down consumer...")
	cancel()
	<-done
}

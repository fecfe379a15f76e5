package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spacesedan/ulasan/config"
	"github.com/spacesedan/ulasan/internal/clients"
	"github.com/spacesedan/ulasan/internal/clients/kafka_client"
	"github.com/spacesedan/ulasan/internal/consumers"
	"github.com/spacesedan/ulasan/internal/logging"
	"github.com/spacesedan/ulasan/internal/monitoring"
	"github.com/spacesedan/ulasan/internal/setup"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	kafkaCfg := kafka_client.GetKafkaConfig()

	p, closeScorer, err := setup.Pipeline(cfg)
	defer closeScorer()
	if err != nil {
		slog.Error("[Main] Failed to build pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for {
		err := kafka_client.InitProducer(kafkaCfg)
		if err == nil {
			break
		}

		slog.Warn("[Main] Kafka init failed, retrying...", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
	defer kafka_client.CloseProducer()

	valkeyHealthy := &atomic.Bool{}
	var dedupe consumers.DedupeStore

	valkey, err := clients.NewValkeyClient(clients.ValkeyConfig{
		Address:  cfg.Valkey.Address,
		Password: cfg.Valkey.Password,
		TLS:      cfg.Valkey.TLS,
	})
	if err != nil {
		slog.Warn("[Main] Valkey unavailable, running without dedupe",
			slog.String("error", err.Error()))
	} else {
		defer valkey.Close()
		dedupe = valkey
		valkeyHealthy.Store(true)
		go monitoring.MonitorValkeyHealth(ctx, valkeyHealthy, valkey.Ping)
	}

	metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: promhttp.Handler()}
	go func() {
		slog.Info("[Main] Serving metrics", slog.String("addr", cfg.MetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Metrics server failed", slog.String("error", err.Error()))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	commentConsumer := consumers.NewCommentConsumer(p, dedupe, kafka_client.PublishToKafka)
	kafka_client.RegisterConsumer(kafka_client.KAFKA_TOPIC_RAW_COMMENTS,
		consumers.WrapConsumer(commentConsumer.Start).WithHealthCheck(valkeyHealthy).Handler())

	if err := kafka_client.StartConsumer(ctx, kafkaCfg); err != nil {
		slog.Error("[Main] Failed to start consumer",
			slog.String("error", err.Error()))
	}
}

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spacesedan/ulasan/config"
	"github.com/spacesedan/ulasan/internal/clients/kafka_client"
	"github.com/spacesedan/ulasan/internal/logging"
	"github.com/spacesedan/ulasan/internal/producer"
	"github.com/spacesedan/ulasan/internal/sources"
)

func main() {
	platform := flag.String("platform", sources.PLATFORM_YOUTUBE, "youtube, tiktok or file")
	urls := flag.String("urls", "", "comma separated video URLs or file paths")
	limit := flag.Int("limit", 0, "maximum comments per URL (0 = no limit)")
	field := flag.String("field", "", "column holding the comment text")
	interval := flag.Duration("interval", 0, "re-fetch every interval; 0 runs once")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	targets := splitURLs(*urls)
	if len(targets) == 0 {
		slog.Error("[Main] -urls is required")
		os.Exit(1)
	}

	cfg := config.FromEnv()
	src, err := sources.New(*platform, sources.Config{
		YouTubeAPIKey:     cfg.YouTube.APIKey,
		YouTubeOAuthToken: cfg.YouTube.OAuthToken,
		YouTubeDownloader: cfg.YouTubeDownloader,
		TikTokScraper:     cfg.TikTokScraper,
	})
	if err != nil {
		slog.Error("[Main] Failed to build source", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		err := kafka_client.InitProducer(kafka_client.GetKafkaConfig())
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

	p := producer.New(src, kafka_client.PublishToKafka, *field)
	fetchAll := func() {
		for _, u := range targets {
			if _, err := p.FetchAndPublish(ctx, u, *limit); err != nil {
				slog.Error("[Main] Failed processing URL",
					slog.String("url", u),
					slog.String("error", err.Error()))
			}
		}
	}

	fetchAll()
	if *interval <= 0 {
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			fetchAll()
		case <-ctx.Done():
			slog.Info("[Main] Shutting down producer gracefully...")
			return
		}
	}
}

func splitURLs(raw string) []string {
	var out []string
	for _, u := range strings.Split(raw, ",") {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

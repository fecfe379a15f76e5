package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/ulasan/config"
	"github.com/spacesedan/ulasan/internal/clients"
	"github.com/spacesedan/ulasan/internal/logging"
	"github.com/spacesedan/ulasan/internal/models"
	"github.com/spacesedan/ulasan/internal/pipeline"
	"github.com/spacesedan/ulasan/internal/report"
	"github.com/spacesedan/ulasan/internal/setup"
	"github.com/spacesedan/ulasan/internal/sources"
)

type options struct {
	platform string
	url      string
	limit    int
	field    string
	format   string
	output   string
	report   string
	title    string
	topWords int
	topics   int
}

func main() {
	var opts options
	flag.StringVar(&opts.platform, "platform", sources.PLATFORM_FILE, "youtube, tiktok, maps or file")
	flag.StringVar(&opts.url, "url", "", "video URL, or a CSV/JSON path when -platform=file")
	flag.IntVar(&opts.limit, "limit", 0, "maximum comments to fetch (0 = no limit)")
	flag.StringVar(&opts.field, "field", "", "column holding the comment text (default: first column containing text or comment)")
	flag.StringVar(&opts.format, "format", "csv", "labeled output format: csv or json")
	flag.StringVar(&opts.output, "output", "-", "labeled output file, - for stdout")
	flag.StringVar(&opts.report, "report", "", "optional HTML report path")
	flag.StringVar(&opts.title, "title", report.DEFAULT_TITLE, "report title")
	flag.IntVar(&opts.topWords, "top-words", report.DEFAULT_TOP_WORDS, "number of top words in the report")
	flag.IntVar(&opts.topics, "topics", 5, "topics to fit for the report when TOPIC_SERVICE_URL is set")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.FromEnv(), opts); err != nil {
		slog.Error("[Analyze] Run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, opts options) error {
	if opts.url == "" {
		return fmt.Errorf("[Analyze] -url is required")
	}
	if opts.format != "csv" && opts.format != "json" {
		return fmt.Errorf("[Analyze] unknown output format %q", opts.format)
	}

	src, err := sources.New(opts.platform, sources.Config{
		YouTubeAPIKey:     cfg.YouTube.APIKey,
		YouTubeOAuthToken: cfg.YouTube.OAuthToken,
		YouTubeDownloader: cfg.YouTubeDownloader,
		TikTokScraper:     cfg.TikTokScraper,
	})
	if err != nil {
		return err
	}

	p, closeScorer, err := setup.Pipeline(cfg)
	defer closeScorer()
	if err != nil {
		return err
	}

	table, err := src.Fetch(ctx, opts.url, opts.limit)
	if err != nil {
		return err
	}
	slog.Info("[Analyze] Fetched comments",
		slog.String("source", table.Source),
		slog.Int("rows", len(table.Rows)))

	comments, err := pipeline.FromTable(table, opts.field)
	if err != nil {
		return err
	}

	labeled, err := p.Run(ctx, comments)
	if err != nil {
		return err
	}
	slog.Info("[Analyze] Labeled comments",
		slog.Int("labeled", len(labeled)),
		slog.Int("dropped", len(comments)-len(labeled)))

	if err := writeOutput(opts.output, func(w io.Writer) error {
		if opts.format == "json" {
			return report.WriteJSON(w, labeled)
		}
		return report.WriteCSV(w, labeled)
	}); err != nil {
		return err
	}

	if opts.report != "" {
		summary := report.Summarize(labeled, opts.topWords)
		if cfg.TopicServiceURL != "" && opts.topics > 0 {
			summary = withTopics(ctx, clients.NewTopicClient(cfg.TopicServiceURL), summary, labeled, opts.topics)
		}
		if err := writeOutput(opts.report, func(w io.Writer) error {
			return report.RenderHTML(w, summary, opts.title)
		}); err != nil {
			return err
		}
		slog.Info("[Analyze] Report written", slog.String("path", opts.report))
	}
	return nil
}

// withTopics attaches fitted topics. A failing topic service only costs the
// topics section.
func withTopics(ctx context.Context, m report.TopicModeler, s report.Summary, labeled []models.LabeledComment, n int) report.Summary {
	docs := make([]string, 0, len(labeled))
	for _, c := range labeled {
		docs = append(docs, c.CleanText)
	}

	out, err := report.WithTopics(ctx, s, m, docs, n)
	if err != nil {
		slog.Warn("[Analyze] Topic fitting failed, report will have no topics",
			slog.String("error", err.Error()))
	}
	return out
}

func writeOutput(path string, write func(w io.Writer) error) error {
	if path == "-" || path == "" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("[Analyze] failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

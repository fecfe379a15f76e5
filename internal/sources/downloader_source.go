package sources

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spacesedan/ulasan/internal/pipeline"
)

const (
	YOUTUBE_DOWNLOADER_BIN = "youtube-comment-downloader"
	TIKTOK_SCRAPER_BIN     = "tiktok-comment-scraper"
	DOWNLOADER_TIMEOUT     = 5 * time.Minute
)

// DownloaderSource shells out to a comment downloader CLI that writes its
// results to a file, then parses that file.
type DownloaderSource struct {
	platform string
	binary   string
	args     func(url, output string, limit int) []string
	timeout  time.Duration
}

func NewYouTubeDownloader(binary string) *DownloaderSource {
	if binary == "" {
		binary = YOUTUBE_DOWNLOADER_BIN
	}
	return &DownloaderSource{
		platform: PLATFORM_YOUTUBE,
		binary:   binary,
		args: func(url, output string, limit int) []string {
			args := []string{"--url", url, "--output", output}
			if limit > 0 {
				args = append(args, "--limit", strconv.Itoa(limit))
			}
			return args
		},
		timeout: DOWNLOADER_TIMEOUT,
	}
}

func NewTikTokDownloader(binary string) *DownloaderSource {
	if binary == "" {
		binary = TIKTOK_SCRAPER_BIN
	}
	return &DownloaderSource{
		platform: PLATFORM_TIKTOK,
		binary:   binary,
		args: func(url, output string, limit int) []string {
			args := []string{"--url", url}
			if limit > 0 {
				args = append(args, "--number", strconv.Itoa(limit))
			}
			return append(args, "--output", output)
		},
		timeout: DOWNLOADER_TIMEOUT,
	}
}

func (ds *DownloaderSource) Fetch(ctx context.Context, url string, limit int) (pipeline.Table, error) {
	dir, err := os.MkdirTemp("", "ulasan-"+ds.platform+"-")
	if err != nil {
		return pipeline.Table{}, fmt.Errorf("[Downloader] failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	output := filepath.Join(dir, "comments.out")

	ctx, cancel := context.WithTimeout(ctx, ds.timeout)
	defer cancel()

	slog.Info("[Downloader] Fetching comments",
		slog.String("platform", ds.platform),
		slog.String("url", url),
		slog.Int("limit", limit))

	cmd := exec.CommandContext(ctx, ds.binary, ds.args(url, output, limit)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return pipeline.Table{}, fmt.Errorf("[Downloader] %s did not finish: %w", ds.binary, ctx.Err())
		}
		return pipeline.Table{}, fmt.Errorf("[Downloader] %s failed: %w: %s",
			ds.binary, err, strings.TrimSpace(string(out)))
	}

	f, err := os.Open(output)
	if err != nil {
		return pipeline.Table{}, fmt.Errorf("[Downloader] %s wrote no output: %w", ds.binary, err)
	}
	defer f.Close()

	return ReadTable(f, "", ds.platform, limit)
}

package sources

import (
	"context"
	"fmt"

	"github.com/spacesedan/ulasan/internal/pipeline"
)

const (
	PLATFORM_YOUTUBE     = "youtube"
	PLATFORM_TIKTOK      = "tiktok"
	PLATFORM_GOOGLE_MAPS = "maps"
	PLATFORM_FILE        = "file"
)

// Source fetches up to limit comments for url and returns them as a table.
// limit <= 0 means no limit.
type Source interface {
	Fetch(ctx context.Context, url string, limit int) (pipeline.Table, error)
}

// ReviewScraper is the boundary for browser-driven scrapers such as Google
// Maps reviews or the TikTok web page. Implementations live outside this repo;
// anything satisfying Source can be passed to the pipeline.
type ReviewScraper interface {
	Source
	Close() error
}

// Config carries what the concrete sources need.
type Config struct {
	YouTubeAPIKey     string
	YouTubeOAuthToken string
	YouTubeDownloader string
	TikTokScraper     string
}

// New returns the Source for a platform. YouTube prefers the Data API when
// credentials are configured and falls back to the downloader CLI.
func New(platform string, cfg Config) (Source, error) {
	switch platform {
	case PLATFORM_YOUTUBE:
		if cfg.YouTubeAPIKey != "" || cfg.YouTubeOAuthToken != "" {
			return NewYouTubeAPISource(cfg.YouTubeAPIKey, cfg.YouTubeOAuthToken), nil
		}
		return NewYouTubeDownloader(cfg.YouTubeDownloader), nil
	case PLATFORM_TIKTOK:
		return NewTikTokDownloader(cfg.TikTokScraper), nil
	case PLATFORM_FILE:
		return NewFileSource(PLATFORM_FILE), nil
	case PLATFORM_GOOGLE_MAPS:
		return nil, fmt.Errorf("[Sources] %s needs a browser scraper; export the reviews to a file and use the file source", platform)
	default:
		return nil, fmt.Errorf("[Sources] unknown platform %q", platform)
	}
}

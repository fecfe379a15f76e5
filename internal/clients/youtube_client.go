package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/oauth2"
)

const (
	YOUTUBE_API_URL   = "https://www.googleapis.com/youtube/v3/"
	YOUTUBE_PAGE_SIZE = 100
)

// YouTubeComment is a top-level comment as returned by commentThreads.
type YouTubeComment struct {
	ID          string
	Author      string
	Text        string
	LikeCount   int
	PublishedAt string
}

type commentThreadsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID      string `json:"id"`
		Snippet struct {
			TopLevelComment struct {
				Snippet struct {
					AuthorDisplayName string `json:"authorDisplayName"`
					TextOriginal      string `json:"textOriginal"`
					TextDisplay       string `json:"textDisplay"`
					LikeCount         int    `json:"likeCount"`
					PublishedAt       string `json:"publishedAt"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
}

// YouTubeClient pages through the Data API v3 commentThreads endpoint. It
// authenticates with an API key, or with an OAuth2 bearer token when one is
// configured.
type YouTubeClient struct {
	baseURL        string
	apiKey         string
	client         *http.Client
	initialBackoff time.Duration
}

func NewYouTubeClient(apiKey, oauthToken string) *YouTubeClient {
	client := &http.Client{Timeout: 15 * time.Second}
	if oauthToken != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: oauthToken})
		client = oauth2.NewClient(context.Background(), src)
		client.Timeout = 15 * time.Second
	}

	return &YouTubeClient{
		baseURL:        YOUTUBE_API_URL,
		apiKey:         apiKey,
		client:         client,
		initialBackoff: INITIAL_BACKOFF,
	}
}

// FetchComments returns up to limit top-level comments for the video. limit
// <= 0 fetches every page.
func (yc *YouTubeClient) FetchComments(ctx context.Context, videoID string, limit int) ([]YouTubeComment, error) {
	var comments []YouTubeComment
	pageToken := ""

	for {
		page, err := yc.fetchPageWithRetry(ctx, videoID, pageToken)
		if err != nil {
			return comments, err
		}

		for _, item := range page.Items {
			s := item.Snippet.TopLevelComment.Snippet
			text := s.TextOriginal
			if text == "" {
				text = s.TextDisplay
			}
			comments = append(comments, YouTubeComment{
				ID:          item.ID,
				Author:      s.AuthorDisplayName,
				Text:        text,
				LikeCount:   s.LikeCount,
				PublishedAt: s.PublishedAt,
			})
			if limit > 0 && len(comments) >= limit {
				return comments, nil
			}
		}

		if page.NextPageToken == "" {
			return comments, nil
		}
		pageToken = page.NextPageToken
	}
}

func (yc *YouTubeClient) fetchPageWithRetry(ctx context.Context, videoID, pageToken string) (*commentThreadsResponse, error) {
	bo := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(yc.initialBackoff),
		backoff.WithMaxInterval(MAX_BACKOFF),
	)

	notify := func(err error, wait time.Duration) {
		slog.Warn("[YouTubeClient] Retrying request",
			slog.String("video_id", videoID),
			slog.Duration("backoff", wait),
			slog.String("error", err.Error()))
	}

	return backoff.RetryNotifyWithData(func() (*commentThreadsResponse, error) {
		return yc.fetchPage(ctx, videoID, pageToken)
	}, backoff.WithContext(backoff.WithMaxRetries(bo, MAX_RETRIES), ctx), notify)
}

func (yc *YouTubeClient) fetchPage(ctx context.Context, videoID, pageToken string) (*commentThreadsResponse, error) {
	parsedUrl, err := url.Parse(yc.baseURL + "commentThreads")
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("[YouTubeClient] Failed to parse URL: %w", err))
	}
	queryParams := parsedUrl.Query()
	queryParams.Set("part", "snippet")
	queryParams.Set("videoId", videoID)
	queryParams.Set("maxResults", strconv.Itoa(YOUTUBE_PAGE_SIZE))
	queryParams.Set("textFormat", "plainText")
	if yc.apiKey != "" {
		queryParams.Set("key", yc.apiKey)
	}
	if pageToken != "" {
		queryParams.Set("pageToken", pageToken)
	}
	parsedUrl.RawQuery = queryParams.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedUrl.String(), nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := yc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[YouTubeClient] request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[YouTubeClient] failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("[YouTubeClient] %s", resp.Status)
	default:
		return nil, backoff.Permanent(fmt.Errorf("[YouTubeClient] %s: %s", resp.Status, strings.TrimSpace(string(body))))
	}

	var page commentThreadsResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("[YouTubeClient] failed to decode response: %w", err))
	}
	return &page, nil
}

// ExtractVideoID accepts watch, youtu.be, shorts and embed URLs, or a bare ID.
func ExtractVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("[YouTubeClient] empty video URL")
	}
	if !strings.Contains(raw, "/") && !strings.Contains(raw, ".") {
		return raw, nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("[YouTubeClient] invalid video URL %q: %w", raw, err)
	}

	if id := u.Query().Get("v"); id != "" {
		return id, nil
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch {
	case strings.HasSuffix(u.Host, "youtu.be") && len(parts) >= 1 && parts[0] != "":
		return parts[0], nil
	case len(parts) >= 2 && (parts[0] == "shorts" || parts[0] == "embed" || parts[0] == "live"):
		return parts[1], nil
	}
	return "", fmt.Errorf("[YouTubeClient] no video id in %q", raw)
}

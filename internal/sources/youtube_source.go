package sources

import (
	"context"
	"strconv"

	"github.com/spacesedan/ulasan/internal/clients"
	"github.com/spacesedan/ulasan/internal/pipeline"
)

type commentFetcher interface {
	FetchComments(ctx context.Context, videoID string, limit int) ([]clients.YouTubeComment, error)
}

// YouTubeAPISource reads comments through the YouTube Data API.
type YouTubeAPISource struct {
	client commentFetcher
}

func NewYouTubeAPISource(apiKey, oauthToken string) *YouTubeAPISource {
	return &YouTubeAPISource{client: clients.NewYouTubeClient(apiKey, oauthToken)}
}

func (ys *YouTubeAPISource) Fetch(ctx context.Context, url string, limit int) (pipeline.Table, error) {
	videoID, err := clients.ExtractVideoID(url)
	if err != nil {
		return pipeline.Table{}, err
	}

	comments, err := ys.client.FetchComments(ctx, videoID, limit)
	if err != nil {
		return pipeline.Table{}, err
	}

	t := pipeline.Table{
		Source: PLATFORM_YOUTUBE,
		Fields: []string{"id", "author", "text", "time", "likes", "url"},
		Rows:   make([]map[string]string, 0, len(comments)),
	}
	for _, c := range comments {
		t.Rows = append(t.Rows, map[string]string{
			"id":     c.ID,
			"author": c.Author,
			"text":   c.Text,
			"time":   c.PublishedAt,
			"likes":  strconv.Itoa(c.LikeCount),
			"url":    "https://www.youtube.com/watch?v=" + videoID + "&lc=" + c.ID,
		})
	}
	return t, nil
}

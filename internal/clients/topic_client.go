package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spacesedan/ulasan/internal/report"
)

const (
	TOPIC_FIT_PATH     = "/topics"
	TOPIC_HEALTH_PATH  = "/health"
	TOPIC_HTTP_TIMEOUT = 60 * time.Second
)

type topicRequest struct {
	Docs    []string `json:"docs"`
	NTopics int      `json:"n_topics"`
}

type topicResponse struct {
	Topics []report.Topic `json:"topics"`
}

// TopicClient asks an external topic-modelling service to fit topics over a
// batch of clean comment texts.
type TopicClient struct {
	baseURL        string
	client         *http.Client
	initialBackoff time.Duration
}

func NewTopicClient(baseURL string) *TopicClient {
	return &TopicClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		client:         &http.Client{Timeout: TOPIC_HTTP_TIMEOUT},
		initialBackoff: INITIAL_BACKOFF,
	}
}

// FitTopics returns at most n topics. Empty documents are not sent.
func (tc *TopicClient) FitTopics(ctx context.Context, docs []string, n int) ([]report.Topic, error) {
	req := topicRequest{NTopics: n}
	for _, d := range docs {
		if d != "" {
			req.Docs = append(req.Docs, d)
		}
	}
	if len(req.Docs) == 0 || n <= 0 {
		return nil, nil
	}

	slog.Info("[TopicClient] Requesting topics from topic service",
		slog.Int("docs", len(req.Docs)),
		slog.Int("n_topics", n))
	start := time.Now()

	var resp topicResponse
	if err := tc.postJSON(ctx, TOPIC_FIT_PATH, req, &resp); err != nil {
		slog.Error("[TopicClient] Topic request failed",
			slog.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	slog.Info("[TopicClient] Topic request successful",
		slog.Int("topics", len(resp.Topics)),
		slog.Duration("elapsed", time.Since(start)))

	if len(resp.Topics) > n {
		resp.Topics = resp.Topics[:n]
	}
	return resp.Topics, nil
}

// HealthCheck reports whether the service answers its health endpoint.
func (tc *TopicClient) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.baseURL+TOPIC_HEALTH_PATH, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := tc.client.Do(req)
	if err != nil {
		slog.Warn("[TopicClient] Health check failed", slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (tc *TopicClient) doWithRetry(ctx context.Context, body []byte, endpoint string) (*http.Response, error) {
	var resp *http.Response
	var err error
	wait := tc.initialBackoff

	for attempt := 0; attempt < MAX_RETRIES; attempt++ {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if reqErr != nil {
			return nil, fmt.Errorf("[TopicClient] failed to build request: %w", reqErr)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", USER_AGENT)

		resp, err = tc.client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		slog.Warn("[TopicClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))
		if resp != nil {
			resp.Body.Close()
		}
		if attempt == MAX_RETRIES-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, MAX_BACKOFF)
	}

	if err == nil {
		err = fmt.Errorf("[TopicClient] %s after %d attempts", errMsg(nil, resp), MAX_RETRIES)
	}
	return nil, err
}

func (tc *TopicClient) postJSON(ctx context.Context, path string, input any, output any) error {
	endpoint := tc.baseURL + path

	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("[TopicClient] failed to marshal input: %w", err)
	}

	resp, err := tc.doWithRetry(ctx, body, endpoint)
	if err != nil {
		slog.Error("[TopicClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("[TopicClient] request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("[TopicClient] failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("[TopicClient] unexpected status %d: %s", resp.StatusCode, preview(respBody))
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[TopicClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			slog.String("raw_response", preview(respBody)),
			slog.Int("raw_response_length", len(respBody)))
		return fmt.Errorf("[TopicClient] failed to unmarshal response: %w", err)
	}
	return nil
}

func preview(respBody []byte) string {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return raw
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}

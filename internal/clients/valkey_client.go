package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

const (
	VALKEY_LABELED_PREFIX = "comments:labeled:"
	VALKEY_LABELED_TTL = 24 * time.Hour
	VALKEY_RETRIES     = 3
)

type ValkeyConfig struct {
	Address  string
	Password string
	TLS      bool
}

// ValkeyClient remembers which comment IDs were labelled recently so the
// stream worker can skip redelivered comments.
type ValkeyClient struct {
	Client valkey.Client
	cfg    ValkeyConfig
	mu     sync.Mutex
}

func newValkey(cfg ValkeyConfig) (valkey.Client, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Address},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}
	return client, nil
}

func NewValkeyClient(cfg ValkeyConfig) (*ValkeyClient, error) {
	client, err := newValkey(cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("[ValkeyClient] Successfully connected to valkey", slog.String("address", cfg.Address))
	return &ValkeyClient{Client: client, cfg: cfg}, nil
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := newValkey(vc.cfg)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed", slog.String("error", err.Error()))
		return
	}
	vc.Client.Close()
	vc.Client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func (vc *ValkeyClient) client() valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.Client
}

func (vc *ValkeyClient) Close() {
	vc.client().Close()
}

// Ping reports whether Valkey answers within the context deadline.
func (vc *ValkeyClient) Ping(ctx context.Context) bool {
	c := vc.client()
	err := c.Do(ctx, c.B().Ping().Build()).Error()
	if isConnectionError(err) {
		vc.recreateClient()
	}
	return err == nil
}

// MarkLabeled stores one key per id, each expiring VALKEY_LABELED_TTL after
// it was written.
func (vc *ValkeyClient) MarkLabeled(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	c := vc.client()
	ttl := int64(VALKEY_LABELED_TTL.Seconds())
	completed := make([]valkey.Completed, 0, len(ids))
	for _, key := range labeledKeys(ids) {
		// pinned so a retry can resend them
		completed = append(completed, c.B().Set().Key(key).Value("1").ExSeconds(ttl).Build().Pin())
	}

	for _, res := range vc.DoMultiWithRetry(ctx, completed, VALKEY_RETRIES) {
		if err := res.Error(); err != nil {
			return fmt.Errorf("[ValkeyClient] failed to mark comments labeled: %w", err)
		}
	}

	slog.Debug("[ValkeyClient] Marked comments labeled", slog.Int("count", len(ids)))
	return nil
}

// LabeledSubset returns which of ids were labelled within VALKEY_LABELED_TTL.
func (vc *ValkeyClient) LabeledSubset(ctx context.Context, ids []string) (map[string]bool, error) {
	if len(ids) == 0 {
		return map[string]bool{}, nil
	}

	c := vc.client()
	cmd := c.B().Mget().Key(labeledKeys(ids)...).Build().Pin()
	res := vc.DoWithRetry(ctx, cmd, VALKEY_RETRIES)
	if err := res.Error(); err != nil {
		if isConnectionError(err) {
			vc.recreateClient()
		}
		return map[string]bool{}, fmt.Errorf("[ValkeyClient] failed to check labeled comments: %w", err)
	}

	values, err := res.ToArray()
	if err != nil {
		return map[string]bool{}, fmt.Errorf("[ValkeyClient] unexpected MGET reply: %w", err)
	}
	present := make([]bool, len(values))
	for i, v := range values {
		present[i] = !v.IsNil()
	}
	return labeledFromReply(ids, present), nil
}

func labeledKey(id string) string {
	return VALKEY_LABELED_PREFIX + id
}

func labeledKeys(ids []string) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = labeledKey(id)
	}
	return keys
}

// labeledFromReply pairs an MGET reply with the ids it was issued for.
func labeledFromReply(ids []string, present []bool) map[string]bool {
	seen := make(map[string]bool, len(ids))
	for i, ok := range present {
		if i < len(ids) && ok {
			seen[ids[i]] = true
		}
	}
	return seen
}

func (vc *ValkeyClient) DoMultiWithRetry(ctx context.Context, completed []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	for i := 0; i < retries; i++ {
		results = vc.client().DoMulti(ctx, completed...)
		hasErr := false
		for _, r := range results {
			if r.Error() != nil {
				hasErr = true
				slog.Warn("[ValkeyClient] Do Multi failed",
					slog.Int("attempt", i+1),
					slog.String("error", r.Error().Error()))
				if isConnectionError(r.Error()) {
					vc.recreateClient()
				}
				break
			}
		}
		if !hasErr {
			break
		}
		time.Sleep(time.Millisecond * 250)
	}

	return results
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.client().Do(ctx, completed)
		if result.Error() == nil {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}

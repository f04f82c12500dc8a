// Package daemon provides the HTTP client for the tracker daemon's REST API
// and the handler table that redirects the compatibility shim's named remote
// calls to it.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	pkgerrors "github.com/deckhaven/arenalink/pkg/errors"
	"github.com/deckhaven/arenalink/pkg/logging"
)

// Defaults for the daemon REST client.
const (
	DefaultBaseURL = "http://127.0.0.1:9999"
	DefaultTimeout = 10 * time.Second

	maxRetries     = 3
	retryBaseDelay = 500 * time.Millisecond
)

// Config holds the daemon REST client settings. It is independent from the
// transport configuration and shallow-mergeable in the same way.
type Config struct {
	// BaseURL is the daemon API root, e.g. "http://127.0.0.1:9999".
	BaseURL string

	// Timeout bounds each individual request.
	Timeout time.Duration
}

// DefaultConfig returns the default daemon client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// Partial is a shallow partial update of Config. Nil fields leave the
// existing value untouched.
type Partial struct {
	BaseURL *string
	Timeout *time.Duration
}

// Merge applies a partial update with last-write-wins semantics.
func (c Config) Merge(p Partial) Config {
	if p.BaseURL != nil {
		c.BaseURL = *p.BaseURL
	}
	if p.Timeout != nil {
		c.Timeout = *p.Timeout
	}
	return c
}

// Status is the daemon's status response.
type Status struct {
	Status        string `json:"status"`
	Connected     bool   `json:"connected"`
	Version       string `json:"version"`
	GameConnected bool   `json:"gameConnected"`
	PlayerID      string `json:"playerId"`
	LastUpdate    string `json:"lastUpdate"`
}

// Collection is the player's full card collection, card ID to owned count.
type Collection struct {
	Cards map[int]int `json:"cards"`
}

// Inventory is the player's currency and wildcard inventory.
type Inventory struct {
	Gold          int     `json:"gold"`
	Gems          int     `json:"gems"`
	CommonWC      int     `json:"wcCommon"`
	UncommonWC    int     `json:"wcUncommon"`
	RareWC        int     `json:"wcRare"`
	MythicWC      int     `json:"wcMythic"`
	VaultProgress float64 `json:"vaultProgress"`
}

// playerInfo is the /playerId response shape.
type playerInfo struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// Client is the HTTP client for the daemon REST API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client. The config timeout is not
// applied to a caller-supplied client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a daemon REST client.
func New(cfg Config, opts ...ClientOption) *Client {
	c := &Client{
		cfg:    cfg,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return c
}

// Config returns a snapshot of the client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Status retrieves the daemon's current status.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var status Status
	if err := c.get(ctx, "/status", &status); err != nil {
		return nil, fmt.Errorf("fetching daemon status: %w", err)
	}
	return &status, nil
}

// Cards retrieves the player's full card collection.
func (c *Client) Cards(ctx context.Context) (*Collection, error) {
	var collection Collection
	if err := c.get(ctx, "/cards", &collection); err != nil {
		return nil, fmt.Errorf("fetching card collection: %w", err)
	}
	return &collection, nil
}

// Inventory retrieves the player's currency and wildcard inventory.
func (c *Client) Inventory(ctx context.Context) (*Inventory, error) {
	var inventory Inventory
	if err := c.get(ctx, "/inventory", &inventory); err != nil {
		return nil, fmt.Errorf("fetching inventory: %w", err)
	}
	return &inventory, nil
}

// PlayerID retrieves the current player's game ID.
func (c *Client) PlayerID(ctx context.Context) (string, error) {
	var info playerInfo
	if err := c.get(ctx, "/playerId", &info); err != nil {
		return "", fmt.Errorf("fetching player ID: %w", err)
	}
	return info.PlayerID, nil
}

// Healthy reports whether the daemon is responding and considers itself
// usable.
func (c *Client) Healthy(ctx context.Context) bool {
	status, err := c.Status(ctx)
	if err != nil {
		return false
	}
	return status.Status == "connected" || status.Status == "healthy"
}

// get performs a GET request with bounded retries. Transport failures and
// 5xx responses retry with exponential backoff; other failures return
// immediately. This client-side retry is separate from the websocket
// reconnect loop, which uses a fixed delay.
func (c *Client) get(ctx context.Context, path string, result any) error {
	url := c.cfg.BaseURL + path
	ctx = logging.WithEndpoint(logging.WithLogger(ctx, c.logger), path)

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			logging.Ctx(ctx).Debug().Int("attempt", attempt).Msg("Retrying daemon request")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Deadline expiry is final from the caller's point of view;
			// retrying would only stack more waiting on a spent budget.
			if isTimeout(err) {
				return fmt.Errorf("request to %s: %w", path, pkgerrors.ErrTimeout)
			}
			lastErr = pkgerrors.WrapAPI(path, 0, err)
			continue
		}

		if resp.StatusCode >= 500 {
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			lastErr = pkgerrors.NewAPIError(path, resp.StatusCode, string(body))
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			return pkgerrors.NewAPIError(path, resp.StatusCode, string(body))
		}

		err = json.NewDecoder(resp.Body).Decode(result)
		_ = resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decoding response from %s: %w", path, err)
		}
		return nil
	}

	return lastErr
}

// isTimeout reports whether a transport failure was a deadline expiry,
// either the client's own timeout or the caller's context deadline.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

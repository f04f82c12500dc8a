package transport

import "time"

// Defaults for the transport configuration.
const (
	DefaultURL                  = "ws://127.0.0.1:9000/ws"
	DefaultReconnectInterval    = 5 * time.Second
	DefaultMaxReconnectAttempts = 5
)

// Config holds the transport connection settings. The zero value is not
// useful; start from DefaultConfig and merge partial updates into it.
type Config struct {
	// URL is the websocket endpoint of the daemon event stream.
	URL string

	// ReconnectInterval is the fixed delay between reconnect attempts.
	// Every attempt waits the same interval: no jitter, no backoff.
	ReconnectInterval time.Duration

	// MaxReconnectAttempts caps automatic reconnection. Once exhausted the
	// connection stays down until a manual Connect.
	MaxReconnectAttempts int
}

// DefaultConfig returns the default transport configuration.
func DefaultConfig() Config {
	return Config{
		URL:                  DefaultURL,
		ReconnectInterval:    DefaultReconnectInterval,
		MaxReconnectAttempts: DefaultMaxReconnectAttempts,
	}
}

// Partial is a shallow partial update of Config. Nil fields leave the
// existing value untouched.
type Partial struct {
	URL                  *string
	ReconnectInterval    *time.Duration
	MaxReconnectAttempts *int
}

// Merge applies a partial update with last-write-wins semantics and returns
// the merged config. Fields the partial does not touch keep their prior
// values.
func (c Config) Merge(p Partial) Config {
	if p.URL != nil {
		c.URL = *p.URL
	}
	if p.ReconnectInterval != nil {
		c.ReconnectInterval = *p.ReconnectInterval
	}
	if p.MaxReconnectAttempts != nil {
		c.MaxReconnectAttempts = *p.MaxReconnectAttempts
	}
	return c
}

package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultURL, cfg.URL)
	assert.Equal(t, DefaultReconnectInterval, cfg.ReconnectInterval)
	assert.Equal(t, DefaultMaxReconnectAttempts, cfg.MaxReconnectAttempts)
}

func TestConfig_MergePartial(t *testing.T) {
	cfg := DefaultConfig()

	interval := 5 * time.Second
	merged := cfg.Merge(Partial{ReconnectInterval: &interval})

	assert.Equal(t, cfg.URL, merged.URL, "untouched fields keep their prior values")
	assert.Equal(t, 5*time.Second, merged.ReconnectInterval)
	assert.Equal(t, cfg.MaxReconnectAttempts, merged.MaxReconnectAttempts)
}

func TestConfig_MergeAllFields(t *testing.T) {
	cfg := DefaultConfig()

	url := "ws://10.0.0.1:9000/ws"
	interval := 250 * time.Millisecond
	attempts := 2
	merged := cfg.Merge(Partial{
		URL:                  &url,
		ReconnectInterval:    &interval,
		MaxReconnectAttempts: &attempts,
	})

	assert.Equal(t, url, merged.URL)
	assert.Equal(t, interval, merged.ReconnectInterval)
	assert.Equal(t, 2, merged.MaxReconnectAttempts)
}

func TestConfig_MergeEmptyPartial(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, cfg, cfg.Merge(Partial{}))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "reconnecting", StateReconnecting.String())
	assert.Equal(t, "unknown", State(42).String())
}

package errors_test

import (
	"errors"
	"testing"

	pkgerrors "github.com/deckhaven/arenalink/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestHandshakeError(t *testing.T) {
	t.Run("wraps dial error", func(t *testing.T) {
		base := errors.New("connection refused")
		err := pkgerrors.NewHandshakeError("ws://localhost:9999", base)
		assert.Equal(t, "connection to ws://localhost:9999 failed: connection refused", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotConnected))
		assert.Equal(t, base, errors.Unwrap(err))
	})

	t.Run("wrap helper", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapHandshake("ws://x", nil))
		err := pkgerrors.WrapHandshake("ws://x", errors.New("boom"))
		assert.True(t, pkgerrors.IsNotConnected(err))
	})

	t.Run("explicit message", func(t *testing.T) {
		err := &pkgerrors.HandshakeError{URL: "ws://x", Message: "handshake timeout"}
		assert.Equal(t, "connection to ws://x failed: handshake timeout", err.Error())
	})
}

func TestMethodNotAvailableError(t *testing.T) {
	err := pkgerrors.NewMethodNotAvailableError("GetCards")
	assert.Contains(t, err.Error(), "GetCards")
	assert.True(t, errors.Is(err, pkgerrors.ErrMethodNotAvailable))
	assert.True(t, pkgerrors.IsMethodNotAvailable(err))
	assert.False(t, pkgerrors.IsNotInitialized(err))
}

func TestNotInitializedError(t *testing.T) {
	err := pkgerrors.NewNotInitializedError("GetStatus")
	assert.Contains(t, err.Error(), "GetStatus")
	assert.Contains(t, err.Error(), "not initialized")
	assert.True(t, errors.Is(err, pkgerrors.ErrNotInitialized))
	assert.True(t, pkgerrors.IsNotInitialized(err))
}

func TestFrameError(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		base := errors.New("unexpected end of JSON input")
		err := &pkgerrors.FrameError{Message: "decoding envelope", Err: base}
		assert.Contains(t, err.Error(), "malformed frame")
		assert.Equal(t, base, errors.Unwrap(err))
	})

	t.Run("without cause", func(t *testing.T) {
		err := &pkgerrors.FrameError{Message: "missing type field"}
		assert.Equal(t, "malformed frame: missing type field", err.Error())
	})
}

func TestAPIError(t *testing.T) {
	t.Run("server error maps to unavailable", func(t *testing.T) {
		err := pkgerrors.NewAPIError("/status", 503, "service restarting")
		assert.Contains(t, err.Error(), "503")
		assert.Contains(t, err.Error(), "/status")
		assert.True(t, pkgerrors.IsDaemonUnavailable(err))
	})

	t.Run("client error does not", func(t *testing.T) {
		err := pkgerrors.NewAPIError("/cards", 404, "no collection")
		assert.False(t, pkgerrors.IsDaemonUnavailable(err))
	})

	t.Run("wrap helper preserves cause", func(t *testing.T) {
		base := errors.New("EOF")
		err := pkgerrors.WrapAPI("/inventory", 0, base)
		var apiErr *pkgerrors.APIError
		assert.True(t, errors.As(err, &apiErr))
		assert.Equal(t, base, errors.Unwrap(apiErr))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("with component", func(t *testing.T) {
		err := pkgerrors.NewConfigError("transport", "url must not be empty", nil)
		assert.Equal(t, "configuration error in transport: url must not be empty", err.Error())
	})

	t.Run("wrap helper", func(t *testing.T) {
		base := errors.New("yaml: line 3: mapping values are not allowed")
		err := pkgerrors.WrapConfig("settings", base)
		var cfgErr *pkgerrors.ConfigError
		assert.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "settings", cfgErr.Component)
	})
}

func TestTimeoutAndCancel(t *testing.T) {
	assert.True(t, pkgerrors.IsTimeout(pkgerrors.ErrTimeout))
	assert.True(t, pkgerrors.IsCanceled(pkgerrors.ErrCanceled))
	assert.False(t, pkgerrors.IsTimeout(pkgerrors.ErrCanceled))
}

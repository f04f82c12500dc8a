package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf)

	logger.Info().Str("key", "value").Msg("test message")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("expected output to contain message, got: %s", output)
	}
	if !strings.Contains(output, `"key":"value"`) {
		t.Errorf("expected output to contain field, got: %s", output)
	}
}

func TestSetDefault(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(*original) })

	buf := &bytes.Buffer{}
	SetDefault(New(buf))

	Info().Msg("via default")

	if !strings.Contains(buf.String(), "via default") {
		t.Errorf("default logger did not capture message: %s", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	t.Run("nil context returns default", func(t *testing.T) {
		//nolint:staticcheck // explicitly testing nil context handling
		logger := FromContext(nil)
		if logger == nil {
			t.Fatal("expected non-nil logger")
		}
	})

	t.Run("context without logger returns default", func(t *testing.T) {
		logger := FromContext(context.Background())
		if logger != Default() {
			t.Error("expected default logger")
		}
	})

	t.Run("round trip", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := New(buf)
		ctx := WithLogger(context.Background(), &logger)

		Ctx(ctx).Info().Msg("from context")

		if !strings.Contains(buf.String(), "from context") {
			t.Errorf("context logger did not capture message: %s", buf.String())
		}
	})
}

func TestContextFieldHelpers(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf)
	ctx := WithLogger(context.Background(), &logger)
	ctx = WithComponent(ctx, "daemon")
	ctx = WithEndpoint(ctx, "/status")

	Ctx(ctx).Info().Msg("requesting")

	output := buf.String()
	if !strings.Contains(output, `"component":"daemon"`) {
		t.Errorf("expected component field, got: %s", output)
	}
	if !strings.Contains(output, `"endpoint":"/status"`) {
		t.Errorf("expected endpoint field, got: %s", output)
	}
}

func TestTestLogger(t *testing.T) {
	tl := NewTestLogger(t)

	tl.Info().Str("component", "transport").Msg("connected")
	tl.Debug().Msg("second entry")

	tl.AssertContains(t, "connected")
	tl.AssertContains(t, "transport")
	if tl.Count() != 2 {
		t.Errorf("expected 2 entries, got %d", tl.Count())
	}

	tl.Clear()
	if tl.Count() != 0 {
		t.Errorf("expected 0 entries after clear, got %d", tl.Count())
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info().Msg("discarded")

	if logger.GetLevel() != zerolog.Disabled {
		t.Errorf("expected disabled level, got %v", logger.GetLevel())
	}
}

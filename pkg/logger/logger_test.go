package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newBufferedLogger(t *testing.T, opts Options) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	opts.ServiceName = "test"
	opts.Output = buf
	if opts.Level == zerolog.NoLevel {
		opts.Level = zerolog.DebugLevel
	}
	return New(opts), buf
}

func TestErrorCarriesContextFields(t *testing.T) {
	log, buf := newBufferedLogger(t, Options{})

	ctx := log.WithRequestID(context.Background(), "req-123")
	log.Error(ctx, "boom", errors.New("boom"))

	entry := buf.String()
	if !strings.Contains(entry, `"request_id"`) {
		t.Fatalf("expected request_id to be preserved; entry=%s", entry)
	}
	if !strings.Contains(entry, `"stack"`) {
		t.Fatalf("expected stack trace on error; entry=%s", entry)
	}
}

func TestWithFieldsCarriesThrough(t *testing.T) {
	log, buf := newBufferedLogger(t, Options{})

	ctx := log.WithFields(context.Background(), map[string]any{"shop_id": "shop-1"})
	log.Info(ctx, "shop.loaded")

	if !strings.Contains(buf.String(), `"shop_id"`) {
		t.Fatalf("expected shop_id field; entry=%s", buf.String())
	}
}

func TestWarnStackToggle(t *testing.T) {
	withStack, stackBuf := newBufferedLogger(t, Options{WarnStack: true})
	withStack.Warn(context.Background(), "warny")
	if !strings.Contains(stackBuf.String(), `"stack"`) {
		t.Fatalf("expected stack on warn when enabled; entry=%s", stackBuf.String())
	}

	without, plainBuf := newBufferedLogger(t, Options{})
	without.Warn(context.Background(), "warny")
	if strings.Contains(plainBuf.String(), `"stack"`) {
		t.Fatalf("stack should be off by default; entry=%s", plainBuf.String())
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("empty level should default to info, got %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.InfoLevel {
		t.Fatalf("invalid level should fall back to info, got %v", lvl)
	}
	if lvl := ParseLevel("WARN"); lvl != zerolog.WarnLevel {
		t.Fatalf("levels should parse case-insensitively, got %v", lvl)
	}
}

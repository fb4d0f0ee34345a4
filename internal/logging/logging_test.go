package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestContextRoundTrip(t *testing.T) {
	logger := NewWithOutput(&bytes.Buffer{}, "debug", "json")
	entry := logger.WithField("request_id", "abc")

	ctx := ContextWithLogger(context.Background(), entry)
	if got := FromContext(ctx); got != entry {
		t.Fatalf("expected stored entry, got %v", got)
	}
	if got := Entry(ctx, nil); got != entry {
		t.Fatalf("Entry should prefer the context entry")
	}
}

func TestEntryFallsBackToBase(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithOutput(&buf, "info", "json")

	Entry(context.Background(), base).WithField("k", "v").Info("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json output: %v (%q)", err, buf.String())
	}
	if line["msg"] != "hello" || line["k"] != "v" {
		t.Fatalf("unexpected log line %v", line)
	}
}

func TestNewParsesLevel(t *testing.T) {
	if lvl := NewWithOutput(&bytes.Buffer{}, "warn", "text").GetLevel(); lvl != logrus.WarnLevel {
		t.Fatalf("expected warn, got %s", lvl)
	}
	if lvl := NewWithOutput(&bytes.Buffer{}, "nonsense", "json").GetLevel(); lvl != logrus.InfoLevel {
		t.Fatalf("expected info fallback, got %s", lvl)
	}
}

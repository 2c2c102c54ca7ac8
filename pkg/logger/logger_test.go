package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize text logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}

	if err := Init(WithFormat(FormatJSON)); err != nil {
		t.Fatalf("failed to initialize json logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}

	if err := Init(WithFormat("xml")); err == nil {
		t.Fatal("expected error for unknown format")
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()
}

func TestLoggerJSONFields(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf), WithFormat(FormatJSON), WithSource(false)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Named("store").Info(ctx, "player updated", String("user_id", "1"), Float64("score", 50), Error(errors.New("boom")))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not json: %v (%q)", err, buf.String())
	}
	if line["msg"] != "player updated" {
		t.Errorf("unexpected msg: %v", line["msg"])
	}
	if line["logger"] != "store" {
		t.Errorf("expected named logger attribute, got %v", line["logger"])
	}
	if line["user_id"] != "1" {
		t.Errorf("expected user_id field, got %v", line["user_id"])
	}
	if _, ok := line["source"]; ok {
		t.Error("source field should be disabled")
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx := context.Background()

	Get().Debug(ctx, "hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at info level, got %q", buf.String())
	}

	if err := SetLevelString("DEBUG"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Get().Debug(ctx, "visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("debug should be logged after level change, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "logger_test.go") {
		t.Errorf("expected caller source in output, got %q", buf.String())
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
	SetLevel(slog.LevelInfo)
}

func TestLoggerWithAndNop(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelInfo).With(String("request_id", "abc"))
	l.Warn(context.Background(), "slow request", Int("ms", 1500))
	if !strings.Contains(buf.String(), "request_id=abc") {
		t.Errorf("expected bound field, got %q", buf.String())
	}

	// Must not panic or write anywhere.
	Nop().Error(context.Background(), "discarded")
}

// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// decodeLine parses the single JSON log line in buf.
func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}
	return m
}

// withGlobal swaps the global logger for the duration of a test.
func withGlobal(t *testing.T, l zerolog.Logger) {
	t.Helper()
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()
	SetLogger(l)
	t.Cleanup(func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInit(t *testing.T) {
	withGlobal(t, Logger())

	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})

	l := Logger()
	l.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %q", buf.String())
	}

	l.Warn().Str("k", "v").Msg("kept")
	m := decodeLine(t, &buf)
	if m["message"] != "kept" || m["k"] != "v" || m["level"] != "warn" {
		t.Errorf("log line = %v", m)
	}
	if _, ok := m["time"]; !ok {
		t.Error("log line has no time field")
	}
}

func TestInit_Console(t *testing.T) {
	withGlobal(t, Logger())

	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "console", Output: &buf})

	l := Logger()
	l.Info().Msg("hello")
	if !strings.Contains(buf.String(), "hello") || strings.HasPrefix(buf.String(), "{") {
		t.Errorf("console output = %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	withGlobal(t, NewTestLogger(&buf))

	l := WithComponent("trainer")
	l.Info().Msg("x")
	if m := decodeLine(t, &buf); m["component"] != "trainer" {
		t.Errorf("component = %v, want trainer", m["component"])
	}
}

func TestGlobalEvents(t *testing.T) {
	var buf bytes.Buffer
	withGlobal(t, NewTestLogger(&buf))
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	Debug().Msg("d")
	Info().Msg("i")
	Warn().Msg("w")
	Error().Msg("e")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{"debug", "info", "warn", "error"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(want), buf.String())
	}
	for i, line := range lines {
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		if m["level"] != want[i] {
			t.Errorf("line %d level = %v, want %s", i, m["level"], want[i])
		}
	}
}

func TestContextIDs(t *testing.T) {
	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" || CorrelationIDFromContext(ctx) != "" {
		t.Fatal("empty context carries ids")
	}

	ctx = ContextWithNewRequestID(ctx)
	ctx = ContextWithNewCorrelationID(ctx)
	if len(RequestIDFromContext(ctx)) != 36 {
		t.Errorf("request id = %q, want a UUID", RequestIDFromContext(ctx))
	}
	if len(CorrelationIDFromContext(ctx)) != 8 {
		t.Errorf("correlation id = %q, want 8 characters", CorrelationIDFromContext(ctx))
	}
	if GenerateRequestID() == GenerateRequestID() {
		t.Error("request ids repeat")
	}
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "run-1")

	Ctx(ctx).Info().Msg("ranked")
	m := decodeLine(t, &buf)
	if m["request_id"] != "req-1" || m["correlation_id"] != "run-1" {
		t.Errorf("log line = %v", m)
	}
}

func TestLoggerFromContext_FallsBackToGlobal(t *testing.T) {
	var buf bytes.Buffer
	withGlobal(t, NewTestLogger(&buf))

	l := LoggerFromContext(context.Background())
	l.Info().Msg("global")
	if !strings.Contains(buf.String(), "global") {
		t.Errorf("global logger not used: %q", buf.String())
	}
}

func TestSlogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(NewTestLogger(&buf)))

	logger.With("service", "train").
		WithGroup("outer").WithGroup("inner").
		Error("service failed",
			"restarts", 3,
			"backoff", 2*time.Second,
			"err", errors.New("boom"),
			slog.Group("g", "ok", true),
		)

	m := decodeLine(t, &buf)
	if m["level"] != "error" || m["message"] != "service failed" {
		t.Errorf("log line = %v", m)
	}
	if m["service"] != "train" {
		t.Errorf("pre-bound attr key wrong: %v", m)
	}
	if m["outer.inner.restarts"] != float64(3) {
		t.Errorf("restarts = %v", m["outer.inner.restarts"])
	}
	if m["outer.inner.err"] != "boom" {
		t.Errorf("err = %v", m["outer.inner.err"])
	}
	if m["outer.inner.g.ok"] != true {
		t.Errorf("nested group key wrong: %v", m)
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	h := NewSlogHandler(NewTestLogger(&bytes.Buffer{}).Level(zerolog.WarnLevel))
	ctx := context.Background()

	if h.Enabled(ctx, slog.LevelInfo) {
		t.Error("info enabled on a warn logger")
	}
	if !h.Enabled(ctx, slog.LevelError) {
		t.Error("error disabled on a warn logger")
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	slogger := slog.New(NewSlogHandler(logger))
	slogger.Info("pipeline started", "interval", "6h")

	out := buf.String()
	if !strings.Contains(out, "pipeline started") {
		t.Errorf("output missing message: %s", out)
	}
	if !strings.Contains(out, `"interval":"6h"`) {
		t.Errorf("output missing attribute: %s", out)
	}
	if !strings.Contains(out, `"level":"info"`) {
		t.Errorf("output missing level: %s", out)
	}
}

func TestSlogHandler_LevelMapping(t *testing.T) {
	tests := []struct {
		name      string
		slogLevel slog.Level
		wantLevel string
	}{
		{name: "debug", slogLevel: slog.LevelDebug, wantLevel: `"level":"debug"`},
		{name: "info", slogLevel: slog.LevelInfo, wantLevel: `"level":"info"`},
		{name: "warn", slogLevel: slog.LevelWarn, wantLevel: `"level":"warn"`},
		{name: "error", slogLevel: slog.LevelError, wantLevel: `"level":"error"`},
	}

	// The package init sets the global level to info; debug events need it
	// lowered for the duration of the test.
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			slogger := slog.New(NewSlogHandler(logger))
			slogger.Log(context.Background(), tt.slogLevel, "msg")

			if !strings.Contains(buf.String(), tt.wantLevel) {
				t.Errorf("output = %s, want level %s", buf.String(), tt.wantLevel)
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.WarnLevel)
	handler := NewSlogHandler(logger)

	if handler.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled(debug) = true for a warn-level logger")
	}
	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Error("Enabled(error) = false for a warn-level logger")
	}
}

func TestSlogHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	slogger := slog.New(NewSlogHandler(logger)).With("service", "pipeline")
	slogger.Info("restarting")

	if !strings.Contains(buf.String(), `"service":"pipeline"`) {
		t.Errorf("output missing bound attribute: %s", buf.String())
	}
}

func TestSlogHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	slogger := slog.New(NewSlogHandler(logger)).WithGroup("supervisor")
	slogger.Info("service failed", "name", "pipeline-service")

	if !strings.Contains(buf.String(), `"supervisor.name":"pipeline-service"`) {
		t.Errorf("output missing grouped attribute: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{in: "trace", want: zerolog.TraceLevel},
		{in: "debug", want: zerolog.DebugLevel},
		{in: "info", want: zerolog.InfoLevel},
		{in: "warn", want: zerolog.WarnLevel},
		{in: "warning", want: zerolog.WarnLevel},
		{in: "error", want: zerolog.ErrorLevel},
		{in: "WARN", want: zerolog.WarnLevel},
		{in: "bogus", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

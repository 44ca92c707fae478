package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := Component(New(Config{Level: "info", Output: &buf, NoTimestamp: true}), "recommend")

	l.Debug().Msg("hidden")
	l.Info().Str("category", "clothing").Msg("served")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("期望 1 行日志，实际 %d 行: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("日志不是 JSON: %v", err)
	}
	if rec["component"] != "recommend" || rec["category"] != "clothing" || rec["message"] != "served" {
		t.Errorf("record = %v", rec)
	}
	if _, ok := rec["time"]; ok {
		t.Errorf("NoTimestamp 时不应输出 time 字段")
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Format: "console", Output: &buf})
	l.Warn().Msg("slow store")
	if !strings.Contains(buf.String(), "slow store") {
		t.Errorf("console output = %q", buf.String())
	}
}

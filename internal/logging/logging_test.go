package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw    string
		want   zerolog.Level
		wantOK bool
	}{
		{"debug", zerolog.DebugLevel, true},
		{" WARN ", zerolog.WarnLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"", zerolog.InfoLevel, false},
		{"loud", zerolog.InfoLevel, false},
	}

	for _, tt := range tests {
		got, ok := parseLevel(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parseLevel(%q) = %v, %v, want %v, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestConfigureEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogNoColor, "true")

	var buf bytes.Buffer
	logger := Configure("test", Config{Level: "debug", Out: &buf})

	if logger.GetLevel() != zerolog.ErrorLevel {
		t.Fatalf("level = %v, want error", logger.GetLevel())
	}

	logger.Info().Msg("hidden")
	logger.Error().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at error level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("error message missing: %s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("color codes written with %s=true: %q", EnvLogNoColor, out)
	}
}

func TestConfigureIgnoresBadEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "loud")
	t.Setenv(EnvLogNoColor, "maybe")

	logger := Configure("test", Config{Level: "warn", Out: &bytes.Buffer{}})
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("level = %v, want warn", logger.GetLevel())
	}
}

func TestLinkLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLinkLogger(zerolog.New(&buf))

	l.Debug("frame received", "frame", "fixed", "address", uint16(1))
	l.Error("frame rejected", "error", errors.New("checksum"), "dangling")

	out := buf.String()
	for _, want := range []string{
		`"level":"debug"`,
		`"frame":"fixed"`,
		`"address":1`,
		`"message":"frame received"`,
		`"error":"checksum"`,
		`"extra":"dangling"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

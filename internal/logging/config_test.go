package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		" DEBUG ": zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"off":     zerolog.Disabled,
	}
	for raw, want := range cases {
		got, ok := ParseLevel(raw)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v,%v want %v", raw, got, ok, want)
		}
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Fatalf("unknown level accepted")
	}
	if _, ok := ParseLevel(""); ok {
		t.Fatalf("empty level accepted")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "false")
	t.Setenv(EnvLogBypass, "1")
	t.Setenv(EnvLogNoColor, "not-a-bool")

	cfg := defaultConfig(ProfileRuntime)
	applyEnvOverrides(&cfg)
	if cfg.Level != zerolog.ErrorLevel {
		t.Fatalf("level = %v", cfg.Level)
	}
	if cfg.Timestamp {
		t.Fatalf("timestamp override ignored")
	}
	if !cfg.Bypass {
		t.Fatalf("bypass override ignored")
	}
	if cfg.NoColor {
		t.Fatalf("invalid bool should leave default")
	}
}

func TestNewBypassWritesJSON(t *testing.T) {
	prev := Active()
	t.Cleanup(func() { Apply(prev) })

	Apply(Config{Level: zerolog.DebugLevel, Bypass: true})
	var buf bytes.Buffer
	logger := New(&buf)
	logger.Info().Uint32("oui", 1).Msg("datagram")
	if !bytes.Contains(buf.Bytes(), []byte(`"oui":1`)) {
		t.Fatalf("expected JSON field, got %q", buf.String())
	}
}

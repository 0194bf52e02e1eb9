package hbbplot

import (
	"strings"
	"testing"
)

func TestParseEnvDefaults(t *testing.T) {
	e, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if e.OutputPath != "." || e.LogLevel != "info" || e.Format != "png" {
		t.Fatalf("unexpected defaults %+v", e)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("HBBPLOT_OUTPUT_PATH", "/tmp/plots")
	t.Setenv("HBBPLOT_FORMAT", "pdf")

	e, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if e.OutputPath != "/tmp/plots" || e.Format != "pdf" {
		t.Fatalf("unexpected values %+v", e)
	}
}

func TestNewLogger(t *testing.T) {
	var buf strings.Builder
	log, err := NewLogger(&buf, "warn", false)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output %q", out)
	}

	if _, err := NewLogger(&buf, "loud", false); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

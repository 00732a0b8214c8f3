package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{name: "default", input: "", want: slog.LevelInfo},
		{name: "debug", input: "DEBUG", want: slog.LevelDebug},
		{name: "warn alias", input: " warning ", want: slog.LevelWarn},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "invalid", input: "nope", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Fatalf("ParseLevel(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoggersFollowConfigure(t *testing.T) {
	log := New("masonry")

	var buf bytes.Buffer
	Configure(&buf, "debug")
	t.Cleanup(func() { _ = Close() })

	log.Debug("layout skipped", "reason", "detached")

	out := buf.String()
	if !strings.Contains(out, "component=masonry") {
		t.Fatalf("expected component attribute, got %q", out)
	}
	if !strings.Contains(out, "reason=detached") {
		t.Fatalf("expected reason attribute, got %q", out)
	}

	buf.Reset()
	Configure(&buf, "warn")
	log.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn level, got %q", buf.String())
	}
}

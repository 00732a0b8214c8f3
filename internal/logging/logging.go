// Package logging provides the shared structured logger.
//
// Component loggers are derived from one base handler so every subsystem
// writes to the same sink at the same level. The level defaults to the
// ANCARDS_LOG_LEVEL environment variable and can be overridden at startup with
// Configure, which the root command calls once flags are parsed. The card view
// owns the terminal, so Configure usually points output at a log file.
//
//	log := logging.New("masonry")
//	log.Debug("layout skipped", "reason", "detached")
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// EnvLevel names the environment variable consulted for the default level.
const EnvLevel = "ANCARDS_LOG_LEVEL"

var (
	mu      sync.Mutex
	level   = new(slog.LevelVar)
	handler slog.Handler
	closer  io.Closer
)

func base() slog.Handler {
	mu.Lock()
	defer mu.Unlock()
	if handler == nil {
		level.Set(ParseLevel(os.Getenv(EnvLevel)))
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	return handler
}

// New returns a logger tagged with component. An empty component returns the
// base logger.
func New(component string) *slog.Logger {
	logger := slog.New(redirect{})
	if component == "" {
		return logger
	}
	return logger.With("component", component)
}

// Configure points all loggers at w and sets the level. An empty level keeps
// the current one.
func Configure(w io.Writer, lvl string) {
	mu.Lock()
	defer mu.Unlock()
	if strings.TrimSpace(lvl) != "" {
		level.Set(ParseLevel(lvl))
	} else if handler == nil {
		level.Set(ParseLevel(os.Getenv(EnvLevel)))
	}
	handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}

// ToFile opens path for appending and routes all output there.
func ToFile(path, lvl string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	Configure(f, lvl)

	mu.Lock()
	prev := closer
	closer = f
	mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
	return nil
}

// Close releases a log file opened by ToFile and falls back to discarding
// output.
func Close() error {
	mu.Lock()
	c := closer
	closer = nil
	handler = slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
	mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close()
}

// Discard returns a logger that drops everything. Tests use it when they need
// a non-nil logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel converts a level name to a slog.Level, defaulting to Info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// redirect resolves the base handler on every call so loggers created before
// Configure still follow it.
type redirect struct {
	ops []func(slog.Handler) slog.Handler
}

func (r redirect) resolve() slog.Handler {
	h := base()
	for _, op := range r.ops {
		h = op(h)
	}
	return h
}

func (r redirect) with(op func(slog.Handler) slog.Handler) redirect {
	ops := make([]func(slog.Handler) slog.Handler, 0, len(r.ops)+1)
	ops = append(ops, r.ops...)
	return redirect{ops: append(ops, op)}
}

func (r redirect) Enabled(ctx context.Context, l slog.Level) bool {
	return r.resolve().Enabled(ctx, l)
}

func (r redirect) Handle(ctx context.Context, rec slog.Record) error {
	return r.resolve().Handle(ctx, rec)
}

func (r redirect) WithAttrs(attrs []slog.Attr) slog.Handler {
	return r.with(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (r redirect) WithGroup(name string) slog.Handler {
	return r.with(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// DefaultFile is the diagnostic log location used when none is configured.
const DefaultFile = "inventory.log"

var level = new(slog.LevelVar) // supports runtime changes via SetLevel

// Init configures the global slog logger. Call once at startup.
// levelStr: "debug", "info", "warn", "error" (default: "info").
// format: "text" or "json" (default: "text").
// path: file to append records to; empty means stderr.
// The returned closer releases the log file and is never nil.
func Init(levelStr, format, path string) (io.Closer, error) {
	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return closer, fmt.Errorf("opening log file: %w", err)
		}
		out, closer = f, f
	}
	InitWriter(levelStr, format, out)
	return closer, nil
}

// InitWriter is Init for an already open destination.
func InitWriter(levelStr, format string, w io.Writer) {
	parseLevel(levelStr)

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// For returns a logger tagged with the given component name.
// The returned logger dynamically delegates to slog.Default(), so runtime
// changes to the global default (e.g., via CaptureForTest) take effect
// immediately, even for package-level logger variables.
func For(component string) *slog.Logger {
	return slog.New(&dynamicHandler{component: component})
}

// SetLevel changes the log level at runtime. Useful in tests.
func SetLevel(l slog.Level) {
	level.Set(l)
}

func parseLevel(s string) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}
}

// dynamicHandler delegates each log call to slog.Default().Handler(),
// prepending a "component" attribute. This ensures that package-level loggers
// created via For() respect runtime changes to the default logger.
// Attributes and groups added with With/WithGroup are replayed onto the
// default handler in call order.
type dynamicHandler struct {
	component string
	ops       []handlerOp
}

// handlerOp is one WithAttrs (attrs set) or WithGroup (group set) call.
type handlerOp struct {
	attrs []slog.Attr
	group string
}

func (h *dynamicHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return slog.Default().Handler().Enabled(ctx, l)
}

func (h *dynamicHandler) Handle(ctx context.Context, r slog.Record) error {
	target := slog.Default().Handler().WithAttrs([]slog.Attr{slog.String("component", h.component)})
	for _, op := range h.ops {
		if op.group != "" {
			target = target.WithGroup(op.group)
		} else {
			target = target.WithAttrs(op.attrs)
		}
	}
	return target.Handle(ctx, r)
}

func (h *dynamicHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return h.with(handlerOp{attrs: slices.Clone(attrs)})
}

func (h *dynamicHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.with(handlerOp{group: name})
}

func (h *dynamicHandler) with(op handlerOp) *dynamicHandler {
	return &dynamicHandler{
		component: h.component,
		ops:       append(slices.Clip(h.ops), op),
	}
}

package logging

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// Capture collects slog records for test assertions.
// Use CaptureForTest to install it as the global handler.
type Capture struct {
	mu        sync.Mutex
	records   []slog.Record
	prev      *slog.Logger
	prevLevel slog.Level
}

// CaptureForTest installs a capturing handler as the global slog default
// and returns a Capture that can be queried for assertions.
// Call Restore() when done (typically via defer).
func CaptureForTest() *Capture {
	c := &Capture{
		prev:      slog.Default(),
		prevLevel: level.Level(),
	}
	handler := &captureHandler{capture: c}
	slog.SetDefault(slog.New(handler))
	SetLevel(slog.LevelDebug) // capture everything
	return c
}

// Restore reinstates the previous global logger and log level.
func (c *Capture) Restore() {
	slog.SetDefault(c.prev)
	level.Set(c.prevLevel)
}

// Records returns a copy of all captured records.
func (c *Capture) Records() []slog.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]slog.Record, len(c.records))
	copy(out, c.records)
	return out
}

// Has returns true if any captured record matches the given level and
// contains msgSubstring in its message.
func (c *Capture) Has(level slog.Level, msgSubstring string) bool {
	_, ok := c.Find(level, msgSubstring)
	return ok
}

// Count returns the number of captured records at the given level.
func (c *Capture) Count(level slog.Level) int {
	return len(c.matching(level, ""))
}

// Find returns the first record at level whose message contains
// msgSubstring.
func (c *Capture) Find(level slog.Level, msgSubstring string) (slog.Record, bool) {
	recs := c.matching(level, msgSubstring)
	if len(recs) == 0 {
		return slog.Record{}, false
	}
	return recs[0], true
}

// Reset drops every captured record.
func (c *Capture) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
}

func (c *Capture) matching(level slog.Level, msgSubstring string) []slog.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []slog.Record
	for _, r := range c.records {
		if r.Level == level && strings.Contains(r.Message, msgSubstring) {
			out = append(out, r)
		}
	}
	return out
}

// Attr returns the value of the attribute named key on r.
func Attr(r slog.Record, key string) (slog.Value, bool) {
	var (
		v     slog.Value
		found bool
	)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			v, found = a.Value, true
			return false
		}
		return true
	})
	return v, found
}

// captureHandler is a slog.Handler that appends records to a Capture.
type captureHandler struct {
	capture *Capture
	attrs   []slog.Attr
	group   string
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	if len(h.attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(h.attrs...)
	}
	h.capture.mu.Lock()
	defer h.capture.mu.Unlock()
	h.capture.records = append(h.capture.records, r)
	return nil
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &captureHandler{
		capture: h.capture,
		attrs:   append(slices.Clone(h.attrs), attrs...),
		group:   h.group,
	}
}

func (h *captureHandler) WithGroup(name string) slog.Handler {
	return &captureHandler{
		capture: h.capture,
		attrs:   h.attrs,
		group:   name,
	}
}

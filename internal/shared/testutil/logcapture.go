package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogRecord is one captured log call with its attributes flattened,
// including those added through Logger.With.
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type logStore struct {
	mu      sync.Mutex
	records []LogRecord
}

// LogCapture is a slog.Handler that keeps every record in memory
type LogCapture struct {
	store *logStore
	attrs []slog.Attr
	group string
	t     *testing.T
}

// NewTestLogger returns a logger whose records can be inspected through the capture.
func NewTestLogger(t *testing.T) (*slog.Logger, *LogCapture) {
	c := &LogCapture{store: &logStore{}, t: t}
	return slog.New(c), c
}

func (c *LogCapture) Enabled(context.Context, slog.Level) bool { return true }

func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(c.attrs)+r.NumAttrs())
	for _, a := range c.attrs {
		attrs[c.key(a.Key)] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[c.key(a.Key)] = a.Value.Any()
		return true
	})

	c.store.mu.Lock()
	c.store.records = append(c.store.records, LogRecord{Level: r.Level, Message: r.Message, Attrs: attrs})
	c.store.mu.Unlock()

	if c.t != nil {
		c.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

func (c *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *c
	next.attrs = append(append([]slog.Attr(nil), c.attrs...), attrs...)
	return &next
}

func (c *LogCapture) WithGroup(name string) slog.Handler {
	next := *c
	next.group = c.key(name)
	return &next
}

func (c *LogCapture) key(k string) string {
	if c.group == "" {
		return k
	}
	return c.group + "." + k
}

// Records returns a copy of everything captured so far
func (c *LogCapture) Records() []LogRecord {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return append([]LogRecord(nil), c.store.records...)
}

// Find returns the first record whose message contains msg
func (c *LogCapture) Find(msg string) (LogRecord, bool) {
	for _, r := range c.Records() {
		if strings.Contains(r.Message, msg) {
			return r, true
		}
	}
	return LogRecord{}, false
}

// AtLevel returns the records logged at level
func (c *LogCapture) AtLevel(level slog.Level) []LogRecord {
	var out []LogRecord
	for _, r := range c.Records() {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

// AssertLogged fails t unless a record at level contains msg
func AssertLogged(t *testing.T, c *LogCapture, level slog.Level, msg string) LogRecord {
	t.Helper()
	for _, r := range c.AtLevel(level) {
		if strings.Contains(r.Message, msg) {
			return r
		}
	}
	t.Errorf("no %s log containing %q", level, msg)
	return LogRecord{}
}

// AssertNoErrors fails t if anything was logged at error level
func AssertNoErrors(t *testing.T, c *LogCapture) {
	t.Helper()
	for _, r := range c.AtLevel(slog.LevelError) {
		t.Errorf("unexpected error log: %s %v", r.Message, r.Attrs)
	}
}

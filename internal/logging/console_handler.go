package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// prettyHandler writes one human-readable line per record:
//
//	15:04:05 INFO  artwork: downloaded [Hades] kind=hero
type prettyHandler struct {
	out       *lockedWriter
	level     *slog.LevelVar
	addSource bool
	bound     []field
	group     string
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

type field struct {
	key   string
	value slog.Value
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &prettyHandler{out: &lockedWriter{w: w}, level: lvl, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := slices.Clone(h.bound)
	r.Attrs(func(a slog.Attr) bool {
		fields = appendField(fields, h.group, a)
		return true
	})
	component := takeField(&fields, FieldComponent)
	game := takeField(&fields, FieldGame)

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	msg := strings.TrimSpace(r.Message)
	if msg == "" {
		msg = "(no message)"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %-5s ", formatTimestamp(ts), levelLabel(r.Level))
	if component != "" {
		buf.WriteString(component + ": ")
	}
	buf.WriteString(msg)
	if game != "" {
		fmt.Fprintf(&buf, " [%s]", game)
	}
	if h.addSource {
		if src := r.Source(); src != nil && src.File != "" {
			fmt.Fprintf(&buf, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	for _, f := range lastPerKey(fields) {
		fmt.Fprintf(&buf, " %s=%s", f.key, formatValue(f.value))
	}
	buf.WriteByte('\n')

	h.out.mu.Lock()
	defer h.out.mu.Unlock()
	_, err := h.out.w.Write(buf.Bytes())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.bound = slices.Clone(h.bound)
	for _, a := range attrs {
		next.bound = appendField(next.bound, h.group, a)
	}
	return &next
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = joinKey(h.group, name)
	return &next
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// appendField flattens groups into dotted keys.
func appendField(dst []field, prefix string, a slog.Attr) []field {
	if a.Equal(slog.Attr{}) {
		return dst
	}
	v := a.Value.Resolve()
	if v.Kind() != slog.KindGroup {
		return append(dst, field{key: joinKey(prefix, a.Key), value: v})
	}
	if a.Key != "" {
		prefix = joinKey(prefix, a.Key)
	}
	for _, member := range v.Group() {
		dst = appendField(dst, prefix, member)
	}
	return dst
}

// takeField removes every field named key and returns the first value.
func takeField(fields *[]field, key string) string {
	var value string
	*fields = slices.DeleteFunc(*fields, func(f field) bool {
		if f.key != key {
			return false
		}
		if value == "" {
			value = attrString(f.value)
		}
		return true
	})
	return value
}

// lastPerKey keeps the last occurrence of each key so call-site attributes
// override ones bound with With.
func lastPerKey(fields []field) []field {
	out := make([]field, 0, len(fields))
	for i, f := range fields {
		if f.key == "" {
			continue
		}
		overridden := slices.ContainsFunc(fields[i+1:], func(o field) bool { return o.key == f.key })
		if !overridden {
			out = append(out, f)
		}
	}
	return out
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	}
	return "DEBUG"
}

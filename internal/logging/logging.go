// Package logging provides the slog handler used across the application:
// one line per record with a colored level tag and key=value attributes.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

const timeFormat = "15:04:05.000"

// Handler writes human-readable records. Colors are applied only when
// enabled, so the same handler serves terminals and log files.
type Handler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Leveler
	colors bool
	attrs  []slog.Attr
	group  string
}

// NewHandler creates a Handler that writes records at or above level.
func NewHandler(out io.Writer, level slog.Leveler, colors bool) *Handler {
	return &Handler{
		mu:     &sync.Mutex{},
		out:    out,
		level:  level,
		colors: colors,
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	if !r.Time.IsZero() {
		b.WriteString(r.Time.Format(timeFormat))
		b.WriteByte(' ')
	}
	b.WriteString(h.levelTag(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		h.writeAttr(&b, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&b, h.qualify(a))
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, h.qualify(a))
	}
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

func (h *Handler) qualify(a slog.Attr) slog.Attr {
	if h.group != "" {
		a.Key = h.group + "." + a.Key
	}
	return a
}

func (h *Handler) levelTag(l slog.Level) string {
	tag := l.String() + ":"
	if !h.colors {
		return tag
	}
	switch {
	case l >= slog.LevelError:
		return color.RedString(tag)
	case l >= slog.LevelWarn:
		return color.YellowString(tag)
	case l >= slog.LevelInfo:
		return color.HiBlueString(tag)
	default:
		return color.MagentaString(tag)
	}
}

func (h *Handler) writeAttr(b *strings.Builder, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			ga.Key = a.Key + "." + ga.Key
			h.writeAttr(b, ga)
		}
		return
	}

	b.WriteByte(' ')
	key := a.Key
	if h.colors {
		key = color.GreenString(key)
	}
	b.WriteString(key)
	b.WriteByte('=')
	val := fmt.Sprint(a.Value.Any())
	if strings.ContainsAny(val, " \t\n\"") {
		val = fmt.Sprintf("%q", val)
	}
	b.WriteString(val)
}

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// Setup installs a Handler writing to out as the default slog logger.
// Colors are used only when out is a terminal and NO_COLOR is unset.
func Setup(out io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(NewHandler(out, level, useColor(out)))
	slog.SetDefault(logger)
	return logger
}

// SetupFile redirects the default logger to the file at path, for use while
// the terminal is owned by the TUI. The returned function closes the file.
func SetupFile(path string, level slog.Level) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(NewHandler(f, level, false)))
	return f.Close, nil
}

func useColor(out io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

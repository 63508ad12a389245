// Package logging installs the process-wide slog handler.
//
// Console output is colored and compact for interactive runs. NO_COLOR and
// piped output are not special-cased.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	reset     = "\033[0m"
	red       = "\033[31m"
	green     = "\033[32m"
	yellow    = "\033[33m"
	magenta   = "\033[35m"
	cyan      = "\033[36m"
	white     = "\033[37m"
	boldWhite = "\033[1;37m"
)

var levelColors = map[slog.Level]string{
	slog.LevelDebug: cyan,
	slog.LevelInfo:  green,
	slog.LevelWarn:  yellow,
	slog.LevelError: red,
}

// ConsoleHandler renders records as "HH:MM:SS LEVEL message key=val ...".
type ConsoleHandler struct {
	inner slog.Handler
	out   io.Writer
	attrs []slog.Attr
}

// NewConsoleHandler wraps a TextHandler for Enabled() checks and renders
// colored lines itself.
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &ConsoleHandler{
		inner: slog.NewTextHandler(w, opts),
		out:   w,
	}
}

func (h *ConsoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	color, ok := levelColors[r.Level]
	if !ok {
		color = white
	}

	var line strings.Builder
	fmt.Fprintf(&line, "%s%s%s ", magenta, r.Time.Format("15:04:05"), reset)
	fmt.Fprintf(&line, "%s%-5s%s ", color, strings.ToUpper(r.Level.String()), reset)
	fmt.Fprintf(&line, "%s%s%s", boldWhite, r.Message, reset)

	writeAttr := func(a slog.Attr) {
		val := a.Value.String()
		if a.Value.Kind() == slog.KindString && strings.ContainsAny(val, " \t") {
			val = fmt.Sprintf("%q", val)
		}
		fmt.Fprintf(&line, " %s%s%s=%s", yellow, a.Key, reset, val)
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(a)
		return true
	})

	fmt.Fprintln(h.out, line.String())
	return nil
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &ConsoleHandler{inner: h.inner.WithAttrs(attrs), out: h.out, attrs: merged}
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	return &ConsoleHandler{inner: h.inner.WithGroup(name), out: h.out, attrs: h.attrs}
}

// Setup installs the console handler as the slog default.
func Setup(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := NewConsoleHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}

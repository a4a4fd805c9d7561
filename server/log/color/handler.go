// Copyright (C) 2024 Christian Rößner
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// Package color provides a slog.Handler that renders records with slog.TextHandler
// and paints each line according to its level.
package color

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/fatih/color"
)

// LevelColors maps slog levels to terminal colors.
type LevelColors map[slog.Level]*color.Color

// DefaultLevelColors returns the colors used when no explicit mapping is given.
func DefaultLevelColors() LevelColors {
	return LevelColors{
		slog.LevelDebug: color.New(color.FgCyan),
		slog.LevelInfo:  color.New(color.FgGreen),
		slog.LevelWarn:  color.New(color.FgYellow),
		slog.LevelError: color.New(color.FgRed),
	}
}

// Handler wraps slog.TextHandler output in a level dependent color.
type Handler struct {
	mu     *sync.Mutex
	out    io.Writer
	opts   *slog.HandlerOptions
	attrs  []slog.Attr
	groups []string
	colors LevelColors
}

// NewHandler creates a Handler writing to out. A nil colors map selects DefaultLevelColors.
func NewHandler(out io.Writer, opts *slog.HandlerOptions, colors LevelColors) *Handler {
	if colors == nil {
		colors = DefaultLevelColors()
	}

	return &Handler{mu: &sync.Mutex{}, out: out, opts: opts, colors: colors}
}

func (h *Handler) Enabled(_ context.Context, lvl slog.Level) bool {
	if h.opts == nil || h.opts.Level == nil {
		return true
	}

	return lvl >= h.opts.Level.Level()
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	var buf bytes.Buffer

	var inner slog.Handler = slog.NewTextHandler(&buf, h.opts)

	for _, g := range h.groups {
		inner = inner.WithGroup(g)
	}

	if len(h.attrs) > 0 {
		inner = inner.WithAttrs(h.attrs)
	}

	if err := inner.Handle(ctx, r); err != nil {
		return err
	}

	line := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})

	h.mu.Lock()
	defer h.mu.Unlock()

	// Reset happens before the newline so the next line starts uncolored.
	if _, err := h.pick(r.Level).Fprint(h.out, string(line)); err != nil {
		return err
	}

	_, err := h.out.Write([]byte{'\n'})

	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)

	return &cp
}

func (h *Handler) WithGroup(name string) slog.Handler {
	cp := *h
	cp.groups = append(append([]string(nil), h.groups...), name)

	return &cp
}

func (h *Handler) pick(lvl slog.Level) *color.Color {
	key := slog.LevelInfo

	switch {
	case lvl >= slog.LevelError:
		key = slog.LevelError
	case lvl >= slog.LevelWarn:
		key = slog.LevelWarn
	case lvl < slog.LevelInfo:
		key = slog.LevelDebug
	}

	if c, ok := h.colors[key]; ok && c != nil {
		return c
	}

	return color.New(color.Reset)
}

var _ slog.Handler = (*Handler)(nil)

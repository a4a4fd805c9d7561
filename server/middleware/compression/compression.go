// Copyright (C) 2026 Christian Rößner
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


// Package compression encodes responses with brotli, zstd or gzip when the client accepts it.
package compression

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/croessner/mfs/server/config"

	"github.com/andybalholm/brotli"
	gzipmw "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zstd"
)

// Level selects the speed/ratio trade-off of an encoder.
type Level int

const (
	DefaultCompression Level = iota
	BestSpeed
	BetterCompression
	BestCompression
)

// Algorithm names as sent in Content-Encoding.
const (
	Brotli = "br"
	Zstd   = "zstd"
	Gzip   = "gzip"
)

type encoderFactory func(w io.Writer, lvl Level) (io.WriteCloser, error)

var factories = map[string]encoderFactory{
	Brotli: newBrotli,
	Zstd:   newZstd,
}

// Normalize maps the accepted spellings of an algorithm to its Content-Encoding token. It
// returns "" for unknown names.
func Normalize(alg string) string {
	switch strings.ToLower(strings.TrimSpace(alg)) {
	case "br", "brotli":
		return Brotli
	case "zstd", "zst", "zstandard":
		return Zstd
	case "gzip":
		return Gzip
	default:
		return ""
	}
}

// Apply installs the middleware of the first known algorithm of cfg on router and returns
// its name. Without a known algorithm zstd is used. Nothing is installed when disabled.
func Apply(router gin.IRoutes, cfg config.Compression) string {
	if !cfg.Enabled {
		return ""
	}

	chosen := Zstd

	for _, alg := range cfg.Algorithms {
		if name := Normalize(alg); name != "" {
			chosen = name

			break
		}
	}

	lvl := Level(cfg.Level)

	if chosen == Gzip {
		router.Use(gzipmw.Gzip(gzipLevel(lvl)))
	} else {
		router.Use(Encode(chosen, lvl, cfg.MinLength))
	}

	return chosen
}

// Encode returns a middleware compressing responses with the named algorithm. Bodies
// shorter than minLength are sent unencoded.
func Encode(name string, lvl Level, minLength int) gin.HandlerFunc {
	factory, ok := factories[name]
	if !ok {
		return func(ctx *gin.Context) { ctx.Next() }
	}

	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodHead || !accepts(ctx.Request.Header.Get("Accept-Encoding"), name) {
			ctx.Next()

			return
		}

		w := &encodingWriter{
			ResponseWriter: ctx.Writer,
			name:           name,
			lvl:            lvl,
			minLength:      minLength,
			factory:        factory,
		}
		ctx.Writer = w

		ctx.Next()

		w.finish()
	}
}

// accepts reports whether the Accept-Encoding header lists name (or *) without q=0.
func accepts(header string, name string) bool {
	for _, part := range strings.Split(header, ",") {
		token, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		token = strings.ToLower(strings.TrimSpace(token))

		if token != name && token != "*" && Normalize(token) != name {
			continue
		}

		if q, found := strings.CutPrefix(strings.ReplaceAll(params, " ", ""), "q="); found && strings.Trim(q, "0.") == "" {
			continue
		}

		return true
	}

	return false
}

// encodingWriter buffers the body until minLength is reached, then decides once whether
// to encode.
type encodingWriter struct {
	gin.ResponseWriter

	name      string
	lvl       Level
	minLength int
	factory   encoderFactory

	buf     []byte
	decided bool
	enc     io.WriteCloser
}

func (w *encodingWriter) Write(b []byte) (int, error) {
	if w.decided {
		if w.enc != nil {
			return w.enc.Write(b)
		}

		return w.ResponseWriter.Write(b)
	}

	w.buf = append(w.buf, b...)

	if len(w.buf) >= w.minLength {
		if err := w.decide(true); err != nil {
			return 0, err
		}
	}

	return len(b), nil
}

func (w *encodingWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *encodingWriter) decide(compress bool) error {
	w.decided = true

	status := w.ResponseWriter.Status()
	header := w.Header()

	if compress && bodyAllowed(status) && header.Get("Content-Encoding") == "" {
		header.Del("Content-Length")
		header.Set("Content-Encoding", w.name)
		addVary(header)

		enc, err := w.factory(w.ResponseWriter, w.lvl)
		if err == nil {
			w.enc = enc
		}
	}

	buf := w.buf
	w.buf = nil

	if len(buf) == 0 {
		return nil
	}

	var err error

	if w.enc != nil {
		_, err = w.enc.Write(buf)
	} else {
		_, err = w.ResponseWriter.Write(buf)
	}

	return err
}

func (w *encodingWriter) finish() {
	if !w.decided && len(w.buf) > 0 {
		_ = w.decide(len(w.buf) >= w.minLength)
	}

	if w.enc != nil {
		_ = w.enc.Close()
	}
}

func (w *encodingWriter) Flush() {
	if !w.decided {
		_ = w.decide(true)
	}

	if f, ok := w.enc.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}

	w.ResponseWriter.Flush()
}

func bodyAllowed(status int) bool {
	return status >= http.StatusOK && status != http.StatusNoContent && status != http.StatusNotModified
}

func addVary(h http.Header) {
	vary := h.Get("Vary")

	switch {
	case vary == "":
		h.Set("Vary", "Accept-Encoding")
	case !strings.Contains(vary, "Accept-Encoding"):
		h.Set("Vary", vary+", Accept-Encoding")
	}
}

func newBrotli(w io.Writer, lvl Level) (io.WriteCloser, error) {
	quality := brotli.DefaultCompression

	switch lvl {
	case BestSpeed:
		quality = brotli.BestSpeed
	case BetterCompression:
		quality = 8
	case BestCompression:
		quality = brotli.BestCompression
	}

	return brotli.NewWriterLevel(w, quality), nil
}

func newZstd(w io.Writer, lvl Level) (io.WriteCloser, error) {
	var opts []zstd.EOption

	switch lvl {
	case BestSpeed:
		opts = []zstd.EOption{zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithZeroFrames(true)}
	case BetterCompression:
		opts = []zstd.EOption{zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithWindowSize(1 << 20)}
	case BestCompression:
		opts = []zstd.EOption{zstd.WithEncoderLevel(zstd.SpeedBetterCompression)}
	default:
		opts = []zstd.EOption{zstd.WithEncoderLevel(zstd.SpeedDefault)}
	}

	return zstd.NewWriter(w, opts...)
}

func gzipLevel(lvl Level) int {
	switch lvl {
	case BestSpeed:
		return gzip.BestSpeed
	case BestCompression:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

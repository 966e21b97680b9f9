package cache

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HeaderXCache reports whether a response was served from the cache.
const HeaderXCache = "X-Cache"

// MiddlewareConfig configures response caching for a route.
type MiddlewareConfig struct {
	// TTL of stored responses; zero uses the cache default
	TTL time.Duration

	// UserID, when set, adds the caller's id to the key so each caller gets
	// its own entry
	UserID func(c echo.Context) string

	// Skipper bypasses the cache for a request
	Skipper func(c echo.Context) bool
}

// CacheFor caches GET responses of a route for the given number of seconds.
func (rc *ResponseCache) CacheFor(seconds int) echo.MiddlewareFunc {
	return rc.Middleware(MiddlewareConfig{TTL: time.Duration(seconds) * time.Second})
}

// Middleware caches successful GET responses. On a hit the stored body,
// status and content type are written without calling the handler.
func (rc *ResponseCache) Middleware(cfg MiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodGet || (cfg.Skipper != nil && cfg.Skipper(c)) {
				return next(c)
			}

			key := CacheKey{Route: req.URL.EscapedPath(), QueryParams: req.URL.Query()}
			if cfg.UserID != nil {
				key.UserID = cfg.UserID(c)
			}

			entry, hit, err := rc.Fetch(req.Context(), key, cfg.TTL, func(ctx context.Context) (*CacheEntry, error) {
				res := c.Response()
				res.Header().Set(HeaderXCache, "MISS")

				buf := new(bytes.Buffer)
				writer := &bodyRecorder{Writer: io.MultiWriter(res.Writer, buf), ResponseWriter: res.Writer}
				res.Writer = writer
				defer func() { res.Writer = writer.ResponseWriter }()

				if err := next(c); err != nil {
					return nil, err
				}
				return &CacheEntry{
					Data:        buf.Bytes(),
					ContentType: res.Header().Get(echo.HeaderContentType),
					StatusCode:  res.Status,
				}, nil
			})
			if err != nil {
				return err
			}
			if !hit {
				return nil
			}

			c.Response().Header().Set(HeaderXCache, "HIT")
			return c.Blob(entry.StatusCode, entry.ContentType, entry.Data)
		}
	}
}

// bodyRecorder copies the response body while it is written.
type bodyRecorder struct {
	io.Writer
	http.ResponseWriter
}

func (w *bodyRecorder) WriteHeader(code int) {
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *bodyRecorder) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *bodyRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return http.NewResponseController(w.ResponseWriter).Hijack()
}

func (w *bodyRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

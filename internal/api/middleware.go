package api

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/FlorianTh2/homepageBackend/internal/auth"
	"github.com/FlorianTh2/homepageBackend/pkg/cache"
)

// observe logs every request and records the HTTP metrics. Errors are
// rendered here so the logged status is the one sent to the client.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		duration := time.Since(start)

		req := c.Request()
		res := c.Response()
		route := c.Path()
		if route == "" {
			route = "unmatched"
		}

		HTTPRequests.WithLabelValues(req.Method, route, strconv.Itoa(res.Status)).Inc()
		HTTPRequestDuration.WithLabelValues(req.Method, route).Observe(duration.Seconds())

		s.logger.Debug().
			Str("method", req.Method).
			Str("uri", req.RequestURI).
			Str("route", route).
			Int("status", res.Status).
			Dur("duration", duration).
			Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
			Str("user_id", auth.UserID(c)).
			Str("cache", res.Header().Get(cache.HeaderXCache)).
			Msg("http request")

		return nil
	}
}

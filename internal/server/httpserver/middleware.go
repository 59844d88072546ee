package httpserver

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/collabsync/internal/logging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// requestLogger logs one line per request, tagged with a request id taken
// from the caller or generated.
func requestLogger(l logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()

			requestID := req.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			res.Header().Set(RequestIDHeader, requestID)

			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			status := res.Status
			if err != nil {
				status, _ = mapError(err)
			}

			args := []any{
				"request_id", requestID,
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"latency", latency,
			}
			if q := req.URL.RawQuery; q != "" {
				args = append(args, "query", q)
			}

			ctx := req.Context()
			switch {
			case status >= http.StatusInternalServerError:
				l.Error(ctx, "http request", args...)
			case status >= http.StatusBadRequest:
				l.Warn(ctx, "http request", args...)
			default:
				l.Info(ctx, "http request", args...)
			}

			return err
		}
	}
}

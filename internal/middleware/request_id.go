package middleware

import (
	"context"
	"regexp"

	"pfm-api/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	TraceIDHeader     = "X-Trace-ID"
	TraceIDContextKey = "trace_id"
)

// inbound ids are echoed into logs and headers, keep them short and printable
var inboundTraceID = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// RequestID tags every request with a trace id. A well-formed X-Trace-ID from
// the caller is reused, otherwise a fresh uuid is minted. The id is written to
// the response, the echo context and the request context, where audit events
// pick it up as their correlation_id.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			traceID := c.Request().Header.Get(TraceIDHeader)
			if !inboundTraceID.MatchString(traceID) {
				traceID = uuid.NewString()
			}

			ctx := context.WithValue(c.Request().Context(), services.CorrelationIDKey, traceID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set(TraceIDContextKey, traceID)
			c.Response().Header().Set(TraceIDHeader, traceID)
			return next(c)
		}
	}
}

// GetTraceID returns the id set by RequestID, or "" outside of it
func GetTraceID(c echo.Context) string {
	id, _ := c.Get(TraceIDContextKey).(string)
	return id
}

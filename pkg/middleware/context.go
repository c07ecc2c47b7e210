package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	fernctx "github.com/Ramsey-B/fern/pkg/context"
)

const (
	// HeaderTenantID is the header key for tenant ID
	HeaderTenantID = "X-Tenant-ID"
)

// Context lifts request identity out of headers into typed context values
// so repositories and the matching engine can log and scope by tenant
// without touching echo.
func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := req.Context()
			ctx = fernctx.SetRequestID(ctx, requestID)
			ctx = fernctx.SetTenantID(ctx, req.Header.Get(HeaderTenantID))
			ctx = fernctx.SetMethod(ctx, req.Method)
			ctx = fernctx.SetRoute(ctx, req.URL.Path)
			ctx = fernctx.SetRemoteIP(ctx, c.RealIP())

			c.SetRequest(req.WithContext(ctx))
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			return next(c)
		}
	}
}

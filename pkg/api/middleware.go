package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/tarsy/pkg/ratelimit"
)

// securityHeaders sets standard security response headers, carried
// unchanged from pkg/api/middleware.go.
func securityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			h := c.Response().Header()
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			return next(c)
		}
	}
}

const correlationIDHeader = "X-Correlation-ID"

// correlationID assigns a request correlation ID (honoring one supplied by
// the caller), echoing it back on the response and storing it on the
// context so error logging can tie a 500 back to a request (spec §7's
// "unhandled error is logged with a correlation ID").
func correlationID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			id := c.Request().Header.Get(correlationIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set(correlationIDHeader, id)
			c.Response().Header().Set(correlationIDHeader, id)
			return next(c)
		}
	}
}

// cors applies a permissive cross-origin policy. No CORS middleware
// package appears anywhere in the example corpus, so this is a small
// hand-rolled handler rather than a borrowed dependency.
func cors() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			h := c.Response().Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+correlationIDHeader)
			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}

// rateLimitMiddleware enforces limiter against the caller's identity,
// returning 429 with the headers spec §7 requires on rejection. identity
// must already be set by authMiddleware, so this middleware is wired after
// it in the chain.
func rateLimitMiddleware(limiter *ratelimit.Limiter, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			identity := identityFrom(c)
			if err := limiter.Check(identity.UserID, limit, window); err != nil {
				rlErr, ok := err.(*ratelimit.RateLimitError)
				if !ok {
					return echo.NewHTTPError(http.StatusTooManyRequests, err.Error())
				}
				c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(rlErr.Limit))
				c.Response().Header().Set("Retry-After", strconv.Itoa(rlErr.RetryAfter))
				return echo.NewHTTPError(http.StatusTooManyRequests, rlErr.Error())
			}
			return next(c)
		}
	}
}

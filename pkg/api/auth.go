// Package api is the HTTP adapter: an echo/v5 router and middleware stack
// that authenticates callers, enforces rate limits and request size caps,
// and drives the workflow engine, exactly the "thin adapter" role spec §1
// assigns it. Grounded on pkg/api/{server,middleware,auth}.go, which use
// echo/v5 throughout despite go.mod naming gin-gonic/gin as a direct
// dependency — gin appears only in the unwired legacy pkg/api/handlers.go,
// whose handlers are never registered by server.go's actual routes.
package api

import (
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v5"
)

// UserIdentity is the authenticated caller, derived from the Authorization
// header per spec §6.
type UserIdentity struct {
	UserID string
}

const identityContextKey = "council.identity"

// AuthenticationError reports a missing or malformed Authorization header.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string { return "authentication failed: " + e.Reason }

// extractIdentity parses Authorization: Bearer <token> or Authorization:
// ApiKey <token>, grounded in style on extractAuthor's header-parsing
// approach. The identity's UserID is the first 20 characters of the token
// (or the whole token if shorter) per spec §6.
func extractIdentity(c *echo.Context) (UserIdentity, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return UserIdentity{}, &AuthenticationError{Reason: "missing_token"}
	}

	var token string
	switch {
	case strings.HasPrefix(header, "Bearer "):
		token = strings.TrimPrefix(header, "Bearer ")
	case strings.HasPrefix(header, "ApiKey "):
		token = strings.TrimPrefix(header, "ApiKey ")
	default:
		return UserIdentity{}, &AuthenticationError{Reason: "invalid_token"}
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return UserIdentity{}, &AuthenticationError{Reason: "invalid_token"}
	}

	userID := token
	if len(userID) > 20 {
		userID = userID[:20]
	}
	return UserIdentity{UserID: userID}, nil
}

// authMiddleware rejects any /api/* request without a valid Authorization
// header, storing the resolved UserIdentity on the echo context for
// handlers to read via identityFrom.
func authMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			identity, err := extractIdentity(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			c.Set(identityContextKey, identity)
			return next(c)
		}
	}
}

// identityFrom reads the UserIdentity stored by authMiddleware. Panics if
// called on a route not behind authMiddleware — a programming error, not a
// request-time condition.
func identityFrom(c *echo.Context) UserIdentity {
	identity, ok := c.Get(identityContextKey).(UserIdentity)
	if !ok {
		panic("api: identityFrom called outside authMiddleware")
	}
	return identity
}

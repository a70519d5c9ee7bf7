package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/brightmind-app/brightmind/internal/auth"
	"github.com/brightmind-app/brightmind/internal/domain"
)

// UserContextKey is where the authenticated *domain.User is stored in the
// echo context.
const UserContextKey = "user"

// Auth creates a middleware that protects routes requiring a valid bearer
// token. The token is read from the Authorization header, or from the "token"
// query parameter for websocket handshakes where browsers cannot set headers.
func Auth(tokens *auth.TokenManager, users domain.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
			}

			userID, err := tokens.Validate(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
			}

			sanitized := user.Sanitized()
			c.Set(UserContextKey, &sanitized)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user placed in context by Auth.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(UserContextKey).(*domain.User)
	return user, ok && user != nil
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.QueryParam("token")
}

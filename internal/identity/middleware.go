package identity

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ContextKey is the echo context key under which the authenticated user is
// stored.
const ContextKey = "identity.user"

// Claims is the JWT payload issued by the identity provider.
type Claims struct {
	Email    string `json:"email"`
	FullName string `json:"name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// FromContext returns the authenticated user stored on the request context,
// or Anonymous when the request carried no valid token.
func FromContext(c echo.Context) User {
	if u, ok := c.Get(ContextKey).(User); ok {
		return u
	}
	return Anonymous
}

// Middleware validates a bearer token against the shared secret and stores
// the resulting user on the request context. Requests without a token pass
// through as Anonymous; handlers decide whether authentication is required.
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return next(c)
			}

			user, err := ParseToken(token, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			c.Set(ContextKey, user)
			return next(c)
		}
	}
}

// RequireAuth rejects requests whose context carries no authenticated user.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !FromContext(c).IsAuthenticated {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		return next(c)
	}
}

// RequireRole rejects requests unless the authenticated user holds one of the
// given roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := FromContext(c)
			if !user.IsAuthenticated {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			for _, r := range roles {
				if user.Role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}

// ParseToken validates an HS256 token and maps its claims onto a User.
func ParseToken(token string, secret []byte) (User, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return Anonymous, fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsed.Valid {
		return Anonymous, fmt.Errorf("token is not valid")
	}

	return User{
		IsAuthenticated: true,
		UserID:          claims.Subject,
		Email:           claims.Email,
		FullName:        claims.FullName,
		Role:            claims.Role,
	}, nil
}

// SignToken mints an HS256 token for the given user. Used by tests and the
// development login endpoint.
func SignToken(user User, secret []byte) (string, error) {
	claims := Claims{
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.UserID,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

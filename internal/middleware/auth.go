// Package middleware provides authentication and authorization middleware.
package middleware

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"postboard/internal/auth"
	apperrors "postboard/internal/errors"
	"postboard/internal/model"
)

const identityKey = "user"

const (
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
	msgAccessDenied = "Access denied"
)

// RequireAuth rejects requests without a valid "Authorization: Bearer <token>"
// header and stores the verified claims on the context.
func RequireAuth(tokens *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  identityKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(_ echo.Context, token string) (interface{}, error) {
			return tokens.Verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var extractErr *echojwt.TokenExtractionError
			if errors.As(err, &extractErr) {
				return c.JSON(http.StatusUnauthorized, apperrors.ErrorResponse{Message: msgNoToken})
			}
			return c.JSON(http.StatusUnauthorized, apperrors.ErrorResponse{Message: msgInvalidToken})
		},
	})
}

// Identity returns the claims stored by RequireAuth.
func Identity(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(identityKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// Policy decides whether an authenticated identity may proceed.
type Policy interface {
	Allow(claims *auth.Claims) bool
}

// AnyAuthenticated admits every verified identity.
type AnyAuthenticated struct{}

// Allow implements Policy.
func (AnyAuthenticated) Allow(claims *auth.Claims) bool {
	return claims != nil
}

type requireRole string

// RequireRole admits identities carrying role.
func RequireRole(role string) Policy {
	return requireRole(role)
}

func (r requireRole) Allow(claims *auth.Claims) bool {
	return claims != nil && claims.Role == string(r)
}

// AdminPolicy returns the policy guarding moderation routes.
func AdminPolicy(requireRole bool) Policy {
	if requireRole {
		return RequireRole(model.RoleAdmin)
	}
	return AnyAuthenticated{}
}

// Authorize must run after RequireAuth. Denied requests get 403.
func Authorize(policy Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, _ := Identity(c)
			if !policy.Allow(claims) {
				return c.JSON(http.StatusForbidden, apperrors.ErrorResponse{Message: msgAccessDenied})
			}
			return next(c)
		}
	}
}

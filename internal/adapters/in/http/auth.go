package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"restaurant/internal/core/application/lifecycle"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	userIDKey   = "user_id"
	tenantIDKey = "tenant_id"
)

// TenantResolver finds the restaurant a staff user belongs to.
type TenantResolver interface {
	TenantOf(ctx context.Context, userID kernel.UUID) (kernel.UUID, error)
}

// JWTAuth validates an HS256 bearer token and stores its subject as the
// user id.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			subject, err := token.Claims.GetSubject()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid claims")
			}
			userID, err := kernel.UUIDFromString(subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
			}

			ctx.Set(userIDKey, userID)
			return next(ctx)
		}
	}
}

// ResolveTenant looks up the restaurant of the authenticated user. Users
// without one get 403 not_connected.
func ResolveTenant(resolver TenantResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			userID, ok := ctx.Get(userIDKey).(kernel.UUID)
			if !ok {
				return respondError(ctx, lifecycle.ErrNotConnected)
			}

			tenantID, err := resolver.TenantOf(ctx.Request().Context(), userID)
			if errors.Is(err, errs.ErrObjectNotFound) {
				return respondError(ctx, lifecycle.ErrNotConnected)
			}
			if err != nil {
				return respondError(ctx, err)
			}

			ctx.Set(tenantIDKey, tenantID)
			return next(ctx)
		}
	}
}

func tenantOf(ctx echo.Context) (kernel.UUID, error) {
	tenantID, ok := ctx.Get(tenantIDKey).(kernel.UUID)
	if !ok {
		return kernel.UUID{}, lifecycle.ErrNotConnected
	}
	return tenantID, nil
}

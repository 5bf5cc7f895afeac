package api

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/vocab-api/internal/context"
)

var unauthorizedResponse = ErrorResponse{"Unauthorized"} //nolint:gochecknoglobals // this is a constant response for unauthorized access

func AuthMiddleware(cookieProc *CookiesProcessor, jwtProc *JWTProcessor, log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := cookieProc.GetAccessToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, unauthorizedResponse)
			}

			userID, err := jwtProc.ParseAccessToken(token)
			if err != nil {
				log.WarnContext(c.Request().Context(), "parse access token", "error", err)
				return c.JSON(http.StatusUnauthorized, unauthorizedResponse)
			}

			c.SetRequest(c.Request().WithContext(context.WithUserID(c.Request().Context(), userID)))

			return next(c)
		}
	}
}

package api

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/keuda/internal/pkg/constants"
	"github.com/ougirez/keuda/internal/pkg/logger"
	"github.com/ougirez/keuda/internal/pkg/utils"
)

// AdminMiddleware accepts a pre-issued admin token from the Authorization header
// ("Bearer <token>") or from the admin cookie.
func (svc *APIService) AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		raw := bearerToken(ctx.Request().Header.Get(constants.HeaderAuthorization))
		if raw == "" {
			cookie, err := ctx.Cookie(constants.CookieKeySecretToken)
			if err != nil {
				return constants.ErrMissingAuthCookie
			}
			raw = cookie.Value
		}

		token, err := utils.ParseAuthToken(raw)
		if err != nil {
			return err
		}

		if token.Subject != utils.AdminSubject {
			return constants.ErrUnauthorized
		}

		return next(ctx)
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// requestLogger puts the request id into the request context so every log line of the
// request carries it.
func requestLogger(c echo.Context, requestID string) {
	ctx := logger.WithFields(c.Request().Context(), constants.CtxKeyRequestID, requestID)
	c.SetRequest(c.Request().WithContext(ctx))
}

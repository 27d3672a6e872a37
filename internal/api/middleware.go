package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/xformreports/internal/pkg/constants"
	"github.com/ougirez/xformreports/internal/pkg/logger"
	"github.com/ougirez/xformreports/internal/pkg/utils"
)

// SessionMiddleware loads the signed session cookie into the context and
// writes it back when a handler changed it. Invalid cookies start a new
// session.
func (svc *APIService) SessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		session := utils.NewSession()
		if cookie, err := c.Cookie(constants.CookieKeySession); err == nil {
			parsed, err := utils.ParseSessionToken(cookie.Value, svc.cfg.Session.Secret)
			if err != nil {
				logger.Infof(ctx, "dropping session cookie: %s", err.Error())
			} else {
				session = parsed
			}
		}

		c.Set(constants.CtxKeySession, session)

		c.Response().Before(func() {
			if !session.Dirty() {
				return
			}

			token, err := utils.GenerateSessionToken(session, svc.cfg.Session.Secret, svc.cfg.Session.TTL)
			if err != nil {
				logger.Errorf(ctx, "GenerateSessionToken: %s", err.Error())
				return
			}

			c.SetCookie(&http.Cookie{
				Name:     constants.CookieKeySession,
				Value:    token,
				Path:     "/",
				MaxAge:   int(svc.cfg.Session.TTL.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		})

		return next(c)
	}
}

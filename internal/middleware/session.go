package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/iteach-web/internal/models"
	"github.com/noah-isme/iteach-web/internal/repository"
	"github.com/noah-isme/iteach-web/internal/service"
	"github.com/noah-isme/iteach-web/pkg/i18n"
	"github.com/noah-isme/iteach-web/pkg/logger"
	"github.com/noah-isme/iteach-web/pkg/response"
)

// Gin context keys set by Session.
const (
	ContextSessionKey   = "session"
	ContextLocalizerKey = "localizer"
)

// SessionCookie describes the cookie carrying the signed session.
type SessionCookie struct {
	Name   string
	Secure bool
}

// Session resolves the browser session from its signed cookie, starting a new one when
// the cookie is missing or invalid. It also picks the localizer and forwards the
// caller's credentials to the lesson API.
func Session(tokens *service.SessionTokenService, bundle *i18n.Bundle, cookie SessionCookie, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		var claims *models.SessionClaims
		if raw, err := c.Cookie(cookie.Name); err == nil && raw != "" {
			if parsed, err := tokens.Parse(raw); err == nil {
				claims = parsed
			} else {
				log.Debug("discarding invalid session cookie", zap.Error(err))
			}
		}

		if claims == nil {
			locale := bundle.FromAcceptLanguage(c.GetHeader("Accept-Language")).Locale()
			signed, issued, err := tokens.Issue(locale)
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
			claims = issued
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookie.Name, signed, int(tokens.TTL().Seconds()), "/", "", cookie.Secure, true)
		}

		c.Set(ContextSessionKey, claims)
		c.Set(logger.SessionIDKey, claims.SessionID)
		c.Set(ContextLocalizerKey, bundle.Localizer(claims.Locale))

		ctx := repository.WithCredentials(c.Request.Context(), repository.Credentials{
			Cookie:        forwardedCookies(c.Request, cookie.Name),
			Authorization: c.GetHeader("Authorization"),
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// forwardedCookies rebuilds the Cookie header without the front's own session cookie.
func forwardedCookies(r *http.Request, own string) string {
	var parts []string
	for _, ck := range r.Cookies() {
		if ck.Name == own {
			continue
		}
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	return strings.Join(parts, "; ")
}

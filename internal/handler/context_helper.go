package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/iteach-web/internal/middleware"
	"github.com/noah-isme/iteach-web/internal/models"
	appErrors "github.com/noah-isme/iteach-web/pkg/errors"
	"github.com/noah-isme/iteach-web/pkg/i18n"
)

func sessionFromContext(c *gin.Context) *models.SessionClaims {
	value, exists := c.Get(middleware.ContextSessionKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

func sessionID(c *gin.Context) (string, error) {
	claims := sessionFromContext(c)
	if claims == nil || claims.SessionID == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "missing session")
	}
	return claims.SessionID, nil
}

// localizerFromContext falls back to the bundle's default locale outside the session middleware.
func localizerFromContext(c *gin.Context, bundle *i18n.Bundle) *i18n.Localizer {
	if value, exists := c.Get(middleware.ContextLocalizerKey); exists {
		if loc, ok := value.(*i18n.Localizer); ok {
			return loc
		}
	}
	return bundle.FromAcceptLanguage(c.GetHeader("Accept-Language"))
}

func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name)
	}
	return id, nil
}

// parseAction reads a dialog continuation: "reload", "event:<name>" or "redirect:<route>".
func parseAction(raw string) models.DialogAction {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.DialogAction{Kind: models.ActionNone}
	}
	kind, target, _ := strings.Cut(raw, ":")
	switch models.ActionKind(kind) {
	case models.ActionReload, models.ActionNone:
		return models.DialogAction{Kind: models.ActionKind(kind)}
	case models.ActionEvent, models.ActionRedirect:
		if target != "" {
			return models.DialogAction{Kind: models.ActionKind(kind), Target: target}
		}
	}
	return models.DialogAction{Kind: models.ActionNone}
}

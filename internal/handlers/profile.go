package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/thinai_hub/internal/logging"
	"github.com/Skotchmaster/thinai_hub/internal/profile"
	authmw "github.com/Skotchmaster/thinai_hub/pkg/middleware/auth"
)

type ProfileHTTP struct {
	Svc *profile.Service
}

// Sync expects RequireIdentity to have run before it.
func (h *ProfileHTTP) Sync(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.sync")

	uid, _ := c.Get(authmw.ContextUserID).(string)
	email, _ := c.Get(authmw.ContextEmail).(string)
	name, _ := c.Get(authmw.ContextName).(string)

	p, created, err := h.Svc.Sync(ctx, profile.Identity{UID: uid, Email: email, Name: name})
	if err != nil {
		if errors.Is(err, profile.ErrNoUID) {
			l.Warn("profile_sync_error", "status", 401, "reason", "no identity")
			return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
		}
		l.Error("profile_sync_error", "status", 500, "reason", "cannot store profile", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot sync profile")
	}

	if created {
		return c.JSON(http.StatusCreated, p)
	}
	return c.JSON(http.StatusOK, p)
}

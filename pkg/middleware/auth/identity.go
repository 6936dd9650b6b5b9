package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/thinai_hub/internal/logging"
	"github.com/Skotchmaster/thinai_hub/pkg/tokens"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextName   = "name"
)

type IdentityMiddleware struct {
	Secret []byte
}

func NewIdentityMiddleware(secret []byte) *IdentityMiddleware {
	return &IdentityMiddleware{Secret: secret}
}

// RequireIdentity accepts "Authorization: Bearer <token>" signed with HS256.
func (m *IdentityMiddleware) RequireIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("middleware", "require_identity")

		raw, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			l.Warn("identity_error", "status", 401, "reason", "missing bearer token")
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		claims, err := tokens.IdentityFromToken(raw, m.Secret)
		if err != nil {
			l.Warn("identity_error", "status", 401, "reason", "invalid token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid identity token")
		}

		setIdentityContext(c, claims)
		return next(c)
	}
}

func bearer(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}

func setIdentityContext(c echo.Context, claims *tokens.IdentityClaims) {
	c.Set(ContextUserID, claims.Subject)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextName, claims.Name)
}

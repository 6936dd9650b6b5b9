package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/thinai_hub/pkg/tokens"
)

var secret = []byte("identity-secret")

func run(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/profile/sync", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := NewIdentityMiddleware(secret)
	err := m.RequireIdentity(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, c, err
}

func TestRequireIdentityAccepts(t *testing.T) {
	tok, err := tokens.SignIdentity(secret, "uid-7", "u@example.com", "Usha", time.Minute)
	require.NoError(t, err)

	rec, c, err := run(t, "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "uid-7", c.Get(ContextUserID))
	assert.Equal(t, "u@example.com", c.Get(ContextEmail))
	assert.Equal(t, "Usha", c.Get(ContextName))
}

func TestRequireIdentityRejects(t *testing.T) {
	foreign, err := tokens.SignIdentity([]byte("other"), "uid-7", "", "", time.Minute)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":      "",
		"wrong scheme": "Basic abc",
		"empty bearer": "Bearer ",
		"bad signer":   "Bearer " + foreign,
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := run(t, header)
			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, http.StatusUnauthorized, he.Code)
		})
	}
}

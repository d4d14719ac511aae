package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightride/brightride-api/internal/models"
	"github.com/brightride/brightride-api/internal/session"
	"github.com/brightride/brightride-api/internal/utils"
)

const secret = "mw-secret"

type stubRevoker struct {
	revoked map[string]bool
	err     error
}

func (s stubRevoker) Revoke(context.Context, string, time.Duration) error { return nil }

func (s stubRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	return s.revoked[id], s.err
}

func newApp(revoker session.Revoker) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", Authenticate(secret, revoker), func(c *fiber.Ctx) error {
		id, _ := CurrentIdentity(c)
		return c.SendString(id.ID.String() + " " + string(id.Role))
	})
	app.Get("/drivers-only", Authenticate(secret, revoker), RequireRoles(models.RoleDriver), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAuthenticateBearer(t *testing.T) {
	uid := uuid.New()
	tok, err := utils.SignJWT(secret, uid.String(), "DRIVER", 60)
	require.NoError(t, err)

	app := newApp(session.NopRevoker{})
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, uid.String()+" DRIVER", string(body))
}

func TestAuthenticateCookie(t *testing.T) {
	uid := uuid.New()
	tok, err := utils.SignJWT(secret, uid.String(), "PASSENGER", 60)
	require.NoError(t, err)

	app := newApp(session.NopRevoker{})
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Cookie", TokenCookie+"="+tok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestAuthenticateRejects(t *testing.T) {
	uid := uuid.New().String()
	expired, _ := utils.SignJWT(secret, uid, "DRIVER", -5)
	foreign, _ := utils.SignJWT("other-secret", uid, "DRIVER", 60)
	badRole, _ := utils.SignJWT(secret, uid, "ADMIN", 60)
	badID, _ := utils.SignJWT(secret, "not-a-uuid", "DRIVER", 60)

	app := newApp(session.NopRevoker{})
	for name, header := range map[string]string{
		"missing":  "",
		"scheme":   "Basic abc",
		"garbage":  "Bearer abc.def.ghi",
		"expired":  "Bearer " + expired,
		"foreign":  "Bearer " + foreign,
		"bad role": "Bearer " + badRole,
		"bad id":   "Bearer " + badID,
	} {
		req := httptest.NewRequest("GET", "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode, name)
	}
}

func TestAuthenticateRevoked(t *testing.T) {
	tok, err := utils.SignJWT(secret, uuid.NewString(), "DRIVER", 60)
	require.NoError(t, err)
	claims, err := utils.ParseJWT(secret, tok)
	require.NoError(t, err)

	app := newApp(stubRevoker{revoked: map[string]bool{claims.ID: true}})
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	app = newApp(stubRevoker{err: errors.New("redis down")})
	req = httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestRequireRoles(t *testing.T) {
	driver, _ := utils.SignJWT(secret, uuid.NewString(), "DRIVER", 60)
	mechanic, _ := utils.SignJWT(secret, uuid.NewString(), "MECHANIC", 60)
	app := newApp(session.NopRevoker{})

	for tok, want := range map[string]int{driver: 200, mechanic: 403} {
		req := httptest.NewRequest("GET", "/drivers-only", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode)
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Equal(t, "", bearerToken("Token abc"))
	assert.Equal(t, "", bearerToken("Bearer"))
}

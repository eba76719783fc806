package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(JWTSecret()))
	require.NoError(t, err)
	return signed
}

func walletToken(t *testing.T, wallet string, ttl time.Duration) string {
	return makeToken(t, jwt.MapClaims{
		"wallet": wallet,
		"exp":    time.Now().Add(ttl).Unix(),
		"iat":    time.Now().Unix(),
	})
}

func authTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/required", AuthMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"wallet": GetWallet(c)})
	})
	app.Get("/optional", OptionalAuthMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"wallet": GetWallet(c)})
	})
	app.Get("/admin", AdminAuthMiddleware, func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})
	return app
}

func request(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	app := authTestApp()
	wallet := "0x6666666666666666666666666666666666666666"

	assert.Equal(t, 200, request(t, app, "/required", walletToken(t, wallet, time.Hour)))
	assert.Equal(t, 401, request(t, app, "/required", ""))
	assert.Equal(t, 401, request(t, app, "/required", "garbage"))
	assert.Equal(t, 401, request(t, app, "/required", walletToken(t, wallet, -time.Hour)))
	assert.Equal(t, 401, request(t, app, "/required", walletToken(t, "", time.Hour)))
}

func TestOptionalAuthMiddleware_GuestFallback(t *testing.T) {
	app := authTestApp()

	// Missing or broken tokens degrade to guest instead of erroring.
	assert.Equal(t, 200, request(t, app, "/optional", ""))
	assert.Equal(t, 200, request(t, app, "/optional", "garbage"))
	assert.Equal(t, 200, request(t, app, "/optional",
		walletToken(t, "0x7777777777777777777777777777777777777777", time.Hour)))
}

func TestAdminAuthMiddleware(t *testing.T) {
	app := authTestApp()

	adminToken := makeToken(t, jwt.MapClaims{
		"username": "ops",
		"is_admin": true,
		"exp":      time.Now().Add(time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	})
	assert.Equal(t, 200, request(t, app, "/admin", adminToken))

	// A plain player token is not an admin token.
	playerToken := walletToken(t, "0x8888888888888888888888888888888888888888", time.Hour)
	assert.Equal(t, 403, request(t, app, "/admin", playerToken))
	assert.Equal(t, 401, request(t, app, "/admin", ""))
}

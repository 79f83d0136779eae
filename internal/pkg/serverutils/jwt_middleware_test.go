package serverutils

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJwtMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	userId := uuid.New()
	valid := signToken(t, "test-secret", jwt.MapClaims{"user_id": userId.String(), "exp": time.Now().Add(time.Hour).Unix()})

	app := fiber.New()
	app.Get("/me", JwtMiddleware, func(ctx *fiber.Ctx) error {
		id, err := UserID(ctx)
		if err != nil {
			return err
		}
		return ctx.SendString(id.String())
	})

	tests := []struct {
		name       string
		target     string
		header     string
		wantStatus int
	}{
		{name: "bearer header", target: "/me", header: "Bearer " + valid, wantStatus: 200},
		{name: "query token for websocket handshakes", target: "/me?token=" + valid, wantStatus: 200},
		{name: "missing token", target: "/me", wantStatus: 401},
		{name: "wrong secret", target: "/me", header: "Bearer " + signToken(t, "other", jwt.MapClaims{"user_id": userId.String()}), wantStatus: 401},
		{name: "expired", target: "/me", header: "Bearer " + signToken(t, "test-secret", jwt.MapClaims{"user_id": userId.String(), "exp": time.Now().Add(-time.Hour).Unix()}), wantStatus: 401},
		{name: "no user claim", target: "/me", header: "Bearer " + signToken(t, "test-secret", jwt.MapClaims{"sub": "x"}), wantStatus: 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == 200 {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, userId.String(), string(body))
			}
		})
	}
}

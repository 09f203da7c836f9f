package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sigma-lms-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthApp() *fiber.App {
	app := fiber.New()
	app.Get("/org", NewJwtMiddleware(testSecret), RequireRoles(RoleOrganization, RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	})
	return app
}

func TestJwtMiddleware(t *testing.T) {
	app := newAuthApp()
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", jwt.MapClaims{"user_id": "u1", "role": "admin", "exp": exp}), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testSecret, jwt.MapClaims{"user_id": "u1", "role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized},
		{"no user id", "Bearer " + signToken(t, testSecret, jwt.MapClaims{"role": "admin", "exp": exp}), http.StatusUnauthorized},
		{"student role", "Bearer " + signToken(t, testSecret, jwt.MapClaims{"user_id": "u1", "role": "student", "exp": exp}), http.StatusForbidden},
		{"organization role", "Bearer " + signToken(t, testSecret, jwt.MapClaims{"user_id": "u1", "role": "organization", "exp": exp}), http.StatusOK},
		{"admin role", "Bearer " + signToken(t, testSecret, jwt.MapClaims{"user_id": "u1", "role": "admin", "exp": exp}), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/org", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

type teapotError struct{}

func (teapotError) Error() string   { return "short and stout" }
func (teapotError) StatusCode() int { return http.StatusTeapot }

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.NewError(http.StatusBadRequest, "bad input") })
	app.Get("/coded", func(c *fiber.Ctx) error { return fmt.Errorf("wrapped: %w", teapotError{}) })
	app.Get("/internal", func(c *fiber.Ctx) error { return errors.New("db password leaked") })
	app.Get("/validation", func(c *fiber.Ctx) error {
		return ValidateRequest(struct {
			Html string `validate:"required"`
		}{})
	})

	tests := []struct {
		path        string
		wantStatus  int
		wantMessage string
	}{
		{"/fiber", http.StatusBadRequest, "bad input"},
		{"/coded", http.StatusTeapot, "wrapped: short and stout"},
		{"/internal", http.StatusInternalServerError, "Internal server error"},
		{"/validation", http.StatusBadRequest, "invalid request: Html is required"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			var parsed BaseResponse[any]
			require.NoError(t, json.Unmarshal(body, &parsed))
			assert.False(t, parsed.Success)
			assert.Equal(t, tt.wantMessage, parsed.Error)
		})
	}
}

package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserID(t *testing.T) {
	ana := uuid.New()

	tests := []struct {
		name    string
		token   interface{}
		want    uuid.UUID
		wantErr bool
	}{
		{"valid sub", &jwt.Token{Claims: jwt.MapClaims{"sub": ana.String(), "username": "ana"}}, ana, false},
		{"missing token", nil, uuid.Nil, true},
		{"missing sub", &jwt.Token{Claims: jwt.MapClaims{"username": "ana"}}, uuid.Nil, true},
		{"malformed sub", &jwt.Token{Claims: jwt.MapClaims{"sub": "ana"}}, uuid.Nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			var got uuid.UUID
			var gotErr error
			app.Get("/", func(c *fiber.Ctx) error {
				if tt.token != nil {
					c.Locals(TokenKey, tt.token)
				}
				got, gotErr = GetUserID(c)
				return nil
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, gotErr)
			} else {
				assert.NoError(t, gotErr)
			}
		})
	}
}

func TestGetUsername(t *testing.T) {
	app := fiber.New()
	var name, empty string
	app.Get("/", func(c *fiber.Ctx) error {
		empty = GetUsername(c)
		c.Locals(TokenKey, &jwt.Token{Claims: jwt.MapClaims{"username": "ana"}})
		name = GetUsername(c)
		return nil
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "", empty)
	assert.Equal(t, "ana", name)
}

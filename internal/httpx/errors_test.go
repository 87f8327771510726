package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{"auth", Authf("nope"), KindAuth},
		{"validation", Validationf("bad input"), KindValidation},
		{"not found", NotFoundf("missing"), KindNotFound},
		{"persistence", Persistencef("store broke"), KindPersistence},
		{"wrapped", fmt.Errorf("context: %w", NotFoundf("missing")), KindNotFound},
		{"plain", errors.New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}
}

func TestErrorHandlerStatusMapping(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})

	tests := []struct {
		path   string
		err    error
		status int
	}{
		{"/auth", Authf("the user is not authorized"), fiber.StatusUnauthorized},
		{"/validation", Validationf("the order has no items"), fiber.StatusBadRequest},
		{"/notfound", NotFoundf("the order with the given ID was not found"), fiber.StatusNotFound},
		{"/persistence", Persistencef("the order cannot be created"), fiber.StatusInternalServerError},
		{"/plain", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		app.Get(tt.path, func(c *fiber.Ctx) error { return tt.err })
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var parsed struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(body, &parsed))
			assert.False(t, parsed.Success)
			assert.Equal(t, tt.err.Error(), parsed.Message)
		})
	}
}

func TestErrorHandlerFiberError(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	resp, err := app.Test(httptest.NewRequest("GET", "/no-such-route", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

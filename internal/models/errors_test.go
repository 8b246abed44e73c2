package models

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respondAndDecode(t *testing.T, err error) ErrorResponse {
	t.Helper()

	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, err)
	})

	resp, reqErr := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, reqErr)
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)

	var decoded ErrorResponse
	require.NoError(t, json.Unmarshal(body, &decoded))
	return decoded
}

func TestRespondWithError_DetailsHiddenInProduction(t *testing.T) {
	appErr := NewInternalError(errors.New(`pq: relation "users" does not exist`))

	t.Run("development includes details", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		decoded := respondAndDecode(t, appErr)
		assert.Equal(t, "Internal server error", decoded.Error)
		assert.Equal(t, CodeInternal, decoded.Code)
		assert.Contains(t, decoded.Details, "relation")
	})

	t.Run("production omits details", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		decoded := respondAndDecode(t, appErr)
		assert.Equal(t, "Internal server error", decoded.Error)
		assert.Equal(t, CodeInternal, decoded.Code)
		assert.Empty(t, decoded.Details)
	})

	t.Run("prod alias omits details", func(t *testing.T) {
		t.Setenv("APP_ENV", "prod")
		decoded := respondAndDecode(t, appErr)
		assert.Empty(t, decoded.Details)
	})
}

func TestRespondWithError_PlainErrorMessageSurvives(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	decoded := respondAndDecode(t, errors.New("route exploded"))
	assert.Equal(t, "route exploded", decoded.Error)
	assert.Empty(t, decoded.Code)
}

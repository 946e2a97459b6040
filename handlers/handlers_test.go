package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandlerMapsErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"fiber error", fiber.NewError(fiber.StatusBadRequest, "invalid gymId"), fiber.StatusBadRequest, "invalid gymId"},
		{"not found", fmt.Errorf("gym 3: %w", errs.ErrNotFound), fiber.StatusNotFound, "gym 3: record not found"},
		{"permission", fmt.Errorf("media: %w", errs.ErrPermissionDenied), fiber.StatusForbidden, "media: permission denied"},
		{"unique", errs.Unique("uix_user_meal", "already answered"), fiber.StatusConflict, "unique constraint violation (uix_user_meal): already answered"},
		{"check", errs.Check("rating", "too high"), fiber.StatusUnprocessableEntity, "check constraint violation (rating): too high"},
		{"invalid upload", services.ErrInvalidUpload, fiber.StatusBadRequest, "invalid upload"},
		{"no storage", services.ErrStorageUnavailable, fiber.StatusServiceUnavailable, "media storage is not configured"},
		{"unknown", errors.New("connection reset"), fiber.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body struct {
				Status  string `json:"status"`
				Code    int    `json:"code"`
				Message string `json:"message"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tt.status, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestParamIDRejectsZeroAndText(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/gyms/:gymId", func(c *fiber.Ctx) error {
		id, err := paramID(c, "gymId")
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": id})
	})

	for path, status := range map[string]int{
		"/gyms/5":   fiber.StatusOK,
		"/gyms/0":   fiber.StatusBadRequest,
		"/gyms/abc": fiber.StatusBadRequest,
	} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, path)
	}
}

func TestParseFieldsKeepsAllowedColumns(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Patch("/", func(c *fiber.Ctx) error {
		fields, err := parseFields(c, "price", "is_vip")
		if err != nil {
			return err
		}
		return c.JSON(fields)
	})

	req := httptest.NewRequest(fiber.MethodPatch, "/", strings.NewReader(`{"price":20,"gym_id":9}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fields map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fields))
	assert.Equal(t, map[string]any{"price": float64(20)}, fields)

	req = httptest.NewRequest(fiber.MethodPatch, "/", strings.NewReader(`{"gym_id":9}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

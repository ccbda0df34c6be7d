package sync_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"irrigation-manager/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	app := fiber.New()
	handler := sync.NewHandler(env.service, "X-Actor")
	handler.RegisterRoutes(app)
	return app, env
}

func TestHandleSyncIrrigation(t *testing.T) {
	app, env := setupTestApp(t)

	end := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	body, err := json.Marshal(fiber.Map{
		"items": []sync.BatchItem{
			{
				LocalID:     "http-001",
				SectorID:    env.sectorA.ID,
				EquipmentID: env.dripperA.ID,
				StartTime:   time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC),
				EndTime:     &end,
			},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/sync/irrigation", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", "operator1")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result sync.BatchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 1, result.TotalItems)
	assert.Equal(t, 1, result.SuccessfulItems)
	assert.True(t, result.Results[0].Success)
	assert.NotZero(t, result.Results[0].ServerID)
}

func TestHandleSyncIrrigationMissingActor(t *testing.T) {
	app, _ := setupTestApp(t)

	body := []byte(`{"items":[]}`)
	req := httptest.NewRequest("POST", "/sync/irrigation", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleSyncIrrigationUnknownActor(t *testing.T) {
	app, _ := setupTestApp(t)

	body := []byte(`{"items":[]}`)
	req := httptest.NewRequest("POST", "/sync/irrigation", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", "ghost")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleSyncIrrigationBadBody(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("POST", "/sync/irrigation", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", "operator1")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

package restapi

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHazardsAndCameras(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodGet, "/api/v1/hazards", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hazards := listOf(t, model)
	require.Len(t, hazards, 1)
	assert.Equal(t, "h-1", hazards[0].(map[string]interface{})["id"])

	_, model = serveApiAndRetrieveEndpoint(t, api, http.MethodGet, "/api/v1/cameras", "")
	cameras := listOf(t, model)
	require.Len(t, cameras, 1)
	assert.Equal(t, 50.0, cameras[0].(map[string]interface{})["speedLimitKph"])
}

func TestReportHazard(t *testing.T) {
	api := createTestApi(t)

	body := `{"type": "flooded", "lat": -1.3000, "lng": 36.8000, "name": "Flooded <b>underpass</b>", "description": "Water over the road"}`
	resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/v1/reports", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, http.StatusCreated, model.Code)

	entry := entryOf(t, model)
	assert.True(t, strings.HasPrefix(entry["id"].(string), "user-"))
	assert.Equal(t, "Flooded underpass", entry["name"])
	assert.Equal(t, "medium", entry["severity"])
	assert.Equal(t, false, entry["verified"])

	_, model = serveApiAndRetrieveEndpoint(t, api, http.MethodGet, "/api/v1/hazards", "")
	assert.Len(t, listOf(t, model), 2)

	stored, err := api.Store.LoadHazards(t.Context())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, entry["id"], stored[0].ID)
}

func TestReportHazardValidation(t *testing.T) {
	api := createTestApi(t)

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"unknown type", `{"type": "meteor", "lat": -1.3, "lng": 36.8, "name": "Crater"}`, "type"},
		{"outside Kenya", `{"type": "pothole", "lat": 51.5, "lng": -0.12, "name": "Pothole"}`, "location"},
		{"missing latitude", `{"type": "pothole", "lng": 36.8, "name": "Pothole"}`, "lat"},
		{"missing name", `{"type": "pothole", "lat": -1.3, "lng": 36.8}`, "name"},
		{"unknown severity", `{"type": "pothole", "lat": -1.3, "lng": 36.8, "name": "Pothole", "severity": "extreme"}`, "severity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, fieldErrors := serveApiAndRetrieveFieldErrors(t, api, http.MethodPost, "/api/v1/reports", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, fieldErrors, tt.wantField)
		})
	}
}

func TestReportHazardRateLimited(t *testing.T) {
	api := createTestApi(t)
	body := `{"type": "pothole", "lat": -1.3, "lng": 36.8, "name": "Pothole"}`

	for i := 0; i < 5; i++ {
		resp, _ := serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/v1/reports", body)
		require.Equal(t, http.StatusCreated, resp.StatusCode, "report %d should be accepted", i+1)
	}

	resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/v1/reports", body)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, model.Code)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	// Other endpoints are not affected by the report budget.
	resp, _ = serveApiAndRetrieveEndpoint(t, api, http.MethodGet, "/api/v1/hazards", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

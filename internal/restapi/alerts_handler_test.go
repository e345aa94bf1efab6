package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wayfinder.app/internal/geo"
)

func TestAlertsWithoutSessionAreEmpty(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodGet, "/api/v1/alerts", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entry := entryOf(t, model)
	assert.Nil(t, entry["hazard"])
	assert.Nil(t, entry["camera"])
}

func TestDismissAlert(t *testing.T) {
	api := createTestApi(t)
	_, _ = serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/v1/navigation", startBody())
	_, _ = serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/v1/navigation/position",
		positionBody(geo.Destination(origin, 180, 150)))

	resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/v1/alerts/hazard/dismiss", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entry := entryOf(t, model)
	assert.Nil(t, entry["hazard"])
	assert.NotNil(t, entry["camera"], "dismissing one track leaves the other alone")

	// Dismissing an empty track changes nothing.
	resp, _ = serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/v1/alerts/hazard/dismiss", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The dismissed hazard stays quiet.
	_, model = serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/v1/navigation/position",
		positionBody(geo.Destination(origin, 180, 110)))
	alerts := entryOf(t, model)["alerts"].(map[string]interface{})
	assert.Nil(t, alerts["hazard"])

	_, model = serveApiAndRetrieveEndpoint(t, api, http.MethodGet, "/api/v1/alerts", "")
	assert.NotNil(t, entryOf(t, model)["camera"])
}

func TestDismissUnknownTrack(t *testing.T) {
	api := createTestApi(t)

	resp, fieldErrors := serveApiAndRetrieveFieldErrors(t, api, http.MethodPost, "/api/v1/alerts/siren/dismiss", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, fieldErrors, "track")
}

package restapi

import (
	"errors"
	"net/http"

	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/geocoding"
	"wayfinder.app/internal/models"
	"wayfinder.app/internal/utils"
)

type searchRequest struct {
	Query string `json:"query"`
}

func (api *RestAPI) searchController(w http.ResponseWriter, r *http.Request) (*geocoding.Controller, bool) {
	c, ok := api.SearchController(utils.ExtractParam(r, "field"))
	if !ok {
		api.sendNotFound(w, r)
	}
	return c, ok
}

// searchHandler submits the latest text of a search field. The response is
// the state right after submission; results land after the debounce.
func (api *RestAPI) searchHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := api.searchController(w, r)
	if !ok {
		return
	}

	var req searchRequest
	if fieldErrors := decodeJSONBody(w, r, &req); fieldErrors != nil {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}
	query, err := utils.ValidateAndSanitizeQuery(req.Query)
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"query": {err.Error()}})
		return
	}

	c.Search(query)
	api.sendResponse(w, r, models.NewEntryResponse(c.State()))
}

func (api *RestAPI) searchStateHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := api.searchController(w, r)
	if !ok {
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(c.State()))
}

func (api *RestAPI) clearSearchHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := api.searchController(w, r)
	if !ok {
		return
	}
	c.ClearResults()
	api.sendResponse(w, r, models.NewEntryResponse(c.State()))
}

func (api *RestAPI) reverseGeocodeHandler(w http.ResponseWriter, r *http.Request) {
	point, fieldErrors := utils.ParseLocationQuery(r.URL.Query())
	if fieldErrors != nil {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	result, err := api.Geocoder.ReverseGeocode(r.Context(), point)
	switch {
	case errors.Is(err, geocoding.ErrNotFound):
		api.sendNotFound(w, r)
		return
	case errors.Is(err, geo.ErrInvalidPoint):
		api.validationErrorResponse(w, r, map[string][]string{"position": {err.Error()}})
		return
	case err != nil:
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(result))
}

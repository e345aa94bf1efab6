package restapi

import (
	"errors"
	"net/http"

	"wayfinder.app/internal/logging"
	"wayfinder.app/internal/models"
	"wayfinder.app/internal/proximity"
)

func (api *RestAPI) hazardsHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewListResponse(api.Sessions.Hazards()))
}

func (api *RestAPI) camerasHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewListResponse(api.Sessions.Cameras()))
}

type reportHazardRequest struct {
	Type        models.HazardType `json:"type"`
	Lat         *float64          `json:"lat"`
	Lng         *float64          `json:"lng"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Severity    models.Severity   `json:"severity"`
}

// reportHazardHandler records a user-reported road condition.
func (api *RestAPI) reportHazardHandler(w http.ResponseWriter, r *http.Request) {
	var req reportHazardRequest
	if fieldErrors := decodeJSONBody(w, r, &req); fieldErrors != nil {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}
	fieldErrors := make(map[string][]string)
	location := (&pointRequest{Lat: req.Lat, Lng: req.Lng}).point("", fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	hazard, err := api.Sessions.Report(r.Context(), models.HazardReport{
		Type:        req.Type,
		Location:    location,
		Name:        req.Name,
		Description: req.Description,
		Severity:    req.Severity,
	})

	var validationErr *proximity.ValidationError
	switch {
	case errors.As(err, &validationErr):
		api.validationErrorResponse(w, r, validationErr.FieldErrors)
		return
	case err != nil && hazard.ID != "":
		// The hazard is live for this process even though it was not persisted.
		logging.LogError(api.Logger, "failed to persist hazard report", err)
	case err != nil:
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewResponse(http.StatusCreated, map[string]interface{}{"entry": hazard}, "Created"))
}

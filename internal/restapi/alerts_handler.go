package restapi

import (
	"errors"
	"net/http"

	"wayfinder.app/internal/models"
	"wayfinder.app/internal/proximity"
	"wayfinder.app/internal/utils"
)

// alertsHandler reports both alert tracks. Without a session there is
// nothing to alert on.
func (api *RestAPI) alertsHandler(w http.ResponseWriter, r *http.Request) {
	s, err := api.Sessions.Active()
	if err != nil {
		api.sendResponse(w, r, models.NewEntryResponse(proximity.Alerts{}))
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(s.Alerts()))
}

// dismissAlertHandler clears one track. Dismissing an empty track is a
// no-op.
func (api *RestAPI) dismissAlertHandler(w http.ResponseWriter, r *http.Request) {
	track, err := proximity.ParseTrack(utils.ExtractParam(r, "track"))
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"track": {err.Error()}})
		return
	}

	s, err := api.Sessions.Active()
	if err != nil {
		api.noSessionResponse(w, r)
		return
	}

	err = s.Dismiss(track)
	switch {
	case err == nil, errors.Is(err, proximity.ErrNoActiveAlert):
	default:
		api.noSessionResponse(w, r)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(s.Alerts()))
}

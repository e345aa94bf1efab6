package restapi

import (
	"net/http"

	"wayfinder.app/internal/models"
)

type healthStatus struct {
	Status        string `json:"status"`
	Environment   string `json:"environment"`
	ActiveSession bool   `json:"activeSession"`
}

func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	_, err := api.Sessions.Active()
	api.sendResponse(w, r, models.NewEntryResponse(healthStatus{
		Status:        "ok",
		Environment:   api.Config.Env.String(),
		ActiveSession: err == nil,
	}))
}

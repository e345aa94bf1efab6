package restapi

import (
	"errors"
	"fmt"
	"net/http"

	"wayfinder.app/internal/models"
	"wayfinder.app/internal/navigation"
	"wayfinder.app/internal/routing"
	"wayfinder.app/internal/session"
)

type startNavigationRequest struct {
	From  *pointRequest    `json:"from"`
	To    *pointRequest    `json:"to"`
	Steps []models.RawStep `json:"steps"`
}

type startNavigationResponse struct {
	Session session.Snapshot  `json:"session"`
	Event   *navigation.Event `json:"event"`
}

// startNavigationHandler starts a session from either explicit steps or a
// route computed between two points. A running session is replaced.
func (api *RestAPI) startNavigationHandler(w http.ResponseWriter, r *http.Request) {
	var req startNavigationRequest
	if fieldErrors := decodeJSONBody(w, r, &req); fieldErrors != nil {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	var (
		s     *session.Session
		event *navigation.Event
		err   error
	)
	if len(req.Steps) > 0 {
		s, event, err = api.Sessions.StartSteps(req.Steps)
	} else {
		fieldErrors := make(map[string][]string)
		from := req.From.point("from", fieldErrors)
		to := req.To.point("to", fieldErrors)
		if len(fieldErrors) > 0 {
			api.validationErrorResponse(w, r, fieldErrors)
			return
		}
		s, event, err = api.Sessions.StartRoute(r.Context(), from, to)
	}

	switch {
	case errors.Is(err, routing.ErrNoRoute):
		api.sendError(w, r, http.StatusNotFound, "no route found")
		return
	case err != nil:
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(startNavigationResponse{
		Session: s.Snapshot(),
		Event:   event,
	}))
}

func (api *RestAPI) navigationHandler(w http.ResponseWriter, r *http.Request) {
	s, err := api.Sessions.Active()
	if err != nil {
		api.noSessionResponse(w, r)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(s.Snapshot()))
}

func (api *RestAPI) stopNavigationHandler(w http.ResponseWriter, r *http.Request) {
	err := api.Sessions.Stop()
	switch {
	case errors.Is(err, session.ErrNoSession):
		api.noSessionResponse(w, r)
		return
	case err != nil:
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewOKResponse(nil))
}

// positionHandler feeds one GPS fix to the active session.
func (api *RestAPI) positionHandler(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if fieldErrors := decodeJSONBody(w, r, &req); fieldErrors != nil {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}
	fieldErrors := make(map[string][]string)
	p := req.point("", fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	s, err := api.Sessions.Active()
	if err != nil {
		api.noSessionResponse(w, r)
		return
	}

	update, err := s.UpdatePosition(p)
	switch {
	case errors.Is(err, session.ErrClosed):
		api.noSessionResponse(w, r)
		return
	case errors.Is(err, navigation.ErrInvalidPosition):
		api.validationErrorResponse(w, r, map[string][]string{"position": {err.Error()}})
		return
	case err != nil:
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(update))
}

type voiceRequest struct {
	Enabled *bool `json:"enabled"`
}

func (api *RestAPI) voiceHandler(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if fieldErrors := decodeJSONBody(w, r, &req); fieldErrors != nil {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}
	if req.Enabled == nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"enabled": {fmt.Sprintf("Missing required field %q.", "enabled")},
		})
		return
	}

	s, err := api.Sessions.Active()
	if err != nil {
		api.noSessionResponse(w, r)
		return
	}
	if err := s.SetVoiceEnabled(*req.Enabled); err != nil {
		api.noSessionResponse(w, r)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(s.Snapshot()))
}

func (api *RestAPI) repeatHandler(w http.ResponseWriter, r *http.Request) {
	s, err := api.Sessions.Active()
	if err != nil {
		api.noSessionResponse(w, r)
		return
	}
	repeated, err := s.Repeat()
	if err != nil {
		api.noSessionResponse(w, r)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(map[string]bool{"repeated": repeated}))
}

package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"wayfinder.app/internal/models"
)

const maxBodyBytes = 1 << 20

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	setJSONResponseType(&w)
	if response.Code != 0 && response.Code != http.StatusOK {
		w.WriteHeader(response.Code)
	}
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
}

func (api *RestAPI) sendNotFound(w http.ResponseWriter, r *http.Request) {
	api.sendError(w, r, http.StatusNotFound, "resource not found")
}

func (api *RestAPI) sendError(w http.ResponseWriter, r *http.Request, code int, text string) {
	setJSONResponseType(&w)
	w.WriteHeader(code)

	response := models.NewResponse(code, nil, text)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.Logger.Error("failed to encode error response", "error", err)
	}
}

// decodeJSONBody reads a single JSON object into dst. Failures are returned
// as field errors under "body".
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) map[string][]string {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return map[string][]string{"body": {"Request body must not be empty."}}
		case errors.As(err, &maxBytesErr):
			return map[string][]string{"body": {fmt.Sprintf("Request body must not be larger than %d bytes.", maxBytesErr.Limit)}}
		default:
			return map[string][]string{"body": {fmt.Sprintf("Invalid JSON: %v.", err)}}
		}
	}
	if dec.More() {
		return map[string][]string{"body": {"Request body must contain a single JSON object."}}
	}
	return nil
}

func setJSONResponseType(w *http.ResponseWriter) {
	(*w).Header().Set("Content-Type", "application/json")
}

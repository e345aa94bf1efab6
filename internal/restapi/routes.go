package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/healthz", api.healthHandler)

	router.HandlerFunc(http.MethodPost, "/api/v1/navigation", api.startNavigationHandler)
	router.HandlerFunc(http.MethodGet, "/api/v1/navigation", api.navigationHandler)
	router.HandlerFunc(http.MethodDelete, "/api/v1/navigation", api.stopNavigationHandler)
	router.HandlerFunc(http.MethodPost, "/api/v1/navigation/position", api.positionHandler)
	router.HandlerFunc(http.MethodPost, "/api/v1/navigation/voice", api.voiceHandler)
	router.HandlerFunc(http.MethodPost, "/api/v1/navigation/repeat", api.repeatHandler)

	router.HandlerFunc(http.MethodGet, "/api/v1/alerts", api.alertsHandler)
	router.HandlerFunc(http.MethodPost, "/api/v1/alerts/:track/dismiss", api.dismissAlertHandler)

	router.HandlerFunc(http.MethodGet, "/api/v1/hazards", api.hazardsHandler)
	router.HandlerFunc(http.MethodGet, "/api/v1/cameras", api.camerasHandler)
	router.Handler(http.MethodPost, "/api/v1/reports", api.reportLimiter(http.HandlerFunc(api.reportHazardHandler)))

	router.Handler(http.MethodPost, "/api/v1/search/:field", api.searchLimiter(http.HandlerFunc(api.searchHandler)))
	router.HandlerFunc(http.MethodGet, "/api/v1/search/:field", api.searchStateHandler)
	router.HandlerFunc(http.MethodDelete, "/api/v1/search/:field", api.clearSearchHandler)
	router.HandlerFunc(http.MethodGet, "/api/v1/reverse", api.reverseGeocodeHandler)
}

// Handler builds the router and wraps it in the middleware chain. extra
// registers additional routes on the same router.
func (api *RestAPI) Handler(extra ...func(*httprouter.Router)) http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(api.sendNotFound)
	router.MethodNotAllowed = http.HandlerFunc(api.methodNotAllowedResponse)
	api.SetRoutes(router)
	for _, register := range extra {
		register(router)
	}

	var handler http.Handler = router
	handler = api.rateLimiter(handler)
	handler = CompressionMiddleware(handler)
	handler = securityHeaders(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	return handler
}

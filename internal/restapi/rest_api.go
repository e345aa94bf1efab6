package restapi

import (
	"net/http"
	"time"

	"wayfinder.app/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter   func(http.Handler) http.Handler
	reportLimiter func(http.Handler) http.Handler
	searchLimiter func(http.Handler) http.Handler
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiters
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application:   app,
		rateLimiter:   NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
		reportLimiter: NewRateLimitMiddleware(5, time.Minute),
		searchLimiter: NewRateLimitMiddleware(10, 30*time.Second),
	}
}

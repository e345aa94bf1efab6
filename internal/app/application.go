package app

import (
	"errors"
	"log/slog"

	"wayfinder.app/internal/appconf"
	"wayfinder.app/internal/geocoding"
	"wayfinder.app/internal/session"
	"wayfinder.app/internal/store"
)

// Search field names. Origin and destination inputs have independent
// controllers.
const (
	SearchFrom = "from"
	SearchTo   = "to"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config   appconf.Config
	Logger   *slog.Logger
	Sessions *session.Manager
	Geocoder *geocoding.Controller
	Search   map[string]*geocoding.Controller
	Store    *store.Store
}

// SearchController returns the controller behind a search field.
func (app *Application) SearchController(field string) (*geocoding.Controller, bool) {
	c, ok := app.Search[field]
	return c, ok
}

// Close tears down the active session, stops pending searches and closes
// the store.
func (app *Application) Close() error {
	var errs []error
	if app.Sessions != nil {
		errs = append(errs, app.Sessions.Close())
	}
	for _, c := range app.Search {
		c.Close()
	}
	if app.Geocoder != nil {
		app.Geocoder.Close()
	}
	if app.Store != nil {
		errs = append(errs, app.Store.Close())
	}
	return errors.Join(errs...)
}

package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"
	"wayfinder.app/internal/app"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

var dataTypes = []string{"session", "alerts", "hazards", "cameras", "search_from", "search_to"}

type debugData struct {
	Title     string
	Pre       string
	DataTypes []string
}

// WebUI serves read-only debug pages over the application state.
type WebUI struct {
	*app.Application
}

func New(application *app.Application) *WebUI {
	return &WebUI{Application: application}
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := debugTemplate.Execute(w, debugData{
		Title:     title,
		Pre:       spew.Sdump(data),
		DataTypes: dataTypes,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	var (
		data  interface{}
		title string
	)

	switch r.URL.Query().Get("dataType") {
	case "session":
		title = "Navigation - Session"
		if s, err := webUI.Sessions.Active(); err == nil {
			data = s.Snapshot()
		} else {
			data = err.Error()
		}
	case "alerts":
		title = "Navigation - Alerts"
		if s, err := webUI.Sessions.Active(); err == nil {
			data = s.Alerts()
		} else {
			data = err.Error()
		}
	case "hazards":
		title = "Proximity - Hazards"
		data = webUI.Sessions.Hazards()
	case "cameras":
		title = "Proximity - Cameras"
		data = webUI.Sessions.Cameras()
	case "search_from":
		title = "Search - From"
		data = webUI.searchState(app.SearchFrom)
	case "search_to":
		title = "Search - To"
		data = webUI.searchState(app.SearchTo)
	default:
		title = "Choose a data type"
		data = map[string]interface{}{"dataTypes": dataTypes}
	}

	writeDebugData(w, title, data)
}

func (webUI *WebUI) searchState(field string) interface{} {
	c, ok := webUI.SearchController(field)
	if !ok {
		return "no search controller for " + field
	}
	return c.State()
}

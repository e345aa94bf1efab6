package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff"
	"wayfinder.app/internal/appconf"
	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/geocoding"
	"wayfinder.app/internal/navigation"
	"wayfinder.app/internal/routing"
)

const envPrefix = "WAYFINDER"

// simulation drives a session along a computed route instead of waiting for
// positions over HTTP.
type simulation struct {
	From  *geo.Point
	To    *geo.Point
	Speed float64 // meters per second
}

func (s simulation) enabled() bool {
	return s.From != nil && s.To != nil
}

// loadDotEnv loads variables from path into the environment. A missing file
// is not an error; variables already set win.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// parseConfig reads flags, then WAYFINDER_* environment variables for any
// flag not given on the command line.
func parseConfig(args []string) (appconf.Config, simulation, error) {
	var (
		cfg     appconf.Config
		sim     simulation
		envFlag string
		from    string
		to      string
	)

	flags := flag.NewFlagSet("wayfinder", flag.ContinueOnError)
	flags.IntVar(&cfg.Port, "port", 4000, "API server port")
	flags.StringVar(&envFlag, "env", "development", "Environment (development|test|production)")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	flags.IntVar(&cfg.RateLimit, "rate-limit", 100, "Requests per second per client (negative disables)")
	flags.StringVar(&cfg.DBPath, "db-path", "wayfinder.db", "SQLite database for reported hazards (:memory: for none)")
	flags.BoolVar(&cfg.Voice, "voice", true, "Speak announcements")

	flags.StringVar(&cfg.Geocoder, "geocoder", "nominatim", "Place search backend (nominatim|google)")
	flags.StringVar(&cfg.NominatimURL, "nominatim-url", geocoding.DefaultNominatimURL, "Nominatim base URL")
	flags.StringVar(&cfg.Router, "router", "osrm", "Route source (osrm|google)")
	flags.StringVar(&cfg.OSRMURL, "osrm-url", routing.DefaultOSRMURL, "OSRM base URL")
	flags.StringVar(&cfg.GoogleMapsAPIKey, "google-maps-api-key", "", "Google Maps API key")

	searchDefaults := geocoding.DefaultConfig()
	flags.DurationVar(&cfg.SearchDebounce, "search-debounce", searchDefaults.Debounce, "Delay before a search is sent")
	flags.DurationVar(&cfg.SearchTimeout, "search-timeout", searchDefaults.Timeout, "Search request timeout")
	flags.IntVar(&cfg.SearchLimit, "search-limit", searchDefaults.Limit, "Maximum search results")

	navDefaults := navigation.DefaultConfig()
	flags.Float64Var(&cfg.AnnounceRadius, "announce-radius", navDefaults.AnnounceRadius, "Distance in meters at which a maneuver is announced")
	flags.Float64Var(&cfg.ReminderRadius, "reminder-radius", navDefaults.ReminderRadius, "Distance in meters at which a maneuver is repeated")

	flags.StringVar(&cfg.XMPP.Host, "xmpp-host", "", "XMPP server host:port (derived from the jid when empty)")
	flags.StringVar(&cfg.XMPP.Jid, "xmpp-jid", "", "XMPP account relaying announcements")
	flags.StringVar(&cfg.XMPP.Password, "xmpp-password", "", "XMPP account password")
	flags.StringVar(&cfg.XMPP.To, "xmpp-to", "", "XMPP recipient of announcements")

	flags.StringVar(&from, "simulate-from", "", "Simulate a drive from lat,lng")
	flags.StringVar(&to, "simulate-to", "", "Simulate a drive to lat,lng")
	flags.Float64Var(&sim.Speed, "simulate-speed", 13.9, "Simulated speed in meters per second")

	if err := ff.Parse(flags, args, ff.WithEnvVarPrefix(envPrefix)); err != nil {
		return appconf.Config{}, simulation{}, err
	}
	cfg.Env = appconf.EnvFlagToEnvironment(envFlag)

	var err error
	if sim.From, err = parsePoint(from); err != nil {
		return appconf.Config{}, simulation{}, fmt.Errorf("simulate-from: %w", err)
	}
	if sim.To, err = parsePoint(to); err != nil {
		return appconf.Config{}, simulation{}, fmt.Errorf("simulate-to: %w", err)
	}

	return cfg, sim, validateConfig(cfg, sim)
}

func validateConfig(cfg appconf.Config, sim simulation) error {
	var errs []error
	if cfg.Port <= 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", cfg.Port))
	}
	switch cfg.Geocoder {
	case "nominatim", "google":
	default:
		errs = append(errs, fmt.Errorf("unknown geocoder %q", cfg.Geocoder))
	}
	switch cfg.Router {
	case "osrm", "google":
	default:
		errs = append(errs, fmt.Errorf("unknown router %q", cfg.Router))
	}
	if (cfg.Geocoder == "google" || cfg.Router == "google") && cfg.GoogleMapsAPIKey == "" {
		errs = append(errs, errors.New("google-maps-api-key is required for google backends"))
	}
	if cfg.ReminderRadius <= 0 || cfg.AnnounceRadius <= cfg.ReminderRadius {
		errs = append(errs, fmt.Errorf("announce-radius (%g) must exceed reminder-radius (%g)", cfg.AnnounceRadius, cfg.ReminderRadius))
	}
	if (sim.From == nil) != (sim.To == nil) {
		errs = append(errs, errors.New("simulate-from and simulate-to must be given together"))
	}
	if sim.enabled() && sim.Speed <= 0 {
		errs = append(errs, fmt.Errorf("simulate-speed must be positive, got %g", sim.Speed))
	}
	return errors.Join(errs...)
}

// parsePoint reads "lat,lng". An empty string is no point.
func parsePoint(s string) (*geo.Point, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	latText, lngText, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("want lat,lng, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return nil, fmt.Errorf("latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngText), 64)
	if err != nil {
		return nil, fmt.Errorf("longitude: %w", err)
	}
	p := geo.Point{Lat: lat, Lng: lng}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func searchConfig(cfg appconf.Config) geocoding.Config {
	config := geocoding.DefaultConfig()
	config.Debounce = cfg.SearchDebounce
	config.Timeout = cfg.SearchTimeout
	config.Limit = cfg.SearchLimit
	return config
}

func navigationConfig(cfg appconf.Config) navigation.Config {
	config := navigation.DefaultConfig()
	config.AnnounceRadius = cfg.AnnounceRadius
	config.ReminderRadius = cfg.ReminderRadius
	config.VoiceEnabled = cfg.Voice
	return config
}

const httpClientTimeout = 15 * time.Second

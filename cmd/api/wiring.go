package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"googlemaps.github.io/maps"
	"wayfinder.app/internal/app"
	"wayfinder.app/internal/appconf"
	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/geocoding"
	"wayfinder.app/internal/logging"
	"wayfinder.app/internal/proximity"
	"wayfinder.app/internal/routing"
	"wayfinder.app/internal/session"
	"wayfinder.app/internal/simulate"
	"wayfinder.app/internal/store"
	"wayfinder.app/internal/voice"
)

const (
	userAgent        = "wayfinder/1.0 (+https://wayfinder.app)"
	geocodeCacheTTL  = 10 * time.Minute
	synthPerWordTime = 350 * time.Millisecond
)

// build wires every collaborator into an Application. The returned cleanup
// releases resources that outlive the application itself.
func build(ctx context.Context, cfg appconf.Config, logger *slog.Logger) (*app.Application, func(), error) {
	httpClient := &http.Client{Timeout: httpClientTimeout}

	var mapsClient *maps.Client
	if cfg.GoogleMapsAPIKey != "" {
		client, err := maps.NewClient(maps.WithAPIKey(cfg.GoogleMapsAPIKey), maps.WithHTTPClient(httpClient))
		if err != nil {
			return nil, nil, fmt.Errorf("google maps client: %w", err)
		}
		mapsClient = client
	}

	db, err := store.Open(ctx, store.Config{DBPath: cfg.DBPath, Env: cfg.Env}, logger)
	if err != nil {
		return nil, nil, err
	}
	reported, err := db.LoadHazards(ctx)
	if err != nil {
		logging.SafeCloseWithLogging(db, logger, "hazard store")
		return nil, nil, err
	}
	catalog := proximity.NewCatalog(proximity.SeedHazards(time.Now()), proximity.SeedCameras())
	catalog.Add(reported...)
	logging.LogOperation(logger, "hazards_loaded",
		slog.Int("seeded", len(catalog.Hazards())-len(reported)),
		slog.Int("reported", len(reported)))

	speech, closeSpeech, err := speechFactory(cfg, logger)
	if err != nil {
		logging.SafeCloseWithLogging(db, logger, "hazard store")
		return nil, nil, err
	}

	sessionConfig := session.DefaultConfig()
	sessionConfig.Navigation = navigationConfig(cfg)
	manager := session.NewManager(sessionConfig, routeSource(cfg, httpClient, mapsClient, logger), catalog, db, speech, logger)

	backend := geocoding.NewCachedBackend(geocodingBackend(cfg, httpClient, mapsClient, logger), geocodeCacheTTL)
	search := searchConfig(cfg)

	application := &app.Application{
		Config:   cfg,
		Logger:   logger,
		Sessions: manager,
		Geocoder: geocoding.NewController(search, backend, logger),
		Search: map[string]*geocoding.Controller{
			app.SearchFrom: geocoding.NewController(search, backend, logger),
			app.SearchTo:   geocoding.NewController(search, backend, logger),
		},
		Store: db,
	}
	return application, closeSpeech, nil
}

func geocodingBackend(cfg appconf.Config, client *http.Client, mapsClient *maps.Client, logger *slog.Logger) geocoding.Backend {
	if cfg.Geocoder == "google" {
		return geocoding.NewGoogleMaps(mapsClient, logger)
	}
	return geocoding.NewNominatim(cfg.NominatimURL, userAgent, client, logger)
}

func routeSource(cfg appconf.Config, client *http.Client, mapsClient *maps.Client, logger *slog.Logger) routing.Source {
	if cfg.Router == "google" {
		return routing.NewGoogleDirections(mapsClient, geocoding.DefaultConfig().CountryCode, logger)
	}
	return routing.NewOSRM(cfg.OSRMURL, client, logger)
}

// speechFactory builds one speaker per session over a shared synthesizer.
// Announcements are mirrored over XMPP when an account is configured.
func speechFactory(cfg appconf.Config, logger *slog.Logger) (session.SpeechFactory, func(), error) {
	if !cfg.Voice {
		return nil, func() {}, nil
	}

	synth := voice.Multi{voice.NewLogSynthesizer(logger, synthPerWordTime)}
	cleanup := func() {}

	if cfg.XMPP.Enabled() {
		relay, err := voice.NewXMPPRelay(voice.XMPPConfig{
			Host:     cfg.XMPP.Host,
			Jid:      cfg.XMPP.Jid,
			Password: cfg.XMPP.Password,
			To:       cfg.XMPP.To,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("xmpp relay: %w", err)
		}
		synth = append(synth, relay)
		cleanup = func() { logging.SafeCloseWithLogging(relay, logger, "xmpp relay") }
	}

	factory := func() session.Speech {
		return voice.NewSpeaker(synth, logger)
	}
	return factory, cleanup, nil
}

// runSimulation drives a new session along the route between sim.From and sim.To
// until the end of the route or ctx is done.
func runSimulation(ctx context.Context, application *app.Application, sim simulation, logger *slog.Logger) error {
	s, _, err := application.Sessions.StartRoute(ctx, *sim.From, *sim.To)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	var geometry []geo.Point
	if route := s.Snapshot().Route; route != nil {
		geometry = route.Geometry
	}
	line, err := simulate.NewLine(geometry)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	positions, err := simulate.Playback(ctx, line, sim.Speed, time.Second)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	logging.LogOperation(logger, "simulation_started",
		slog.String("session_id", s.ID()),
		slog.Float64("length_meters", line.Length()),
		slog.Float64("speed_mps", sim.Speed))
	return s.Run(ctx, positions)
}

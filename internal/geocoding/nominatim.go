package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/logging"
	"wayfinder.app/internal/models"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// Nominatim is a Backend over the OpenStreetMap Nominatim HTTP API.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *slog.Logger
}

func NewNominatim(baseURL, userAgent string, client *http.Client, logger *slog.Logger) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    client,
		logger:    logging.Component(logger, "nominatim"),
	}
}

type nominatimPlace struct {
	PlaceID     json.Number     `json:"place_id"`
	Lat         string          `json:"lat"`
	Lon         string          `json:"lon"`
	DisplayName string          `json:"display_name"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Importance  float64         `json:"importance"`
	Address     *models.Address `json:"address"`
	Error       string          `json:"error"`
}

func (p nominatimPlace) candidate() (models.Candidate, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("place %s: bad lat %q", p.PlaceID, p.Lat)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("place %s: bad lon %q", p.PlaceID, p.Lon)
	}

	address := p.Address
	if address != nil && address.IsZero() {
		address = nil
	}

	return models.Candidate{
		PlaceID:     p.PlaceID.String(),
		DisplayName: p.DisplayName,
		Name:        p.Name,
		Location:    geo.Point{Lat: lat, Lng: lng},
		Type:        p.Type,
		Importance:  p.Importance,
		Address:     address,
	}, nil
}

func (n *Nominatim) Search(ctx context.Context, q Query) ([]models.Candidate, error) {
	params := url.Values{
		"q":              {q.Text},
		"format":         {"json"},
		"addressdetails": {"1"},
		"limit":          {strconv.Itoa(q.Limit)},
		"bounded":        {"0"},
	}
	if q.CountryCode != "" {
		params.Set("countrycodes", q.CountryCode)
	}
	if q.ViewBox != (geo.Bounds{}) {
		params.Set("viewbox", q.ViewBox.ViewBox())
	}
	if q.Bounded {
		params.Set("bounded", "1")
	}

	var places []nominatimPlace
	if err := n.get(ctx, "/search", params, &places); err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(places))
	for _, place := range places {
		candidate, err := place.candidate()
		if err != nil {
			n.logger.Warn("skipping malformed place", slog.String("error", err.Error()))
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

func (n *Nominatim) Reverse(ctx context.Context, p geo.Point) (models.Candidate, error) {
	params := url.Values{
		"lat":            {strconv.FormatFloat(p.Lat, 'f', -1, 64)},
		"lon":            {strconv.FormatFloat(p.Lng, 'f', -1, 64)},
		"format":         {"json"},
		"addressdetails": {"1"},
	}

	var place nominatimPlace
	if err := n.get(ctx, "/reverse", params, &place); err != nil {
		return models.Candidate{}, err
	}
	if place.Error != "" {
		return models.Candidate{}, fmt.Errorf("reverse %s: %w", place.Error, ErrNotFound)
	}
	return place.candidate()
}

func (n *Nominatim) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("nominatim request: %w", err)
	}
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("Accept", "application/json")
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("nominatim %s: %w", path, err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, n.logger, "nominatim response body")

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nominatim %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("nominatim %s: decode: %w", path, err)
	}
	return nil
}

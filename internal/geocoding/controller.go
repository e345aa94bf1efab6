package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/logging"
	"wayfinder.app/internal/models"
)

type Config struct {
	Debounce       time.Duration
	Timeout        time.Duration
	Limit          int
	CountryCode    string
	ViewBox        geo.Bounds
	Bounded        bool
	PrincipalCity  string
	MinQueryLength int
}

func DefaultConfig() Config {
	return Config{
		Debounce:       300 * time.Millisecond,
		Timeout:        10 * time.Second,
		Limit:          8,
		CountryCode:    "ke",
		ViewBox:        geo.NairobiViewBox,
		Bounded:        false,
		PrincipalCity:  "Nairobi",
		MinQueryLength: 2,
	}
}

// State is the visible state of a controller.
type State struct {
	Query     string                   `json:"query"`
	Results   []models.GeocodingResult `json:"results"`
	IsLoading bool                     `json:"isLoading"`
	LastError string                   `json:"error,omitempty"`
}

func (s State) clone() State {
	s.Results = append([]models.GeocodingResult{}, s.Results...)
	return s
}

// Controller turns incremental input into a short-lived candidate list.
// Calls to Search are debounced; only the newest query may change the
// visible state, older responses are dropped when they arrive.
type Controller struct {
	config  Config
	backend Backend
	logger  *slog.Logger

	mu       sync.Mutex
	state    State
	timer    *time.Timer
	token    uint64
	cancel   context.CancelFunc
	onChange func(State)
	closed   bool
}

func NewController(config Config, backend Backend, logger *slog.Logger) *Controller {
	defaults := DefaultConfig()
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.Limit <= 0 {
		config.Limit = defaults.Limit
	}
	if config.MinQueryLength <= 0 {
		config.MinQueryLength = defaults.MinQueryLength
	}
	return &Controller{
		config:  config,
		backend: backend,
		logger:  logging.Component(logger, "geocoding"),
		state:   State{Results: []models.GeocodingResult{}},
	}
}

// OnChange registers fn to receive a snapshot after every visible change.
// fn runs on the goroutine that made the change and must not block.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Search supersedes any pending or in-flight search. Queries shorter than
// the minimum length clear the results without contacting the backend.
func (c *Controller) Search(query string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.supersedeLocked()

	query = strings.TrimSpace(query)
	c.state.Query = query

	if utf8.RuneCountInString(query) < c.config.MinQueryLength {
		c.state.Results = []models.GeocodingResult{}
		c.state.LastError = ""
		c.state.IsLoading = false
		c.notifyLocked()
		return
	}

	c.state.IsLoading = true
	c.state.LastError = ""
	token := c.token
	c.timer = time.AfterFunc(c.config.Debounce, func() {
		c.fire(token, query)
	})
	c.notifyLocked()
}

// supersedeLocked stops the debounce timer, aborts the in-flight request
// and invalidates its token.
func (c *Controller) supersedeLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.token++
}

func (c *Controller) fire(token uint64, query string) {
	c.mu.Lock()
	if c.closed || token != c.token {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.config.Timeout)
	c.cancel = cancel
	c.timer = nil
	c.mu.Unlock()
	defer cancel()

	start := time.Now()
	candidates, err := c.backend.Search(ctx, Query{
		Text:        query,
		CountryCode: c.config.CountryCode,
		ViewBox:     c.config.ViewBox,
		Bounded:     c.config.Bounded,
		Limit:       c.config.Limit,
	})

	c.mu.Lock()
	if c.closed || token != c.token {
		c.mu.Unlock()
		c.logger.Debug("stale_search_dropped", slog.String("query", query))
		return
	}
	c.cancel = nil
	c.state.IsLoading = false

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("search timed out after %s", c.config.Timeout)
		}
		c.state.Results = []models.GeocodingResult{}
		c.state.LastError = err.Error()
		c.notifyLocked()
		logging.LogError(c.logger, "search failed", err, slog.String("query", query))
		return
	}

	results := make([]models.GeocodingResult, 0, len(candidates))
	for _, candidate := range candidates {
		results = append(results, toResult(candidate, c.config.PrincipalCity))
	}
	c.state.Results = results
	c.notifyLocked()

	c.logger.Debug("search_completed",
		slog.String("query", query),
		slog.Int("results", len(results)),
		slog.Duration("duration", time.Since(start)))
}

// notifyLocked releases c.mu and then calls the observer.
func (c *Controller) notifyLocked() {
	fn := c.onChange
	snapshot := c.state.clone()
	c.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
}

// ClearResults resets results and error. A pending search still lands.
func (c *Controller) ClearResults() {
	c.mu.Lock()
	c.state.Results = []models.GeocodingResult{}
	c.state.LastError = ""
	c.notifyLocked()
}

// ReverseGeocode resolves a point to a single labelled place. It is neither
// debounced nor tied to the search state.
func (c *Controller) ReverseGeocode(ctx context.Context, p geo.Point) (models.GeocodingResult, error) {
	if err := p.Validate(); err != nil {
		return models.GeocodingResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	candidate, err := c.backend.Reverse(ctx, p)
	if err != nil {
		return models.GeocodingResult{}, err
	}
	candidate.Importance = 1
	return toResult(candidate, c.config.PrincipalCity), nil
}

// Close cancels pending and in-flight work. Later calls to Search are
// ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.supersedeLocked()
	c.state.IsLoading = false
}

package geocoding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/models"
)

func TestCachedBackendSearch(t *testing.T) {
	backend := &fakeBackend{}
	cached := NewCachedBackend(backend, time.Minute)
	q := Query{Text: "Junction", CountryCode: "ke", ViewBox: geo.NairobiViewBox, Limit: 8}

	first, err := cached.Search(context.Background(), q)
	require.NoError(t, err)

	q.Text = "junction"
	second, err := cached.Search(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, backend.calls(), 1, "case-insensitive hit")

	q.Limit = 3
	_, err = cached.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, backend.calls(), 2, "different parameters miss")

	cached.Flush()
	_, err = cached.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, backend.calls(), 3)
}

func TestCachedBackendDoesNotCacheErrors(t *testing.T) {
	failures := 0
	backend := &fakeBackend{}
	backend.reverse = func(ctx context.Context, p geo.Point) (models.Candidate, error) {
		if failures == 0 {
			failures++
			return models.Candidate{}, errors.New("timeout")
		}
		return models.Candidate{PlaceID: "ok", Location: p}, nil
	}
	cached := NewCachedBackend(backend, time.Minute)
	p := geo.Point{Lat: -1.30001, Lng: 36.78}

	_, err := cached.Reverse(context.Background(), p)
	require.Error(t, err)

	candidate, err := cached.Reverse(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "ok", candidate.PlaceID)

	backend.reverse = nil
	candidate, err = cached.Reverse(context.Background(), geo.Point{Lat: -1.300012, Lng: 36.780001})
	require.NoError(t, err, "nearby points share a cache entry")
	assert.Equal(t, "ok", candidate.PlaceID)
}

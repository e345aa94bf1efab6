package restapi

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// CompressionConfig tunes gzip for API responses.
type CompressionConfig struct {
	MinSize      int
	Level        int
	ContentTypes []string
}

// Route geometries and search results are the large payloads; small JSON
// envelopes are not worth compressing.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize:      1024,
		Level:        6,
		ContentTypes: []string{"application/json", "text/html"},
	}
}

// NewCompressionMiddleware builds the gzip wrapper once. A config gzhttp
// rejects falls back to its defaults.
func NewCompressionMiddleware(config CompressionConfig) func(http.Handler) http.Handler {
	contentTypes := gzhttp.ContentTypeFilter(gzhttp.DefaultContentTypeFilter)
	if len(config.ContentTypes) > 0 {
		contentTypes = gzhttp.ContentTypes(config.ContentTypes)
	}
	wrap, err := gzhttp.NewWrapper(
		gzhttp.MinSize(config.MinSize),
		gzhttp.CompressionLevel(config.Level),
		contentTypes,
	)
	if err != nil {
		return func(next http.Handler) http.Handler { return gzhttp.GzipHandler(next) }
	}
	return func(next http.Handler) http.Handler { return wrap(next) }
}

func CompressionMiddleware(next http.Handler) http.Handler {
	return NewCompressionMiddleware(DefaultCompressionConfig())(next)
}

// Package assets serves the site's static files from an object store,
// backfilling Content-Type when the store omits one and falling back to
// index.html for client-side routes.
package assets

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// Asset is one response from the backing store.
type Asset struct {
	StatusCode int
	// ContentType is empty when the store did not supply one.
	ContentType string
	Header      http.Header
	Body        io.ReadCloser
}

// Fetcher retrieves assets by URL path. Implementations report a missing
// key as a 404 Asset rather than an error; errors are reserved for
// transport failures.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (*Asset, error)
}

// NotFoundAsset builds the 404 response used when a key is absent.
func NotFoundAsset() *Asset {
	return &Asset{
		StatusCode: http.StatusNotFound,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("Not Found")),
	}
}

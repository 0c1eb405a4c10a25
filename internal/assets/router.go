package assets

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Router is the catch-all asset handler. Health and API routes are mounted
// ahead of it; everything else is looked up in the store, with SPA fallback
// for extensionless routes and Content-Type backfill for responses the
// store returns bare.
type Router struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewRouter creates the asset router.
func NewRouter(fetcher Fetcher, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{fetcher: fetcher, logger: logger}
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	asset, err := rt.fetcher.Fetch(r.Context(), r.URL.Path)
	if err != nil {
		rt.logger.Error("asset fetch failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
		return
	}

	if asset.StatusCode == http.StatusNotFound {
		rt.serveNotFound(w, r, asset)
		return
	}

	if asset.ContentType == "" {
		ct, ok := typeByExtension(r.URL.Path)
		if !ok && (r.URL.Path == "/" || isExtensionless(r.URL.Path)) {
			ct, ok = htmlContentType, true
		}
		if ok {
			asset.ContentType = ct
		}
	}

	rt.writeAsset(w, asset)
}

// serveNotFound attempts the SPA fallback: a missing, extensionless,
// non-API path is retried as /index.html so client-side routing can take
// over. Anything else passes the 404 through untouched.
func (rt *Router) serveNotFound(w http.ResponseWriter, r *http.Request, original *Asset) {
	hasExtension := strings.Contains(lastSegment(r.URL.Path), ".")
	if !hasExtension && !strings.HasPrefix(r.URL.Path, "/api/") {
		index, err := rt.fetcher.Fetch(r.Context(), "/index.html")
		switch {
		case err != nil:
			rt.logger.Warn("index fallback fetch failed", "path", r.URL.Path, "error", err)
		case index.StatusCode == http.StatusOK:
			original.Body.Close()
			index.StatusCode = http.StatusOK
			index.ContentType = htmlContentType
			rt.writeAsset(w, index)
			return
		default:
			index.Body.Close()
		}
	}
	rt.writeAsset(w, original)
}

func (rt *Router) writeAsset(w http.ResponseWriter, a *Asset) {
	defer a.Body.Close()

	for key, values := range a.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	if a.ContentType != "" {
		w.Header().Set("Content-Type", a.ContentType)
	}
	w.WriteHeader(a.StatusCode)
	if _, err := io.Copy(w, a.Body); err != nil {
		rt.logger.Warn("asset write interrupted", "error", err)
	}
}

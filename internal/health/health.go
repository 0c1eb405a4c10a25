// Package health provides the gateway's liveness endpoint.
package health

import "net/http"

// Handler answers liveness probes with a fixed body. It deliberately probes
// nothing: the gateway keeps serving when its optional dependencies are
// down (the rate limiter fails open without Redis).
func Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

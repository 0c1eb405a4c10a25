package contact

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the contact endpoint. The handler does its own
// method dispatch so it can answer preflight OPTIONS and reject other
// methods while still attaching the endpoint's CORS headers.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Handle("/contact", h)
}

package contact

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/lornu-ai/web-gateway/internal/metrics"
	"github.com/lornu-ai/web-gateway/internal/ratelimit"
)

// maxRequestSize is the Content-Length gate in bytes. Requests without a
// Content-Length skip the gate; the endpoint accepts that limitation rather
// than buffering to count bytes.
const maxRequestSize = 10240

// retryAfterSeconds matches the rate-limit window.
const retryAfterSeconds = "3600"

// HandlerConfig wires a Handler.
type HandlerConfig struct {
	Limiter *ratelimit.Limiter
	Mailer  Mailer
	// RateLimitBypassSecret, when non-empty, lets requests carrying it in
	// X-Bypass-Rate-Limit skip the limiter. Empty disables the bypass no
	// matter what the header says. Same contract for EmailBypassSecret and
	// X-Bypass-Email.
	RateLimitBypassSecret string
	EmailBypassSecret     string
	Logger                *slog.Logger
}

// Handler serves the contact endpoint. Each request walks a fixed sequence
// of checks, any of which may end the request: preflight, method, size,
// rate limit, JSON parse, validation, send.
type Handler struct {
	limiter           *ratelimit.Limiter
	mailer            Mailer
	rateBypassSecret  string
	emailBypassSecret string
	logger            *slog.Logger
}

// NewHandler creates the contact endpoint handler.
func NewHandler(cfg HandlerConfig) *Handler {
	h := &Handler{
		limiter:           cfg.Limiter,
		mailer:            cfg.Mailer,
		rateBypassSecret:  cfg.RateLimitBypassSecret,
		emailBypassSecret: cfg.EmailBypassSecret,
		logger:            cfg.Logger,
	}
	if h.limiter == nil {
		h.limiter = ratelimit.New(nil, cfg.Logger)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// setCORSHeaders applies the endpoint's CORS contract. Every response from
// this handler carries these, including errors and preflight.
func setCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w.Header())

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.Method != http.MethodPost {
		metrics.ContactSubmissionsTotal.WithLabelValues("method_not_allowed").Inc()
		h.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}

	log := h.logger.With("submission_id", uuid.NewString())

	if r.ContentLength > maxRequestSize {
		metrics.ContactSubmissionsTotal.WithLabelValues("body_too_large").Inc()
		h.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "Request body too large (max 10KB)"})
		return
	}

	result := ratelimit.Result{Allowed: true, Remaining: ratelimit.MaxRequests}
	bypassRate := h.rateBypassSecret != "" && r.Header.Get("X-Bypass-Rate-Limit") == h.rateBypassSecret
	if !bypassRate {
		result = h.limiter.Check(r.Context(), clientIP(r))
	}
	if !result.Allowed {
		metrics.ContactSubmissionsTotal.WithLabelValues("rate_limited").Inc()
		metrics.RateLimitDeniedTotal.Inc()
		w.Header().Set("Retry-After", retryAfterSeconds)
		h.writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Too many requests. Please try again later."})
		return
	}

	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		metrics.ContactSubmissionsTotal.WithLabelValues("invalid_json").Inc()
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON in request body"})
		return
	}

	sub, err := ValidateForm(body)
	if err != nil {
		metrics.ContactSubmissionsTotal.WithLabelValues("validation_failed").Inc()
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	bypassEmail := h.emailBypassSecret != "" && r.Header.Get("X-Bypass-Email") == h.emailBypassSecret
	if !bypassEmail {
		if err := h.mailer.Send(r.Context(), sub); err != nil {
			metrics.ContactSubmissionsTotal.WithLabelValues("send_failed").Inc()
			metrics.EmailSendsTotal.WithLabelValues("error").Inc()
			log.Error("contact email dispatch failed", "error", err)
			h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		metrics.EmailSendsTotal.WithLabelValues("ok").Inc()
	}

	metrics.ContactSubmissionsTotal.WithLabelValues("accepted").Inc()
	log.Info("contact submission accepted", "remaining", result.Remaining, "email_bypassed", bypassEmail)

	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	h.writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "Message sent successfully"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

// clientIP resolves the originating address, preferring the CDN-provided
// header, then the first X-Forwarded-For entry. Requests with neither share
// the "unknown" bucket.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	return "unknown"
}

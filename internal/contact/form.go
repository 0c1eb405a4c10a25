// Package contact implements the contact-form pipeline: submission
// validation, email dispatch through the Resend API, and the HTTP endpoint
// that ties them together with CORS handling, a size gate, and IP-based
// rate limiting.
package contact

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/lornu-ai/web-gateway/internal/sanitize"
)

// Field caps applied to accepted submissions.
const (
	maxNameLength    = 200
	maxMessageLength = 5000

	minNameLength    = 2
	minMessageLength = 10
)

// Sanitized is a validated, cleaned contact submission. Every field has
// passed the form checks before an email send is attempted; the struct is
// consumed once and never persisted.
type Sanitized struct {
	Name    string
	Email   string
	Message string
}

// Validation failures. The messages are returned verbatim in API responses,
// so they are written for end users.
var (
	ErrInvalidBody     = errors.New("Invalid request body")
	ErrNameTooShort    = errors.New("Name must be at least 2 characters")
	ErrInvalidEmail    = errors.New("Invalid email address")
	ErrMessageTooShort = errors.New("Message must be at least 10 characters")
)

// ValidateForm checks a decoded JSON body and produces a Sanitized record.
// Checks run in a fixed order (body shape, name, email, message) and the
// first failure wins, so error messages are deterministic.
func ValidateForm(v any) (Sanitized, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Sanitized{}, ErrInvalidBody
	}

	name, ok := obj["name"].(string)
	if !ok || utf8.RuneCountInString(strings.TrimSpace(name)) < minNameLength {
		return Sanitized{}, ErrNameTooShort
	}

	email, ok := obj["email"].(string)
	if !ok || !sanitize.IsValidEmail(email) {
		return Sanitized{}, ErrInvalidEmail
	}

	message, ok := obj["message"].(string)
	if !ok || utf8.RuneCountInString(strings.TrimSpace(message)) < minMessageLength {
		return Sanitized{}, ErrMessageTooShort
	}

	return Sanitized{
		Name:    sanitize.String(name, maxNameLength),
		Email:   strings.ToLower(strings.TrimSpace(email)),
		Message: sanitize.String(message, maxMessageLength),
	}, nil
}

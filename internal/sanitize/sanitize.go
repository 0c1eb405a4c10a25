// Package sanitize provides input sanitation for untrusted contact-form
// fields: email format validation, control-character stripping with a length
// cap, and HTML entity encoding for safe interpolation into email bodies.
//
// All functions are pure and never fail; bad input produces a cleaned or
// rejected value, not an error.
package sanitize

import (
	"regexp"
	"strings"
)

// MaxEmailLength is the RFC 5321 bound on a full address.
const MaxEmailLength = 254

// maxLocalPartLength bounds the part before the @.
const maxLocalPartLength = 64

// emailPattern is an RFC-5322-inspired shape check: a local part of allowed
// characters, a domain label, and at least one dot-separated label after it.
// Structural rules (length bounds, consecutive dots, single @) are checked
// separately so they stay readable.
var emailPattern = regexp.MustCompile(
	`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`,
)

// IsValidEmail reports whether s is acceptable as a sender address.
func IsValidEmail(s string) bool {
	if s == "" || len(s) > MaxEmailLength {
		return false
	}
	if strings.Contains(s, "..") {
		return false
	}
	if strings.Count(s, "@") != 1 {
		return false
	}
	local := s[:strings.IndexByte(s, '@')]
	if local == "" || len(local) > maxLocalPartLength {
		return false
	}
	return emailPattern.MatchString(s)
}

var crlfReplacer = strings.NewReplacer("\r", " ", "\n", " ")

// String trims s, replaces each CR and LF with a single space, caps the
// result at maxLength characters, then strips literal angle brackets.
// Truncation runs before bracket stripping; callers depend on that order.
func String(s string, maxLength int) string {
	s = strings.TrimSpace(s)
	s = crlfReplacer.Replace(s)
	if runes := []rune(s); len(runes) > maxLength {
		s = string(runes[:maxLength])
	}
	s = strings.ReplaceAll(s, "<", "")
	return strings.ReplaceAll(s, ">", "")
}

// HTMLEncode escapes s for interpolation into an HTML fragment. Replacement
// is a single left-to-right pass per character class, ampersands first, so
// the ampersands introduced by later entities are not re-escaped.
func HTMLEncode(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&#39;")
	return strings.ReplaceAll(s, "/", "&#x2F;")
}

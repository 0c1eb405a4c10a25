package sanitize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"pgregory.net/rapid"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"simple address", "user@example.com", true},
		{"dotted local part", "user.name@example.com", true},
		{"plus tag and multi-label domain", "user+tag@example.co.uk", true},
		{"empty string", "", false},
		{"double at", "a@@b.com", false},
		{"consecutive dots in domain", "a@b..com", false},
		{"consecutive dots in local part", "a..b@example.com", false},
		{"no at", "example.com", false},
		{"missing local part", "@b.com", false},
		{"no dot in domain", "a@b", false},
		{"local part at 64 chars", strings.Repeat("a", 64) + "@b.com", true},
		{"local part over 64 chars", strings.Repeat("a", 65) + "@b.com", false},
		{"address over 254 chars", strings.Repeat("a", 64) + "@" + strings.Repeat("b", 190) + ".com", false},
		{"whitespace in local part", "a b@example.com", false},
		{"domain label starting with hyphen", "a@-b.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestString_TruncatesBeforeStripping(t *testing.T) {
	// The bracket at the length boundary survives truncation and is then
	// stripped, shortening the result below the cap.
	if got := String("abc<", 4); got != "abc" {
		t.Errorf("String(%q, 4) = %q, want %q", "abc<", got, "abc")
	}
	// Truncation first drops the trailing rune, then the bracket is stripped.
	if got := String("ab<d", 3); got != "ab" {
		t.Errorf("String(%q, 3) = %q, want %q", "ab<d", got, "ab")
	}
}

func TestString_ReplacesNewlinesWithSpaces(t *testing.T) {
	if got := String("line1\r\nline2\nline3", 100); got != "line1  line2 line3" {
		t.Errorf("String newline handling = %q", got)
	}
}

func TestString_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		n := rapid.IntRange(0, 64).Draw(t, "n")

		got := String(s, n)

		if utf8.RuneCountInString(got) > n {
			t.Fatalf("String(%q, %d) = %q, longer than cap", s, n, got)
		}
		if strings.ContainsAny(got, "<>\r\n") {
			t.Fatalf("String(%q, %d) = %q, contains forbidden characters", s, n, got)
		}
	})
}

func TestHTMLEncode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<script>", "&lt;script&gt;"},
		{"a&b", "a&amp;b"},
		{`"quoted"`, "&quot;quoted&quot;"},
		{"it's", "it&#39;s"},
		{"a/b", "a&#x2F;b"},
		{"&lt;", "&amp;lt;"},
		{"plain text", "plain text"},
	}
	for _, tt := range tests {
		if got := HTMLEncode(tt.in); got != tt.want {
			t.Errorf("HTMLEncode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// entityStripper removes every entity HTMLEncode can emit; whatever remains
// must be free of the escaped character set.
var entityStripper = strings.NewReplacer(
	"&amp;", "", "&lt;", "", "&gt;", "", "&quot;", "", "&#39;", "", "&#x2F;", "",
)

func TestHTMLEncode_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")

		encoded := HTMLEncode(s)
		stripped := entityStripper.Replace(encoded)

		if strings.ContainsAny(stripped, `&<>"'/`) {
			t.Fatalf("HTMLEncode(%q) = %q, left unescaped characters: %q", s, encoded, stripped)
		}
	})
}

func TestHTMLEncode_AfterStringIsNoOpForBrackets(t *testing.T) {
	// The email-body path sanitizes before encoding, so bracket entities can
	// never appear in the final output. Both layers are kept regardless.
	got := HTMLEncode(String("<b>hello</b>", 100))
	if strings.Contains(got, "&lt;") || strings.Contains(got, "&gt;") {
		t.Errorf("sanitized input should carry no brackets into encoding, got %q", got)
	}
	if got != "bhello&#x2F;b" {
		t.Errorf("HTMLEncode(String(...)) = %q, want %q", got, "bhello&#x2F;b")
	}
}

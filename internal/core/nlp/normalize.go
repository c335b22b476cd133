package nlp

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	sanitizePolicy = bluemonday.StrictPolicy()
	spaceRe        = regexp.MustCompile(`\s+`)
	punctRe        = regexp.MustCompile(`[^a-z0-9\s]`)
)

// Stopwords removed from both sides before fuzzy matching. Short function
// words that carry no signal about which task a reference means.
var matchStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "please": {}, "task": {}, "event": {},
	"meeting": {}, "with": {}, "for": {}, "at": {}, "on": {}, "to": {}, "of": {},
}

// SanitizePlainText strips all HTML markup and collapses whitespace.
func SanitizePlainText(value string) string {
	stripped := sanitizePolicy.Sanitize(value)
	// bluemonday entity-escapes its output; task text is plain text
	stripped = html.UnescapeString(stripped)
	return strings.TrimSpace(spaceRe.ReplaceAllString(stripped, " "))
}

// Normalized is the token view of a piece of text used for fuzzy matching.
type Normalized struct {
	Text   string
	Tokens []string
}

// HasTokens reports whether any tokens survived normalization.
func (n Normalized) HasTokens() bool { return len(n.Tokens) > 0 }

// NormalizeForMatching lowercases, strips markup and punctuation, removes
// stopwords, and deduplicates tokens while preserving order.
func NormalizeForMatching(value string) Normalized {
	plain := strings.ToLower(SanitizePlainText(value))
	plain = punctRe.ReplaceAllString(plain, " ")

	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range strings.Fields(plain) {
		if _, stop := matchStopwords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}

	return Normalized{Text: strings.Join(tokens, " "), Tokens: tokens}
}

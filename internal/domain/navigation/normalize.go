package navigation

import (
	"net/url"
	"strings"
	"unicode"
)

// BlankURL is the sentinel URL of a tab that shows the new-tab page.
const BlankURL = "about:blank"

// DefaultSearchURL is the search endpoint used when none is configured.
const DefaultSearchURL = "https://www.google.com/search"

// hierarchical schemes need a host to count as absolute
var schemes = map[string]bool{
	"http":   true,
	"https":  true,
	"ftp":    true,
	"ws":     true,
	"wss":    true,
	"file":   false,
	"about":  false,
	"data":   false,
	"mailto": false,
}

// Normalizer converts free-form input into a canonical URL.
type Normalizer struct {
	searchURL string
}

// NewNormalizer creates a normalizer that sends queries to searchURL.
func NewNormalizer(searchURL string) *Normalizer {
	if strings.TrimSpace(searchURL) == "" {
		searchURL = DefaultSearchURL
	}
	return &Normalizer{searchURL: searchURL}
}

var defaultNormalizer = NewNormalizer(DefaultSearchURL)

// Normalize uses the default search engine.
func Normalize(input string) string {
	return defaultNormalizer.Normalize(input)
}

// Normalize returns input unchanged when it is an absolute URL, prefixes bare
// domains with https:// and turns everything else into a search URL.
// Empty input yields an empty string.
func (n *Normalizer) Normalize(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	if IsAbsolute(input) {
		return input
	}

	if strings.Contains(input, ".") && !strings.ContainsFunc(input, unicode.IsSpace) {
		return "https://" + input
	}

	return n.SearchURL(input)
}

// SearchURL builds the search-engine URL for a raw query.
func (n *Normalizer) SearchURL(query string) string {
	sep := "?"
	if strings.Contains(n.searchURL, "?") {
		sep = "&"
	}
	return n.searchURL + sep + "q=" + encodeComponent(query)
}

// IsAbsolute reports whether input parses as a URL with a recognised scheme.
func IsAbsolute(input string) bool {
	u, err := url.Parse(input)
	if err != nil || u.Scheme == "" {
		return false
	}

	needsHost, known := schemes[strings.ToLower(u.Scheme)]
	if !known {
		return false
	}
	if needsHost {
		return u.Host != ""
	}
	return u.Opaque != "" || u.Path != "" || u.Host != ""
}

// IsBlank reports whether u means "no page loaded".
func IsBlank(u string) bool {
	return u == "" || u == BlankURL
}

// IsSecure reports whether u is served over https.
func IsSecure(u string) bool {
	return strings.HasPrefix(strings.ToLower(u), "https://")
}

// Hostname returns the host part of u without port.
func Hostname(u string) (string, bool) {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Hostname() == "" {
		return "", false
	}
	return parsed.Hostname(), true
}

// FaviconFor guesses the conventional favicon location of u.
// Malformed or host-less URLs yield no guess.
func FaviconFor(u string) (string, bool) {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Scheme == "" || parsed.Hostname() == "" {
		return "", false
	}
	return parsed.Scheme + "://" + parsed.Hostname() + "/favicon.ico", true
}

// componentUnescaper restores the characters a URI component leaves
// literal but url.QueryEscape escapes.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent escapes s as a URI component: spaces become %20 and
// !'()* stay literal.
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

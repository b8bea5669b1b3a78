package viewport

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/navigation"
)

// Metadata is what a frame document tells us about itself.
type Metadata struct {
	Title   string `json:"title"`
	Favicon string `json:"favicon,omitempty"`
}

var strictPolicy = bluemonday.StrictPolicy()

// icon link selectors in order of preference
var iconSelectors = []string{
	`link[rel="icon"][href]`,
	`link[rel="shortcut icon"][href]`,
	`link[rel="apple-touch-icon"][href]`,
}

// ExtractMetadata reads the title and icon link of a document reported by
// the frame. Relative icon links are resolved against baseURL; without one,
// the conventional /favicon.ico location is guessed.
func ExtractMetadata(document, baseURL string) (Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to parse document: %w", err)
	}

	meta := Metadata{
		Title: SanitizeTitle(doc.Find("title").First().Text()),
	}
	if meta.Title == "" {
		if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
			meta.Title = SanitizeTitle(og)
		}
	}

	base, _ := url.Parse(baseURL)
	for _, sel := range iconSelectors {
		href, ok := doc.Find(sel).First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			continue
		}
		if resolved := resolve(base, href); resolved != "" {
			meta.Favicon = resolved
			break
		}
	}
	if meta.Favicon == "" {
		meta.Favicon, _ = navigation.FaviconFor(baseURL)
	}

	return meta, nil
}

// SanitizeTitle strips markup from a frame-reported title and collapses
// whitespace.
func SanitizeTitle(title string) string {
	clean := html.UnescapeString(strictPolicy.Sanitize(title))
	return strings.Join(strings.Fields(clean), " ")
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if base == nil || base.Scheme == "" {
		if ref.IsAbs() {
			return ref.String()
		}
		return ""
	}
	resolved := base.ResolveReference(ref)
	switch resolved.Scheme {
	case "http", "https", "data":
		return resolved.String()
	}
	return ""
}

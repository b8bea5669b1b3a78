package viewport

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type report struct {
	kind  string
	value interface{}
}

type recorder struct {
	mu      sync.Mutex
	reports []report
}

func (r *recorder) add(kind string, value interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report{kind, value})
}

func (r *recorder) OnLoadingChanged(_ Request, loading bool) { r.add("loading", loading) }
func (r *recorder) OnTitleResolved(_ Request, title string)  { r.add("title", title) }
func (r *recorder) OnFaviconResolved(_ Request, fav string)  { r.add("favicon", fav) }
func (r *recorder) OnLoadFailed(_ Request, reason string)    { r.add("failed", reason) }

func (r *recorder) all() []report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]report(nil), r.reports...)
}

type titles map[string]string

func (t titles) Lookup(url string) (string, bool) {
	title, ok := t[url]
	return title, ok
}

func TestSimulatedResolvesHostTitle(t *testing.T) {
	sim := NewSimulated(SimulatedConfig{Delay: time.Millisecond}, nil)
	rec := &recorder{}

	sim.Load(context.Background(), Request{TabID: 1, URL: "https://github.com/golang", Generation: 1}, rec)
	sim.Wait()

	assert.Equal(t, []report{
		{"loading", true},
		{"title", "github.com"},
		{"favicon", "https://github.com/favicon.ico"},
		{"loading", false},
	}, rec.all())
}

func TestSimulatedUsesTitleLookup(t *testing.T) {
	sim := NewSimulated(SimulatedConfig{Titles: titles{"https://github.com": "GitHub"}}, nil)
	rec := &recorder{}

	sim.Load(context.Background(), Request{URL: "https://github.com"}, rec)
	sim.Wait()

	assert.Contains(t, rec.all(), report{"title", "GitHub"})
}

func TestSimulatedFallsBackToRawURL(t *testing.T) {
	sim := NewSimulated(SimulatedConfig{}, nil)
	rec := &recorder{}

	sim.Load(context.Background(), Request{URL: "mailto:someone@example.com"}, rec)
	sim.Wait()

	assert.Contains(t, rec.all(), report{"title", "mailto:someone@example.com"})
	assert.Contains(t, rec.all(), report{"favicon", ""})
}

func TestSimulatedBlockedHost(t *testing.T) {
	sim := NewSimulated(SimulatedConfig{Blocked: []string{" Facebook.com "}}, nil)
	rec := &recorder{}

	sim.Load(context.Background(), Request{URL: "https://www.facebook.com/"}, rec)
	sim.Wait()

	assert.Equal(t, []report{
		{"loading", true},
		{"failed", BlockedReason},
	}, rec.all())
}

func TestSimulatedCancelled(t *testing.T) {
	sim := NewSimulated(SimulatedConfig{Delay: time.Hour}, nil)
	rec := &recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	sim.Load(ctx, Request{URL: "https://slow.example"}, rec)
	cancel()
	sim.Wait()

	assert.Equal(t, []report{{"loading", true}}, rec.all())
}

func TestSimulatedIgnoresBlank(t *testing.T) {
	sim := NewSimulated(SimulatedConfig{}, nil)
	rec := &recorder{}

	sim.Load(context.Background(), Request{URL: "about:blank"}, rec)
	sim.Wait()

	assert.Empty(t, rec.all())
}

func TestRemoteDoesNothing(t *testing.T) {
	rec := &recorder{}
	Remote{}.Load(context.Background(), Request{URL: "https://github.com"}, rec)
	assert.Empty(t, rec.all())
}

func TestExtractMetadata(t *testing.T) {
	doc := `<html><head>
		<title>  MDN   Web Docs </title>
		<link rel="icon" href="/favicon-48x48.png">
	</head><body></body></html>`

	meta, err := ExtractMetadata(doc, "https://developer.mozilla.org/en-US/docs/Web")
	require.NoError(t, err)
	assert.Equal(t, "MDN Web Docs", meta.Title)
	assert.Equal(t, "https://developer.mozilla.org/favicon-48x48.png", meta.Favicon)
}

func TestExtractMetadataFallbacks(t *testing.T) {
	doc := `<html><head><meta property="og:title" content="Open Graph Title"></head></html>`

	meta, err := ExtractMetadata(doc, "https://example.com/page")
	require.NoError(t, err)
	assert.Equal(t, "Open Graph Title", meta.Title)
	assert.Equal(t, "https://example.com/favicon.ico", meta.Favicon)
}

func TestExtractMetadataRejectsScriptIcons(t *testing.T) {
	doc := `<html><head><title>x</title><link rel="icon" href="javascript:alert(1)"></head></html>`

	meta, err := ExtractMetadata(doc, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/favicon.ico", meta.Favicon)
}

func TestSanitizeTitle(t *testing.T) {
	assert.Equal(t, "Hello world", SanitizeTitle("<b>Hello</b>\n   world"))
	assert.Equal(t, "Tom & Jerry", SanitizeTitle("Tom & Jerry"))
	assert.Equal(t, "", SanitizeTitle("<script>alert(1)</script>"))
}

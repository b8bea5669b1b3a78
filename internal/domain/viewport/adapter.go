// Package viewport defines the boundary between the session controller and
// the component that actually shows page content.
//
// The controller hands an Adapter a Request and carries on; the adapter later
// reports title, favicon, loading and failure through a Reporter. Reports may
// arrive on any goroutine and after any delay, so each one echoes the Request
// it belongs to and the controller drops reports for superseded loads.
package viewport

import (
	"context"

	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/tab"
)

// Request identifies one load of one tab.
type Request struct {
	TabID      tab.ID `json:"tab_id"`
	URL        string `json:"url"`
	Generation uint64 `json:"generation"`
}

// Reporter receives the outcome of a load.
type Reporter interface {
	OnLoadingChanged(req Request, loading bool)
	OnTitleResolved(req Request, title string)
	OnFaviconResolved(req Request, favicon string)
	OnLoadFailed(req Request, reason string)
}

// Adapter starts loading a URL. Load must not block on the page itself and
// must stop reporting once ctx is cancelled.
type Adapter interface {
	Load(ctx context.Context, req Request, r Reporter)
}

// TitleLookup resolves a known title for a URL.
type TitleLookup interface {
	Lookup(url string) (string, bool)
}

// Remote is used when a real front-end frame renders pages. It starts
// nothing; the frame reports back through the HTTP API.
type Remote struct{}

// Load implements Adapter
func (Remote) Load(context.Context, Request, Reporter) {}

package viewport

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/navigation"
)

// DefaultDelay matches the pause of the original mock frame.
const DefaultDelay = time.Second

// BlockedReason is reported for hosts that refuse to be embedded.
const BlockedReason = "The website cannot be embedded due to security policies."

// Simulated stands in for an embedded frame. After Delay it resolves the
// title from Titles or the host name, guesses the favicon and finishes the
// load. Hosts listed in Blocked fail instead.
type Simulated struct {
	delay   time.Duration
	blocked map[string]struct{}
	titles  TitleLookup
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// SimulatedConfig configures a Simulated adapter
type SimulatedConfig struct {
	Delay   time.Duration
	Blocked []string
	Titles  TitleLookup
}

// NewSimulated creates a simulated adapter
func NewSimulated(cfg SimulatedConfig, logger *zap.Logger) *Simulated {
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	blocked := make(map[string]struct{}, len(cfg.Blocked))
	for _, host := range cfg.Blocked {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			blocked[host] = struct{}{}
		}
	}

	return &Simulated{
		delay:   cfg.Delay,
		blocked: blocked,
		titles:  cfg.Titles,
		logger:  logger.Named("viewport"),
	}
}

// Load implements Adapter
func (s *Simulated) Load(ctx context.Context, req Request, r Reporter) {
	if navigation.IsBlank(req.URL) {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		r.OnLoadingChanged(req, true)

		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			s.logger.Debug("Load cancelled", zap.String("url", req.URL), zap.Int("tab", int(req.TabID)))
			return
		case <-timer.C:
		}

		if s.isBlocked(req.URL) {
			s.logger.Debug("Load refused", zap.String("url", req.URL))
			r.OnLoadFailed(req, BlockedReason)
			return
		}

		r.OnTitleResolved(req, s.title(req.URL))
		favicon, _ := navigation.FaviconFor(req.URL)
		r.OnFaviconResolved(req, favicon)
		r.OnLoadingChanged(req, false)
	}()
}

// Wait blocks until every started load has finished or been cancelled.
func (s *Simulated) Wait() {
	s.wg.Wait()
}

func (s *Simulated) title(url string) string {
	if s.titles != nil {
		if title, ok := s.titles.Lookup(url); ok {
			return title
		}
	}
	if host, ok := navigation.Hostname(url); ok {
		return host
	}
	return url
}

func (s *Simulated) isBlocked(url string) bool {
	host, ok := navigation.Hostname(url)
	if !ok {
		return false
	}
	host = strings.ToLower(host)
	if _, ok := s.blocked[host]; ok {
		return true
	}
	_, ok = s.blocked[strings.TrimPrefix(host, "www.")]
	return ok
}

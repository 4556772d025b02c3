// Package discovery locates a municipality's Ratsinformationssystem and
// identifies which product runs it, producing a weighted-evidence score.
package discovery

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"RISScanner/internal/domain"
	"RISScanner/internal/ports"
	"RISScanner/internal/registry"
)

const (
	// DefaultMinConfidence is the score a provider must reach before the
	// result names it. Tunable; below it discovery reports ProviderUnknown.
	DefaultMinConfidence = 0.3
	// DefaultMarkerWeight is the fixed weight of one HTML marker match on
	// the municipality homepage, independent of path signals.
	DefaultMarkerWeight = 0.35
	// keywordWeight is diagnostic only: council keywords found in homepage
	// links are surfaced in the signal list without provider attribution.
	keywordWeight = 0.05

	defaultProbeTimeout = 10 * time.Second
)

// risKeywords mark links that point at council content without identifying
// the product behind them.
var risKeywords = []string{
	"ratsinformationssystem",
	"sitzungsdienst",
	"gemeinderat",
	"stadtrat",
	"gemeindevertretung",
	"sitzungskalender",
	"tagesordnung",
	"protokoll",
	"niederschrift",
	"beschluss",
}

// Options carries the tunable policy constants of discovery.
type Options struct {
	ProbeTimeout  time.Duration
	MinConfidence float64
	MarkerWeight  float64
}

func (o Options) withDefaults() Options {
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = defaultProbeTimeout
	}
	if o.MinConfidence <= 0 {
		o.MinConfidence = DefaultMinConfidence
	}
	if o.MarkerWeight <= 0 {
		o.MarkerWeight = DefaultMarkerWeight
	}
	return o
}

// Discoverer probes candidate paths and inspects the homepage of one
// municipality. It always terminates with a DiscoveryResult, degrading
// toward ProviderUnknown instead of failing.
type Discoverer struct {
	fetcher ports.Fetcher
	opts    Options
	logger  *slog.Logger
}

// New wires a Discoverer; a nil logger disables logging.
func New(fetcher ports.Fetcher, opts Options, logger *slog.Logger) *Discoverer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Discoverer{fetcher: fetcher, opts: opts.withDefaults(), logger: logger}
}

// candidate is one probe target derived from the registry tables.
type candidate struct {
	provider domain.RISProvider
	path     string
	weight   float64
	url      string
}

// Discover runs path probing, dedicated-host probing, and homepage
// inspection, scores every provider from the gathered signals, and resolves
// the winning base URL.
func (d *Discoverer) Discover(ctx context.Context, m domain.Municipality) domain.DiscoveryResult {
	result := domain.DiscoveryResult{
		Municipality: m,
		Provider:     domain.ProviderUnknown,
	}

	cands := buildCandidates(m.Website)
	responded := d.probeCandidates(ctx, cands)

	for i, c := range cands {
		if !responded[i] {
			continue
		}
		result.Signals = append(result.Signals, domain.Signal{
			Provider: c.provider,
			Kind:     domain.SignalPath,
			Value:    c.path,
			Weight:   c.weight,
		})
	}

	hostBases := d.probeHostPatterns(ctx, m, &result)
	markerHits := d.inspectHomepage(ctx, m.Website, &result)

	scores := scoreSignals(result.Signals)
	winner, best := pickWinner(scores)
	result.Confidence = best

	if best < d.opts.MinConfidence {
		d.logger.Debug("no provider cleared threshold",
			"municipality", m.Name, "best", best)
		return result
	}

	result.Provider = winner
	result.RISBaseURL = resolveBaseURL(cands, responded, winner, hostBases[winner], markerHits[winner], m.Website)

	d.logger.Info("ris discovered",
		"municipality", m.Name,
		"provider", winner.String(),
		"confidence", best,
		"url", result.RISBaseURL)

	return result
}

// buildCandidates expands all registered path patterns against the
// municipality website, ordered by registry priority (descending) with ties
// broken by provider ordinal so probing order is deterministic.
func buildCandidates(website string) []candidate {
	providers := registry.AllProviders()
	sort.SliceStable(providers, func(i, j int) bool {
		pi := registry.SignaturesFor(providers[i]).Priority
		pj := registry.SignaturesFor(providers[j]).Priority
		if pi != pj {
			return pi > pj
		}
		return providers[i] < providers[j]
	})

	var cands []candidate
	for _, p := range providers {
		for _, pat := range registry.SignaturesFor(p).PathPatterns {
			u, err := url.JoinPath(website, pat.Path)
			if err != nil {
				continue
			}
			cands = append(cands, candidate{
				provider: p,
				path:     pat.Path,
				weight:   pat.Weight,
				url:      u,
			})
		}
	}
	return cands
}

// probeCandidates issues one existence check per candidate. Probes run
// concurrently; the shared fetcher bounds in-flight requests globally.
// Network failures count as non-matches, never as errors.
func (d *Discoverer) probeCandidates(ctx context.Context, cands []candidate) []bool {
	responded := make([]bool, len(cands))

	var wg sync.WaitGroup
	for i, c := range cands {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i int, c candidate) {
			defer wg.Done()
			res, err := d.fetcher.Fetch(ctx, http.MethodHead, c.url, d.opts.ProbeTimeout)
			if err != nil {
				return
			}
			responded[i] = res.StatusCode >= 200 && res.StatusCode < 400
		}(i, c)
	}
	wg.Wait()

	return responded
}

// probeHostPatterns fetches every dedicated-host candidate and scans the
// responding pages for provider markers, so a RIS living on its own
// subdomain is found even when the main website never links it. It returns
// the first matching URL per provider for base URL resolution.
func (d *Discoverer) probeHostPatterns(ctx context.Context, m domain.Municipality, result *domain.DiscoveryResult) map[domain.RISProvider]string {
	urls := hostCandidates(m)
	bodies := make([][]byte, len(urls))

	var wg sync.WaitGroup
	for i, u := range urls {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			res, err := d.fetcher.Fetch(ctx, http.MethodGet, u, d.opts.ProbeTimeout)
			if err != nil || res.StatusCode < 200 || res.StatusCode >= 300 {
				return
			}
			bodies[i] = res.Body
		}(i, u)
	}
	wg.Wait()

	bases := make(map[domain.RISProvider]string)
	for i, u := range urls {
		if len(bodies[i]) == 0 {
			continue
		}
		html := strings.ToLower(string(bodies[i]))
		for _, p := range registry.AllProviders() {
			for _, marker := range registry.SignaturesFor(p).HTMLMarkers {
				if !strings.Contains(html, marker) {
					continue
				}
				if _, ok := bases[p]; !ok {
					bases[p] = u
				}
				result.Signals = append(result.Signals, domain.Signal{
					Provider: p,
					Kind:     domain.SignalHost,
					Value:    marker + " " + u,
					Weight:   d.opts.MarkerWeight,
				})
				break
			}
		}
	}
	return bases
}

// inspectHomepage fetches the main page once and scans it for every
// provider's markers plus generic council keywords in links. It reports
// which providers matched a marker.
func (d *Discoverer) inspectHomepage(ctx context.Context, website string, result *domain.DiscoveryResult) map[domain.RISProvider]bool {
	hits := make(map[domain.RISProvider]bool)

	res, err := d.fetcher.Fetch(ctx, http.MethodGet, website, d.opts.ProbeTimeout)
	if err != nil || res.StatusCode < 200 || res.StatusCode >= 300 {
		return hits
	}

	html := strings.ToLower(string(res.Body))
	for _, p := range registry.AllProviders() {
		for _, marker := range registry.SignaturesFor(p).HTMLMarkers {
			if !strings.Contains(html, marker) {
				continue
			}
			hits[p] = true
			result.Signals = append(result.Signals, domain.Signal{
				Provider: p,
				Kind:     domain.SignalMarker,
				Value:    marker,
				Weight:   d.opts.MarkerWeight,
			})
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return hits
	}

	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		text := strings.ToLower(strings.TrimSpace(a.Text()))
		probe := strings.ToLower(href) + " " + text
		for _, kw := range risKeywords {
			if !strings.Contains(probe, kw) || seen[href] {
				continue
			}
			seen[href] = true
			result.Signals = append(result.Signals, domain.Signal{
				Provider: domain.ProviderUnknown,
				Kind:     domain.SignalKeyword,
				Value:    kw + " " + href,
				Weight:   keywordWeight,
			})
			break
		}
	})

	return hits
}

// scoreSignals sums per-provider weights and clamps each total to [0,1].
// Keyword signals carry no provider and do not contribute.
func scoreSignals(signals []domain.Signal) map[domain.RISProvider]float64 {
	scores := make(map[domain.RISProvider]float64)
	for _, s := range signals {
		if s.Provider == domain.ProviderUnknown {
			continue
		}
		scores[s.Provider] += s.Weight
	}
	for p, v := range scores {
		if v > 1 {
			scores[p] = 1
		}
	}
	return scores
}

// pickWinner selects the highest-scoring provider; equal scores resolve to
// the lower ordinal.
func pickWinner(scores map[domain.RISProvider]float64) (domain.RISProvider, float64) {
	winner := domain.ProviderUnknown
	best := 0.0
	for _, p := range registry.AllProviders() {
		if scores[p] > best {
			best = scores[p]
			winner = p
		}
	}
	return winner, best
}

// resolveBaseURL picks the winning provider's highest-priority responding
// path candidate, then its first marker-matching dedicated host; when only
// homepage markers matched, the main website itself is the best available
// base.
func resolveBaseURL(cands []candidate, responded []bool, winner domain.RISProvider, hostBase string, markerMatched bool, website string) string {
	for i, c := range cands {
		if responded[i] && c.provider == winner {
			return c.url
		}
	}
	if hostBase != "" {
		return hostBase
	}
	if markerMatched {
		return website
	}
	return ""
}

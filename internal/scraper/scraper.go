// Package scraper extracts meetings and documents from a confirmed RIS
// instance, dispatching to one provider-specific strategy per product.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"RISScanner/internal/domain"
	"RISScanner/internal/ports"
)

const (
	defaultPageTimeout = 30 * time.Second
	defaultMaxMeetings = 50
)

// DiscoveryInsufficientError is the only fatal precondition in extraction:
// the discovery result names no provider or its confidence is below the
// required minimum.
type DiscoveryInsufficientError struct {
	Provider   domain.RISProvider
	Confidence float64
	Minimum    float64
}

func (e *DiscoveryInsufficientError) Error() string {
	return fmt.Sprintf("discovery insufficient for extraction: provider %s, confidence %.2f (minimum %.2f)",
		e.Provider, e.Confidence, e.Minimum)
}

// Extraction is the complete output of one municipality's extraction run.
// Fallback is true when the detected provider has no dedicated strategy and
// the generic one ran in its place. Errors holds per-meeting document
// enumeration failures; they never abort sibling meetings.
type Extraction struct {
	Meetings  []domain.Meeting
	Documents []domain.MeetingDocument
	Fallback  bool
	Errors    []error
}

// Options carries the tunable extraction policy values.
type Options struct {
	MinConfidence float64
	PageTimeout   time.Duration
	MaxMeetings   int
}

func (o Options) withDefaults() Options {
	if o.MinConfidence <= 0 {
		o.MinConfidence = 0.3
	}
	if o.PageTimeout <= 0 {
		o.PageTimeout = defaultPageTimeout
	}
	if o.MaxMeetings <= 0 {
		o.MaxMeetings = defaultMaxMeetings
	}
	return o
}

// Scraper dispatches extraction to provider strategies.
type Scraper struct {
	fetcher ports.Fetcher
	opts    Options
	logger  *slog.Logger
}

// New wires a Scraper; a nil logger disables logging.
func New(fetcher ports.Fetcher, opts Options, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scraper{fetcher: fetcher, opts: opts.withDefaults(), logger: logger}
}

// Extract enumerates meetings and their document links for a confirmed RIS.
// Meetings keep discovery order; documents keep per-meeting page order, all
// documents of an earlier meeting before those of a later one.
func (s *Scraper) Extract(ctx context.Context, dr domain.DiscoveryResult) (Extraction, error) {
	if dr.Provider == domain.ProviderUnknown || dr.Confidence < s.opts.MinConfidence {
		return Extraction{}, &DiscoveryInsufficientError{
			Provider:   dr.Provider,
			Confidence: dr.Confidence,
			Minimum:    s.opts.MinConfidence,
		}
	}

	strategy, fallback := s.strategyFor(dr.Provider)
	extraction := Extraction{Fallback: fallback}

	meetings, err := strategy.DiscoverMeetings(ctx, dr.RISBaseURL)
	if err != nil {
		return extraction, fmt.Errorf("discover meetings (%s): %w", dr.Provider, err)
	}
	extraction.Meetings = meetings

	s.logger.Info("meetings discovered",
		"municipality", dr.Municipality.Name,
		"provider", dr.Provider.String(),
		"count", len(meetings),
		"fallback", fallback)

	for _, meeting := range meetings {
		if ctx.Err() != nil {
			break
		}
		docs, err := strategy.MeetingDocuments(ctx, meeting)
		if err != nil {
			extraction.Errors = append(extraction.Errors,
				fmt.Errorf("documents for meeting %s: %w", meeting.ID, err))
			continue
		}
		extraction.Documents = append(extraction.Documents, docs...)
	}

	return extraction, nil
}

// strategyFor selects the strategy variant for a provider. SD.NET has no
// dedicated strategy yet and resolves to the generic one; the second return
// value surfaces that so callers never report the fallback as a full
// extraction.
func (s *Scraper) strategyFor(p domain.RISProvider) (Strategy, bool) {
	base := baseStrategy{
		fetcher:     s.fetcher,
		timeout:     s.opts.PageTimeout,
		maxMeetings: s.opts.MaxMeetings,
		logger:      s.logger,
	}

	switch p {
	case domain.Regisafe:
		return &regisafeStrategy{base}, false
	case domain.SessionNet:
		return &sessionnetStrategy{base}, false
	case domain.AllRIS:
		return &allrisStrategy{base}, false
	case domain.KommuneAktiv:
		return &kommuneAktivStrategy{base}, false
	case domain.Somacos:
		return &somacosStrategy{base}, false
	default:
		return &genericStrategy{baseStrategy: base, provider: p}, true
	}
}

package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"RISScanner/internal/discovery"
	"RISScanner/internal/domain"
	"RISScanner/internal/ports"
	"RISScanner/internal/scraper"
	"RISScanner/internal/session"
)

// PipelineDeps wires all collaborators into the orchestration pipeline.
type PipelineDeps struct {
	Discoverer *discovery.Discoverer
	Scraper    *scraper.Scraper
	Downloader ports.Downloader
	Repository ports.SessionRepository
	Logger     *slog.Logger

	// MaxMunicipalities bounds how many municipality pipelines run at
	// once; HTTP-level concurrency is bounded separately by the fetcher.
	MaxMunicipalities int
	// DownloadDocuments toggles the byte-download stage.
	DownloadDocuments bool
}

// Pipeline runs discovery, extraction, and downloads per municipality.
// Every municipality is independent: one pipeline's failure never reaches
// another, and each run always yields a complete ScrapingSession.
type Pipeline struct {
	deps PipelineDeps
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.MaxMunicipalities <= 0 {
		deps.MaxMunicipalities = 4
	}
	return &Pipeline{deps: deps}
}

// Run processes all municipalities concurrently and returns their sessions
// in input order.
func (p *Pipeline) Run(ctx context.Context, municipalities []domain.Municipality) []domain.ScrapingSession {
	sessions := make([]domain.ScrapingSession, len(municipalities))

	sem := make(chan struct{}, p.deps.MaxMunicipalities)
	var wg sync.WaitGroup
	for i, m := range municipalities {
		wg.Add(1)
		go func(i int, m domain.Municipality) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			sessions[i] = p.processOne(ctx, m)
		}(i, m)
	}
	wg.Wait()

	return sessions
}

// processOne runs the full pipeline for a single municipality and always
// returns a finished session.
func (p *Pipeline) processOne(ctx context.Context, m domain.Municipality) domain.ScrapingSession {
	log := p.deps.Logger.With("municipality", m.Name)
	tracker := session.Begin(m)

	dr := p.deps.Discoverer.Discover(ctx, m)
	tracker.SetDiscovery(dr)

	extraction, err := p.deps.Scraper.Extract(ctx, dr)
	if err != nil {
		var insufficient *scraper.DiscoveryInsufficientError
		if errors.As(err, &insufficient) {
			log.Info("no usable ris found", "confidence", dr.Confidence)
			return p.finish(ctx, tracker, domain.StatusNoRIS)
		}
		tracker.AddError("extract", err)
		log.Warn("extraction failed", "error", err)
		return p.finish(ctx, tracker, domain.StatusFailed)
	}

	tracker.AddMeetings(extraction.Meetings)
	for _, enumErr := range extraction.Errors {
		tracker.AddError("documents", enumErr)
	}

	docs := extraction.Documents
	if p.deps.DownloadDocuments && p.deps.Downloader != nil {
		docs = p.downloadAll(ctx, docs)
	}
	tracker.AddDocuments(docs)

	status := domain.StatusScraped
	if extraction.Fallback {
		status = domain.StatusProviderFallback
	}

	log.Info("municipality processed",
		"provider", dr.Provider.String(),
		"meetings", len(extraction.Meetings),
		"documents", len(docs),
		"status", string(status))

	return p.finish(ctx, tracker, status)
}

// downloadAll fetches every document's bytes concurrently. Results are
// written by index so the output keeps listing order regardless of which
// download finishes first; the fetcher bounds actual network concurrency.
func (p *Pipeline) downloadAll(ctx context.Context, docs []domain.MeetingDocument) []domain.MeetingDocument {
	result := make([]domain.MeetingDocument, len(docs))

	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		go func(i int, doc domain.MeetingDocument) {
			defer wg.Done()
			result[i] = p.deps.Downloader.Download(ctx, doc)
		}(i, doc)
	}
	wg.Wait()

	return result
}

func (p *Pipeline) finish(ctx context.Context, tracker *session.Tracker, status domain.SessionStatus) domain.ScrapingSession {
	finished := tracker.Finish(status)
	if p.deps.Repository != nil {
		if err := p.deps.Repository.SaveSession(ctx, finished); err != nil {
			p.deps.Logger.Warn("persist session failed",
				"municipality", finished.Municipality.Name, "error", err)
		}
	}
	return finished
}

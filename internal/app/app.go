package app

import (
	"context"
	"log/slog"

	"RISScanner/internal/config"
	"RISScanner/internal/discovery"
	"RISScanner/internal/domain"
	"RISScanner/internal/infrastructure/httpfetch"
	"RISScanner/internal/infrastructure/storage"
	"RISScanner/internal/logging"
	"RISScanner/internal/ports"
	"RISScanner/internal/scraper"
	"RISScanner/internal/usecase"
)

// Application wires config to the pipeline and owns component lifecycles.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	store    *storage.SQLiteRepository
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	fetcher := httpfetch.NewClient(httpfetch.Options{
		UserAgent:         cfg.HTTP.UserAgent,
		DefaultTimeout:    cfg.HTTP.PageTimeout.Std(),
		MaxConcurrent:     cfg.HTTP.MaxConcurrent,
		RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
	})

	discoverer := discovery.New(fetcher, discovery.Options{
		ProbeTimeout:  cfg.HTTP.ProbeTimeout.Std(),
		MinConfidence: cfg.Discovery.MinConfidence,
		MarkerWeight:  cfg.Discovery.MarkerWeight,
	}, baseLogger.With("component", "discovery"))

	extractor := scraper.New(fetcher, scraper.Options{
		MinConfidence: cfg.Discovery.MinConfidence,
		PageTimeout:   cfg.HTTP.PageTimeout.Std(),
		MaxMeetings:   cfg.Extraction.MaxMeetings,
	}, baseLogger.With("component", "scraper"))

	downloader := httpfetch.NewDownloader(fetcher, httpfetch.DownloadOptions{
		MaxAttempts: cfg.HTTP.MaxAttempts,
		BackoffBase: cfg.HTTP.BackoffBase.Std(),
		Timeout:     cfg.HTTP.DownloadTimeout.Std(),
	}, baseLogger.With("component", "downloader"))

	var store *storage.SQLiteRepository
	var repo ports.SessionRepository
	if cfg.Database.Path != "" {
		var err error
		store, err = storage.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		repo = store
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Discoverer:        discoverer,
		Scraper:           extractor,
		Downloader:        downloader,
		Repository:        repo,
		Logger:            baseLogger.With("component", "pipeline"),
		MaxMunicipalities: cfg.Extraction.MaxMunicipalities,
		DownloadDocuments: !cfg.Extraction.SkipDownloads,
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline, store: store}, nil
}

// Run processes every configured municipality once and logs a summary.
func (a *Application) Run(ctx context.Context) []domain.ScrapingSession {
	municipalities := make([]domain.Municipality, 0, len(a.cfg.Municipalities))
	for _, m := range a.cfg.Municipalities {
		municipalities = append(municipalities, m.Municipality())
	}

	sessions := a.pipeline.Run(ctx, municipalities)

	for _, s := range sessions {
		a.logger.Info("session finished",
			"municipality", s.Municipality.Name,
			"status", string(s.Status),
			"provider", s.Discovery.Provider.String(),
			"confidence", s.Discovery.Confidence,
			"meetings", len(s.Meetings),
			"documents", len(s.Documents),
			"downloaded", s.Downloaded(),
			"errors", len(s.Errors))
	}

	return sessions
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

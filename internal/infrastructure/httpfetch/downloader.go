package httpfetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"RISScanner/internal/domain"
	"RISScanner/internal/ports"
)

const (
	defaultMaxAttempts = 3
	defaultBackoffBase = 500 * time.Millisecond
)

// DownloadOptions parameterizes the retry loop: attempt ceiling, backoff
// base, and the per-download timeout.
type DownloadOptions struct {
	MaxAttempts int
	BackoffBase time.Duration
	Timeout     time.Duration
}

func (o DownloadOptions) withDefaults() DownloadOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defaultMaxAttempts
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = defaultBackoffBase
	}
	return o
}

// Downloader fetches document bytes with bounded exponential-backoff retry.
// Failures land on the document record; siblings are never affected.
type Downloader struct {
	fetcher ports.Fetcher
	opts    DownloadOptions
	logger  *slog.Logger
}

var _ ports.Downloader = (*Downloader)(nil)

// NewDownloader wires a Downloader; a nil logger disables logging.
func NewDownloader(fetcher ports.Fetcher, opts DownloadOptions, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Downloader{fetcher: fetcher, opts: opts.withDefaults(), logger: logger}
}

// Download retrieves the document payload. Transient failures (network
// errors, 5xx, 429) are retried with delays of base, 2×base, 4×base, …;
// other 4xx statuses are recorded immediately without retry. A cancelled
// context before the first attempt leaves the document untouched (skipped).
func (d *Downloader) Download(ctx context.Context, doc domain.MeetingDocument) domain.MeetingDocument {
	if doc.DownloadURL == "" {
		doc.Err = "document has no download url"
		return doc
	}

	var lastErr error
	for attempt := 1; attempt <= d.opts.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			break
		}
		doc.Attempts = attempt

		res, err := d.fetcher.Fetch(ctx, http.MethodGet, doc.DownloadURL, d.opts.Timeout)
		switch {
		case err != nil:
			lastErr = err
		case res.StatusCode >= 200 && res.StatusCode < 300:
			doc.Bytes = res.Body
			doc.Size = int64(len(res.Body))
			doc.Err = ""
			return doc
		case retryableStatus(res.StatusCode):
			lastErr = fmt.Errorf("status %d from %s", res.StatusCode, doc.DownloadURL)
		default:
			doc.Err = fmt.Sprintf("status %d from %s", res.StatusCode, doc.DownloadURL)
			return doc
		}

		d.logger.Debug("download attempt failed",
			"url", doc.DownloadURL, "attempt", attempt, "error", lastErr)

		if attempt < d.opts.MaxAttempts && !d.wait(ctx, attempt) {
			break
		}
	}

	if lastErr != nil {
		doc.Err = lastErr.Error()
	}
	return doc
}

// wait sleeps for base×2^(attempt-1); it reports false when the context was
// cancelled first.
func (d *Downloader) wait(ctx context.Context, attempt int) bool {
	delay := d.opts.BackoffBase << (attempt - 1)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func retryableStatus(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests
}

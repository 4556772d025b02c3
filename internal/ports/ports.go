package ports

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"RISScanner/internal/domain"
)

// FetchResult is the raw outcome of one HTTP exchange. Non-2xx statuses are
// returned here, not as errors; callers decide what a status means.
type FetchResult struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	FinalURL   string
}

// Fetcher is the single network capability the core depends on. A timeout of
// zero falls back to the client default.
type Fetcher interface {
	Fetch(ctx context.Context, method, rawURL string, timeout time.Duration) (*FetchResult, error)
}

// Downloader retrieves document bytes with retry semantics. It never returns
// an error: failures are recorded on the returned document.
type Downloader interface {
	Download(ctx context.Context, doc domain.MeetingDocument) domain.MeetingDocument
}

// SessionRepository persists finished scraping sessions for reporting.
type SessionRepository interface {
	SaveSession(ctx context.Context, session domain.ScrapingSession) error
}

// NetworkError wraps connection failures and timeouts so callers can treat
// them uniformly as transient.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error for %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RISScanner/internal/discovery"
	"RISScanner/internal/domain"
	"RISScanner/internal/ports"
	"RISScanner/internal/scraper"
)

// stubFetcher serves canned pages by URL regardless of method; unknown URLs
// fail like an unreachable host.
type stubFetcher struct {
	pages map[string]string
}

func (f *stubFetcher) Fetch(_ context.Context, _, rawURL string, _ time.Duration) (*ports.FetchResult, error) {
	body, ok := f.pages[rawURL]
	if !ok {
		return nil, &ports.NetworkError{URL: rawURL, Err: errors.New("connection refused")}
	}
	return &ports.FetchResult{StatusCode: 200, Body: []byte(body), FinalURL: rawURL}, nil
}

// headOnlyFetcher answers existence probes for the listed URLs but refuses
// their GETs, like a server that dropped its listing page.
type headOnlyFetcher struct {
	stubFetcher
	headOnly map[string]bool
}

func (f *headOnlyFetcher) Fetch(ctx context.Context, method, rawURL string, timeout time.Duration) (*ports.FetchResult, error) {
	if f.headOnly[rawURL] {
		if method == "HEAD" {
			return &ports.FetchResult{StatusCode: 200, FinalURL: rawURL}, nil
		}
		return nil, &ports.NetworkError{URL: rawURL, Err: errors.New("connection reset")}
	}
	return f.stubFetcher.Fetch(ctx, method, rawURL, timeout)
}

type stubDownloader struct{}

func (stubDownloader) Download(_ context.Context, doc domain.MeetingDocument) domain.MeetingDocument {
	doc.Attempts = 1
	doc.Bytes = []byte("%PDF-1.4")
	doc.Size = int64(len(doc.Bytes))
	return doc
}

type recordingRepository struct {
	mu    sync.Mutex
	saved []domain.ScrapingSession
}

func (r *recordingRepository) SaveSession(_ context.Context, s domain.ScrapingSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, s)
	return nil
}

// musterstadtPages models a municipality running a regisafe instance under
// /ratsinfo with one meeting and one downloadable protocol.
func musterstadtPages() map[string]string {
	return map[string]string{
		"https://www.musterstadt.de": `<html><body>
			<p>Powered by regisafe</p>
			<a href="/ratsinfo">Ratsinformationssystem</a>
		</body></html>`,
		"https://www.musterstadt.de/ratsinfo": `
			<table class="risliste">
			  <tr>
			    <td class="datum">05.03.2025</td>
			    <td class="gremium">Gemeinderat</td>
			    <td><a href="/ratsinfo/si010.php?sid=101">Sitzung des Gemeinderates</a></td>
			  </tr>
			</table>`,
		"https://www.musterstadt.de/ratsinfo/si010.php?sid=101": `
			<a href="/ratsinfo/getfile.php?id=1">Protokoll</a>`,
	}
}

func testPipeline(fetcher ports.Fetcher, repo ports.SessionRepository) *Pipeline {
	return NewPipeline(PipelineDeps{
		Discoverer:        discovery.New(fetcher, discovery.Options{}, nil),
		Scraper:           scraper.New(fetcher, scraper.Options{}, nil),
		Downloader:        stubDownloader{},
		Repository:        repo,
		DownloadDocuments: true,
	})
}

func TestPipelineScrapesRegisafeMunicipality(t *testing.T) {
	t.Parallel()

	repo := &recordingRepository{}
	p := testPipeline(&stubFetcher{pages: musterstadtPages()}, repo)

	sessions := p.Run(context.Background(), []domain.Municipality{
		{Name: "Musterstadt", Website: "https://www.musterstadt.de"},
	})
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, domain.StatusScraped, s.Status)
	assert.Equal(t, domain.Regisafe, s.Discovery.Provider)
	assert.GreaterOrEqual(t, s.Discovery.Confidence, 0.3)
	assert.Equal(t, "https://www.musterstadt.de/ratsinfo", s.Discovery.RISBaseURL)

	require.Len(t, s.Meetings, 1)
	assert.Equal(t, "regisafe-101", s.Meetings[0].ID)

	require.Len(t, s.Documents, 1)
	assert.Equal(t, domain.DocProtocol, s.Documents[0].Type)
	assert.NotEmpty(t, s.Documents[0].Bytes)
	assert.Equal(t, 1, s.Downloaded())

	repo.mu.Lock()
	defer repo.mu.Unlock()
	require.Len(t, repo.saved, 1)
	assert.Equal(t, s.ID, repo.saved[0].ID)
}

func TestPipelineMunicipalityWithoutRIS(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{pages: map[string]string{
		"https://www.kleindorf.de": `<html><body><p>Willkommen in Kleindorf</p></body></html>`,
	}}
	p := testPipeline(fetcher, nil)

	sessions := p.Run(context.Background(), []domain.Municipality{
		{Name: "Kleindorf", Website: "https://www.kleindorf.de"},
	})
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, domain.StatusNoRIS, s.Status)
	assert.Equal(t, domain.ProviderUnknown, s.Discovery.Provider)
	assert.Empty(t, s.Meetings)
	assert.Empty(t, s.Documents)
}

func TestPipelineKeepsInputOrder(t *testing.T) {
	t.Parallel()

	pages := musterstadtPages()
	pages["https://www.kleindorf.de"] = `<html><body>nichts</body></html>`

	p := testPipeline(&stubFetcher{pages: pages}, nil)

	input := []domain.Municipality{
		{Name: "Kleindorf", Website: "https://www.kleindorf.de"},
		{Name: "Musterstadt", Website: "https://www.musterstadt.de"},
		{Name: "Unreachable", Website: "https://www.unreachable.example"},
	}
	sessions := p.Run(context.Background(), input)
	require.Len(t, sessions, 3)

	for i, s := range sessions {
		assert.Equal(t, input[i].Name, s.Municipality.Name)
	}
	assert.Equal(t, domain.StatusNoRIS, sessions[0].Status)
	assert.Equal(t, domain.StatusScraped, sessions[1].Status)
	assert.Equal(t, domain.StatusNoRIS, sessions[2].Status)
}

func TestPipelineFailureStaysIsolated(t *testing.T) {
	t.Parallel()

	// The listing path answers probes, so discovery confirms the provider,
	// but fetching the listing itself fails. Only this municipality fails.
	pages := musterstadtPages()
	delete(pages, "https://www.musterstadt.de/ratsinfo")
	pages["https://www.kleindorf.de"] = `<html><body>nichts</body></html>`

	fetcher := &headOnlyFetcher{
		stubFetcher: stubFetcher{pages: pages},
		headOnly:    map[string]bool{"https://www.musterstadt.de/ratsinfo": true},
	}
	p := testPipeline(fetcher, nil)

	sessions := p.Run(context.Background(), []domain.Municipality{
		{Name: "Musterstadt", Website: "https://www.musterstadt.de"},
		{Name: "Kleindorf", Website: "https://www.kleindorf.de"},
	})
	require.Len(t, sessions, 2)

	failed := sessions[0]
	assert.Equal(t, domain.StatusFailed, failed.Status)
	require.NotEmpty(t, failed.Errors)
	assert.Equal(t, "extract", failed.Errors[0].Stage)

	assert.Equal(t, domain.StatusNoRIS, sessions[1].Status)
}

func TestPipelineSkipsDownloadsWhenDisabled(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{pages: musterstadtPages()}
	p := NewPipeline(PipelineDeps{
		Discoverer:        discovery.New(fetcher, discovery.Options{}, nil),
		Scraper:           scraper.New(fetcher, scraper.Options{}, nil),
		Downloader:        stubDownloader{},
		DownloadDocuments: false,
	})

	sessions := p.Run(context.Background(), []domain.Municipality{
		{Name: "Musterstadt", Website: "https://www.musterstadt.de"},
	})
	require.Len(t, sessions, 1)

	require.Len(t, sessions[0].Documents, 1)
	assert.Empty(t, sessions[0].Documents[0].Bytes)
	assert.Zero(t, sessions[0].Downloaded())
}

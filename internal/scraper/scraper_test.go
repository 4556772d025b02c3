package scraper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RISScanner/internal/domain"
)

func confirmedDiscovery(p domain.RISProvider, baseURL string) domain.DiscoveryResult {
	return domain.DiscoveryResult{
		Municipality: domain.Municipality{Name: "Musterstadt", Website: "https://www.musterstadt.de"},
		RISBaseURL:   baseURL,
		Provider:     p,
		Confidence:   0.65,
	}
}

func TestExtractRejectsInsufficientDiscovery(t *testing.T) {
	t.Parallel()

	s := New(&stubFetcher{pages: map[string]string{}}, Options{}, nil)

	cases := []domain.DiscoveryResult{
		{Provider: domain.ProviderUnknown, Confidence: 0},
		{Provider: domain.Regisafe, Confidence: 0.1},
	}
	for _, dr := range cases {
		_, err := s.Extract(context.Background(), dr)
		require.Error(t, err)

		var insufficient *DiscoveryInsufficientError
		require.ErrorAs(t, err, &insufficient)
	}
}

func TestExtractRegisafeEndToEnd(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{pages: map[string]string{
		"https://ris.example.de/ratsinfo": regisafeListing,
		"https://ris.example.de/ratsinfo/si010.php?sid=101": `
			<a href="/getfile.php?id=11">Tagesordnung</a>
			<a href="/getfile.php?id=12">Protokoll</a>`,
		"https://ris.example.de/ratsinfo/si010.php?sid=100": `
			<a href="/getfile.php?id=21">Niederschrift</a>`,
	}}

	s := New(fetcher, Options{}, nil)
	ext, err := s.Extract(context.Background(), confirmedDiscovery(domain.Regisafe, "https://ris.example.de/ratsinfo"))
	require.NoError(t, err)

	assert.False(t, ext.Fallback)
	require.Len(t, ext.Meetings, 2)
	require.Len(t, ext.Documents, 3)

	// Documents of the first meeting precede documents of the second.
	assert.Equal(t, "regisafe-101", ext.Documents[0].MeetingID)
	assert.Equal(t, "regisafe-101", ext.Documents[1].MeetingID)
	assert.Equal(t, "regisafe-100", ext.Documents[2].MeetingID)
}

func TestExtractIsIdempotent(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{pages: map[string]string{
		"https://ris.example.de/ratsinfo":                   regisafeListing,
		"https://ris.example.de/ratsinfo/si010.php?sid=101": `<a href="/getfile.php?id=11">Tagesordnung</a>`,
		"https://ris.example.de/ratsinfo/si010.php?sid=100": `<a href="/getfile.php?id=21">Protokoll</a>`,
	}}

	s := New(fetcher, Options{}, nil)
	dr := confirmedDiscovery(domain.Regisafe, "https://ris.example.de/ratsinfo")

	first, err := s.Extract(context.Background(), dr)
	require.NoError(t, err)
	second, err := s.Extract(context.Background(), dr)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtractReorderedListingReordersOutput(t *testing.T) {
	t.Parallel()

	reversed := `
<table class="risliste">
  <tr>
    <td class="datum">Mittwoch, 12. Februar 2025</td>
    <td class="gremium">Bauausschuss</td>
    <td><a href="/ratsinfo/si010.php?sid=100">Sitzung des Bauausschusses</a></td>
  </tr>
  <tr>
    <td class="datum">05.03.2025</td>
    <td class="gremium">Gemeinderat</td>
    <td><a href="/ratsinfo/si010.php?sid=101">Sitzung des Gemeinderates</a></td>
  </tr>
</table>`

	pagesInOrder := map[string]string{
		"https://ris.example.de/ratsinfo":                   regisafeListing,
		"https://ris.example.de/ratsinfo/si010.php?sid=101": "",
		"https://ris.example.de/ratsinfo/si010.php?sid=100": "",
	}
	pagesReversed := map[string]string{
		"https://ris.example.de/ratsinfo":                   reversed,
		"https://ris.example.de/ratsinfo/si010.php?sid=101": "",
		"https://ris.example.de/ratsinfo/si010.php?sid=100": "",
	}

	dr := confirmedDiscovery(domain.Regisafe, "https://ris.example.de/ratsinfo")

	inOrder, err := New(&stubFetcher{pages: pagesInOrder}, Options{}, nil).Extract(context.Background(), dr)
	require.NoError(t, err)
	flipped, err := New(&stubFetcher{pages: pagesReversed}, Options{}, nil).Extract(context.Background(), dr)
	require.NoError(t, err)

	require.Len(t, inOrder.Meetings, 2)
	require.Len(t, flipped.Meetings, 2)
	assert.Equal(t, inOrder.Meetings[0].ID, flipped.Meetings[1].ID)
	assert.Equal(t, inOrder.Meetings[1].ID, flipped.Meetings[0].ID)
}

func TestExtractSDNetFallsBackToGeneric(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{pages: map[string]string{
		"https://www.musterstadt.de/sdnetrim":      `<a href="/rat/sitzung-1">Sitzung der Gemeindevertretung</a>`,
		"https://www.musterstadt.de/rat/sitzung-1": `<a href="/files/tagesordnung.pdf">Tagesordnung</a>`,
	}}

	s := New(fetcher, Options{}, nil)
	ext, err := s.Extract(context.Background(), confirmedDiscovery(domain.SDNet, "https://www.musterstadt.de/sdnetrim"))
	require.NoError(t, err)

	assert.True(t, ext.Fallback, "sd.net extraction must be surfaced as a fallback, not full support")
	require.Len(t, ext.Meetings, 1)
	assert.Equal(t, domain.SDNet, ext.Meetings[0].Provider)
}

func TestExtractMeetingPageFailureDoesNotAbortSiblings(t *testing.T) {
	t.Parallel()

	// The page for sid=101 is unreachable; sid=100 still yields documents.
	fetcher := &stubFetcher{pages: map[string]string{
		"https://ris.example.de/ratsinfo":                   regisafeListing,
		"https://ris.example.de/ratsinfo/si010.php?sid=100": `<a href="/getfile.php?id=21">Protokoll</a>`,
	}}

	s := New(fetcher, Options{}, nil)
	ext, err := s.Extract(context.Background(), confirmedDiscovery(domain.Regisafe, "https://ris.example.de/ratsinfo"))
	require.NoError(t, err)

	require.Len(t, ext.Meetings, 2)
	require.Len(t, ext.Documents, 1)
	require.Len(t, ext.Errors, 1)
	assert.Equal(t, "regisafe-100", ext.Documents[0].MeetingID)
}

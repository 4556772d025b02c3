package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"RISScanner/internal/domain"
)

// meetingLinkKeywords flag anchors that plausibly lead to a session page on
// systems without a dedicated strategy.
var meetingLinkKeywords = []string{
	"sitzung", "gemeinderat", "stadtrat", "ausschuss", "gremium", "tagesordnung",
}

// genericStrategy is the keyword-based fallback used when a provider is
// detected but has no dedicated extraction strategy (SD.NET) and as the
// last resort for unfamiliar markup. Direct file links are left to document
// enumeration.
type genericStrategy struct {
	baseStrategy
	provider domain.RISProvider
}

func (s *genericStrategy) Provider() domain.RISProvider {
	return s.provider
}

func (s *genericStrategy) DiscoverMeetings(ctx context.Context, baseURL string) ([]domain.Meeting, error) {
	doc, base, err := s.fetchPage(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("generic listing: %w", err)
	}

	var meetings []domain.Meeting
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		title := strings.TrimSpace(a.Text())

		if hasDocumentExtension(href) || !matchesMeetingKeyword(href, title) {
			return
		}

		sourceURL := resolveURL(base, href)
		if sourceURL == "" || seen[sourceURL] {
			return
		}
		seen[sourceURL] = true

		surrounding := a.Parent().Text()
		meetings = append(meetings, domain.Meeting{
			ID:        meetingID(s.provider.String(), sourceURL),
			Title:     title,
			Type:      ClassifyMeeting(title, surrounding),
			Date:      ParseMeetingDate(findDateText(surrounding)),
			SourceURL: sourceURL,
			Provider:  s.provider,
		})
	})

	return s.capMeetings(meetings), nil
}

func matchesMeetingKeyword(href, title string) bool {
	probe := strings.ToLower(href + " " + title)
	for _, kw := range meetingLinkKeywords {
		if strings.Contains(probe, kw) {
			return true
		}
	}
	return false
}

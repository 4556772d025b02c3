package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"RISScanner/internal/domain"
)

// regisafeStrategy reads regisafe listings: session links carry the si010
// module identifier, rows hold date and committee cells.
type regisafeStrategy struct {
	baseStrategy
}

func (s *regisafeStrategy) Provider() domain.RISProvider {
	return domain.Regisafe
}

func (s *regisafeStrategy) DiscoverMeetings(ctx context.Context, baseURL string) ([]domain.Meeting, error) {
	doc, base, err := s.fetchPage(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("regisafe listing: %w", err)
	}

	var meetings []domain.Meeting
	doc.Find(`a[href*="si010"]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		row := a.Closest("tr")

		dateRaw := strings.TrimSpace(row.Find("td.datum").First().Text())
		if dateRaw == "" {
			dateRaw = findDateText(row.Text())
		}

		title := strings.TrimSpace(a.Text())
		body := strings.TrimSpace(row.Find("td.gremium").First().Text())
		sourceURL := resolveURL(base, href)
		meetings = append(meetings, domain.Meeting{
			ID:        meetingID("regisafe", sourceURL),
			Title:     title,
			Type:      ClassifyMeeting(title, body),
			Date:      ParseMeetingDate(dateRaw),
			Body:      body,
			SourceURL: sourceURL,
			Provider:  domain.Regisafe,
		})
	})

	return s.capMeetings(meetings), nil
}

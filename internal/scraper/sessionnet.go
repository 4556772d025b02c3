package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"RISScanner/internal/domain"
)

// sessionnetStrategy reads SessionNet calendar pages: meeting detail links
// point at to010 pages, the calendar row carries date and committee cells.
type sessionnetStrategy struct {
	baseStrategy
}

func (s *sessionnetStrategy) Provider() domain.RISProvider {
	return domain.SessionNet
}

func (s *sessionnetStrategy) DiscoverMeetings(ctx context.Context, baseURL string) ([]domain.Meeting, error) {
	doc, base, err := s.fetchPage(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("sessionnet calendar: %w", err)
	}

	var meetings []domain.Meeting
	doc.Find(`a[href*="to010"]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		row := a.Closest("tr")

		dateRaw := strings.TrimSpace(row.Find("td.sidate").First().Text())
		if dateRaw == "" {
			dateRaw = findDateText(row.Text())
		}

		title := strings.TrimSpace(a.Text())
		body := strings.TrimSpace(row.Find("td.sigremium").First().Text())
		sourceURL := resolveURL(base, href)
		meetings = append(meetings, domain.Meeting{
			ID:        meetingID("sessionnet", sourceURL),
			Title:     title,
			Type:      ClassifyMeeting(title, body),
			Date:      ParseMeetingDate(dateRaw),
			Body:      body,
			SourceURL: sourceURL,
			Provider:  domain.SessionNet,
		})
	})

	return s.capMeetings(meetings), nil
}

package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"RISScanner/internal/domain"
)

// kommuneAktivStrategy reads Kommune-Aktiv pages, which render each session
// as a block element with dedicated date and committee spans.
type kommuneAktivStrategy struct {
	baseStrategy
}

func (s *kommuneAktivStrategy) Provider() domain.RISProvider {
	return domain.KommuneAktiv
}

func (s *kommuneAktivStrategy) DiscoverMeetings(ctx context.Context, baseURL string) ([]domain.Meeting, error) {
	doc, base, err := s.fetchPage(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("kommune-aktiv listing: %w", err)
	}

	var meetings []domain.Meeting
	doc.Find("div.sitzung").Each(func(_ int, block *goquery.Selection) {
		a := block.Find("a[href]").First()
		href, ok := a.Attr("href")
		if !ok {
			return
		}

		dateRaw := strings.TrimSpace(block.Find("span.datum").First().Text())
		if dateRaw == "" {
			dateRaw = findDateText(block.Text())
		}

		title := strings.TrimSpace(a.Text())
		body := strings.TrimSpace(block.Find("span.gremium").First().Text())
		sourceURL := resolveURL(base, href)
		meetings = append(meetings, domain.Meeting{
			ID:        meetingID("kommune_aktiv", sourceURL),
			Title:     title,
			Type:      ClassifyMeeting(title, body),
			Date:      ParseMeetingDate(dateRaw),
			Body:      body,
			SourceURL: sourceURL,
			Provider:  domain.KommuneAktiv,
		})
	})

	return s.capMeetings(meetings), nil
}

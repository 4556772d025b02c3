package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"RISScanner/internal/domain"
)

// somacosStrategy reads Somacos session lists rendered as list items with
// dedicated term and committee spans.
type somacosStrategy struct {
	baseStrategy
}

func (s *somacosStrategy) Provider() domain.RISProvider {
	return domain.Somacos
}

func (s *somacosStrategy) DiscoverMeetings(ctx context.Context, baseURL string) ([]domain.Meeting, error) {
	doc, base, err := s.fetchPage(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("somacos listing: %w", err)
	}

	var meetings []domain.Meeting
	doc.Find("ul.sitzungsliste li").Each(func(_ int, item *goquery.Selection) {
		a := item.Find("a[href]").First()
		href, ok := a.Attr("href")
		if !ok {
			return
		}

		dateRaw := strings.TrimSpace(item.Find("span.termin").First().Text())
		if dateRaw == "" {
			dateRaw = findDateText(item.Text())
		}

		title := strings.TrimSpace(a.Text())
		body := strings.TrimSpace(item.Find("span.ausschuss").First().Text())
		sourceURL := resolveURL(base, href)
		meetings = append(meetings, domain.Meeting{
			ID:        meetingID("somacos", sourceURL),
			Title:     title,
			Type:      ClassifyMeeting(title, body),
			Date:      ParseMeetingDate(dateRaw),
			Body:      body,
			SourceURL: sourceURL,
			Provider:  domain.Somacos,
		})
	})

	return s.capMeetings(meetings), nil
}

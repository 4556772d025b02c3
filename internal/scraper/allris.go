package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"RISScanner/internal/domain"
)

// allrisStrategy reads ALLRIS session overviews: detail links use the
// si0057 module, the committee sits in the first cell of each row and the
// date appears somewhere in the row text.
type allrisStrategy struct {
	baseStrategy
}

func (s *allrisStrategy) Provider() domain.RISProvider {
	return domain.AllRIS
}

func (s *allrisStrategy) DiscoverMeetings(ctx context.Context, baseURL string) ([]domain.Meeting, error) {
	doc, base, err := s.fetchPage(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("allris overview: %w", err)
	}

	var meetings []domain.Meeting
	doc.Find(`a[href*="si0057"]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		row := a.Closest("tr")

		title := strings.TrimSpace(a.Text())
		body := strings.TrimSpace(row.Find("td").First().Text())
		sourceURL := resolveURL(base, href)
		meetings = append(meetings, domain.Meeting{
			ID:        meetingID("allris", sourceURL),
			Title:     title,
			Type:      ClassifyMeeting(title, body),
			Date:      ParseMeetingDate(findDateText(row.Text())),
			Body:      body,
			SourceURL: sourceURL,
			Provider:  domain.AllRIS,
		})
	})

	return s.capMeetings(meetings), nil
}

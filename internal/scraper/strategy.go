package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"RISScanner/internal/domain"
	"RISScanner/internal/ports"
)

// Strategy is the provider-specific extraction capability. One variant
// exists per supported product; all of them share the document enumeration
// logic through baseStrategy.
type Strategy interface {
	Provider() domain.RISProvider
	DiscoverMeetings(ctx context.Context, baseURL string) ([]domain.Meeting, error)
	MeetingDocuments(ctx context.Context, meeting domain.Meeting) ([]domain.MeetingDocument, error)
}

// docLinkHints mark anchors that lead to meeting documents even when the
// href carries no file extension (download dispatchers, getfile endpoints).
var docLinkHints = []string{
	"getfile", "dokument", "do027", "tagesordnung", "protokoll",
	"niederschrift", "anlage", "vorlage", "einladung",
}

// baseStrategy carries the wiring every provider strategy shares.
type baseStrategy struct {
	fetcher     ports.Fetcher
	timeout     time.Duration
	maxMeetings int
	logger      *slog.Logger
}

// MeetingDocuments enumerates the document links listed on one meeting page.
// The listing order of the page is preserved.
func (b baseStrategy) MeetingDocuments(ctx context.Context, meeting domain.Meeting) ([]domain.MeetingDocument, error) {
	doc, base, err := b.fetchPage(ctx, meeting.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("meeting page %s: %w", meeting.SourceURL, err)
	}
	return documentLinks(doc, base, meeting.ID), nil
}

// fetchPage retrieves and parses one HTML page, returning the parsed
// document together with the page URL for resolving relative links.
func (b baseStrategy) fetchPage(ctx context.Context, rawURL string) (*goquery.Document, *url.URL, error) {
	res, err := b.fetcher.Fetch(ctx, http.MethodGet, rawURL, b.timeout)
	if err != nil {
		return nil, nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return nil, nil, fmt.Errorf("parse html: %w", err)
	}

	pageURL := rawURL
	if res.FinalURL != "" {
		pageURL = res.FinalURL
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse page url: %w", err)
	}
	return doc, base, nil
}

func (b baseStrategy) capMeetings(meetings []domain.Meeting) []domain.Meeting {
	if b.maxMeetings > 0 && len(meetings) > b.maxMeetings {
		return meetings[:b.maxMeetings]
	}
	return meetings
}

// documentLinks collects anchors that look like document downloads and
// classifies each one. Page order is kept.
func documentLinks(doc *goquery.Document, base *url.URL, meetingID string) []domain.MeetingDocument {
	var docs []domain.MeetingDocument
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		title := strings.TrimSpace(a.Text())

		if !isDocumentLink(href, title) {
			return
		}

		full := resolveURL(base, href)
		if full == "" || seen[full] {
			return
		}
		seen[full] = true

		if title == "" {
			title = filenameFromURL(full)
		}

		docs = append(docs, domain.MeetingDocument{
			MeetingID:   meetingID,
			Title:       title,
			Type:        ClassifyDocument(title, full),
			DownloadURL: full,
		})
	})

	return docs
}

func isDocumentLink(href, title string) bool {
	if hasDocumentExtension(href) {
		return true
	}
	probe := strings.ToLower(href + " " + title)
	for _, hint := range docLinkHints {
		if strings.Contains(probe, hint) {
			return true
		}
	}
	return false
}

// resolveURL turns a possibly relative href into an absolute URL.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func filenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "document"
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "document"
	}
	return name
}

// meetingID derives a stable identifier from a meeting URL: the first known
// query parameter if present, the last path segment otherwise.
func meetingID(prefix string, meetingURL string) string {
	u, err := url.Parse(meetingURL)
	if err != nil {
		return prefix + "-" + meetingURL
	}
	q := u.Query()
	for _, key := range []string{"SILFDNR", "silfdnr", "sid", "id"} {
		if v := q.Get(key); v != "" {
			return prefix + "-" + v
		}
	}
	return prefix + "-" + path.Base(u.Path)
}

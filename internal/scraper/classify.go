package scraper

import (
	"net/url"
	"path"
	"strings"

	"RISScanner/internal/domain"
)

var (
	agendaKeywords     = []string{"tagesordnung", "einladung"}
	protocolKeywords   = []string{"protokoll", "niederschrift"}
	attachmentKeywords = []string{"anlage", "vorlage", "beschluss"}

	documentExtensions = []string{".pdf", ".doc", ".docx", ".txt"}
)

// meetingTypeKeywords is checked in order: the specific committee names come
// before the generic ausschuss so "Finanzausschuss" never degrades to it.
var meetingTypeKeywords = []struct {
	keyword string
	typ     domain.MeetingType
}{
	{"gemeinderat", domain.MeetingGemeinderat},
	{"stadtrat", domain.MeetingStadtrat},
	{"gemeindevertretung", domain.MeetingGemeindevertretung},
	{"finanzausschuss", domain.MeetingFinanzausschuss},
	{"bauausschuss", domain.MeetingBauausschuss},
	{"hauptausschuss", domain.MeetingHauptausschuss},
	{"jugendausschuss", domain.MeetingJugendausschuss},
	{"sozialausschuss", domain.MeetingSozialausschuss},
	{"ausschuss", domain.MeetingAusschuss},
}

// ClassifyMeeting decides the meeting type from title and committee text.
// Best effort: an unrecognized body is MeetingAndere, never an error.
func ClassifyMeeting(title, body string) domain.MeetingType {
	probe := strings.ToLower(title + " " + body)

	for _, entry := range meetingTypeKeywords {
		if strings.Contains(probe, entry.keyword) {
			return entry.typ
		}
	}
	return domain.MeetingAndere
}

// ClassifyDocument decides the document type from title and URL text.
// Best effort: anything unrecognizable is DocUnknown, never an error.
func ClassifyDocument(title, rawURL string) domain.DocumentType {
	probe := strings.ToLower(title + " " + rawURL)

	for _, kw := range agendaKeywords {
		if strings.Contains(probe, kw) {
			return domain.DocAgenda
		}
	}
	for _, kw := range protocolKeywords {
		if strings.Contains(probe, kw) {
			return domain.DocProtocol
		}
	}
	for _, kw := range attachmentKeywords {
		if strings.Contains(probe, kw) {
			return domain.DocAttachment
		}
	}
	if hasDocumentExtension(rawURL) {
		return domain.DocAttachment
	}
	return domain.DocUnknown
}

func hasDocumentExtension(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	for _, known := range documentExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

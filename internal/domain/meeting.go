package domain

import "time"

// MeetingDate keeps the raw date string alongside the parsed value so that
// meetings with unrecognized date formats are retained instead of dropped.
type MeetingDate struct {
	Time   time.Time
	Raw    string
	Parsed bool
}

// MeetingType classifies a session by the body it belongs to. The values
// are the German names municipal registers use; MeetingAndere is the
// sentinel for bodies the keyword table does not know.
type MeetingType string

const (
	MeetingGemeinderat        MeetingType = "Gemeinderat"
	MeetingStadtrat           MeetingType = "Stadtrat"
	MeetingGemeindevertretung MeetingType = "Gemeindevertretung"
	MeetingAusschuss          MeetingType = "Ausschuss"
	MeetingFinanzausschuss    MeetingType = "Finanzausschuss"
	MeetingBauausschuss       MeetingType = "Bauausschuss"
	MeetingHauptausschuss     MeetingType = "Hauptausschuss"
	MeetingJugendausschuss    MeetingType = "Jugendausschuss"
	MeetingSozialausschuss    MeetingType = "Sozialausschuss"
	MeetingAndere             MeetingType = "Andere"
)

// Meeting is one council or committee session discovered on a RIS instance.
type Meeting struct {
	ID        string
	Title     string
	Type      MeetingType
	Date      MeetingDate
	Body      string
	SourceURL string
	Provider  RISProvider
}

// DocumentType classifies a meeting document by its role.
type DocumentType string

const (
	DocAgenda     DocumentType = "agenda"
	DocProtocol   DocumentType = "protocol"
	DocAttachment DocumentType = "attachment"
	DocUnknown    DocumentType = "unknown"
)

// MeetingDocument is one downloadable file linked from a meeting page.
// Bytes and Err are mutually exclusive: a successful download populates
// Bytes, a failed one records Err, and a skipped download leaves both empty.
// Attempts counts download tries, zero until a download was started.
type MeetingDocument struct {
	MeetingID   string
	Title       string
	Type        DocumentType
	DownloadURL string
	Bytes       []byte
	Size        int64
	Attempts    int
	Err         string
}

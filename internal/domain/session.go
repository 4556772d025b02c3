package domain

import "time"

// SessionStatus is the terminal outcome of one municipality's pipeline run.
type SessionStatus string

const (
	// StatusScraped means discovery and extraction both completed.
	StatusScraped SessionStatus = "scraped"
	// StatusNoRIS means discovery found no provider above the confidence
	// threshold; extraction was skipped.
	StatusNoRIS SessionStatus = "no_ris"
	// StatusProviderFallback means the provider was detected but has no
	// dedicated extraction strategy, so the generic one ran instead.
	StatusProviderFallback SessionStatus = "provider_fallback"
	// StatusFailed means extraction started but terminated with an error.
	StatusFailed SessionStatus = "failed"
)

// SessionError is one recorded failure inside a session, tagged with the
// pipeline stage that produced it.
type SessionError struct {
	Stage   string
	Message string
	At      time.Time
}

// ScrapingSession aggregates everything one municipality's run produced.
// Meetings keep discovery order; Documents keep per-meeting listing order,
// with all documents of an earlier meeting preceding those of a later one.
type ScrapingSession struct {
	ID           string
	Municipality Municipality
	Discovery    DiscoveryResult
	Status       SessionStatus
	Meetings     []Meeting
	Documents    []MeetingDocument
	StartedAt    time.Time
	FinishedAt   time.Time
	Errors       []SessionError
}

// Downloaded counts documents whose bytes were actually retrieved.
func (s ScrapingSession) Downloaded() int {
	n := 0
	for _, d := range s.Documents {
		if len(d.Bytes) > 0 {
			n++
		}
	}
	return n
}

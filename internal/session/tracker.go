// Package session folds one municipality's pipeline outcomes into a
// ScrapingSession value. Pure aggregation, no logic of its own.
package session

import (
	"time"

	"github.com/google/uuid"

	"RISScanner/internal/domain"
)

// Tracker accumulates results for exactly one municipality run. It is not
// safe for concurrent use; each pipeline goroutine owns its own tracker.
type Tracker struct {
	session domain.ScrapingSession
}

// Begin opens a session for a municipality.
func Begin(m domain.Municipality) *Tracker {
	return &Tracker{session: domain.ScrapingSession{
		ID:           uuid.NewString(),
		Municipality: m,
		StartedAt:    time.Now().UTC(),
	}}
}

// SetDiscovery records the discovery outcome.
func (t *Tracker) SetDiscovery(dr domain.DiscoveryResult) {
	t.session.Discovery = dr
}

// AddMeetings appends meetings in discovery order.
func (t *Tracker) AddMeetings(meetings []domain.Meeting) {
	t.session.Meetings = append(t.session.Meetings, meetings...)
}

// AddDocuments appends documents in listing order.
func (t *Tracker) AddDocuments(docs []domain.MeetingDocument) {
	t.session.Documents = append(t.session.Documents, docs...)
}

// AddError records one failure tagged with the stage that produced it.
func (t *Tracker) AddError(stage string, err error) {
	if err == nil {
		return
	}
	t.session.Errors = append(t.session.Errors, domain.SessionError{
		Stage:   stage,
		Message: err.Error(),
		At:      time.Now().UTC(),
	})
}

// Finish stamps the end time and terminal status and returns the session.
func (t *Tracker) Finish(status domain.SessionStatus) domain.ScrapingSession {
	t.session.Status = status
	t.session.FinishedAt = time.Now().UTC()
	return t.session
}

package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RISScanner/internal/domain"
)

func TestTrackerAccumulatesSession(t *testing.T) {
	t.Parallel()

	m := domain.Municipality{Name: "Musterstadt", State: "BW"}
	tr := Begin(m)

	tr.SetDiscovery(domain.DiscoveryResult{
		Municipality: m,
		Provider:     domain.SessionNet,
		Confidence:   0.7,
	})
	tr.AddMeetings([]domain.Meeting{{ID: "sessionnet-1"}, {ID: "sessionnet-2"}})
	tr.AddDocuments([]domain.MeetingDocument{
		{MeetingID: "sessionnet-1", Bytes: []byte("pdf")},
		{MeetingID: "sessionnet-2", Err: "status 404"},
	})
	tr.AddError("documents", errors.New("connection refused"))

	got := tr.Finish(domain.StatusScraped)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, m, got.Municipality)
	assert.Equal(t, domain.SessionNet, got.Discovery.Provider)
	assert.Equal(t, domain.StatusScraped, got.Status)
	assert.Len(t, got.Meetings, 2)
	assert.Len(t, got.Documents, 2)
	assert.Equal(t, 1, got.Downloaded())

	require.Len(t, got.Errors, 1)
	assert.Equal(t, "documents", got.Errors[0].Stage)
	assert.Equal(t, "connection refused", got.Errors[0].Message)
	assert.False(t, got.Errors[0].At.IsZero())

	assert.False(t, got.StartedAt.IsZero())
	assert.False(t, got.FinishedAt.Before(got.StartedAt))
	assert.WithinDuration(t, time.Now().UTC(), got.FinishedAt, time.Minute)
}

func TestTrackerIgnoresNilErrors(t *testing.T) {
	t.Parallel()

	tr := Begin(domain.Municipality{Name: "Kleindorf"})
	tr.AddError("discovery", nil)

	got := tr.Finish(domain.StatusNoRIS)
	assert.Empty(t, got.Errors)
	assert.Equal(t, domain.StatusNoRIS, got.Status)
}

func TestTrackerSessionIDsAreUnique(t *testing.T) {
	t.Parallel()

	a := Begin(domain.Municipality{Name: "A"}).Finish(domain.StatusFailed)
	b := Begin(domain.Municipality{Name: "B"}).Finish(domain.StatusFailed)
	assert.NotEqual(t, a.ID, b.ID)
}

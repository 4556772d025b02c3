package httpfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RISScanner/internal/domain"
)

func testDownloader(t *testing.T) *Downloader {
	t.Helper()
	client := NewClient(Options{RequestsPerSecond: 1000})
	return NewDownloader(client, DownloadOptions{BackoffBase: time.Millisecond}, nil)
}

func TestDownloadRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("%PDF-1.4 protokoll"))
	}))
	defer srv.Close()

	doc := testDownloader(t).Download(context.Background(), domain.MeetingDocument{
		MeetingID:   "regisafe-101",
		DownloadURL: srv.URL + "/getfile.php?id=1",
	})

	assert.Equal(t, 3, doc.Attempts)
	assert.Empty(t, doc.Err)
	require.NotEmpty(t, doc.Bytes)
	assert.Equal(t, int64(len(doc.Bytes)), doc.Size)
}

func TestDownloadDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	doc := testDownloader(t).Download(context.Background(), domain.MeetingDocument{
		DownloadURL: srv.URL + "/missing.pdf",
	})

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, doc.Attempts)
	assert.Contains(t, doc.Err, "404")
	assert.Nil(t, doc.Bytes)
}

func TestDownloadRetriesTooManyRequests(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	doc := testDownloader(t).Download(context.Background(), domain.MeetingDocument{
		DownloadURL: srv.URL,
	})

	assert.Equal(t, 2, doc.Attempts)
	assert.Empty(t, doc.Err)
	assert.NotEmpty(t, doc.Bytes)
}

func TestDownloadExhaustsRetries(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	doc := testDownloader(t).Download(context.Background(), domain.MeetingDocument{
		DownloadURL: srv.URL,
	})

	assert.Equal(t, 3, doc.Attempts)
	assert.Nil(t, doc.Bytes, "bytes and error are mutually exclusive")
	assert.Contains(t, doc.Err, "502")
}

func TestDownloadNetworkErrorExhaustsRetries(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	unreachable := srv.URL
	srv.Close()

	doc := testDownloader(t).Download(context.Background(), domain.MeetingDocument{
		DownloadURL: unreachable + "/doc.pdf",
	})

	assert.Equal(t, 3, doc.Attempts)
	assert.Nil(t, doc.Bytes)
	assert.NotEmpty(t, doc.Err)
}

func TestDownloadMissingURL(t *testing.T) {
	t.Parallel()

	doc := testDownloader(t).Download(context.Background(), domain.MeetingDocument{})
	assert.Zero(t, doc.Attempts)
	assert.NotEmpty(t, doc.Err)
}

func TestDownloadCancelledBeforeFirstAttempt(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := testDownloader(t).Download(ctx, domain.MeetingDocument{
		DownloadURL: "https://ris.example.de/getfile.php?id=1",
	})

	assert.Zero(t, doc.Attempts)
	assert.Nil(t, doc.Bytes)
	assert.Empty(t, doc.Err, "a skipped download is neither success nor failure")
}

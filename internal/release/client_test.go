package release

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestLatestFromList fetches the newest entry from a "list all releases" feed.
func TestLatestFromList(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"tag_name":"M130.0.6723.0","published_at":"2024-10-01T00:00:00Z",
			 "assets":[{"name":"thorium-avx2-installer.exe","browser_download_url":"https://dl.local/a"}]},
			{"tag_name":"M129.0.6668.0","published_at":"2024-09-01T00:00:00Z","assets":[]}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, 3, 10*time.Millisecond)

	rel, err := client.Latest(context.Background())
	require.NoError(t, err)
	require.Equal(t, "M130.0.6723.0", rel.TagName)
	require.Len(t, rel.Assets, 1)
}

// TestLatestFromLatestEndpoint fetches a dedicated "latest release" endpoint.
func TestLatestFromLatestEndpoint(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"M130.0.6723.0","published_at":"2024-10-01T00:00:00Z","assets":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/releases/latest", time.Second, 3, 10*time.Millisecond)

	rel, err := client.Latest(context.Background())
	require.NoError(t, err)
	require.Equal(t, "M130.0.6723.0", rel.TagName)
}

// TestLatestRetryBudget verifies the fetch gives up after the retry budget
// and performs no further calls.
func TestLatestRetryBudget(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, 3, 10*time.Millisecond)

	_, err := client.Latest(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "after 3 attempts")
	require.EqualValues(t, 3, calls.Load())
}

// TestLatestEmptyFeed treats an empty release list as final, without retries.
func TestLatestEmptyFeed(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, 3, 10*time.Millisecond)

	_, err := client.Latest(context.Background())
	require.ErrorIs(t, err, ErrNoReleases)
	require.EqualValues(t, 1, calls.Load())
}

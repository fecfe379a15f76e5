package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestYouTubeClient(serverURL, apiKey, token string) *YouTubeClient {
	yc := NewYouTubeClient(apiKey, token)
	yc.baseURL = serverURL + "/"
	yc.initialBackoff = time.Millisecond
	return yc
}

func threadJSON(id, text string, likes int) string {
	return fmt.Sprintf(`{"id":%q,"snippet":{"topLevelComment":{"snippet":{"authorDisplayName":"@user","textOriginal":%q,"likeCount":%d,"publishedAt":"2024-05-01T10:00:00Z"}}}}`, id, text, likes)
}

func TestFetchCommentsPagesAndRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		assert.Equal(t, "/commentThreads", r.URL.Path)
		assert.Equal(t, "vid123", r.URL.Query().Get("videoId"))
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		if n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		switch r.URL.Query().Get("pageToken") {
		case "":
			fmt.Fprintf(w, `{"nextPageToken":"p2","items":[%s,%s]}`,
				threadJSON("c1", "mantap sekali", 3), threadJSON("c2", "jelek", 0))
		case "p2":
			fmt.Fprintf(w, `{"items":[%s]}`, threadJSON("c3", "keren", 12))
		default:
			t.Errorf("unexpected page token %q", r.URL.Query().Get("pageToken"))
		}
	}))
	defer srv.Close()

	yc := newTestYouTubeClient(srv.URL, "secret", "")
	comments, err := yc.FetchComments(context.Background(), "vid123", 0)
	require.NoError(t, err)
	require.Len(t, comments, 3)

	assert.Equal(t, "c1", comments[0].ID)
	assert.Equal(t, "mantap sekali", comments[0].Text)
	assert.Equal(t, "@user", comments[0].Author)
	assert.Equal(t, 3, comments[0].LikeCount)
	assert.Equal(t, "c3", comments[2].ID)
	assert.EqualValues(t, 3, calls.Load())
}

func TestFetchCommentsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"nextPageToken":"more","items":[%s,%s]}`,
			threadJSON("c1", "satu", 0), threadJSON("c2", "dua", 0))
	}))
	defer srv.Close()

	yc := newTestYouTubeClient(srv.URL, "k", "")
	comments, err := yc.FetchComments(context.Background(), "vid", 3)
	require.NoError(t, err)
	assert.Len(t, comments, 3)
}

func TestFetchCommentsClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"commentsDisabled"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	yc := newTestYouTubeClient(srv.URL, "k", "")
	_, err := yc.FetchComments(context.Background(), "vid", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commentsDisabled")
	assert.EqualValues(t, 1, calls.Load())
}

func TestFetchCommentsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Empty(t, r.URL.Query().Get("key"))
		fmt.Fprint(w, `{"items":[]}`)
	}))
	defer srv.Close()

	yc := newTestYouTubeClient(srv.URL, "", "tok")
	comments, err := yc.FetchComments(context.Background(), "vid", 10)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestExtractVideoID(t *testing.T) {
	tests := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10": "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?si=abc":              "dQw4w9WgXcQ",
		"youtu.be/dQw4w9WgXcQ":                             "dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/abcDEF12345":       "abcDEF12345",
		"https://www.youtube.com/embed/abcDEF12345":        "abcDEF12345",
		"dQw4w9WgXcQ":                                      "dQw4w9WgXcQ",
	}
	for in, want := range tests {
		got, err := ExtractVideoID(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ExtractVideoID("")
	assert.Error(t, err)
	_, err = ExtractVideoID("https://www.youtube.com/feed/trending")
	assert.Error(t, err)
}

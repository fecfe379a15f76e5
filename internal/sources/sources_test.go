package sources

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/ulasan/internal/clients"
	"github.com/spacesedan/ulasan/internal/pipeline"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSourceCSV(t *testing.T) {
	path := writeFile(t, "comments.csv", "\ufeffcid,text,votes\n"+
		"a1,\"Bagus, mantap\",1\n"+
		"broken row with,too,many,fields\n"+
		"a2,jelek,3rb\n")

	table, err := NewFileSource("youtube").Fetch(context.Background(), path, 0)
	require.NoError(t, err)

	assert.Equal(t, "youtube", table.Source)
	assert.Equal(t, []string{"cid", "text", "votes"}, table.Fields)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Bagus, mantap", table.Rows[0]["text"])
	assert.Equal(t, "3rb", table.Rows[1]["votes"])
}

func TestFileSourceCSVLimit(t *testing.T) {
	path := writeFile(t, "comments.csv", "comment\nsatu\ndua\ntiga\n")

	table, err := NewFileSource("file").Fetch(context.Background(), path, 2)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}

func TestFileSourceJSONLines(t *testing.T) {
	path := writeFile(t, "comments.json",
		`{"cid":"x1","text":"keren","votes":"1,2rb","heart":false,"reply":null}`+"\n"+
			`{"cid":"x2","text":"jelek","votes":"0","extra":{"a":1}}`+"\n")

	table, err := NewFileSource("youtube").Fetch(context.Background(), path, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"cid", "text", "votes", "heart", "reply", "extra"}, table.Fields)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "keren", table.Rows[0]["text"])
	assert.Equal(t, "false", table.Rows[0]["heart"])
	assert.Equal(t, "", table.Rows[0]["reply"])
	assert.Equal(t, `{"a":1}`, table.Rows[1]["extra"])
}

func TestReadTableJSONArrayAndSniffing(t *testing.T) {
	in := ` [{"comment":"mantap","likes":12},{"comment":"buruk","likes":0}]`

	table, err := ReadTable(strings.NewReader(in), "", "tiktok", 0)
	require.NoError(t, err)
	assert.Equal(t, "tiktok", table.Source)
	assert.Equal(t, []string{"comment", "likes"}, table.Fields)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "12", table.Rows[0]["likes"])

	table, err = ReadTable(strings.NewReader("text\nhalo\n"), "", "file", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"text"}, table.Fields)
}

func TestReadTableErrors(t *testing.T) {
	_, err := ReadTable(strings.NewReader(`{"text": "unterminated`), "json", "file", 0)
	assert.Error(t, err)

	_, err = ReadTable(strings.NewReader(""), "xml", "file", 0)
	assert.Error(t, err)

	table, err := ReadTable(strings.NewReader(""), "csv", "file", 0)
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}

func TestReadTableCSVStopsOnReadError(t *testing.T) {
	diskErr := errors.New("disk gone")
	r := io.MultiReader(strings.NewReader("text\nbagus\n"), iotest.ErrReader(diskErr))

	table, err := ReadTable(r, "csv", "file", 0)

	assert.ErrorIs(t, err, diskErr)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "bagus", table.Rows[0]["text"])
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource("file").Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSourceFeedsPipeline(t *testing.T) {
	path := writeFile(t, "reviews.csv", "author,comment_text,rating\nSari,pelayanan ramah,5\n")

	table, err := NewFileSource("maps").Fetch(context.Background(), path, 0)
	require.NoError(t, err)

	comments, err := pipeline.FromTable(table, "")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "pelayanan ramah", comments[0].Text)
	assert.Equal(t, "Sari", comments[0].Metadata.Author)
	assert.Equal(t, "5", comments[0].Metadata.Rating)
}

// fakeDownloader writes a script that mimics the downloader CLIs: it finds the
// --output flag and writes body to it.
func fakeDownloader(t *testing.T, body string, exitCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script downloader")
	}
	dataPath := writeFile(t, "body", body)
	script := "#!/bin/sh\n" +
		"echo \"$@\" > \"$(dirname \"$0\")/args\"\n" +
		"while [ $# -gt 0 ]; do\n" +
		"  if [ \"$1\" = \"--output\" ]; then cp " + dataPath + " \"$2\"; fi\n" +
		"  shift\n" +
		"done\n" +
		"echo 'scraper says hi' >&2\n" +
		"exit " + strconv.Itoa(exitCode) + "\n"

	path := filepath.Join(t.TempDir(), "downloader")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestDownloaderSourceYouTube(t *testing.T) {
	bin := fakeDownloader(t, `{"cid":"c1","text":"mantap","votes":"2"}`+"\n", 0)

	table, err := NewYouTubeDownloader(bin).Fetch(context.Background(), "https://youtu.be/abc", 50)
	require.NoError(t, err)
	assert.Equal(t, PLATFORM_YOUTUBE, table.Source)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "mantap", table.Rows[0]["text"])

	args, err := os.ReadFile(filepath.Join(filepath.Dir(bin), "args"))
	require.NoError(t, err)
	assert.Contains(t, string(args), "--url https://youtu.be/abc --output")
	assert.Contains(t, string(args), "--limit 50")
}

func TestDownloaderSourceTikTokCSV(t *testing.T) {
	bin := fakeDownloader(t, "username,comment\nrina,lucu banget\n", 0)

	table, err := NewTikTokDownloader(bin).Fetch(context.Background(), "https://www.tiktok.com/@x/video/1", 10)
	require.NoError(t, err)
	assert.Equal(t, PLATFORM_TIKTOK, table.Source)
	assert.Equal(t, []string{"username", "comment"}, table.Fields)

	args, err := os.ReadFile(filepath.Join(filepath.Dir(bin), "args"))
	require.NoError(t, err)
	assert.Contains(t, string(args), "--number 10 --output")
}

func TestDownloaderSourceFailure(t *testing.T) {
	bin := fakeDownloader(t, "", 3)

	_, err := NewYouTubeDownloader(bin).Fetch(context.Background(), "https://youtu.be/abc", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scraper says hi")
}

func TestDownloaderSourceMissingBinary(t *testing.T) {
	_, err := NewYouTubeDownloader(filepath.Join(t.TempDir(), "missing")).Fetch(context.Background(), "u", 0)
	assert.Error(t, err)
}

type stubFetcher struct {
	videoID  string
	comments []clients.YouTubeComment
	err      error
}

func (s *stubFetcher) FetchComments(_ context.Context, videoID string, _ int) ([]clients.YouTubeComment, error) {
	s.videoID = videoID
	return s.comments, s.err
}

func TestYouTubeAPISource(t *testing.T) {
	stub := &stubFetcher{comments: []clients.YouTubeComment{
		{ID: "c1", Author: "@a", Text: "mantap", LikeCount: 1200, PublishedAt: "2024-05-01T10:00:00Z"},
	}}
	src := &YouTubeAPISource{client: stub}

	table, err := src.Fetch(context.Background(), "https://www.youtube.com/watch?v=vid42", 10)
	require.NoError(t, err)
	assert.Equal(t, "vid42", stub.videoID)

	comments, err := pipeline.FromTable(table, "text")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "c1", comments[0].ID)
	assert.Equal(t, 1200, comments[0].Metadata.Likes)
	assert.Equal(t, "@a", comments[0].Metadata.Author)
	assert.Contains(t, comments[0].Metadata.URL, "lc=c1")

	stub.err = errors.New("quota exceeded")
	_, err = src.Fetch(context.Background(), "vid42", 10)
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestNew(t *testing.T) {
	src, err := New(PLATFORM_YOUTUBE, Config{})
	require.NoError(t, err)
	assert.IsType(t, &DownloaderSource{}, src)

	src, err = New(PLATFORM_YOUTUBE, Config{YouTubeAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &YouTubeAPISource{}, src)

	src, err = New(PLATFORM_TIKTOK, Config{})
	require.NoError(t, err)
	assert.IsType(t, &DownloaderSource{}, src)

	src, err = New(PLATFORM_FILE, Config{})
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	_, err = New(PLATFORM_GOOGLE_MAPS, Config{})
	assert.Error(t, err)
	_, err = New("myspace", Config{})
	assert.Error(t, err)
}

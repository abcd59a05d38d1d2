package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileReader(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/a.txt", []byte("hello"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/src/empty.txt", nil, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/src/bin.dat", []byte{0x00, 0x01, 0xff, 0xfe}, 0o644))

	r := NewFileReader(fs)

	got, err := r.ReadFileAs(ctx, "/src/a.txt", "/proj/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "This is my current /proj/a.txt\n\nhello\n\nThis is the end of /proj/a.txt\n\n", got)

	got, err = r.ReadFileContent(ctx, "/src/empty.txt")
	require.NoError(t, err)
	assert.Contains(t, got, "This is my current /src/empty.txt")

	_, err = r.ReadFileContent(ctx, "/src/bin.dat")
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = r.ReadFileContent(ctx, "/src/missing.txt")
	assert.Error(t, err)

	r.MaxSize = 3
	_, err = r.ReadFileContent(ctx, "/src/a.txt")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestURLFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("page body"))
		case "/empty":
			w.Write([]byte("   "))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewURLFetcher(time.Second)
	f.Now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }
	ctx := context.Background()

	got, err := f.FetchURLContent(ctx, srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "Fetched content from "+srv.URL+"/ok on 2024-05-01 12:30:00\n\npage body\n\nEnd of content from "+srv.URL+"/ok", got)

	_, err = f.FetchURLContent(ctx, srv.URL+"/missing")
	assert.ErrorContains(t, err, "status 404")

	_, err = f.FetchURLContent(ctx, srv.URL+"/empty")
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestURLFetcherTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("late"))
	}))
	defer srv.Close()

	f := NewURLFetcher(20 * time.Millisecond)
	_, err := f.FetchURLContent(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestValidURL(t *testing.T) {
	assert.True(t, ValidURL("https://example.com/a?b=c"))
	assert.True(t, ValidURL("http://localhost:8080"))
	assert.False(t, ValidURL("example.com"))
	assert.False(t, ValidURL("ftp://example.com"))
	assert.False(t, ValidURL("http://"))
}

func TestCapturers(t *testing.T) {
	ctx := context.Background()

	page := &PageCapturer{URL: "https://x", Source: strings.NewReader("article")}
	got, err := page.CapturePageText(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Content from https://x\n\narticle\n\nEnd of content from https://x", got)

	_, err = (&PageCapturer{URL: "https://x", Source: strings.NewReader("\n")}).CapturePageText(ctx)
	assert.ErrorIs(t, err, ErrNoContent)

	sel := &SelectionCapturer{Source: "clipboard", Read: func() (string, error) { return "  picked  ", nil }}
	got, err = sel.CaptureSelectionText(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Selected content from clipboard\n\npicked\n\nEnd of selected content from clipboard", got)

	failing := &SelectionCapturer{Read: func() (string, error) { return "", errors.New("no clipboard") }}
	_, err = failing.CaptureSelectionText(ctx)
	assert.Error(t, err)
}

func TestProducersNilMembers(t *testing.T) {
	var p Producers
	ctx := context.Background()
	_, err := p.ReadFileContent(ctx, "/a")
	assert.ErrorIs(t, err, ErrNoContent)
	_, err = p.FetchURLContent(ctx, "http://x")
	assert.ErrorIs(t, err, ErrNoContent)
	_, err = p.CapturePageText(ctx)
	assert.ErrorIs(t, err, ErrNoContent)
	_, err = p.CaptureSelectionText(ctx)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestNoteContent(t *testing.T) {
	assert.Equal(t, "This is a Note:\n\nhi\n\nEnd of Note.\n\n", NoteContent("hi"))
}

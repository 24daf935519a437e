package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/renderfarm/internal/domain"
)

func TestHTTPFetcher_Downloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "renderfarm-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("video-bytes"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5*time.Second, "renderfarm-test", 0)
	dir := t.TempDir()

	path, err := f.Fetch(context.Background(), srv.URL+"/clips/a.MOV?sig=1", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "source.mov"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(b))
}

func TestHTTPFetcher_ExtensionFromContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/webm; codecs=vp9")
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	path, err := NewHTTPFetcher(time.Second, "", 0).Fetch(context.Background(), srv.URL+"/download", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ".webm", filepath.Ext(path))
}

func TestHTTPFetcher_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/big":
			_, _ = w.Write(make([]byte, 64))
		case "/empty":
		}
	}))
	defer srv.Close()

	tests := []struct {
		name string
		url  string
		is   error
	}{
		{"not found", srv.URL + "/missing", nil},
		{"too large", srv.URL + "/big", ErrTooLarge},
		{"empty body", srv.URL + "/empty", nil},
		{"bad scheme", "ftp://host/a.mp4", nil},
		{"missing local file", "/nonexistent/a.mp4", os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, err := NewHTTPFetcher(time.Second, "", 16).Fetch(context.Background(), tt.url, dir)

			var fe *domain.FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.url, fe.URL)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			entries, _ := os.ReadDir(dir)
			assert.Empty(t, entries, "no partial file is left behind")
		})
	}
}

func TestHTTPFetcher_CopiesLocalFiles(t *testing.T) {
	src := filepath.Join(t.TempDir(), "clip.mkv")
	require.NoError(t, os.WriteFile(src, []byte("local"), 0o600))
	dir := t.TempDir()

	path, err := NewHTTPFetcher(time.Second, "", 0).Fetch(context.Background(), "file://"+src, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "source.mkv"), path)
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".mp4", extensionFor("/a", ""))
	assert.Equal(t, ".mp4", extensionFor("/a.php", "text/html"))
	assert.Equal(t, ".mov", extensionFor("/a", "video/quicktime"))
	assert.Equal(t, ".mkv", extensionFor("/a.MKV", ""))
	assert.Equal(t, ".mp4", extensionFor("/clip.avi", ""))
	assert.Equal(t, ".mp4", extensionFor("/clip.m4v", "video/x-m4v"))
}

func TestHTTPFetcher_LocalAVIStoredAsMP4(t *testing.T) {
	src := filepath.Join(t.TempDir(), "clip.avi")
	require.NoError(t, os.WriteFile(src, []byte("riff"), 0o600))

	dir := t.TempDir()
	path, err := NewHTTPFetcher(time.Second, "", 0).Fetch(context.Background(), src, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "source.mp4"), path)
}

package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/infrastructure/logger"
	"github.com/bnema/renderfarm/internal/port"
)

const sourceName = "source"

var ErrTooLarge = errors.New("source exceeds the size limit")

// knownExtensions are the containers the step executor can also write.
// Anything else is stored as .mp4 and identified by ffprobe from its content.
var knownExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".mkv": true, ".webm": true,
}

// HTTPFetcher downloads sources with a plain GET. file:// URLs and bare
// paths are copied from the local disk.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

func NewHTTPFetcher(timeout time.Duration, userAgent string, maxBytes int64) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL, destDir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &domain.FetchError{URL: rawURL, Err: err}
	}

	switch u.Scheme {
	case "http", "https":
	case "", "file":
		p := rawURL
		if u.Scheme == "file" {
			p = u.Path
		}
		dst, err := f.copyLocal(p, destDir)
		if err != nil {
			return "", &domain.FetchError{URL: rawURL, Err: err}
		}
		return dst, nil
	default:
		return "", &domain.FetchError{URL: rawURL, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &domain.FetchError{URL: rawURL, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &domain.FetchError{URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.FetchError{URL: rawURL, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return "", &domain.FetchError{URL: rawURL, Err: ErrTooLarge}
	}

	dst := filepath.Join(destDir, sourceName+extensionFor(u.Path, resp.Header.Get("Content-Type")))
	if err := f.write(dst, resp.Body); err != nil {
		_ = os.Remove(dst)
		return "", &domain.FetchError{URL: rawURL, Err: err}
	}

	log.Debug().Str("url", logger.SanitizeForLog(rawURL)).Str("path", dst).Msg("source downloaded")
	return dst, nil
}

func (f *HTTPFetcher) write(dst string, r io.Reader) error {
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	var src io.Reader = r
	if f.maxBytes > 0 {
		src = io.LimitReader(r, f.maxBytes+1)
	}
	n, err := io.Copy(out, src)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write source: %w", err)
	}
	if f.maxBytes > 0 && n > f.maxBytes {
		return ErrTooLarge
	}
	if n == 0 {
		return errors.New("empty response body")
	}
	return nil
}

func (f *HTTPFetcher) copyLocal(src, destDir string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer func() { _ = in.Close() }()

	dst := filepath.Join(destDir, sourceName+extensionFor(src, ""))
	if err := f.write(dst, in); err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	return dst, nil
}

// extensionFor keeps a known video extension from the URL path, then tries
// the content type, then falls back to .mp4.
func extensionFor(urlPath, contentType string) string {
	ext := strings.ToLower(path.Ext(urlPath))
	if knownExtensions[ext] {
		return ext
	}
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			switch mt {
			case "video/webm":
				return ".webm"
			case "video/quicktime":
				return ".mov"
			case "video/x-matroska":
				return ".mkv"
			}
		}
	}
	return ".mp4"
}

var _ port.Fetcher = (*HTTPFetcher)(nil)

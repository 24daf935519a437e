package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/port"
)

// Store copies artifacts under a directory. The HTTP server can serve that
// directory at BaseURL.
type Store struct {
	dir     string
	baseURL string
}

func New(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Upload(_ context.Context, localPath, key string) (string, error) {
	dst, err := s.resolve(key)
	if err != nil {
		return "", &domain.UploadError{Key: key, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return "", &domain.UploadError{Key: key, Err: err}
	}
	if err := copyFile(localPath, dst); err != nil {
		return "", &domain.UploadError{Key: key, Err: err}
	}
	return s.baseURL + "/" + key, nil
}

// resolve maps key to a path that stays inside the artifact directory.
func (s *Store) resolve(key string) (string, error) {
	if key == "" || filepath.IsAbs(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.New("key escapes the artifact directory")
	}
	return filepath.Join(s.dir, clean), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	tmp := dst + ".tmp"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

var _ port.ArtifactStore = (*Store)(nil)

package fetcher

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/infrastructure/logger"
	"github.com/bnema/renderfarm/internal/infrastructure/process"
	"github.com/bnema/renderfarm/internal/port"
)

// YtDlpFetcher downloads from social platforms through the yt-dlp CLI.
type YtDlpFetcher struct {
	runner    process.Runner
	binary    string
	userAgent string
	maxBytes  int64
}

func NewYtDlpFetcher(binary, userAgent string, maxBytes int64, runner process.Runner) *YtDlpFetcher {
	if binary == "" {
		binary = "yt-dlp"
	}
	if runner == nil {
		runner = process.ExecRunner{}
	}
	return &YtDlpFetcher{runner: runner, binary: binary, userAgent: userAgent, maxBytes: maxBytes}
}

func (f *YtDlpFetcher) Fetch(ctx context.Context, url, destDir string) (string, error) {
	args := []string{
		"--no-playlist",
		"--no-progress",
		"--no-warnings",
		"-f", "bv*+ba/b",
		"--merge-output-format", "mp4",
		"-o", filepath.Join(destDir, sourceName+".%(ext)s"),
		"--print", "after_move:filepath",
	}
	if f.userAgent != "" {
		args = append(args, "--user-agent", f.userAgent)
	}
	if f.maxBytes > 0 {
		args = append(args, "--max-filesize", fmt.Sprintf("%d", f.maxBytes))
	}
	args = append(args, "--", url)

	stdout, stderr, err := f.runner.Run(ctx, f.binary, args...)
	if err != nil {
		return "", &domain.FetchError{
			URL: url,
			Err: fmt.Errorf("yt-dlp: %w: %s", err, logger.Tail(strings.TrimSpace(string(stderr)), 512)),
		}
	}

	path := lastLine(stdout)
	if path == "" {
		return "", &domain.FetchError{URL: url, Err: errors.New("yt-dlp printed no output path")}
	}
	if _, err := os.Stat(path); err != nil {
		return "", &domain.FetchError{URL: url, Err: fmt.Errorf("yt-dlp output missing: %w", err)}
	}
	return path, nil
}

func lastLine(b []byte) string {
	var last string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			last = line
		}
	}
	return last
}

var _ port.Fetcher = (*YtDlpFetcher)(nil)

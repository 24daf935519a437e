package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/infrastructure/process"
	"github.com/bnema/renderfarm/internal/port"
)

type Prober struct {
	runner process.Runner
	binary string
}

func NewProber(binary string, runner process.Runner) *Prober {
	if binary == "" {
		binary = "ffprobe"
	}
	if runner == nil {
		runner = process.ExecRunner{}
	}
	return &Prober{runner: runner, binary: binary}
}

func (p *Prober) Probe(ctx context.Context, path string) (domain.MediaMetadata, error) {
	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
	stdout, stderr, err := p.runner.Run(ctx, p.binary, args...)
	if err != nil {
		return domain.MediaMetadata{}, &domain.ProbeError{
			Path: path,
			Err:  fmt.Errorf("ffprobe failed: %w: %s", err, strings.TrimSpace(string(stderr))),
		}
	}

	var probe domain.ProbeResult
	if err := json.Unmarshal(stdout, &probe); err != nil {
		return domain.MediaMetadata{}, &domain.ProbeError{Path: path, Err: fmt.Errorf("failed to parse ffprobe output: %w", err)}
	}

	meta := probe.Metadata()
	if err := meta.Validate(); err != nil {
		return domain.MediaMetadata{}, &domain.ProbeError{Path: path, Err: err}
	}
	return meta, nil
}

var _ port.MetadataProbe = (*Prober)(nil)

package ffmpeg

import (
	"context"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/infrastructure/logger"
	"github.com/bnema/renderfarm/internal/port"
)

const posterSize = 1080

// Poster grabs one frame at `at` seconds as a square JPEG.
func (c *Catalog) Poster(ctx context.Context, inputPath, outputPath string, at float64) error {
	if at < 0 {
		at = 0
	}
	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-ss", ff(at),
		"-i", inputPath,
		"-frames:v", "1",
		"-vf", fitCanvas(posterSize, posterSize, 0),
		"-q:v", "2",
		"-f", "image2",
		outputPath,
	}
	_, stderr, err := c.runner.Run(ctx, c.binary, args...)
	if err != nil {
		return &domain.ExecutionError{
			StepIndex:   -1,
			Kind:        "poster",
			Diagnostics: logger.Tail(string(stderr), c.diagLimit),
			Err:         err,
		}
	}
	return nil
}

var _ port.PosterRenderer = (*Catalog)(nil)

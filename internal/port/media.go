package port

import (
	"context"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/step"
)

type Fetcher interface {
	// Fetch downloads url into destDir and returns the local file path.
	Fetch(ctx context.Context, url, destDir string) (string, error)
}

type MetadataProbe interface {
	Probe(ctx context.Context, path string) (domain.MediaMetadata, error)
}

// StepExecutor runs one operation. The returned path may differ from
// outputPath when the operation changes the container.
type StepExecutor interface {
	Execute(ctx context.Context, op step.Operation, inputPath, outputPath string, meta domain.MediaMetadata) (string, error)
}

type PosterRenderer interface {
	Poster(ctx context.Context, inputPath, outputPath string, at float64) error
}

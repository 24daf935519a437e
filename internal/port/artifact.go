package port

import "context"

type ArtifactStore interface {
	// Upload stores the file under key and returns its public URL.
	Upload(ctx context.Context, localPath, key string) (string, error)
}

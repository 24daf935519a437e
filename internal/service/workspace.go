package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrWorkspaceBusy = errors.New("scratch directory is locked by another worker")

const jobDirPrefix = "job-"

// Workspace owns a scratch root. The file lock keeps two workers from
// sharing one root and sweeping each other's directories.
type Workspace struct {
	root string
	lock *flock.Flock
}

func OpenWorkspace(root string) (*Workspace, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create scratch root: %w", err)
	}

	lock := flock.New(filepath.Join(root, ".renderfarm.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire scratch lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceBusy, root)
	}
	return &Workspace{root: root, lock: lock}, nil
}

func (w *Workspace) Root() string {
	return w.root
}

// Sweep removes job directories left behind by a crash and returns how many
// it removed.
func (w *Workspace) Sweep() int {
	matches, err := filepath.Glob(filepath.Join(w.root, jobDirPrefix+"*"))
	if err != nil {
		return 0
	}
	removed := 0
	for _, dir := range matches {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("failed to remove leftover job directory")
			continue
		}
		removed++
	}
	return removed
}

// JobDir creates a directory unique to one execution attempt of a job.
func (w *Workspace) JobDir(jobID int64) (string, error) {
	dir := filepath.Join(w.root, jobDirPrefix+strconv.FormatInt(jobID, 10)+"-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o750); err != nil {
		return "", fmt.Errorf("create job directory: %w", err)
	}
	return dir, nil
}

func (w *Workspace) Remove(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("failed to remove job directory")
	}
}

func (w *Workspace) Close() error {
	return w.lock.Unlock()
}

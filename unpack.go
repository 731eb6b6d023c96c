package bsa

import (
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/Guekka/bethutil-sub000/internal/parallel"
	"github.com/Guekka/bethutil-sub000/internal/pathutil"
)

// UnpackSettings configures a single Unpack run: the archive to read,
// an optional output root (defaults to the archive's own directory),
// whether to overwrite loose files already present at the destination,
// whether to remove the source archive on success, a concurrency cap
// for the write-out pool, and an optional logger.
type UnpackSettings struct {
	ArchivePath       string
	Root              string // empty means filepath.Dir(ArchivePath)
	OverwriteExisting bool
	RemoveArchive     bool
	Concurrency       int
	Logger            *zap.Logger
}

func (s UnpackSettings) root() string {
	if s.Root != "" {
		return s.Root
	}
	return filepath.Dir(s.ArchivePath)
}

func (s UnpackSettings) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

// UnpackResult reports the outcome of Unpack: the archive-relative
// paths that failed to write out, keyed by path (spec §7: "per-file
// write failures are recorded and reported after the join"), and
// whether the source archive was removed.
type UnpackResult struct {
	Errors         map[string]error
	ArchiveRemoved bool
}

// Unpack opens settings.ArchivePath, writes every member out under
// settings.root(), and optionally removes the source archive. Per-file
// write failures are collected rather than aborting the remaining
// writes; the archive-open failure is fatal (spec §7). Grounded on
// original_source/src/bsa/unpack.cpp's unpack(), mapping its
// for_each_mt onto internal/parallel.EachTolerant, which exists for
// exactly this "record but don't abort" contract.
func Unpack(settings UnpackSettings) (UnpackResult, error) {
	archive, err := Open(settings.ArchivePath)
	if err != nil {
		return UnpackResult{}, err
	}

	root := settings.root()
	entries := archive.Entries()

	concurrency := settings.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	errs := parallel.EachTolerant(entries, concurrency, func(e Entry) error {
		localRel := pathutil.ToLocal(e.Name)
		dest := filepath.Join(root, localRel)

		if !settings.OverwriteExisting {
			if _, err := os.Stat(dest); err == nil {
				return nil // preserve existing loose files
			}
		}

		return e.File.WritePath(dest)
	})

	result := UnpackResult{Errors: make(map[string]error, len(errs))}
	for i, err := range errs {
		result.Errors[entries[i].Name] = err
		settings.logger().Warn("failed to write archive member", zap.String("path", entries[i].Name), zap.Error(err))
	}

	if settings.RemoveArchive {
		if err := os.Remove(settings.ArchivePath); err != nil {
			return result, newError(ErrFailedToRemoveArchive, settings.ArchivePath, err)
		}
		result.ArchiveRemoved = true
	}

	return result, nil
}

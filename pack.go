package bsa

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"

	"go.uber.org/zap"

	"github.com/Guekka/bethutil-sub000/internal/parallel"
	"github.com/Guekka/bethutil-sub000/internal/pathutil"
)

// AllowFilePred decides whether a file at a path (given the packed
// root) is eligible for packing, layered on top of the mandatory
// exclusion of directories and root-level files (spec "get_allow_file_
// pred": "these files would break the archive if packed"). A nil
// predicate admits every path the mandatory rule already allows.
type AllowFilePred func(root, relPath string) bool

// PackSettings configures a single Pack run: the per-game Settings,
// the root directory to walk, whether to compress eligible files, an
// optional user filter layered over the mandatory exclusions, a
// concurrency cap for the file-preparation pool, and an optional
// logger (defaults to zap.NewNop()).
type PackSettings struct {
	Game      *Settings
	InputDir  string
	Compress  bool
	AllowFile AllowFilePred
	// AllowGlobs, if non-empty, restricts packing to relative paths
	// matching at least one doublestar pattern (e.g. "textures/**"),
	// evaluated after AllowFile.
	AllowGlobs  []string
	Concurrency int
	Logger      *zap.Logger
}

func (s PackSettings) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

func (s PackSettings) concurrency() int {
	if s.Concurrency > 0 {
		return s.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// PackResult is one archive yielded by Pack, paired with the absolute
// archive-type and the relative paths it failed to read, if any (spec
// §7: "non-fatal errors are aggregated into a returned map of
// (relative path -> error)").
type PackResult struct {
	Archive *Archive
	Type    ArchiveType
	Errors  map[string]error
}

// allowFilePred is the mandatory exclusion rule every Pack run applies
// before consulting settings.AllowFile: directories are never packed,
// and neither are files sitting directly at the packed root (spec
// "get_allow_file_pred": "removing files at the root directory, those
// cannot be packed").
func allowFilePred(settings PackSettings) AllowFilePred {
	return func(root, relPath string) bool {
		legal := filepath.Dir(filepath.ToSlash(relPath)) != "."
		userAllowed := settings.AllowFile == nil || settings.AllowFile(root, relPath)
		return legal && userAllowed && matchesAnyGlob(settings.AllowGlobs, pathutil.ToSlash(relPath))
	}
}

// matchesAnyGlob reports whether relPath matches at least one of
// patterns, or whether patterns is empty (no glob restriction
// configured). A malformed pattern never matches.
func matchesAnyGlob(patterns []string, relPath string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, err := pathutil.Match(p, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

type packGroup struct {
	standard []string
	texture  []string
}

// listPackableFiles walks dir and returns every eligible file's relative
// path, partitioned into Standard+Incompressible ("standard") and
// Texture ("texture") groups when the game has a dedicated texture
// dialect, sorted largest-first within each group (spec "list_packable_
// files": "sort by size, largest first").
func listPackableFiles(dir string, sets *Settings, allow AllowFilePred) (packGroup, error) {
	type sizedPath struct {
		rel  string
		kind FileKind
		size int64
	}
	var found []sizedPath

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if !allow(dir, rel) {
			return nil
		}
		kind := sets.Classify(pathutil.ToSlash(rel))
		if kind != KindStandard && kind != KindTexture && kind != KindIncompressible {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() == 0 {
			return nil
		}
		found = append(found, sizedPath{rel: rel, kind: kind, size: info.Size()})
		return nil
	})
	if err != nil {
		return packGroup{}, newError(ErrFailedToReadFile, dir, err)
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].size > found[j].size })

	var group packGroup
	if sets.HasTextureArchive() {
		for _, f := range found {
			if f.kind == KindTexture {
				group.texture = append(group.texture, f.rel)
			} else {
				group.standard = append(group.standard, f.rel)
			}
		}
	} else {
		for _, f := range found {
			group.standard = append(group.standard, f.rel)
		}
	}
	return group, nil
}

// prepareFile reads relPath (relative to settings.InputDir) into a File
// tagged with typ, compressing it when compression is enabled and the
// file's classification allows compression, or whenever the file is a
// forced-compressed DX texture (spec "prepare_file": "dx is always
// compressed").
func prepareFile(relPath string, settings PackSettings, typ ArchiveType) (*File, error) {
	version := settings.Game.Format
	if typ == Textures && settings.Game.TextureFormat != nil {
		version = *settings.Game.TextureFormat
	}

	f := NewFile(version, typ)
	absPath := filepath.Join(settings.InputDir, relPath)
	if err := f.ReadPath(absPath); err != nil {
		return nil, err
	}

	dx := f.isDX()
	compressible := settings.Game.Classify(pathutil.ToSlash(relPath)) != KindIncompressible

	if (settings.Compress && compressible) || dx {
		if err := f.Compress(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// fileFits reports whether adding file to arch would keep it within
// sets.MaxSize.
func fileFits(arch *Archive, file *File, sets *Settings) bool {
	return arch.FileSize()+uint64(file.Size()) <= sets.MaxSize
}

// doPack bins relPaths (already sorted largest-first) into one or more
// archives of typ, each bounded by settings.Game.MaxSize, preserving the
// input order on the channel so first-fit-decreasing is meaningful
// (spec §5). Grounded on original_source/src/bsa/pack.cpp's do_pack,
// mapping its jthread-backed mpsc producer onto
// internal/parallel.Produce and its flux::generator onto a channel of
// PackResult the caller ranges over.
func doPack(ctx context.Context, relPaths []string, settings PackSettings, typ ArchiveType) <-chan PackResult {
	out := make(chan PackResult, 1)

	type prepared struct {
		relPath string
		file    *File
		err     error
	}
	// fn never returns a non-nil error: a per-file prepare failure must not
	// abort Produce's emitter for the remaining files (spec §7: "non-fatal
	// errors are aggregated"), so the failure travels inside R instead.
	results, g := parallel.Produce(ctx, relPaths, settings.concurrency(), func(relPath string) (prepared, error) {
		file, err := prepareFile(relPath, settings, typ)
		return prepared{relPath: relPath, file: file, err: err}, nil
	})

	go func() {
		defer close(out)

		errs := map[string]error{}
		arch := NewArchive(settings.Game.Format, typ)
		if typ == Textures && settings.Game.TextureFormat != nil {
			arch = NewArchive(*settings.Game.TextureFormat, typ)
		}

		for p := range results {
			if p.err != nil {
				settings.logger().Warn("failed to prepare file", zap.String("path", p.relPath), zap.Error(p.err))
				errs[p.relPath] = p.err
				continue
			}
			if p.file == nil {
				continue
			}
			if fileFits(arch, p.file, settings.Game) {
				if !arch.Insert(p.relPath, p.file) {
					settings.logger().Warn("file type mismatch on insert, dropping", zap.String("path", p.relPath))
				}
				continue
			}

			if !arch.Empty() {
				out <- PackResult{Archive: arch, Type: typ, Errors: errs}
				errs = map[string]error{}
			}
			arch = NewArchive(arch.Version(), typ)
			if !fileFits(arch, p.file, settings.Game) {
				settings.logger().Warn("file alone exceeds the archive size limit", zap.String("path", p.relPath))
			}
			if !arch.Insert(p.relPath, p.file) {
				settings.logger().Warn("file type mismatch on insert, dropping", zap.String("path", p.relPath))
			}
		}

		_ = g.Wait() // fn above never fails the group; context cancellation is the only possible error

		if !arch.Empty() {
			out <- PackResult{Archive: arch, Type: typ, Errors: errs}
		}
	}()

	return out
}

// Pack walks settings.InputDir, classifies and bins every eligible file
// into one or more archives bounded by settings.Game.MaxSize, and
// streams them over the returned channel: standard files first, then
// (if the game has a dedicated texture dialect) texture files. Grounded
// on original_source/src/bsa/pack.cpp's top-level pack().
func Pack(ctx context.Context, settings PackSettings) <-chan PackResult {
	out := make(chan PackResult)
	go func() {
		defer close(out)

		files, err := listPackableFiles(settings.InputDir, settings.Game, allowFilePred(settings))
		if err != nil {
			settings.logger().Error("failed to list packable files", zap.Error(err))
			return
		}

		if len(files.standard) > 0 {
			for r := range doPack(ctx, files.standard, settings, Standard) {
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			}
		}
		if len(files.texture) > 0 {
			for r := range doPack(ctx, files.texture, settings, Textures) {
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

package bsa

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PathKind is which directory_iterator FilePath came from: a plugin
// listing or an archive listing.
type PathKind uint8

const (
	PathKindPlugin PathKind = iota
	PathKindBSA
)

// suffixSeparator joins a stem and its archive-type suffix, e.g. the
// " - " in "Requiem - Textures01.bsa" (spec §8 scenario 4).
const suffixSeparator = " - "

// FilePath decomposes an archive or plugin filename into the parts
// find_archive_name needs to reassemble and probe: directory, bare stem,
// optional "Textures"-style suffix, optional numeric counter, and
// extension. Grounded on original_source/src/bsa/plugin.cpp's FilePath
// type and its make/eat_digits/eat_suffix/full_name trio.
type FilePath struct {
	Dir     string
	Name    string
	Suffix  string
	Counter *int
	Ext     string
	Kind    PathKind
}

// ParseFilePath decomposes path the way FilePath::make does: splitting
// off the extension, then peeling a trailing numeric counter and a
// " - <suffix>" tag off the stem, in that order, retrying the digit peel
// once more if no counter was found before the suffix (matching the
// original's "if (!file.counter_.has_value()) file.counter_ =
// eat_digits(file.name_);" double attempt, which lets a name whose digits
// sit before the suffix, like "Requiem1 - Textures.bsa", still get its
// counter).
func ParseFilePath(path string, sets *Settings, kind PathKind) FilePath {
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)

	fp := FilePath{Dir: dir, Name: stem, Ext: ext, Kind: kind}
	fp.Counter = eatDigits(&fp.Name)
	fp.Suffix = eatSuffix(&fp.Name, sets)
	if fp.Counter == nil {
		fp.Counter = eatDigits(&fp.Name)
	}
	return fp
}

// eatDigits strips a trailing run of ASCII digits from *name and returns
// it as a counter, or nil if name has no trailing digits.
func eatDigits(name *string) *int {
	s := *name
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return nil
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return nil
	}
	*name = s[:i]
	return &n
}

// eatSuffix strips a trailing " - <suffix>" tag from *name, but only if
// the suffix matches one of sets' two known suffixes; anything else is
// left untouched (it's part of the stem, not a dialect suffix).
func eatSuffix(name *string, sets *Settings) string {
	idx := strings.LastIndex(*name, suffixSeparator)
	if idx < 0 {
		return ""
	}
	suffix := (*name)[idx+len(suffixSeparator):]
	if suffix != sets.Suffix && suffix != sets.TextureSuffix {
		return ""
	}
	*name = (*name)[:idx]
	return suffix
}

// FullName renders the stem, counter, and suffix back together, e.g.
// "Requiem" + 1 + "Textures" -> "Requiem1 - Textures".
func (f FilePath) FullName() string {
	var b strings.Builder
	b.WriteString(f.Name)
	if f.Counter != nil {
		b.WriteString(strconv.Itoa(*f.Counter))
	}
	if f.Suffix != "" {
		b.WriteString(suffixSeparator)
		b.WriteString(f.Suffix)
	}
	return b.String()
}

// FullPath renders the complete filesystem path: Dir / FullName Ext.
func (f FilePath) FullPath() string {
	return filepath.Join(f.Dir, f.FullName()+f.Ext)
}

// listPlugins returns the FilePath decomposition of every plugin file
// (matching sets.PluginExtensions) directly inside dir.
func listPlugins(dir string, sets *Settings) ([]FilePath, error) {
	return listFilePaths(dir, sets, PathKindPlugin, func(fp FilePath) bool {
		for _, ext := range sets.PluginExtensions {
			if strings.EqualFold(fp.Ext, ext) {
				return true
			}
		}
		return false
	})
}

// listArchives returns the FilePath decomposition of every archive file
// (matching sets.Extension) directly inside dir.
func listArchives(dir string, sets *Settings) ([]FilePath, error) {
	return listFilePaths(dir, sets, PathKindBSA, func(fp FilePath) bool {
		return strings.EqualFold(fp.Ext, sets.Extension)
	})
}

func listFilePaths(dir string, sets *Settings, kind PathKind, keep func(FilePath) bool) ([]FilePath, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, newError(ErrFailedToReadFile, dir, err)
	}
	var out []FilePath
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fp := ParseFilePath(filepath.Join(dir, e.Name()), sets, kind)
		if keep(fp) {
			out = append(out, fp)
		}
	}
	return out, nil
}

// isLoaded reports whether archive would be auto-loaded by the game
// engine: a plugin exists with the same stem, under any of the game's
// plugin extensions, either with the archive's own suffix or with no
// suffix at all (original_source's is_loaded: "exact" match then a
// suffix-less "approx" match).
func isLoaded(archive FilePath, sets *Settings) bool {
	for _, ext := range sets.PluginExtensions {
		exact := archive
		exact.Ext = ext
		if _, err := os.Stat(exact.FullPath()); err == nil {
			return true
		}
		approx := exact
		approx.Suffix = ""
		if _, err := os.Stat(approx.FullPath()); err == nil {
			return true
		}
	}
	return false
}

// FindArchiveName picks the archive filename the packer should use for
// an archive of the given type inside dir, preferring a name that
// matches a loaded plugin (so the engine auto-loads the archive) over a
// synthetic counter-suffixed or random name. Grounded on
// original_source/src/bsa/plugin.cpp's find_archive_name, including its
// fallback to a random "archive - <8 hex chars>" name once the
// plugin-derived and counter-derived candidates are exhausted (there the
// random suffix comes from the source's own str_random; here it comes
// from a trimmed github.com/google/uuid, the ecosystem's equivalent).
func FindArchiveName(dir string, sets *Settings, typ ArchiveType) (FilePath, error) {
	plugins, err := listPlugins(dir, sets)
	if err != nil {
		return FilePath{}, err
	}
	if len(plugins) == 0 {
		plugins = []FilePath{{Dir: dir, Name: filepath.Base(dir), Ext: sets.PluginExt, Kind: PathKindPlugin}}
	}

	suffix := sets.Suffix
	if typ == Textures {
		suffix = sets.TextureSuffix
	}

	checkPlugin := func(fp *FilePath) bool {
		fp.Ext = sets.Extension
		fp.Suffix = suffix
		fp.Kind = PathKindBSA
		_, err := os.Stat(fp.FullPath())
		return os.IsNotExist(err)
	}

	for _, plugin := range plugins {
		candidate := plugin
		if checkPlugin(&candidate) {
			return candidate, nil
		}
	}

	const maxIterations = 256
	plug := plugins[0]
	plug.Kind = PathKindBSA
	for i := 0; i < maxIterations; i++ {
		n := i
		plug.Counter = &n
		if checkPlugin(&plug) {
			return plug, nil
		}
	}

	for attempt := 0; attempt < 65535; attempt++ {
		name := "archive - " + uuid.NewString()[:8]
		fp := FilePath{Dir: dir, Name: name, Ext: sets.Extension, Kind: PathKindBSA}
		if _, err := os.Stat(fp.FullPath()); os.IsNotExist(err) {
			return fp, nil
		}
	}

	return FilePath{}, newError(ErrBadUserInput, dir, nil)
}

// CleanDummyPlugins removes every plugin in dir whose byte size exactly
// matches sets.DummyPlugin — the reference implementation's own
// heuristic ("it is safe to evaluate file size, as the embedded dummies
// are the smallest plugins possible"). A no-op if the game has no dummy
// plugin mechanism.
func CleanDummyPlugins(dir string, sets *Settings) error {
	if sets.DummyPlugin == nil {
		return nil
	}
	plugins, err := listPlugins(dir, sets)
	if err != nil {
		return err
	}
	want := int64(len(sets.DummyPlugin))
	for _, p := range plugins {
		info, err := os.Stat(p.FullPath())
		if err != nil {
			continue
		}
		if info.Size() == want {
			_ = os.Remove(p.FullPath())
		}
	}
	return nil
}

// MakeDummyPlugins writes sets.DummyPlugin's bytes alongside every
// archive in dir that the engine would not otherwise auto-load. A no-op
// if the game has no dummy plugin mechanism. Per-archive write failures
// are logged and skipped rather than aborting the remaining archives:
// the game tolerates a missing dummy plugin with only degraded
// behavior, so this is never treated as fatal.
func MakeDummyPlugins(dir string, sets *Settings, log *zap.Logger) error {
	if sets.DummyPlugin == nil {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	archives, err := listArchives(dir, sets)
	if err != nil {
		return err
	}
	for _, bsa := range archives {
		if isLoaded(bsa, sets) {
			continue
		}
		dummy := bsa
		dummy.Ext = sets.PluginExtensions[len(sets.PluginExtensions)-1]
		dummy.Suffix = ""
		dummy.Counter = nil
		if err := os.WriteFile(dummy.FullPath(), sets.DummyPlugin, 0o644); err != nil {
			log.Warn("failed to write dummy plugin", zap.String("path", dummy.FullPath()), zap.Error(err))
		}
	}
	return nil
}

package bsa

import (
	"sort"
	"sync"

	"github.com/Guekka/bethutil-sub000/internal/pathutil"
)

// entry pairs a case-preserving virtual path with its decoded File.
type entry struct {
	name string
	file *File
}

// Archive owns an insertion-ordered mapping from a virtual path to a
// File. Every contained File.Version() equals the archive's own
// version; there are never two entries whose names are equal under case
// folding. Archive is not safe to copy (spec §3: "copying is a heavy
// operation and MUST be explicit") — callers that need a copy should
// build a new Archive and re-insert; Insert is safe to call
// concurrently (spec §5: "implementations MUST serialize insert under a
// mutex local to the archive").
type Archive struct {
	mu sync.Mutex

	ver ArchiveVersion
	typ ArchiveType

	order   []string // case-folded keys, insertion order
	entries map[string]entry
}

// NewArchive constructs an empty archive of the given dialect and type.
func NewArchive(version ArchiveVersion, typ ArchiveType) *Archive {
	return &Archive{
		ver:     version,
		typ:     typ,
		entries: make(map[string]entry),
	}
}

// Version returns the archive's dialect.
func (a *Archive) Version() ArchiveVersion { return a.ver }

// Type returns Standard or Textures.
func (a *Archive) Type() ArchiveType { return a.typ }

// Insert adds file under name. It returns false (rejecting the insert)
// if file.Version() does not match a.Version(), or if name already
// exists under case folding — both are BadUserInput conditions at the
// call site, never a panic (spec §4.3: "insert(name, File) -> bool").
func (a *Archive) Insert(name string, file *File) bool {
	if file.Version() != a.ver {
		return false
	}
	key := pathutil.Fold(name)

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.entries[key]; exists {
		return false
	}
	a.entries[key] = entry{name: name, file: file}
	a.order = append(a.order, key)
	return true
}

// Get returns the file stored under name (case-insensitively), and
// whether it was found.
func (a *Archive) Get(name string) (*File, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.entries[pathutil.Fold(name)]
	if !ok {
		return nil, false
	}
	return e.file, true
}

// Len returns the number of files in the archive.
func (a *Archive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.order)
}

// Empty reports whether the archive has no files.
func (a *Archive) Empty() bool { return a.Len() == 0 }

// Entry is one (name, File) pair as returned by Entries, in insertion
// order.
type Entry struct {
	Name string
	File *File
}

// Entries returns every (name, File) pair in insertion order (spec §5:
// "Archive iteration order in C6 is insertion order; MUST NOT be
// reordered silently").
func (a *Archive) Entries() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Entry, 0, len(a.order))
	for _, key := range a.order {
		e := a.entries[key]
		out = append(out, Entry{Name: e.name, File: e.file})
	}
	return out
}

// SetVersion mutates every contained file's version tag to v. Only
// conversions within the same dialect family are permitted (spec §4.3:
// "intended for cheap conversion between compatible variants in the
// TES4 family"); anything else returns false and leaves the archive
// unchanged.
func (a *Archive) SetVersion(v ArchiveVersion) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if v.family() != a.ver.family() {
		return false
	}
	for _, key := range a.order {
		a.entries[key].file.ver = v
	}
	a.ver = v
	return true
}

// headerOverhead is a rough, dialect-independent estimate of the fixed
// bytes every archive format spends on its header/directory structures
// beyond the sum of member payloads, used only to keep FileSize() in the
// right ballpark for bin-packing purposes.
const headerOverhead = 1024

// FileSize predicts the on-disk footprint of the archive as it would be
// written today: the sum of member packed sizes plus a small,
// dialect-independent header overhead (spec §3: "the sum of member
// packed sizes plus a small header overhead is the archive's on-disk
// footprint estimate used by the packer").
func (a *Archive) FileSize() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := uint64(headerOverhead)
	for _, key := range a.order {
		total += uint64(a.entries[key].file.Size())
		total += uint64(len(a.entries[key].name)) // name-table contribution
	}
	return total
}

// sortedEntries returns every (name, File) pair in the archive, sorted
// case-insensitively by name; used by dialect writers that must lay out a
// sorted directory/file table on disk.
func (a *Archive) sortedEntries() []Entry {
	entries := a.Entries()
	sort.Slice(entries, func(i, j int) bool {
		return pathutil.Fold(entries[i].Name) < pathutil.Fold(entries[j].Name)
	})
	return entries
}

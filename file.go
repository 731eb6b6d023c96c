package bsa

import (
	"github.com/Guekka/bethutil-sub000/internal/fsutil"
)

// File owns the decoded representation of one archive member. The
// payload is a tagged variant over the three dialect families named in
// spec §3 (TES3, TES4, FO4); exactly one of the three payload fields is
// set, matching ver.family(). Dispatch happens at the three entry points
// (read, write, compress) rather than through an interface hierarchy,
// per spec §9's design note that the dialect set is closed and virtual
// dispatch would only obscure that.
type File struct {
	ver ArchiveVersion
	typ ArchiveType

	tes3 *tes3File
	tes4 *tes4File
	fo4  *fo4File
}

// NewFile allocates an empty payload of the dialect matching version.
func NewFile(version ArchiveVersion, typ ArchiveType) *File {
	f := &File{ver: version, typ: typ}
	switch version.family() {
	case familyTES3:
		f.tes3 = &tes3File{}
	case familyTES4:
		f.tes4 = &tes4File{}
	case familyFO4:
		f.fo4 = &fo4File{}
	}
	return f
}

// Version returns the dialect this file was decoded/constructed under.
func (f *File) Version() ArchiveVersion { return f.ver }

// Type returns the archive type (Standard/Textures) this file belongs to.
func (f *File) Type() ArchiveType { return f.typ }

// ReadPath parses path's contents into f under f.Version(). DX/Starfield
// texture files are parsed from their DDS header (see dds.go) to
// synthesize the chunk sequence the BA2 DX dialect stores on disk.
func (f *File) ReadPath(path string) error {
	data, err := fsutil.ReadFile(path)
	if err != nil {
		return newError(ErrFailedToReadFile, path, err)
	}
	if err := f.ReadBytes(data); err != nil {
		return newError(ErrFailedToReadFile, path, err)
	}
	return nil
}

// ReadBytes parses a single file's on-disk representation (i.e. a raw
// loose file's contents, not yet packed) into f under f.Version().
func (f *File) ReadBytes(data []byte) error {
	switch f.ver.family() {
	case familyTES3:
		f.tes3 = &tes3File{data: append([]byte(nil), data...)}
	case familyTES4:
		f.tes4 = &tes4File{data: append([]byte(nil), data...)}
	case familyFO4:
		if f.isDX() {
			dds, chunks, err := readDXChunks(data)
			if err != nil {
				return err
			}
			f.fo4 = &fo4File{chunks: chunks, dx: dds}
		} else {
			raw := append([]byte(nil), data...)
			f.fo4 = &fo4File{chunks: []fo4Chunk{{data: raw, uncompressedSize: uint32(len(raw))}}}
		}
	}
	return nil
}

// WritePath writes f's decoded content to path.
func (f *File) WritePath(path string) error {
	data, err := f.Bytes()
	if err != nil {
		return newError(ErrFailedToWriteFile, path, err)
	}
	if err := fsutil.WriteFile(path, data); err != nil {
		return newError(ErrFailedToWriteFile, path, err)
	}
	return nil
}

// Bytes reassembles the decoded (decompressed) content of f, regardless
// of whether it is currently compressed.
func (f *File) Bytes() ([]byte, error) {
	switch f.ver.family() {
	case familyTES3:
		return f.tes3.data, nil
	case familyTES4:
		if !f.tes4.compressed {
			return f.tes4.data, nil
		}
		return zlibDecompress(f.tes4.data)
	case familyFO4:
		return f.fo4.bytes()
	}
	return nil, newError(ErrSystemError, "", nil)
}

// Compressed reports whether at least one underlying chunk holds
// compressed bytes.
func (f *File) Compressed() bool {
	switch f.ver.family() {
	case familyTES3:
		return false
	case familyTES4:
		return f.tes4.compressed
	case familyFO4:
		for _, c := range f.fo4.chunks {
			if c.compressed {
				return true
			}
		}
		return false
	}
	return false
}

// Compress is idempotent: a no-op for TES3 (which has no compression),
// applies the version-tagged zlib scheme for TES4, and compresses every
// chunk for FO4.
func (f *File) Compress() error {
	switch f.ver.family() {
	case familyTES3:
		return nil
	case familyTES4:
		if f.tes4.compressed {
			return nil
		}
		packed, err := zlibCompress(f.tes4.data)
		if err != nil {
			return err
		}
		f.tes4.data = packed
		f.tes4.compressed = true
		return nil
	case familyFO4:
		for i := range f.fo4.chunks {
			if err := f.fo4.chunks[i].compress(); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// Decompress is idempotent, the inverse of Compress.
func (f *File) Decompress() error {
	switch f.ver.family() {
	case familyTES3:
		return nil
	case familyTES4:
		if !f.tes4.compressed {
			return nil
		}
		raw, err := zlibDecompress(f.tes4.data)
		if err != nil {
			return err
		}
		f.tes4.data = raw
		f.tes4.compressed = false
		return nil
	case familyFO4:
		for i := range f.fo4.chunks {
			if err := f.fo4.chunks[i].decompress(); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// Size is the in-memory byte length of the decoded payload: raw length
// for TES3, the (possibly still-compressed) blob length for TES4, and
// the sum of chunk sizes for FO4.
func (f *File) Size() int {
	switch f.ver.family() {
	case familyTES3:
		return len(f.tes3.data)
	case familyTES4:
		return len(f.tes4.data)
	case familyFO4:
		n := 0
		for _, c := range f.fo4.chunks {
			n += len(c.data)
		}
		return n
	}
	return 0
}

func (f *File) isDX() bool {
	return f.typ == Textures && (f.ver == FO4DX || f.ver == Starfield)
}

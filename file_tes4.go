package bsa

// tes4File is the payload shared by the TES4/FO3/TES5/SSE family: one
// blob plus a per-file compressed flag. In the on-disk format this flag
// is stored as an inversion of the archive-wide compressed flag (spec
// §6: "file records (size high bit = per-file compression-inversion
// flag)"); that encoding detail lives in archive_tes4.go, which is the
// only place that needs to know about the archive-wide default.
type tes4File struct {
	data       []byte // raw bytes if !compressed, else the 4-byte-length-prefixed zlib stream
	compressed bool
}

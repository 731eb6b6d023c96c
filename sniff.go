package bsa

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
)

// Open reads the archive at path, sniffing its magic to dispatch to the
// TES3/TES4/FO4 reader (spec §4.1 "Archive::open(path) -> Result<Archive>
// — sniff the first bytes to dispatch to TES3/TES4/FO4 readers"). Name-
// sniffing order is TES3, then TES4, then FO4 (spec §4.1); anything
// else is UnknownFormat.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(ErrFailedToReadArchive, path, err)
	}
	defer f.Close()

	archive, err := decodeArchive(f)
	if err != nil {
		if isUnknownFormat(err) {
			return nil, newError(ErrUnknownFormat, path, nil)
		}
		return nil, newError(ErrFailedToReadArchive, path, err)
	}
	return archive, nil
}

// OpenBytes is the Open equivalent for an in-memory archive buffer.
func OpenBytes(data []byte) (*Archive, error) {
	archive, err := decodeArchive(bytes.NewReader(data))
	if err != nil {
		if isUnknownFormat(err) {
			return nil, err
		}
		return nil, newError(ErrFailedToReadArchive, "", err)
	}
	return archive, nil
}

func isUnknownFormat(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == ErrUnknownFormat
}

func decodeArchive(r io.ReadSeeker) (*Archive, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	switch {
	case binary.LittleEndian.Uint32(magic[:]) == tes3HeaderType:
		return readTES3(r)
	case magic == tes4Magic:
		return readTES4(r)
	case magic == fo4Magic:
		return readFO4(r)
	default:
		return nil, newError(ErrUnknownFormat, "", nil)
	}
}

// Write serializes a to path, dispatching on a.Version().family().
func (a *Archive) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return newError(ErrFailedToWriteFile, path, err)
	}
	defer f.Close()

	if err := a.WriteTo(f); err != nil {
		return newError(ErrFailedToWriteFile, path, err)
	}
	return nil
}

// WriteTo serializes a to w, dispatching on a.Version().family().
func (a *Archive) WriteTo(w io.Writer) error {
	switch a.ver.family() {
	case familyTES3:
		return writeTES3(a, w)
	case familyTES4:
		return writeTES4(a, w)
	case familyFO4:
		return writeFO4(a, w)
	}
	return newError(ErrSystemError, "", nil)
}

package bsa

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zlib"
)

// zlibCompress compresses src and returns the TES4-family on-disk
// representation: a 4-byte little-endian uncompressed length prefix
// followed by the raw zlib stream (spec §6: "data blocks with optional
// zlib prefix (4-byte uncompressed length)"). klauspost/compress's zlib
// package is a drop-in, faster replacement for compress/zlib.
func zlibCompress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(src)))
	buf.Write(prefix[:])

	w := zlib.NewWriter(&buf)
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// zlibDecompress reverses zlibCompress given the prefixed representation.
func zlibDecompress(src []byte) ([]byte, error) {
	if len(src) < 4 {
		return nil, io.ErrUnexpectedEOF
	}
	uncompressedSize := binary.LittleEndian.Uint32(src[:4])
	r, err := zlib.NewReader(bytes.NewReader(src[4:]))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out := make([]byte, uncompressedSize)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}

// zlibCompressRaw compresses src with no size prefix, the representation
// FO4/Starfield chunks use (each chunk already carries its own
// compressed/uncompressed size fields, spec §6).
func zlibCompressRaw(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// zlibDecompressRaw reverses zlibCompressRaw; the caller already knows
// the uncompressed size from the chunk header.
func zlibDecompressRaw(src []byte, uncompressedSize int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out := make([]byte, uncompressedSize)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}

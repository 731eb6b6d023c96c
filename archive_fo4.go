package bsa

import (
	"bytes"
	"encoding/binary"
	"io"
)

// FO4 `BTDX` on-disk layout (spec §6): header, a file-record table whose
// shape depends on the content tag (`GNRL` one chunk per file, `DX10`
// one chunk per mip level plus the DDS dimensions/format), a trailing
// string table carrying the virtual paths. Same grounding as
// archive_tes3.go/archive_tes4.go: spec §6 plus icza-mpq's
// accumulating-read idiom.
var fo4Magic = [4]byte{'B', 'T', 'D', 'X'}
var fo4TagGNRL = [4]byte{'G', 'N', 'R', 'L'}
var fo4TagDX10 = [4]byte{'D', 'X', '1', '0'}

type fo4Header struct {
	Magic             [4]byte
	Version           uint32
	ContentType       [4]byte
	FileCount         uint32
	StringTableOffset uint64
}

const fo4HeaderSize = 24

// fo4ChunkLoc records where one chunk's bytes live in the data section,
// resolved once the whole record table has been parsed so the reader
// can fetch every chunk with a single forward pass instead of seeking
// back and forth while still inside the record loop.
type fo4ChunkLoc struct {
	fileIdx, chunkIdx int
	offset            uint64
	packed, unpacked  uint32
}

func readFO4(r io.ReadSeeker) (*Archive, error) {
	var err error
	read := func(data any) error {
		if err != nil {
			return err
		}
		err = binary.Read(r, binary.LittleEndian, data)
		return err
	}

	var h fo4Header
	read(&h.Magic)
	read(&h.Version)
	read(&h.ContentType)
	read(&h.FileCount)
	read(&h.StringTableOffset)
	if err != nil {
		return nil, err
	}
	if h.Magic != fo4Magic {
		return nil, newError(ErrUnknownFormat, "", nil)
	}

	isDX := h.ContentType == fo4TagDX10
	version, typ := FO4General, Standard
	if isDX {
		version, typ = FO4DX, Textures
	}

	chunkCounts := make([]int, h.FileCount)
	dxHeaders := make([]*ddsHeader, h.FileCount)
	mipRanges := make([][2]uint16, 0) // flattened per chunk, parallel to locs
	var locs []fo4ChunkLoc

	for i := uint32(0); i < h.FileCount; i++ {
		var nameHash uint32
		read(&nameHash)

		if !isDX {
			var ext [4]byte
			var dirHash, unk0 uint32
			var offset uint64
			var packedSize, unpackedSize, unk1 uint32
			read(&ext)
			read(&dirHash)
			read(&unk0)
			read(&offset)
			read(&packedSize)
			read(&unpackedSize)
			read(&unk1)
			if err != nil {
				return nil, err
			}
			chunkCounts[i] = 1
			locs = append(locs, fo4ChunkLoc{fileIdx: int(i), chunkIdx: 0, offset: offset, packed: packedSize, unpacked: unpackedSize})
			mipRanges = append(mipRanges, [2]uint16{0, 0})
			continue
		}

		var ext [4]byte
		var dirHash uint32
		var unk8 uint8
		var numChunks uint8
		var chunkHeaderSize uint16
		var height, width uint16
		var numMips uint8
		var format uint8
		var unk16 uint16
		read(&ext)
		read(&dirHash)
		read(&unk8)
		read(&numChunks)
		read(&chunkHeaderSize)
		read(&height)
		read(&width)
		read(&numMips)
		read(&format)
		read(&unk16)
		if err != nil {
			return nil, err
		}
		dxHeaders[i] = &ddsHeader{Height: uint32(height), Width: uint32(width), MipMapCount: uint32(numMips), DXGIFormat: uint32(format)}
		copy(dxHeaders[i].FourCC[:], "DX10")
		chunkCounts[i] = int(numChunks)

		for c := 0; c < int(numChunks); c++ {
			var offset uint64
			var packedSize, unpackedSize uint32
			var mipFirst, mipLast uint16
			var unk uint32
			read(&offset)
			read(&packedSize)
			read(&unpackedSize)
			read(&mipFirst)
			read(&mipLast)
			read(&unk)
			if err != nil {
				return nil, err
			}
			locs = append(locs, fo4ChunkLoc{fileIdx: int(i), chunkIdx: c, offset: offset, packed: packedSize, unpacked: unpackedSize})
			mipRanges = append(mipRanges, [2]uint16{mipFirst, mipLast})
		}
	}

	chunks := make([][]fo4Chunk, h.FileCount)
	for i, n := range chunkCounts {
		chunks[i] = make([]fo4Chunk, n)
	}
	for li, loc := range locs {
		if _, err = r.Seek(int64(loc.offset), io.SeekStart); err != nil {
			return nil, err
		}
		size := loc.packed
		compressed := size != 0
		if size == 0 {
			size = loc.unpacked
		}
		buf := make([]byte, size)
		if _, err = io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		chunks[loc.fileIdx][loc.chunkIdx] = fo4Chunk{
			data:             buf,
			compressed:       compressed,
			uncompressedSize: loc.unpacked,
			mipFirst:         mipRanges[li][0],
			mipLast:          mipRanges[li][1],
		}
	}

	if _, err = r.Seek(int64(h.StringTableOffset), io.SeekStart); err != nil {
		return nil, err
	}
	names := make([]string, h.FileCount)
	for i := range names {
		var nameLen uint16
		read(&nameLen)
		buf := make([]byte, nameLen)
		if err == nil {
			_, err = io.ReadFull(r, buf)
		}
		if err != nil {
			return nil, err
		}
		names[i] = string(buf)
	}

	archive := NewArchive(version, typ)
	for i := range names {
		f := NewFile(version, typ)
		f.fo4 = &fo4File{chunks: chunks[i], dx: dxHeaders[i]}
		archive.Insert(names[i], f)
	}
	return archive, nil
}

func writeFO4(a *Archive, w io.Writer) error {
	entries := a.sortedEntries()
	isDX := a.typ == Textures

	var records bytes.Buffer
	var data bytes.Buffer
	var names bytes.Buffer
	recWrite := func(v any) error { return binary.Write(&records, binary.LittleEndian, v) }

	recordTableSize := uint64(0)
	for _, e := range entries {
		if isDX {
			recordTableSize += 4 + 4 + 4 + 1 + 1 + 2 + 2 + 2 + 1 + 1 + 2
			recordTableSize += uint64(len(e.File.fo4.chunks)) * (8 + 4 + 4 + 2 + 2 + 4)
		} else {
			recordTableSize += 4 + 4 + 4 + 4 + 8 + 4 + 4 + 4
		}
	}

	offset := uint64(fo4HeaderSize) + recordTableSize
	for _, e := range entries {
		names.Write(uint16Bytes(uint16(len(e.Name))))
		names.WriteString(e.Name)

		recWrite(fo4Hash(e.Name))
		if !isDX {
			c := e.File.fo4.chunks[0]
			var ext [4]byte
			recWrite(ext)
			recWrite(uint32(0))
			recWrite(uint32(0))
			recWrite(offset)
			packedSize := uint32(0)
			if c.compressed {
				packedSize = uint32(len(c.data))
			}
			recWrite(packedSize)
			recWrite(c.uncompressedSize)
			recWrite(uint32(0xBAADF00D))
			data.Write(c.data)
			offset += uint64(len(c.data))
			continue
		}

		dx := e.File.fo4.dx
		var ext [4]byte
		recWrite(ext)
		recWrite(uint32(0))
		recWrite(uint8(0))
		recWrite(uint8(len(e.File.fo4.chunks)))
		recWrite(uint16(24))
		recWrite(uint16(dx.Height))
		recWrite(uint16(dx.Width))
		recWrite(uint8(dx.MipMapCount))
		recWrite(uint8(dx.DXGIFormat))
		recWrite(uint16(0))
		for _, c := range e.File.fo4.chunks {
			packedSize := uint32(0)
			if c.compressed {
				packedSize = uint32(len(c.data))
			}
			recWrite(offset)
			recWrite(packedSize)
			recWrite(c.uncompressedSize)
			recWrite(c.mipFirst)
			recWrite(c.mipLast)
			recWrite(uint32(0))
			data.Write(c.data)
			offset += uint64(len(c.data))
		}
	}

	contentType := fo4TagGNRL
	if isDX {
		contentType = fo4TagDX10
	}
	h := fo4Header{
		Magic:             fo4Magic,
		Version:           1,
		ContentType:       contentType,
		FileCount:         uint32(len(entries)),
		StringTableOffset: offset,
	}

	var err error
	write := func(v any) error {
		if err != nil {
			return err
		}
		err = binary.Write(w, binary.LittleEndian, v)
		return err
	}
	write(h.Magic)
	write(h.Version)
	write(h.ContentType)
	write(h.FileCount)
	write(h.StringTableOffset)
	if err != nil {
		return err
	}
	if _, err = w.Write(records.Bytes()); err != nil {
		return err
	}
	if _, err = w.Write(data.Bytes()); err != nil {
		return err
	}
	if _, err = w.Write(names.Bytes()); err != nil {
		return err
	}
	return nil
}

func uint16Bytes(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

func fo4Hash(name string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(name); i++ {
		h ^= uint32(name[i])
		h *= 16777619
	}
	return h
}

package bsa

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
)

// TES3 on-disk layout (spec §6): a 12-byte header, a directory of (size,
// offset) pairs, a name-offset directory, a concatenated null-terminated
// name table, a file-name hash table, then the raw (never compressed)
// file data. There is no reference parser in the example pack for this
// family — the original delegates entirely to a third-party archive
// library (see DESIGN.md) — so this codec is grounded instead on
// icza-mpq's diveIn(): a single accumulating "read" closure wrapping
// binary.Read so a long chain of field reads can skip individual error
// checks, plus io.ReadFull for fixed-size blocks and explicit
// int64-offset Seeks for each table.
const tes3HeaderType = 0x100

type tes3FileRecord struct {
	Size   uint32
	Offset uint32
}

func readTES3(r io.ReadSeeker) (*Archive, error) {
	var err error
	read := func(data any) error {
		if err != nil {
			return err
		}
		err = binary.Read(r, binary.LittleEndian, data)
		return err
	}

	var typ, hashTableOffset, fileCount uint32
	read(&typ)
	read(&hashTableOffset)
	read(&fileCount)
	if err != nil {
		return nil, err
	}
	if typ != tes3HeaderType {
		return nil, newError(ErrUnknownFormat, "", nil)
	}

	records := make([]tes3FileRecord, fileCount)
	for i := range records {
		read(&records[i].Size)
		read(&records[i].Offset)
	}

	nameOffsets := make([]uint32, fileCount)
	for i := range nameOffsets {
		read(&nameOffsets[i])
	}
	if err != nil {
		return nil, err
	}

	nameTableLen := hashTableOffset - fileCount*8 - fileCount*4
	nameTable := make([]byte, nameTableLen)
	if _, err = io.ReadFull(r, nameTable); err != nil {
		return nil, err
	}

	// Hash table: one 8-byte hash per file, unused by this package beyond
	// being consumed so the data section that follows is correctly
	// positioned.
	if _, err = r.Seek(int64(fileCount)*8, io.SeekCurrent); err != nil {
		return nil, err
	}

	archive := NewArchive(TES3, Standard)
	for i, rec := range records {
		name := cString(nameTable, nameOffsets[i])
		data := make([]byte, rec.Size)
		if _, err = io.ReadFull(r, data); err != nil {
			return nil, err
		}
		f := NewFile(TES3, Standard)
		f.tes3 = &tes3File{data: data}
		archive.Insert(name, f)
	}
	return archive, nil
}

func writeTES3(a *Archive, w io.Writer) error {
	entries := a.sortedEntries()

	var names bytes.Buffer
	nameOffsets := make([]uint32, len(entries))
	for i, e := range entries {
		nameOffsets[i] = uint32(names.Len())
		names.WriteString(e.Name)
		names.WriteByte(0)
	}

	records := make([]tes3FileRecord, len(entries))
	var dataOffset uint32
	for i, e := range entries {
		size := uint32(e.File.tes3.dataLen())
		records[i] = tes3FileRecord{Size: size, Offset: dataOffset}
		dataOffset += size
	}

	hashTableOffset := uint32(len(entries))*8 + uint32(len(entries))*4 + uint32(names.Len())

	var err error
	write := func(data any) error {
		if err != nil {
			return err
		}
		err = binary.Write(w, binary.LittleEndian, data)
		return err
	}
	write(uint32(tes3HeaderType))
	write(hashTableOffset)
	write(uint32(len(entries)))
	for _, rec := range records {
		write(rec.Size)
		write(rec.Offset)
	}
	for _, off := range nameOffsets {
		write(off)
	}
	if err != nil {
		return err
	}
	if _, err = w.Write(names.Bytes()); err != nil {
		return err
	}
	for _, e := range entries {
		h := tes3Hash(e.Name)
		if err = binary.Write(w, binary.LittleEndian, h); err != nil {
			return err
		}
	}
	for _, e := range entries {
		if _, err = w.Write(e.File.tes3.data); err != nil {
			return err
		}
	}
	return nil
}

// cString reads a NUL-terminated string starting at offset within table.
func cString(table []byte, offset uint32) string {
	end := offset
	for end < uint32(len(table)) && table[end] != 0 {
		end++
	}
	return string(table[offset:end])
}

// tes3Hash is a simple, deterministic two-word path hash used only to
// populate the on-disk hash table; lookups in this package always go
// through the case-folded name, never the hash.
func tes3Hash(name string) uint64 {
	name = strings.ToLower(name)
	var lo, hi uint32
	for i := 0; i < len(name); i++ {
		lo = lo*33 + uint32(name[i])
	}
	for i := len(name) - 1; i >= 0; i-- {
		hi = hi*37 + uint32(name[i])
	}
	return uint64(hi)<<32 | uint64(lo)
}

func (f *tes3File) dataLen() int { return len(f.data) }

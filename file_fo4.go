package bsa

// fo4Chunk is one independently (de)compressible unit of an FO4/
// Starfield file. General files normally hold a single chunk; DX/
// Starfield texture files hold one chunk per mip level (spec §4.2: "FO4
// `General`: one or more chunks each independently compressible with
// zlib").
type fo4Chunk struct {
	data             []byte // raw bytes if !compressed, else a bare zlib stream (no length prefix)
	compressed       bool
	uncompressedSize uint32

	// mipFirst/mipLast are only meaningful for DX/Starfield chunks,
	// where a chunk may span a contiguous run of mip levels.
	mipFirst, mipLast uint16
}

func (c *fo4Chunk) compress() error {
	if c.compressed {
		return nil
	}
	packed, err := zlibCompressRaw(c.data)
	if err != nil {
		return err
	}
	c.uncompressedSize = uint32(len(c.data))
	c.data = packed
	c.compressed = true
	return nil
}

func (c *fo4Chunk) decompress() error {
	if !c.compressed {
		return nil
	}
	raw, err := zlibDecompressRaw(c.data, int(c.uncompressedSize))
	if err != nil {
		return err
	}
	c.data = raw
	c.compressed = false
	return nil
}

func (c *fo4Chunk) bytes() ([]byte, error) {
	if !c.compressed {
		return c.data, nil
	}
	return zlibDecompressRaw(c.data, int(c.uncompressedSize))
}

// fo4File is the payload for FO4General, FO4DX, and Starfield. dx is
// non-nil only for DX/Starfield texture files, and holds the DDS header
// metadata needed to re-synthesize a standalone .dds file from the
// chunk sequence (spec §4.2 "DX" dialect rule).
type fo4File struct {
	chunks []fo4Chunk
	dx     *ddsHeader
}

func (f *fo4File) bytes() ([]byte, error) {
	var out []byte
	if f.dx != nil {
		out = append(out, encodeDDSHeader(f.dx)...)
	}
	for i := range f.chunks {
		b, err := f.chunks[i].bytes()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

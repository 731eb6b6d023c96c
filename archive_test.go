package bsa

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func archiveFileNames(a *Archive) []string {
	var names []string
	for _, e := range a.Entries() {
		names = append(names, e.Name)
	}
	return names
}

func TestArchiveInsertRejectsVersionMismatch(t *testing.T) {
	a := NewArchive(SSE, Standard)
	wrong := NewFile(TES4, Standard)
	assert.False(t, a.Insert("x.nif", wrong))
}

func TestArchiveInsertRejectsDuplicateCaseInsensitive(t *testing.T) {
	a := NewArchive(TES3, Standard)
	f1 := NewFile(TES3, Standard)
	require.NoError(t, f1.ReadBytes([]byte("a")))
	f2 := NewFile(TES3, Standard)
	require.NoError(t, f2.ReadBytes([]byte("b")))

	assert.True(t, a.Insert("Meshes/A.nif", f1))
	assert.False(t, a.Insert("meshes/a.nif", f2))
	assert.Equal(t, 1, a.Len())
}

func TestArchiveSetVersionOnlyWithinFamily(t *testing.T) {
	a := NewArchive(TES4, Standard)
	assert.True(t, a.SetVersion(SSE))
	assert.Equal(t, SSE, a.Version())
	assert.False(t, a.SetVersion(TES3))
	assert.Equal(t, SSE, a.Version())
}

func TestRoundTripTES3(t *testing.T) {
	a := NewArchive(TES3, Standard)
	f1 := NewFile(TES3, Standard)
	require.NoError(t, f1.ReadBytes([]byte("mesh data")))
	f2 := NewFile(TES3, Standard)
	require.NoError(t, f2.ReadBytes([]byte("texture data")))
	require.True(t, a.Insert("meshes/a.nif", f1))
	require.True(t, a.Insert("textures/b.tga", f2))

	var buf bytes.Buffer
	require.NoError(t, a.WriteTo(&buf))

	got, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, TES3, got.Version())
	assert.ElementsMatch(t, archiveFileNames(a), archiveFileNames(got))

	gf, ok := got.Get("meshes/a.nif")
	require.True(t, ok)
	data, err := gf.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "mesh data", string(data))
}

func TestRoundTripTES4Uncompressed(t *testing.T) {
	a := NewArchive(SSE, Standard)
	f1 := NewFile(SSE, Standard)
	require.NoError(t, f1.ReadBytes([]byte("plugin-adjacent mesh bytes")))
	require.True(t, a.Insert("meshes/sub/dir/c.nif", f1))

	var buf bytes.Buffer
	require.NoError(t, a.WriteTo(&buf))

	got, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, SSE, got.Version())

	gf, ok := got.Get("meshes/sub/dir/c.nif")
	require.True(t, ok)
	data, err := gf.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "plugin-adjacent mesh bytes", string(data))
}

func TestRoundTripTES4Compressed(t *testing.T) {
	a := NewArchive(TES4, Standard)
	f1 := NewFile(TES4, Standard)
	payload := bytes.Repeat([]byte("compressible-payload "), 50)
	require.NoError(t, f1.ReadBytes(payload))
	require.NoError(t, f1.Compress())
	require.True(t, a.Insert("scripts/a.pex", f1))

	var buf bytes.Buffer
	require.NoError(t, a.WriteTo(&buf))

	got, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)

	gf, ok := got.Get("scripts/a.pex")
	require.True(t, ok)
	assert.True(t, gf.Compressed())
	data, err := gf.Bytes()
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestRoundTripFO4General(t *testing.T) {
	a := NewArchive(FO4General, Standard)
	f1 := NewFile(FO4General, Standard)
	require.NoError(t, f1.ReadBytes([]byte("general payload")))
	require.True(t, a.Insert("scripts/a.pex", f1))

	var buf bytes.Buffer
	require.NoError(t, a.WriteTo(&buf))

	got, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, FO4General, got.Version())

	gf, ok := got.Get("scripts/a.pex")
	require.True(t, ok)
	data, err := gf.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "general payload", string(data))
}

func TestRoundTripFO4DXTextures(t *testing.T) {
	a := NewArchive(FO4DX, Textures)
	f1 := NewFile(FO4DX, Textures)
	dds := buildMinimalDDS(t, 32, 32, 2)
	require.NoError(t, f1.ReadBytes(dds))
	require.True(t, a.Insert("textures/a.dds", f1))

	var buf bytes.Buffer
	require.NoError(t, a.WriteTo(&buf))

	got, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, FO4DX, got.Version())
	assert.Equal(t, Textures, got.Type())

	gf, ok := got.Get("textures/a.dds")
	require.True(t, ok)
	data, err := gf.Bytes()
	require.NoError(t, err)
	assert.Equal(t, dds, data)
}

func TestOpenBytesUnknownFormat(t *testing.T) {
	_, err := OpenBytes([]byte("not an archive, just garbage bytes"))
	require.Error(t, err)
	var archErr *Error
	require.ErrorAs(t, err, &archErr)
	assert.Equal(t, ErrUnknownFormat, archErr.Kind)
}

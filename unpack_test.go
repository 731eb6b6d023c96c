package bsa

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guekka/bethutil-sub000/internal/fsutil"
)

func writeSmallTES3Archive(t *testing.T, path string) {
	t.Helper()
	a := NewArchive(TES3, Standard)
	f := NewFile(TES3, Standard)
	require.NoError(t, f.ReadBytes([]byte("mesh content")))
	require.True(t, a.Insert("meshes/a.nif", f))
	require.NoError(t, a.Write(path))
}

func TestUnpackWritesEveryMember(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "Test.bsa")
	writeSmallTES3Archive(t, archivePath)

	out := t.TempDir()
	result, err := Unpack(UnpackSettings{ArchivePath: archivePath, Root: out})
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.False(t, result.ArchiveRemoved)

	data, err := os.ReadFile(filepath.Join(out, "meshes", "a.nif"))
	require.NoError(t, err)
	assert.Equal(t, "mesh content", string(data))
}

func TestUnpackPreservesExistingFileUnlessOverwrite(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "Test.bsa")
	writeSmallTES3Archive(t, archivePath)

	out := t.TempDir()
	writeTestFile(t, out, "meshes/a.nif", []byte("loose edit, must survive"))

	_, err := Unpack(UnpackSettings{ArchivePath: archivePath, Root: out})
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(out, "meshes", "a.nif"))
	require.NoError(t, err)
	assert.Equal(t, "loose edit, must survive", string(data))

	_, err = Unpack(UnpackSettings{ArchivePath: archivePath, Root: out, OverwriteExisting: true})
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(out, "meshes", "a.nif"))
	require.NoError(t, err)
	assert.Equal(t, "mesh content", string(data))
}

func TestUnpackRemovesArchiveOnRequest(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "Test.bsa")
	writeSmallTES3Archive(t, archivePath)

	result, err := Unpack(UnpackSettings{ArchivePath: archivePath, RemoveArchive: true})
	require.NoError(t, err)
	assert.True(t, result.ArchiveRemoved)

	_, statErr := os.Stat(archivePath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUnpackDefaultsRootToArchiveDir(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "Test.bsa")
	writeSmallTES3Archive(t, archivePath)

	_, err := Unpack(UnpackSettings{ArchivePath: archivePath})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "meshes", "a.nif"))
	require.NoError(t, err)
}

func TestUnpackFailsOnMissingArchive(t *testing.T) {
	_, err := Unpack(UnpackSettings{ArchivePath: filepath.Join(t.TempDir(), "missing.bsa")})
	require.Error(t, err)
}

// TestPackUnpackRoundTripIsDirectoryEqual packs a fixture tree, unpacks
// the resulting archive elsewhere, and checks the two trees are
// byte-exact (spec §8: "assert byte-exact directory equivalence"), the
// same property fsutil's own test suite checks for a single file.
func TestPackUnpackRoundTripIsDirectoryEqual(t *testing.T) {
	fixture := t.TempDir()
	writeTestFile(t, fixture, "meshes/a.nif", []byte("mesh a"))
	writeTestFile(t, fixture, "meshes/b.nif", []byte("mesh b, somewhat larger content"))

	scratch := t.TempDir()
	require.NoError(t, fsutil.CopyOrLink(fixture, scratch))

	sets := ForGame(GameSkyrimLE)
	results := Pack(context.Background(), PackSettings{Game: sets, InputDir: scratch})

	archiveDir := t.TempDir()
	archivePath := filepath.Join(archiveDir, "Test.bsa")
	var wrote bool
	for r := range results {
		require.NoError(t, r.Archive.Write(archivePath))
		wrote = true
	}
	require.True(t, wrote)

	out := t.TempDir()
	_, err := Unpack(UnpackSettings{ArchivePath: archivePath, Root: out})
	require.NoError(t, err)

	eq, err := fsutil.DirsEqual(fixture, out)
	require.NoError(t, err)
	assert.True(t, eq)
}

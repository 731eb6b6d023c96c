package bsa

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, rel string, data []byte) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, data, 0o644))
}

func TestPackProducesArchiveWithEveryEligibleFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "meshes/a.nif", []byte("mesh a"))
	writeTestFile(t, dir, "meshes/b.nif", []byte("mesh b, somewhat larger content"))
	writeTestFile(t, dir, "readme.unsupported", []byte("should be excluded"))

	sets := ForGame(GameSkyrimLE)
	results := Pack(context.Background(), PackSettings{Game: sets, InputDir: dir})

	var total int
	for r := range results {
		total += r.Archive.Len()
		assert.Equal(t, Standard, r.Type)
		assert.Empty(t, r.Errors)
	}
	assert.Equal(t, 2, total)
}

func TestPackExcludesRootLevelFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "root.esp", []byte("plugin at root, never packed"))
	writeTestFile(t, dir, "meshes/a.nif", []byte("mesh a"))

	sets := ForGame(GameSkyrimLE)
	results := Pack(context.Background(), PackSettings{Game: sets, InputDir: dir})

	var total int
	for r := range results {
		total += r.Archive.Len()
	}
	assert.Equal(t, 1, total)
}

func TestPackSplitsStandardAndTextureArchives(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "meshes/a.nif", []byte("mesh a"))
	writeTestFile(t, dir, "textures/a.dds", []byte("texture a"))

	sets := ForGame(GameSkyrimSE)
	results := Pack(context.Background(), PackSettings{Game: sets, InputDir: dir, Compress: true})

	types := map[ArchiveType]int{}
	for r := range results {
		types[r.Type] += r.Archive.Len()
	}
	assert.Equal(t, 1, types[Standard])
	assert.Equal(t, 1, types[Textures])
}

func TestPackRespectsAllowFilePredicate(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "meshes/a.nif", []byte("mesh a"))
	writeTestFile(t, dir, "meshes/skip_me.nif", []byte("mesh b"))

	sets := ForGame(GameSkyrimLE)
	results := Pack(context.Background(), PackSettings{
		Game:      sets,
		InputDir:  dir,
		AllowFile: func(root, relPath string) bool { return filepath.Base(relPath) != "skip_me.nif" },
	})

	var names []string
	for r := range results {
		for _, e := range r.Archive.Entries() {
			names = append(names, e.Name)
		}
	}
	assert.Equal(t, []string{"meshes/a.nif"}, names)
}

func TestPackRespectsAllowGlobs(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "meshes/a.nif", []byte("mesh a"))
	writeTestFile(t, dir, "textures/a.dds", []byte("texture a"))

	sets := ForGame(GameSkyrimLE)
	results := Pack(context.Background(), PackSettings{
		Game:       sets,
		InputDir:   dir,
		AllowGlobs: []string{"meshes/**"},
	})

	var names []string
	for r := range results {
		for _, e := range r.Archive.Entries() {
			names = append(names, e.Name)
		}
	}
	assert.Equal(t, []string{"meshes/a.nif"}, names)
}

func TestFileFitsRespectsMaxSize(t *testing.T) {
	sets := &Settings{MaxSize: 2000}
	arch := NewArchive(TES3, Standard)
	f := NewFile(TES3, Standard)
	require.NoError(t, f.ReadBytes(make([]byte, 50)))

	assert.True(t, fileFits(arch, f, sets))
	require.True(t, arch.Insert("a", f))

	big := NewFile(TES3, Standard)
	require.NoError(t, big.ReadBytes(make([]byte, 2000)))
	assert.False(t, fileFits(arch, big, sets))
}

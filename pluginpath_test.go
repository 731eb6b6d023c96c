package bsa

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilePathStemCounterSuffix(t *testing.T) {
	sets := ForGame(GameSkyrimSE)
	fp := ParseFilePath("/mods/Requiem1 - Textures.bsa", sets, PathKindBSA)

	assert.Equal(t, "Requiem", fp.Name)
	require.NotNil(t, fp.Counter)
	assert.Equal(t, 1, *fp.Counter)
	assert.Equal(t, "Textures", fp.Suffix)
	assert.Equal(t, ".bsa", fp.Ext)
	assert.Equal(t, "/mods/Requiem1 - Textures.bsa", fp.FullPath())
}

func TestParseFilePathNoSuffixStillFindsDigits(t *testing.T) {
	sets := ForGame(GameSkyrimSE)
	fp := ParseFilePath("/mods/a1.bsa", sets, PathKindBSA)

	require.NotNil(t, fp.Counter)
	assert.Equal(t, 1, *fp.Counter)
	assert.Equal(t, "", fp.Suffix)
	assert.Equal(t, "a", fp.Name)
}

func TestParseFilePathUnknownSuffixStaysInStem(t *testing.T) {
	sets := ForGame(GameSkyrimSE)
	fp := ParseFilePath("/mods/Mod - Extra.bsa", sets, PathKindBSA)

	assert.Equal(t, "", fp.Suffix)
	assert.Equal(t, "Mod - Extra", fp.Name)
}

func TestFullNameRoundTrip(t *testing.T) {
	counter := 3
	fp := FilePath{Name: "Requiem", Counter: &counter, Suffix: "Textures"}
	assert.Equal(t, "Requiem3 - Textures", fp.FullName())
}

func TestFindArchiveNamePrefersPluginDerivedName(t *testing.T) {
	dir := t.TempDir()
	sets := ForGame(GameSkyrimSE)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MyMod.esp"), []byte("plugin"), 0o644))

	fp, err := FindArchiveName(dir, sets, Standard)
	require.NoError(t, err)
	assert.Equal(t, "MyMod", fp.Name)
	assert.Equal(t, ".bsa", fp.Ext)
	assert.Equal(t, filepath.Join(dir, "MyMod.bsa"), fp.FullPath())
}

func TestFindArchiveNameFallsBackToCounterWhenNameTaken(t *testing.T) {
	dir := t.TempDir()
	sets := ForGame(GameSkyrimSE)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MyMod.esp"), []byte("plugin"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MyMod.bsa"), []byte("taken"), 0o644))

	fp, err := FindArchiveName(dir, sets, Standard)
	require.NoError(t, err)
	require.NotNil(t, fp.Counter)
	assert.Equal(t, 0, *fp.Counter)
	assert.Equal(t, filepath.Join(dir, "MyMod0.bsa"), fp.FullPath())
}

func TestFindArchiveNameUsesTextureSuffix(t *testing.T) {
	dir := t.TempDir()
	sets := ForGame(GameSkyrimSE)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MyMod.esp"), []byte("plugin"), 0o644))

	fp, err := FindArchiveName(dir, sets, Textures)
	require.NoError(t, err)
	assert.Equal(t, "Textures", fp.Suffix)
	assert.Equal(t, filepath.Join(dir, "MyMod - Textures.bsa"), fp.FullPath())
}

func TestIsLoadedExactAndApproxMatch(t *testing.T) {
	dir := t.TempDir()
	sets := ForGame(GameSkyrimSE)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MyMod.esp"), []byte("plugin"), 0o644))

	archive := FilePath{Dir: dir, Name: "MyMod", Ext: sets.Extension, Kind: PathKindBSA}
	assert.True(t, isLoaded(archive, sets))

	archive2 := FilePath{Dir: dir, Name: "Other", Ext: sets.Extension, Kind: PathKindBSA}
	assert.False(t, isLoaded(archive2, sets))
}

func TestMakeDummyPluginsSkipsLoadedArchives(t *testing.T) {
	dir := t.TempDir()
	sets := ForGame(GameSkyrimSE)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MyMod.esp"), []byte("plugin"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MyMod.bsa"), []byte("archive"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Orphan.bsa"), []byte("archive"), 0o644))

	require.NoError(t, MakeDummyPlugins(dir, sets, nil))

	_, err := os.Stat(filepath.Join(dir, "MyMod.esp"))
	require.NoError(t, err)
	info, err := os.Stat(filepath.Join(dir, "Orphan.esp"))
	require.NoError(t, err)
	assert.Equal(t, int64(len(sets.DummyPlugin)), info.Size())
}

func TestCleanDummyPluginsRemovesBySize(t *testing.T) {
	dir := t.TempDir()
	sets := ForGame(GameSkyrimSE)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dummy.esp"), sets.DummyPlugin, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Real.esp"), []byte("a real plugin with real content"), 0o644))

	require.NoError(t, CleanDummyPlugins(dir, sets))

	_, err := os.Stat(filepath.Join(dir, "Dummy.esp"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "Real.esp"))
	assert.NoError(t, err)
}

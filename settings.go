package bsa

import (
	"path"
	"strings"

	"github.com/Guekka/bethutil-sub000/internal/pathutil"
)

// Game names a supported title; it selects a Settings row via ForGame.
type Game uint8

const (
	GameMorrowind Game = iota
	GameOblivion
	GameFallout3
	GameFalloutNV
	GameSkyrimLE
	GameSkyrimSE
	GameFallout4
	GameStarfield
)

func (g Game) String() string {
	switch g {
	case GameMorrowind:
		return "Morrowind"
	case GameOblivion:
		return "Oblivion"
	case GameFallout3:
		return "Fallout3"
	case GameFalloutNV:
		return "FalloutNV"
	case GameSkyrimLE:
		return "SkyrimLE"
	case GameSkyrimSE:
		return "SkyrimSE"
	case GameFallout4:
		return "Fallout4"
	case GameStarfield:
		return "Starfield"
	default:
		return "unknown"
	}
}

// FileKind is the classification the packer and the plugin-name service
// use to decide where a path goes and how it should be named.
type FileKind uint8

const (
	KindStandard FileKind = iota
	KindTexture
	KindIncompressible
	KindPlugin
	KindBSA
	KindBlacklist
)

// AllowedPath is one entry of a classification table: an extension
// paired with the set of first-path-segments (relative to the
// classification root) under which it is recognized. rootToken matches
// files directly at the root with no further segment.
type AllowedPath struct {
	Extension   string
	Directories []string
}

const rootToken = "root"

// check reports whether filePath (relative to root) matches this entry.
func (a AllowedPath) check(relPath string) bool {
	if !strings.EqualFold(path.Ext(relPath), a.Extension) {
		return false
	}
	dir := pathutil.FirstSegment(relPath)
	for _, d := range a.Directories {
		if strings.EqualFold(d, dir) {
			return true
		}
	}
	return false
}

// Settings is the frozen, per-game record the classifier, the packer,
// and the plugin-name service all consult. It is constructed once by
// ForGame and never mutated afterwards, so it is safe to share by
// reference across goroutines.
type Settings struct {
	Game Game

	// MaxSize is the size ceiling (in bytes) the packer enforces on
	// every archive it yields.
	MaxSize uint64

	Format        ArchiveVersion
	TextureFormat *ArchiveVersion // nil if the game has no dedicated texture dialect

	Extension        string // archive extension, e.g. ".bsa" or ".ba2"
	Suffix           string // primary (Standard) archive suffix, may be empty
	TextureSuffix    string // texture archive suffix, empty if TextureFormat is nil
	PluginExt        string // extension FindArchiveName gives a plugin name synthesized from the directory name
	PluginExtensions []string

	DummyPlugin []byte // nil if the game has no auto-load dummy plugin mechanism

	StandardFiles       []AllowedPath
	TextureFiles        []AllowedPath
	IncompressibleFiles []AllowedPath
}

// HasTextureArchive reports whether this game's settings carry a
// dedicated Textures dialect.
func (s *Settings) HasTextureArchive() bool { return s.TextureFormat != nil }

// Classify is the sole authority on whether relPath (slash-separated,
// relative to the packed root) belongs in an archive, and which kind.
// Standard wins over Texture when both tables match, per spec (the
// shipped tables are disjoint, so in practice this tie-break never
// triggers, but the order is still significant).
func (s *Settings) Classify(relPath string) FileKind {
	for _, a := range s.StandardFiles {
		if a.check(relPath) {
			return KindStandard
		}
	}
	for _, a := range s.TextureFiles {
		if a.check(relPath) {
			return KindTexture
		}
	}
	for _, a := range s.IncompressibleFiles {
		if a.check(relPath) {
			return KindIncompressible
		}
	}
	ext := strings.ToLower(path.Ext(relPath))
	for _, p := range s.PluginExtensions {
		if ext == p {
			return KindPlugin
		}
	}
	if ext == strings.ToLower(s.Extension) {
		return KindBSA
	}
	return KindBlacklist
}

const gigabyte = 1024 * 1024 * 1024

// sseDefault is the reference settings table (spec §6: "Settings table
// (SSE reference)"); every other game's table is built by overlaying
// this one, mirroring original_source/include/btu/bsa/settings.hpp's
// `Settings::get`, which builds every non-SSE row from a copy of the
// default SSE row.
func sseDefault() Settings {
	sseTex := SSE
	return Settings{
		Game:             GameSkyrimSE,
		MaxSize:          uint64(float64(gigabyte) * 1.7),
		Format:           SSE,
		TextureFormat:    &sseTex,
		Extension:        ".bsa",
		Suffix:           "",
		TextureSuffix:    "Textures",
		PluginExt:        ".esp",
		PluginExtensions: []string{".esl", ".esm", ".esp"},
		DummyPlugin:      dummySSE,
		StandardFiles: []AllowedPath{
			{".bto", []string{"meshes"}},
			{".btr", []string{"meshes"}},
			{".btt", []string{"meshes"}},
			{".dlodsettings", []string{"lodsettings"}},
			{".dtl", []string{"meshes"}},
			{".egm", []string{"meshes"}},
			{".jpg", []string{rootToken}},
			{".hkx", []string{"meshes"}},
			{".lst", []string{"meshes"}},
			{".nif", []string{"meshes"}},
			{".png", []string{"textures"}},
			{".tga", []string{"textures"}},
			{".tri", []string{"meshes"}},
		},
		TextureFiles: []AllowedPath{
			{".dds", []string{"textures"}},
		},
		IncompressibleFiles: []AllowedPath{
			{".dds", []string{"interface"}},
			{".dlstrings", []string{"strings"}},
			{".fuz", []string{"sound"}},
			{".fxp", []string{"shadersfx"}},
			{".gid", []string{"grass"}},
			{".gfx", []string{"interface"}},
			{".hkc", []string{"meshes"}},
			{".hkt", []string{"meshes"}},
			{".ilstrings", []string{"strings"}},
			{".ini", []string{"meshes"}},
			{".lip", []string{"sound"}},
			{".lnk", []string{"grass"}},
			{".lod", []string{"lodsettings"}},
			{".ogg", []string{"sound"}},
			{".pex", []string{"scripts"}},
			{".psc", []string{"scripts"}},
			{".seq", []string{"seq"}},
			{".strings", []string{"strings"}},
			{".swf", []string{"interface"}},
			{".txt", []string{"interface", "meshes", "scripts"}},
			{".wav", []string{"sound"}},
			{".xml", []string{"dialogueviews"}},
			{".xwm", []string{"music", "sound"}},
		},
	}
}

// ForGame returns the frozen settings record for game. It is analogous
// to original_source's Settings::get(Game): a process-wide immutable
// value obtained through an accessor, never mutated after construction.
func ForGame(game Game) *Settings {
	base := sseDefault()

	switch game {
	case GameMorrowind:
		base.Game = GameMorrowind
		base.Format = TES3
		base.TextureFormat = nil
		base.Extension = ".bsa"
		base.Suffix = ""
		base.TextureSuffix = ""
		base.PluginExtensions = []string{".esm", ".esp"}
		base.DummyPlugin = nil // TES3 predates the auto-load-orphan-archive mechanism
	case GameOblivion:
		base.Game = GameOblivion
		base.Format = TES4
		base.TextureFormat = nil
		base.TextureSuffix = ""
		base.PluginExtensions = []string{".esm", ".esp"}
		base.DummyPlugin = dummyOblivion
	case GameFalloutNV:
		base.Game = GameFalloutNV
		base.Format = TES5
		base.TextureFormat = nil
		base.TextureSuffix = ""
		base.PluginExtensions = []string{".esm", ".esp"}
		base.DummyPlugin = dummyFNV
	case GameFallout3:
		base.Game = GameFallout3
		base.Format = FO3
		base.TextureFormat = nil
		base.TextureSuffix = ""
		base.PluginExtensions = []string{".esm", ".esp"}
		base.DummyPlugin = dummyFNV
	case GameSkyrimLE:
		base.Game = GameSkyrimLE
		base.Format = TES5
		base.TextureFormat = nil
		base.Suffix = ""
		base.TextureSuffix = ""
		base.PluginExtensions = []string{".esm", ".esp"}
		base.DummyPlugin = dummyTES5
	case GameSkyrimSE:
		// base is already the SSE default.
	case GameFallout4:
		base.Game = GameFallout4
		base.Format = FO4General
		dx := FO4DX
		base.TextureFormat = &dx
		base.Extension = ".ba2"
		base.Suffix = "Main"
		base.DummyPlugin = dummyFO4
	case GameStarfield:
		base.Game = GameStarfield
		base.Format = FO4General
		dx := Starfield
		base.TextureFormat = &dx
		base.Extension = ".ba2"
		base.Suffix = "Main"
		base.DummyPlugin = nil // no known minimal dummy plugin for Starfield
	}

	return &base
}

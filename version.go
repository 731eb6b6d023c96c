package bsa

// ArchiveVersion identifies the on-wire dialect of an archive. The
// numeric values are the well-known magic/version codes used on disk and
// MUST be preserved exactly: they participate directly in serialization.
type ArchiveVersion uint32

const (
	// TES3 is Morrowind's archive format: no magic version number on
	// disk (the format is identified by its fixed 12-byte header
	// layout), but the value 1 is used throughout this package to tag
	// files and archives as belonging to this dialect.
	TES3 ArchiveVersion = 1

	// TES4 is Oblivion's BSA dialect.
	TES4 ArchiveVersion = 103

	// FO3 is Fallout 3 / New Vegas's BSA dialect. It shares its on-disk
	// version number with TES5.
	FO3 ArchiveVersion = 104

	// TES5 is Skyrim (original release)'s BSA dialect.
	TES5 ArchiveVersion = 104

	// SSE is Skyrim Special Edition's BSA dialect.
	SSE ArchiveVersion = 105

	// FO4General is Fallout 4 / Fallout 76's general-purpose BA2
	// dialect, identified on disk by the four-byte format tag "GNRL"
	// following the "BTDX" magic.
	FO4General ArchiveVersion = 0x4c524e47 // "GNRL" read little-endian

	// FO4DX is Fallout 4's texture BA2 dialect, identified on disk by
	// the four-byte format tag "DX10" following the "BTDX" magic.
	FO4DX ArchiveVersion = 0x30315844 // "DX10" read little-endian

	// Starfield shares FO4's BTDX container and the same fo4File payload
	// and codec as FO4DX; it is tagged separately so the Starfield
	// settings can name it. Its texture archives are written with the
	// DX10 on-disk tag, which the reader reports as FO4DX.
	Starfield ArchiveVersion = 0x58445342 // internal tag, never written verbatim
)

// String renders a human-readable dialect name, used in log messages and
// error text.
func (v ArchiveVersion) String() string {
	switch v {
	case TES3:
		return "TES3"
	case TES4:
		return "TES4"
	case FO3:
		return "FO3/TES5"
	case SSE:
		return "SSE"
	case FO4General:
		return "FO4General"
	case FO4DX:
		return "FO4DX"
	case Starfield:
		return "Starfield"
	default:
		return "unknown"
	}
}

// family groups versions that share an on-disk container layout, used to
// pick the right reader/writer and to validate Archive.SetVersion
// conversions (spec: "cheap conversion between compatible variants in
// the TES4 family").
type family uint8

const (
	familyTES3 family = iota
	familyTES4
	familyFO4
)

func (v ArchiveVersion) family() family {
	switch v {
	case TES3:
		return familyTES3
	case TES4, FO3, SSE: // FO3 and TES5 are the same constant (104)
		return familyTES4
	default:
		return familyFO4
	}
}

// ArchiveType distinguishes the Standard dialect (general-purpose files)
// from the Textures dialect some versions (SSE, FO4, Starfield) offer as
// a dedicated container for DDS textures. The packer always compresses
// FO4DX/Starfield texture files; SSE texture files follow the pack's
// compression setting. ArchiveType is independent of ArchiveVersion.
type ArchiveType uint8

const (
	Standard ArchiveType = iota
	Textures
)

func (t ArchiveType) String() string {
	if t == Textures {
		return "Textures"
	}
	return "Standard"
}

// hasTextureDialect reports whether v has a dedicated Textures layout
// distinct from its Standard layout.
func (v ArchiveVersion) hasTextureDialect() bool {
	switch v {
	case SSE, FO4General, FO4DX, Starfield:
		return true
	default:
		return false
	}
}

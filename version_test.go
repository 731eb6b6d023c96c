package bsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArchiveVersionFamily(t *testing.T) {
	cases := []struct {
		v    ArchiveVersion
		want family
	}{
		{TES3, familyTES3},
		{TES4, familyTES4},
		{FO3, familyTES4},
		{TES5, familyTES4},
		{SSE, familyTES4},
		{FO4General, familyFO4},
		{FO4DX, familyFO4},
		{Starfield, familyFO4},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.v.family(), "family(%s)", c.v)
	}
}

func TestArchiveVersionString(t *testing.T) {
	assert.Equal(t, "TES3", TES3.String())
	assert.Equal(t, "SSE", SSE.String())
	assert.Equal(t, "unknown", ArchiveVersion(0xDEADBEEF).String())
}

func TestHasTextureDialect(t *testing.T) {
	assert.False(t, TES3.hasTextureDialect())
	assert.False(t, TES4.hasTextureDialect())
	assert.True(t, SSE.hasTextureDialect())
	assert.True(t, FO4General.hasTextureDialect())
	assert.True(t, Starfield.hasTextureDialect())
}

package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualFold(t *testing.T) {
	assert.True(t, EqualFold("Meshes/A.NIF", "meshes/a.nif"))
	assert.False(t, EqualFold("Meshes/A.NIF", "meshes/b.nif"))
}

func TestMatchDoubleStar(t *testing.T) {
	ok, err := Match("textures/**/*.dds", "textures/armor/a/b.dds")
	assert := assert.New(t)
	assert.NoError(err)
	assert.True(ok)

	ok, err = Match("textures/*.dds", "textures/armor/a.dds")
	assert.NoError(err)
	assert.False(ok)
}

func TestToLocalConvertsSeparatorsAndSanitizes(t *testing.T) {
	got := ToLocal("meshes\\armor/a.nif")
	assert.NotContains(t, got, "\\")
}

func TestSanitizeUTF8ReplacesInvalidBytes(t *testing.T) {
	invalid := "valid" + string([]byte{0xff, 0xfe}) + "text"
	got := SanitizeUTF8(invalid, '_')
	assert.Equal(t, "valid__text", got)
	assert.Equal(t, "clean", SanitizeUTF8("clean", '_'))
}

func TestFirstSegment(t *testing.T) {
	assert.Equal(t, "meshes", FirstSegment("Meshes/a.nif"))
	assert.Equal(t, "root", FirstSegment("a.esp"))
}

func TestToSlash(t *testing.T) {
	assert.Equal(t, "meshes/a.nif", ToSlash("meshes/a.nif"))
}

// Package pathutil bridges UTF-8 virtual archive paths and OS-native
// filesystem paths: case-insensitive comparison, glob matching, and the
// canonicalization the packer and the plugin-name service rely on.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/cases"
)

var fold = cases.Fold()

// EqualFold reports whether a and b are equal under Unicode case
// folding, the comparison archive virtual paths use for lookup (spec:
// "ASCII-case-folded for hashing, case-preserving for retrieval").
func EqualFold(a, b string) bool {
	return fold.String(a) == fold.String(b)
}

// Fold returns s case-folded, suitable as a map key for case-insensitive
// virtual path lookup.
func Fold(s string) string {
	return fold.String(s)
}

// Match reports whether name matches glob pattern, supporting "**" for
// arbitrary-depth segments (doublestar), used by the optional
// user-supplied allow-file predicate and by the CLI's list filters.
func Match(pattern, name string) (bool, error) {
	return doublestar.Match(pattern, name)
}

// ToLocal converts a slash-separated virtual archive path into an
// OS-native relative filesystem path: '\\' and '/' both become the
// platform separator, and any invalid UTF-8 byte is replaced with '_'
// (spec §6 "Path conventions").
func ToLocal(virtual string) string {
	b := make([]byte, 0, len(virtual))
	for i := 0; i < len(virtual); i++ {
		c := virtual[i]
		if c == '\\' || c == '/' {
			b = append(b, os.PathSeparator)
			continue
		}
		b = append(b, c)
	}
	return SanitizeUTF8(string(b), '_')
}

// SanitizeUTF8 replaces every invalid UTF-8 byte sequence in s with
// replacement, leaving valid runes untouched. Virtual paths keep their
// raw bytes (spec: "preserved on virtual paths"); only the local
// filesystem projection is sanitized.
func SanitizeUTF8(s string, replacement rune) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(replacement)
			i++
			continue
		}
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String()
}

// FirstSegment returns the first slash-separated segment of relPath,
// lower-cased, or "root" if relPath has no directory component. This is
// the "first path segment after a configured root" the classifier tests
// allowed-directory sets against.
func FirstSegment(relPath string) string {
	if idx := strings.IndexByte(relPath, '/'); idx >= 0 {
		return strings.ToLower(relPath[:idx])
	}
	return "root"
}

// ToSlash normalizes an OS-native path to the slash-separated form used
// for virtual archive paths.
func ToSlash(p string) string {
	return filepath.ToSlash(filepathClean(p))
}

func filepathClean(p string) string {
	return strings.ReplaceAll(p, string(os.PathSeparator), "/")
}

package tagstudio

import (
	"path"
	"strings"
)

// LibraryPath is a normalized, OS-independent relative path: it is
// always stored and compared as forward-slash text, regardless of the
// host OS's native separator. Comparisons are byte-exact on the
// forward-slash form; callers on case-insensitive filesystems are
// responsible for normalizing case themselves before comparing, since
// the engine does not know the case sensitivity of the underlying
// filesystem.
type LibraryPath string

// NewLibraryPath normalizes a native path (which may use backslashes
// on Windows) into the stored forward-slash form.
func NewLibraryPath(native string) LibraryPath {
	return LibraryPath(strings.ReplaceAll(native, `\`, "/"))
}

// String returns the stored forward-slash form.
func (p LibraryPath) String() string { return string(p) }

// Filename returns the final path segment, matching entries.filename.
func (p LibraryPath) Filename() string {
	return path.Base(string(p))
}

// Suffix returns the lowercased extension without its leading dot,
// matching entries.suffix. A path with no extension yields "".
func (p LibraryPath) Suffix() string {
	ext := path.Ext(string(p))
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

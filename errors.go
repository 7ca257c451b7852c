package tagstudio

import "fmt"

// ReservedNamespaceError is returned when a caller attempts to create,
// delete, or color-reference a namespace slug beginning with the
// reserved prefix. No mutation occurs.
type ReservedNamespaceError struct {
	Namespace string
}

func (e *ReservedNamespaceError) Error() string {
	return fmt.Sprintf("namespace %q is reserved and cannot be created or deleted", e.Namespace)
}

// VersionMismatchError is returned by OpenLibrary when the database's
// stored major DB_VERSION is newer than the program's, or when the
// stored DB_VERSION is older than DB6 and cannot be migrated.
type VersionMismatchError struct {
	Found    int
	Expected int
}

func (e *VersionMismatchError) Error() string {
	if e.Found < e.Expected {
		return fmt.Sprintf("library DB_VERSION (%d) is too old to migrate to this program's DB_VERSION (%d)", e.Found, e.Expected)
	}
	return fmt.Sprintf("library was created with a newer major DB_VERSION (%d) than this program supports (%d)", e.Found, e.Expected)
}

// JSONMigrationRequiredError is returned by OpenLibrary when only a
// legacy ts_library.json file exists at the target location.
type JSONMigrationRequiredError struct {
	LibraryDir string
}

func (e *JSONMigrationRequiredError) Error() string {
	return fmt.Sprintf("[JSON] legacy library at %q requires conversion to the SQLite format", e.LibraryDir)
}

// NotImplementedError is returned for query constructs this compiler
// doesn't (yet) handle: constraints carrying trailing properties, or
// an unrecognized `special:` value.
type NotImplementedError struct {
	What string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("not implemented: %s", e.What)
}

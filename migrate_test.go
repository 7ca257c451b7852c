package tagstudio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// openPreMigrationLibrary opens a fresh in-memory library, then rolls
// its stored version back to simulate an older on-disk database
// without re-running the full migration machinery that created it.
func openPreMigrationLibrary(t *testing.T, version int) *Library {
	t.Helper()
	l := openTestLibrary(t)
	require.NoError(t, l.SetVersion(DBVersionCurrentKey, version))
	return l
}

func TestPatchDB9BackfillsFilenameFromPath(t *testing.T) {
	l := openTestLibrary(t)
	folderID, err := insertBareFolder(l)
	require.NoError(t, err)
	_, err = l.db.Exec(`INSERT INTO entries (folder_id, path, filename, suffix) VALUES (?, ?, ?, ?)`,
		folderID, "/a/b/photo.jpg", "", "jpg")
	require.NoError(t, err)

	require.NoError(t, l.patchDB9())

	var filename string
	require.NoError(t, l.db.QueryRow(`SELECT filename FROM entries WHERE path = ?`, "/a/b/photo.jpg").Scan(&filename))
	require.Equal(t, "photo.jpg", filename)
}

func TestPatchDB100SwapsParentChildColumns(t *testing.T) {
	l := openTestLibrary(t)
	parent, err := l.AddTag(Tag{Name: "Old Parent"}, nil, nil)
	require.NoError(t, err)
	child, err := l.AddTag(Tag{Name: "Old Child"}, nil, nil)
	require.NoError(t, err)

	// Simulate a pre-DB100 row stored in the historically reversed
	// order: (child, parent) under the (parent_id, child_id) names.
	_, err = l.db.Exec(`DELETE FROM tag_parents`)
	require.NoError(t, err)
	_, err = l.db.Exec(`INSERT INTO tag_parents (parent_id, child_id) VALUES (?, ?)`, child.ID, parent.ID)
	require.NoError(t, err)

	require.NoError(t, l.patchDB100())

	var count int
	require.NoError(t, l.db.QueryRow(
		`SELECT COUNT(*) FROM tag_parents WHERE parent_id = ? AND child_id = ?`, parent.ID, child.ID,
	).Scan(&count))
	require.Equal(t, 1, count)
}

func TestCheckAndMigrateRefusesTooOldDatabase(t *testing.T) {
	l := openPreMigrationLibrary(t, 5)
	err := l.checkAndMigrate()
	require.Error(t, err)
	var mismatch *VersionMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestCheckAndMigrateIsNoOpWhenCurrent(t *testing.T) {
	l := openTestLibrary(t)
	require.NoError(t, l.checkAndMigrate())

	version, err := l.GetVersion(DBVersionCurrentKey)
	require.NoError(t, err)
	require.Equal(t, DBVersion, version)
}

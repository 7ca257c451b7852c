package tagstudio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultFieldsMatchesCatalogSeed(t *testing.T) {
	l := openTestLibrary(t)

	keys, err := l.DefaultFields()
	require.NoError(t, err)
	require.Contains(t, keys, "title")
	require.Contains(t, keys, "description")
	require.Contains(t, keys, "notes")
	require.Contains(t, keys, "comments")
	require.NotContains(t, keys, "composer")
}

func TestAddFieldToEntryAssignsIncrementingPositions(t *testing.T) {
	l := openTestLibrary(t)
	// in-memory library has no real root folder path; use a synthetic entry
	id, err := insertBareFolder(l)
	require.NoError(t, err)

	entryID, err := insertBareEntry(l, id, "/a/b.txt")
	require.NoError(t, err)

	f1, err := l.AddFieldToEntry(entryID, "title", "First")
	require.NoError(t, err)
	require.Equal(t, 0, f1.Position)

	f2, err := l.AddFieldToEntry(entryID, "description", "Second")
	require.NoError(t, err)
	require.Equal(t, 0, f2.Position)

	f3, err := l.AddFieldToEntry(entryID, "title", "Third title")
	require.NoError(t, err)
	require.Equal(t, 1, f3.Position)
}

func TestUpdateFieldPositionShiftsOthers(t *testing.T) {
	l := openTestLibrary(t)
	folderID, err := insertBareFolder(l)
	require.NoError(t, err)
	entryID, err := insertBareEntry(l, folderID, "/a/c.txt")
	require.NoError(t, err)

	a, err := l.AddFieldToEntry(entryID, "title", "A")
	require.NoError(t, err)
	b, err := l.AddFieldToEntry(entryID, "title", "B")
	require.NoError(t, err)
	c, err := l.AddFieldToEntry(entryID, "title", "C")
	require.NoError(t, err)

	require.NoError(t, l.UpdateFieldPosition(fieldKindText, c.ID, 0))

	reloadedA, err := l.getEntryField("text_fields", a.ID, fieldKindText)
	require.NoError(t, err)
	reloadedB, err := l.getEntryField("text_fields", b.ID, fieldKindText)
	require.NoError(t, err)
	reloadedC, err := l.getEntryField("text_fields", c.ID, fieldKindText)
	require.NoError(t, err)

	require.Equal(t, 0, reloadedC.Position)
	require.Equal(t, 1, reloadedA.Position)
	require.Equal(t, 2, reloadedB.Position)
}

func TestMirrorEntryFieldsSkipsExistingKeys(t *testing.T) {
	l := openTestLibrary(t)
	folderID, err := insertBareFolder(l)
	require.NoError(t, err)
	src, err := insertBareEntry(l, folderID, "/a/src.txt")
	require.NoError(t, err)
	dst, err := insertBareEntry(l, folderID, "/a/dst.txt")
	require.NoError(t, err)

	_, err = l.AddFieldToEntry(src, "title", "Source Title")
	require.NoError(t, err)
	_, err = l.AddFieldToEntry(dst, "title", "Existing Title")
	require.NoError(t, err)

	require.NoError(t, l.MirrorEntryFields(src, dst))

	full, err := l.GetEntryFull(dst)
	require.NoError(t, err)
	require.Len(t, full.Fields, 1)
	require.Equal(t, "Existing Title", *full.Fields[0].Text)
}

func insertBareFolder(l *Library) (int64, error) {
	res, err := l.db.Exec(`INSERT INTO folders (path, uuid) VALUES (?, ?)`, "/a", NewUUID())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertBareEntry(l *Library, folderID int64, path string) (int64, error) {
	p := NewLibraryPath(path)
	res, err := l.db.Exec(
		`INSERT INTO entries (folder_id, path, filename, suffix) VALUES (?, ?, ?, ?)`,
		folderID, p.String(), p.Filename(), p.Suffix(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

package tagstudio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAddEntriesSkipsDuplicatePaths(t *testing.T) {
	l := openTestLibrary(t)
	folderID, err := insertBareFolder(l)
	require.NoError(t, err)

	now := time.Now()
	ids, err := l.AddEntries(folderID, []Entry{{Path: NewLibraryPath("/photos/a.jpg")}}, now)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	dupe, err := l.AddEntries(folderID, []Entry{{Path: NewLibraryPath("/photos/a.jpg")}}, now)
	require.NoError(t, err)
	require.Empty(t, dupe)
}

func TestGetEntryFullStitchesTagsAndFields(t *testing.T) {
	l := openTestLibrary(t)
	folderID, err := insertBareFolder(l)
	require.NoError(t, err)
	entryID, err := insertBareEntry(l, folderID, "/photos/sunset.jpg")
	require.NoError(t, err)

	tag, err := l.AddTag(Tag{Name: "Sunset"}, nil, nil)
	require.NoError(t, err)
	_, err = l.db.Exec(`INSERT INTO tag_entries (tag_id, entry_id) VALUES (?, ?)`, tag.ID, entryID)
	require.NoError(t, err)
	_, err = l.AddFieldToEntry(entryID, "title", "Golden Hour")
	require.NoError(t, err)

	full, err := l.GetEntryFull(entryID)
	require.NoError(t, err)
	require.Equal(t, []int64{tag.ID}, full.TagIDs)
	require.Len(t, full.Fields, 1)
	require.Equal(t, "Golden Hour", *full.Fields[0].Text)
}

func TestRemoveEntriesClearsAssociations(t *testing.T) {
	l := openTestLibrary(t)
	folderID, err := insertBareFolder(l)
	require.NoError(t, err)
	entryID, err := insertBareEntry(l, folderID, "/photos/old.jpg")
	require.NoError(t, err)
	_, err = l.AddFieldToEntry(entryID, "title", "Old")
	require.NoError(t, err)

	require.NoError(t, l.RemoveEntries([]int64{entryID}))

	entry, err := l.GetEntry(entryID)
	require.NoError(t, err)
	require.Nil(t, entry)
}

func TestMergeEntriesMovesTagsAndFields(t *testing.T) {
	l := openTestLibrary(t)
	folderID, err := insertBareFolder(l)
	require.NoError(t, err)
	src, err := insertBareEntry(l, folderID, "/photos/dupe1.jpg")
	require.NoError(t, err)
	dst, err := insertBareEntry(l, folderID, "/photos/dupe2.jpg")
	require.NoError(t, err)

	tag, err := l.AddTag(Tag{Name: "Duplicate"}, nil, nil)
	require.NoError(t, err)
	_, err = l.db.Exec(`INSERT INTO tag_entries (tag_id, entry_id) VALUES (?, ?)`, tag.ID, src)
	require.NoError(t, err)
	_, err = l.AddFieldToEntry(src, "notes", "from source")
	require.NoError(t, err)

	require.NoError(t, l.MergeEntries(src, dst))

	gone, err := l.GetEntry(src)
	require.NoError(t, err)
	require.Nil(t, gone)

	full, err := l.GetEntryFull(dst)
	require.NoError(t, err)
	require.Contains(t, full.TagIDs, tag.ID)
	require.Len(t, full.Fields, 1)
}

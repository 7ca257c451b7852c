package tagstudio

import (
	"strings"
	"testing"

	"github.com/TagStudioDev/tagstudio-engine/querylang"
	"github.com/stretchr/testify/require"
)

func TestSearchLibraryByTagIncludesDescendants(t *testing.T) {
	l := openTestLibrary(t)
	folderID, err := insertBareFolder(l)
	require.NoError(t, err)

	parent, err := l.AddTag(Tag{Name: "Animal"}, nil, nil)
	require.NoError(t, err)
	child, err := l.AddTag(Tag{Name: "Dog"}, []int64{parent.ID}, nil)
	require.NoError(t, err)

	entryID, err := insertBareEntry(l, folderID, "/photos/dog.jpg")
	require.NoError(t, err)
	_, err = l.db.Exec(`INSERT INTO tag_entries (tag_id, entry_id) VALUES (?, ?)`, child.ID, entryID)
	require.NoError(t, err)

	state, err := FromSearchQuery("tag:animal")
	require.NoError(t, err)
	result, err := l.SearchLibrary(state, 0)
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalCount)
	require.Equal(t, []int64{entryID}, result.IDs)
}

func TestSearchLibrarySpecialUntagged(t *testing.T) {
	l := openTestLibrary(t)
	folderID, err := insertBareFolder(l)
	require.NoError(t, err)

	tagged, err := insertBareEntry(l, folderID, "/photos/tagged.jpg")
	require.NoError(t, err)
	untagged, err := insertBareEntry(l, folderID, "/photos/untagged.jpg")
	require.NoError(t, err)

	tag, err := l.AddTag(Tag{Name: "Keep"}, nil, nil)
	require.NoError(t, err)
	_, err = l.db.Exec(`INSERT INTO tag_entries (tag_id, entry_id) VALUES (?, ?)`, tag.ID, tagged)
	require.NoError(t, err)

	state, err := FromSearchQuery("special:untagged")
	require.NoError(t, err)
	result, err := l.SearchLibrary(state, 0)
	require.NoError(t, err)
	require.Equal(t, []int64{untagged}, result.IDs)
}

func TestSearchLibrarySpecialUnimplementedValue(t *testing.T) {
	l := openTestLibrary(t)

	state, err := FromSearchQuery("special:missing")
	require.NoError(t, err)
	_, err = l.SearchLibrary(state, 0)
	require.Error(t, err)
	var notImpl *NotImplementedError
	require.ErrorAs(t, err, &notImpl)
}

func TestSearchLibraryAndOrCombination(t *testing.T) {
	l := openTestLibrary(t)
	folderID, err := insertBareFolder(l)
	require.NoError(t, err)

	jpg, err := insertBareEntry(l, folderID, "/photos/pic.jpg")
	require.NoError(t, err)
	png, err := insertBareEntry(l, folderID, "/photos/pic.png")
	require.NoError(t, err)
	_, err = insertBareEntry(l, folderID, "/photos/doc.txt")
	require.NoError(t, err)

	state, err := FromSearchQuery("filetype:jpg OR filetype:png")
	require.NoError(t, err)
	result, err := l.SearchLibrary(state, 0)
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{jpg, png}, result.IDs)
}

func TestCompileANDListUsesRelationalDivision(t *testing.T) {
	l := openTestLibrary(t)
	folderID, err := insertBareFolder(l)
	require.NoError(t, err)

	red, err := l.AddTag(Tag{Name: "Red"}, nil, nil)
	require.NoError(t, err)
	square, err := l.AddTag(Tag{Name: "Square"}, nil, nil)
	require.NoError(t, err)

	both, err := insertBareEntry(l, folderID, "/photos/both.jpg")
	require.NoError(t, err)
	onlyRed, err := insertBareEntry(l, folderID, "/photos/red.jpg")
	require.NoError(t, err)

	_, err = l.db.Exec(`INSERT INTO tag_entries (tag_id, entry_id) VALUES (?, ?)`, red.ID, both)
	require.NoError(t, err)
	_, err = l.db.Exec(`INSERT INTO tag_entries (tag_id, entry_id) VALUES (?, ?)`, square.ID, both)
	require.NoError(t, err)
	_, err = l.db.Exec(`INSERT INTO tag_entries (tag_id, entry_id) VALUES (?, ?)`, red.ID, onlyRed)
	require.NoError(t, err)

	ast, err := querylang.Parse("tag:red AND tag:square")
	require.NoError(t, err)

	compiler := &sqlCompiler{lib: l}
	frag, err := compiler.Compile(ast)
	require.NoError(t, err)
	require.Contains(t, frag.clause, "HAVING COUNT(DISTINCT tag_id) = 2")

	state, err := FromSearchQuery("tag:red AND tag:square")
	require.NoError(t, err)
	result, err := l.SearchLibrary(state, 0)
	require.NoError(t, err)
	require.Equal(t, []int64{both}, result.IDs)
}

func TestCompileORListUnionsTagIDs(t *testing.T) {
	l := openTestLibrary(t)
	folderID, err := insertBareFolder(l)
	require.NoError(t, err)

	red, err := l.AddTag(Tag{Name: "Red"}, nil, nil)
	require.NoError(t, err)
	blue, err := l.AddTag(Tag{Name: "Blue"}, nil, nil)
	require.NoError(t, err)

	redEntry, err := insertBareEntry(l, folderID, "/photos/red.jpg")
	require.NoError(t, err)
	blueEntry, err := insertBareEntry(l, folderID, "/photos/blue.jpg")
	require.NoError(t, err)

	_, err = l.db.Exec(`INSERT INTO tag_entries (tag_id, entry_id) VALUES (?, ?)`, red.ID, redEntry)
	require.NoError(t, err)
	_, err = l.db.Exec(`INSERT INTO tag_entries (tag_id, entry_id) VALUES (?, ?)`, blue.ID, blueEntry)
	require.NoError(t, err)

	ast, err := querylang.Parse("tag:red OR tag:blue")
	require.NoError(t, err)

	compiler := &sqlCompiler{lib: l}
	frag, err := compiler.Compile(ast)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(frag.clause, "EXISTS"))

	state, err := FromSearchQuery("tag:red OR tag:blue")
	require.NoError(t, err)
	result, err := l.SearchLibrary(state, 0)
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{redEntry, blueEntry}, result.IDs)
}

func TestCompilePathSmartMatching(t *testing.T) {
	l := openTestLibrary(t)
	folderID, err := insertBareFolder(l)
	require.NoError(t, err)

	lower, err := insertBareEntry(l, folderID, "/photos/beach.jpg")
	require.NoError(t, err)
	_, err = insertBareEntry(l, folderID, "/photos/BEACH.jpg")
	require.NoError(t, err)

	state, err := FromSearchQuery(`path:beach`)
	require.NoError(t, err)
	result, err := l.SearchLibrary(state, 0)
	require.NoError(t, err)
	require.Len(t, result.IDs, 2)

	exactState, err := FromSearchQuery(`path:"/photos/BEACH.jpg"`)
	require.NoError(t, err)
	exactResult, err := l.SearchLibrary(exactState, 0)
	require.NoError(t, err)
	require.Len(t, exactResult.IDs, 1)
	require.NotEqual(t, lower, exactResult.IDs[0])
}

package tagstudio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestLibrary(t *testing.T) *Library {
	t.Helper()
	l, err := OpenLibrary(":memory:", DefaultEngineOptions(), false)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestOpenLibraryCreatesSchemaAndSeeds(t *testing.T) {
	l := openTestLibrary(t)

	namespaces, err := l.Namespaces()
	require.NoError(t, err)
	require.Len(t, namespaces, 6)

	archived, err := l.GetTag(TagArchived)
	require.NoError(t, err)
	require.NotNil(t, archived)
	require.Equal(t, "Archived", archived.Name)

	favorite, err := l.GetTag(TagFavorite)
	require.NoError(t, err)
	require.NotNil(t, favorite)
	require.Equal(t, "Favorite", favorite.Name)

	version, err := l.GetVersion(DBVersionCurrentKey)
	require.NoError(t, err)
	require.Equal(t, DBVersion, version)
}

func TestPrefsRoundTrip(t *testing.T) {
	l := openTestLibrary(t)

	empty, err := l.Prefs("page_size")
	require.NoError(t, err)
	require.Equal(t, "", empty)

	require.NoError(t, l.SetPrefs("page_size", "500"))
	got, err := l.Prefs("page_size")
	require.NoError(t, err)
	require.Equal(t, "500", got)

	require.NoError(t, l.SetPrefs("page_size", "250"))
	got, err = l.Prefs("page_size")
	require.NoError(t, err)
	require.Equal(t, "250", got)
}

func TestVerifyTagStudioFolder(t *testing.T) {
	require.False(t, VerifyTagStudioFolder(t.TempDir()))
}

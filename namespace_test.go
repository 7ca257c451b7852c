package tagstudio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddNamespaceRejectsReservedPrefix(t *testing.T) {
	l := openTestLibrary(t)

	err := l.AddNamespace(Namespace{Namespace: "tagstudio-custom", Name: "Should fail"})
	require.Error(t, err)
	var reservedErr *ReservedNamespaceError
	require.ErrorAs(t, err, &reservedErr)
}

func TestAddNamespaceAcceptsUserSlug(t *testing.T) {
	l := openTestLibrary(t)

	require.NoError(t, l.AddNamespace(Namespace{Namespace: "my-namespace", Name: "My Namespace"}))

	name, err := l.NamespaceName("my-namespace")
	require.NoError(t, err)
	require.Equal(t, "My Namespace", name)
}

func TestDeleteNamespaceCascadesColors(t *testing.T) {
	l := openTestLibrary(t)
	require.NoError(t, l.AddNamespace(Namespace{Namespace: "scratch", Name: "Scratch"}))
	require.NoError(t, l.AddColor(TagColorGroup{Slug: "x", Namespace: "scratch", Name: "X", Primary: "#000000"}))

	require.NoError(t, l.DeleteNamespace("scratch"))

	color, err := l.GetTagColor("scratch", "x")
	require.NoError(t, err)
	require.Nil(t, color)
}

func TestTagColorGroupsIncludesEmptyNamespaces(t *testing.T) {
	l := openTestLibrary(t)
	require.NoError(t, l.AddNamespace(Namespace{Namespace: "empty-ns", Name: "Empty"}))

	groups, err := l.TagColorGroups()
	require.NoError(t, err)
	colors, ok := groups["empty-ns"]
	require.True(t, ok)
	require.Empty(t, colors)

	standard, ok := groups["tagstudio-standard"]
	require.True(t, ok)
	require.NotEmpty(t, standard)
}

func TestUpdateColorRewritesTagReferences(t *testing.T) {
	l := openTestLibrary(t)
	red := "tagstudio-standard"
	tag, err := l.AddTag(Tag{Name: "stop sign", ColorNamespace: &red}, nil, nil)
	require.NoError(t, err)
	slug := "red"
	tag.ColorSlug = &slug
	_, err = l.UpdateTag(*tag, nil, nil)
	require.NoError(t, err)

	old := TagColorGroup{Namespace: "tagstudio-standard", Slug: "red"}
	renamed := TagColorGroup{Namespace: "tagstudio-standard", Slug: "crimson", Name: "Crimson", Primary: "#E22C3C"}
	require.NoError(t, l.UpdateColor(old, renamed))

	reloaded, err := l.GetTag(tag.ID)
	require.NoError(t, err)
	require.Equal(t, "crimson", *reloaded.ColorSlug)
}

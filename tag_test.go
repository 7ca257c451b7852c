package tagstudio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddTagAndRetrieveByName(t *testing.T) {
	l := openTestLibrary(t)

	created, err := l.AddTag(Tag{Name: "Landscape"}, nil, []string{"Scenery"})
	require.NoError(t, err)
	require.NotNil(t, created)
	require.NotZero(t, created.ID)
	require.ElementsMatch(t, []string{"Scenery"}, created.Aliases)

	byAlias, err := l.GetTagByName("scenery")
	require.NoError(t, err)
	require.NotNil(t, byAlias)
	require.Equal(t, created.ID, byAlias.ID)
}

func TestAddParentTagRejectsSelfEdge(t *testing.T) {
	l := openTestLibrary(t)
	tag, err := l.AddTag(Tag{Name: "Self"}, nil, nil)
	require.NoError(t, err)

	ok, err := l.AddParentTag(tag.ID, tag.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGetTagHierarchyWalksAncestors(t *testing.T) {
	l := openTestLibrary(t)

	grandparent, err := l.AddTag(Tag{Name: "Nature"}, nil, nil)
	require.NoError(t, err)
	parent, err := l.AddTag(Tag{Name: "Plants"}, []int64{grandparent.ID}, nil)
	require.NoError(t, err)
	child, err := l.AddTag(Tag{Name: "Trees"}, []int64{parent.ID}, nil)
	require.NoError(t, err)

	hierarchy, err := l.GetTagHierarchy([]int64{child.ID})
	require.NoError(t, err)
	require.Contains(t, hierarchy, parent.ID)
	require.Contains(t, hierarchy, grandparent.ID)
}

func TestUpdateParentTagsClearsStaleDisambiguation(t *testing.T) {
	l := openTestLibrary(t)

	disam, err := l.AddTag(Tag{Name: "Bass (fish)"}, nil, nil)
	require.NoError(t, err)
	id := disam.ID
	fish, err := l.AddTag(Tag{Name: "Bass", DisambiguationID: &id}, []int64{disam.ID}, nil)
	require.NoError(t, err)

	require.NoError(t, l.UpdateParentTags(fish.ID, nil))

	reloaded, err := l.GetTag(fish.ID)
	require.NoError(t, err)
	require.Nil(t, reloaded.DisambiguationID)
}

func TestRemoveTagClearsDisambiguationReferences(t *testing.T) {
	l := openTestLibrary(t)
	disam, err := l.AddTag(Tag{Name: "Guitar (instrument)"}, nil, nil)
	require.NoError(t, err)
	id := disam.ID
	tag, err := l.AddTag(Tag{Name: "Guitar", DisambiguationID: &id}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, l.RemoveTag(disam.ID))

	reloaded, err := l.GetTag(tag.ID)
	require.NoError(t, err)
	require.Nil(t, reloaded.DisambiguationID)
}

func TestTagDisplayNameSentinels(t *testing.T) {
	l := openTestLibrary(t)

	plain, err := l.AddTag(Tag{Name: "Ocean"}, nil, nil)
	require.NoError(t, err)
	display, err := l.TagDisplayName(plain)
	require.NoError(t, err)
	require.Equal(t, "Ocean", display)

	missingID := int64(999999)
	withMissingDisam, err := l.AddTag(Tag{Name: "Bat", DisambiguationID: &missingID}, nil, nil)
	require.NoError(t, err)
	display, err = l.TagDisplayName(withMissingDisam)
	require.NoError(t, err)
	require.Equal(t, "<NO DISAM TAG>", display)

	display, err = l.TagDisplayName(nil)
	require.NoError(t, err)
	require.Equal(t, "<NO TAG>", display)
}

func TestSearchTagsReturnsDirectAndAncestors(t *testing.T) {
	l := openTestLibrary(t)
	parent, err := l.AddTag(Tag{Name: "Animal"}, nil, nil)
	require.NoError(t, err)
	_, err = l.AddTag(Tag{Name: "Animal Friend", Shorthand: nil}, []int64{parent.ID}, nil)
	require.NoError(t, err)

	direct, ancestors, err := l.SearchTags("friend", 0)
	require.NoError(t, err)
	require.Len(t, direct, 1)
	require.Len(t, ancestors, 1)
	require.Equal(t, parent.ID, ancestors[0].ID)
}

package tagstudio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFiletypeEquivalentsGroupsJpgVariants(t *testing.T) {
	set := getFiletypeEquivalencyList("jpeg")
	require.Contains(t, set, "jpg")
	require.Contains(t, set, "jpeg")
	require.Contains(t, set, "jfif")
}

func TestFiletypeEquivalentsFallsBackToSingleton(t *testing.T) {
	set := getFiletypeEquivalencyList("psd")
	require.Equal(t, map[string]struct{}{"psd": {}}, set)
}

func TestMediaCategoryByNameIsCaseSensitiveToCatalogKeys(t *testing.T) {
	cat := mediaCategoryByName("image")
	require.NotNil(t, cat)
	require.Contains(t, cat.Extensions, "png")

	require.Nil(t, mediaCategoryByName("Image"))
	require.Nil(t, mediaCategoryByName("not-a-real-category"))
}

package tagstudio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLibraryPathNormalizesBackslashes(t *testing.T) {
	p := NewLibraryPath(`C:\Users\alex\photo.JPG`)
	require.Equal(t, "C:/Users/alex/photo.JPG", p.String())
	require.Equal(t, "photo.JPG", p.Filename())
	require.Equal(t, "jpg", p.Suffix())
}

func TestLibraryPathSuffixEmptyWhenNoExtension(t *testing.T) {
	p := NewLibraryPath("/a/b/README")
	require.Equal(t, "", p.Suffix())
}

package transport

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveURIAddsTrailingSlashBeforeResolving(t *testing.T) {
	base, err := url.Parse("https://repo.example.com/group/artifact")
	require.NoError(t, err)
	ref := &url.URL{Path: "1.0/artifact.jar"}

	resolved := ResolveURI(base, ref)
	assert.Equal(t, "https://repo.example.com/group/artifact/1.0/artifact.jar", resolved.String())
}

func TestResolveURIPreservesSchemeAndAuthority(t *testing.T) {
	base, err := url.Parse("https://repo.example.com/repo/")
	require.NoError(t, err)
	ref := &url.URL{Path: "g/a/1.0/a-1.0.jar"}

	resolved := ResolveURI(base, ref)
	assert.Equal(t, base.Scheme, resolved.Scheme)
	assert.Equal(t, base.Host, resolved.Host)
}

func TestResolveURIEmptyRefPathLeavesBaseAlone(t *testing.T) {
	base, err := url.Parse("https://repo.example.com/repo")
	require.NoError(t, err)
	ref := &url.URL{}

	resolved := ResolveURI(base, ref)
	assert.Equal(t, base.String(), resolved.String())
}

func TestDirectoriesEnumeratesAncestorsDeepestFirst(t *testing.T) {
	base, err := url.Parse("https://repo.example.com/")
	require.NoError(t, err)
	target, err := url.Parse("https://repo.example.com/dir1/dir2/file.txt")
	require.NoError(t, err)

	dirs := Directories(base, target)
	require.Len(t, dirs, 2)
	assert.Equal(t, "/dir1/dir2/", dirs[0].Path)
	assert.Equal(t, "/dir1/", dirs[1].Path)
}

func TestDirectoriesNeverIncludesBaseOrRoot(t *testing.T) {
	base, err := url.Parse("https://repo.example.com/")
	require.NoError(t, err)
	target, err := url.Parse("https://repo.example.com/top-level-file.txt")
	require.NoError(t, err)

	dirs := Directories(base, target)
	for _, d := range dirs {
		assert.NotEqual(t, "/", d.Path)
		assert.NotEqual(t, base.Path, d.Path)
	}
}

func TestDirectoriesStopsAtBaseWhenBaseIsNested(t *testing.T) {
	base, err := url.Parse("https://repo.example.com/releases/")
	require.NoError(t, err)
	target, err := url.Parse("https://repo.example.com/releases/g/a/1.0/a.jar")
	require.NoError(t, err)

	dirs := Directories(base, target)
	for _, d := range dirs {
		assert.NotEqual(t, base.Path, d.Path)
	}
	// the enumeration must not escape above /releases/.
	for _, d := range dirs {
		assert.Contains(t, d.Path, "/releases/")
	}
}

package coordinate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultsExtension(t *testing.T) {
	c := New("g", "a", "", "", "1.0")
	assert.Equal(t, DefaultExtension, c.Extension)
}

func TestNewKeepsExplicitExtension(t *testing.T) {
	c := New("g", "a", "", "zip", "1.0")
	assert.Equal(t, "zip", c.Extension)
}

func TestStringWithoutClassifier(t *testing.T) {
	c := New("g", "a", "", "jar", "1.0")
	assert.Equal(t, "g:a:jar:1.0", c.String())
}

func TestStringWithClassifier(t *testing.T) {
	c := New("g", "a", "sources", "jar", "1.0")
	assert.Equal(t, "g:a:jar:sources:1.0", c.String())
}

func TestWithVersionReturnsCopy(t *testing.T) {
	c := New("g", "a", "", "jar", "1.0")
	updated := c.WithVersion("2.0")
	assert.Equal(t, "1.0", c.Version, "original must be unchanged")
	assert.Equal(t, "2.0", updated.Version)
}

func TestIdentityIgnoresVersion(t *testing.T) {
	a := New("g", "a", "", "jar", "1.0")
	b := New("g", "a", "", "jar", "2.0")
	assert.Equal(t, a.Identity(), b.Identity())
}

func TestIdentityDistinguishesClassifier(t *testing.T) {
	a := New("g", "a", "", "jar", "1.0")
	b := New("g", "a", "sources", "jar", "1.0")
	assert.NotEqual(t, a.Identity(), b.Identity())
}

func TestExclusionMatchesWildcards(t *testing.T) {
	id := New("g", "a", "", "jar", "1.0").Identity()

	assert.True(t, Exclusion{GroupID: "*", ArtifactID: "*"}.Matches(id))
	assert.True(t, Exclusion{GroupID: "g", ArtifactID: "*"}.Matches(id))
	assert.True(t, Exclusion{GroupID: "*", ArtifactID: "a"}.Matches(id))
	assert.False(t, Exclusion{GroupID: "other", ArtifactID: "a"}.Matches(id))
}

func TestDependencyIsExcluded(t *testing.T) {
	dep := Dependency{
		Artifact:   New("g", "a", "", "jar", "1.0"),
		Exclusions: []Exclusion{{GroupID: "excluded", ArtifactID: "*"}},
	}

	excluded := New("excluded", "anything", "", "jar", "1.0").Identity()
	kept := New("kept", "anything", "", "jar", "1.0").Identity()

	assert.True(t, dep.IsExcluded(excluded))
	assert.False(t, dep.IsExcluded(kept))
}

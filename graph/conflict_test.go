package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gruntwork-io/artifact-resolver/coordinate"
)

func TestMarkConflictIDsGroupsByIdentityIgnoringVersion(t *testing.T) {
	root := NewNode(nil)
	a1 := NewNode(dep("a", "1.0"))
	a2 := NewNode(dep("a", "2.0"))
	root.AddChild(a1)
	root.AddChild(a2)

	ids, meta := MarkConflictIDs(root)

	assert.Equal(t, ids[a1], ids[a2])
	assert.NotContains(t, ids, root)
	assert.Equal(t, 1, meta[a1].Depth)
	assert.Equal(t, 1, meta[a2].Depth)
}

func TestMarkConflictIDsDifferentArtifactsGetDifferentIDs(t *testing.T) {
	root := NewNode(nil)
	a := NewNode(dep("a", "1.0"))
	b := NewNode(dep("b", "1.0"))
	root.AddChild(a)
	root.AddChild(b)

	ids, _ := MarkConflictIDs(root)
	assert.NotEqual(t, ids[a], ids[b])
}

func TestMarkConflictIDsDistinguishesClassifierAndExtension(t *testing.T) {
	root := NewNode(nil)
	jar := NewNode(&coordinate.Dependency{Artifact: coordinate.New("g", "a", "", "jar", "1.0")})
	sources := NewNode(&coordinate.Dependency{Artifact: coordinate.New("g", "a", "sources", "jar", "1.0")})
	root.AddChild(jar)
	root.AddChild(sources)

	ids, _ := MarkConflictIDs(root)
	assert.NotEqual(t, ids[jar], ids[sources])
}

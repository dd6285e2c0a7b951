package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruntwork-io/artifact-resolver/coordinate"
	"github.com/gruntwork-io/artifact-resolver/graph"
)

func newDepNode(artifactID, version, scope string) *graph.DependencyNode {
	return graph.NewNode(&coordinate.Dependency{
		Artifact: coordinate.New("g", artifactID, "", "", version),
		Scope:    scope,
	})
}

// TestTransformNearestWins exercises spec scenario 5: A -> B -> X@1.0 and
// A -> C -> D -> X@2.0; X@1.0 is nearer (depth 2 vs 3) and must win.
func TestTransformNearestWins(t *testing.T) {
	root := graph.NewNode(nil)
	b := newDepNode("b", "1.0", coordinate.ScopeCompile)
	x1 := newDepNode("x", "1.0", coordinate.ScopeCompile)
	b.AddChild(x1)

	c := newDepNode("c", "1.0", coordinate.ScopeCompile)
	d := newDepNode("d", "1.0", coordinate.ScopeCompile)
	x2 := newDepNode("x", "2.0", coordinate.ScopeCompile)
	d.AddChild(x2)
	c.AddChild(d)

	root.AddChild(b)
	root.AddChild(c)

	ids, meta := graph.MarkConflictIDs(root)
	r := NewResolver(nil, nil, nil, false)
	require.NoError(t, r.Transform(root, &Context{ConflictIDs: ids, NodeMeta: meta}))

	require.Len(t, b.Children.Children, 1)
	assert.Equal(t, "1.0", b.Children.Children[0].Dependency.Artifact.Version)

	require.Len(t, d.Children.Children, 0, "the losing x@2.0 must be spliced out of d's children")
}

// TestTransformVerboseRetainsLoserAsAnnotatedClone exercises spec §7's
// verbose mode: losers survive as childless clones pointing at the winner.
func TestTransformVerboseRetainsLoserAsAnnotatedClone(t *testing.T) {
	root := graph.NewNode(nil)
	b := newDepNode("b", "1.0", coordinate.ScopeCompile)
	x1 := newDepNode("x", "1.0", coordinate.ScopeCompile)
	b.AddChild(x1)

	c := newDepNode("c", "1.0", coordinate.ScopeCompile)
	x2 := newDepNode("x", "2.0", coordinate.ScopeCompile)
	c.AddChild(x2)

	root.AddChild(b)
	root.AddChild(c)

	ids, meta := graph.MarkConflictIDs(root)
	r := NewResolver(nil, nil, nil, true)
	require.NoError(t, r.Transform(root, &Context{ConflictIDs: ids, NodeMeta: meta}))

	require.Len(t, c.Children.Children, 1)
	loser := c.Children.Children[0]
	winner, ok := loser.Data["conflict.winner"].(*graph.DependencyNode)
	require.True(t, ok)
	assert.Equal(t, "1.0", winner.Dependency.Artifact.Version)
	assert.Empty(t, loser.Children.Children)
}

// TestTransformScopeDerivationDominance exercises spec scenario
// 6: a provided-scope path and a compile-scope path to the same artifact;
// the conventional selector pools derived scopes and applies dominance.
func TestTransformScopeDerivationDominance(t *testing.T) {
	root := graph.NewNode(nil)

	providedParent := newDepNode("p", "1.0", coordinate.ScopeProvided)
	viaProvided := newDepNode("x", "1.0", coordinate.ScopeCompile)
	providedParent.AddChild(viaProvided)

	compileParent := newDepNode("q", "1.0", coordinate.ScopeCompile)
	viaCompile := newDepNode("x", "1.0", coordinate.ScopeRuntime)
	compileParent.AddChild(viaCompile)

	root.AddChild(providedParent)
	root.AddChild(compileParent)

	ids, meta := graph.MarkConflictIDs(root)
	r := NewResolver(nil, nil, nil, false)
	require.NoError(t, r.Transform(root, &Context{ConflictIDs: ids, NodeMeta: meta}))

	// Exactly one of the two candidate nodes should remain (the other
	// spliced out by conflict resolution), and it should carry the
	// dominance-ordered scope (runtime beats provided).
	var survivors []*graph.DependencyNode
	if len(providedParent.Children.Children) == 1 {
		survivors = append(survivors, providedParent.Children.Children[0])
	}
	if len(compileParent.Children.Children) == 1 {
		survivors = append(survivors, compileParent.Children.Children[0])
	}
	require.Len(t, survivors, 1)
	assert.Equal(t, coordinate.ScopeRuntime, survivors[0].Dependency.Scope)
}

func TestConventionalScopeDeriverTable(t *testing.T) {
	assert.Equal(t, coordinate.ScopeProvided, ConventionalScopeDeriver(coordinate.ScopeProvided, coordinate.ScopeRuntime))
	assert.Equal(t, coordinate.ScopeTest, ConventionalScopeDeriver(coordinate.ScopeProvided, coordinate.ScopeTest))
	assert.Equal(t, coordinate.ScopeCompile, ConventionalScopeDeriver(coordinate.ScopeCompile, coordinate.ScopeCompile))
	assert.Equal(t, coordinate.ScopeTest, ConventionalScopeDeriver(coordinate.ScopeTest, coordinate.ScopeRuntime))
}

func TestNearestWinsVersionSelectorEmptyIsError(t *testing.T) {
	_, err := NearestWinsVersionSelector(nil)
	assert.Error(t, err)
}

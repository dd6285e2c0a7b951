package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gruntwork-io/artifact-resolver/coordinate"
)

func dep(artifactID, version string) *coordinate.Dependency {
	return &coordinate.Dependency{
		Artifact: coordinate.New("g", artifactID, "", "", version),
		Scope:    coordinate.ScopeCompile,
	}
}

func TestWriteDOT(t *testing.T) {
	root := NewNode(nil)
	a := NewNode(dep("a", "1.0"))
	b := NewNode(dep("b", "1.0"))
	root.AddChild(a)
	root.AddChild(b)
	a.AddChild(NewNode(dep("c", "1.0")))

	var buf bytes.Buffer
	require := assert.New(t)
	require.NoError(WriteDOT(&buf, root, nil))

	out := buf.String()
	require.True(strings.Contains(out, `"root" ;`))
	require.True(strings.Contains(out, `"g:a:jar:1.0" ;`))
	require.True(strings.Contains(out, `"root" -> "g:a:jar:1.0";`))
	require.True(strings.Contains(out, `"g:a:jar:1.0" -> "g:c:jar:1.0";`))
}

func TestWriteDOTRendersVerboseLoserBackEdge(t *testing.T) {
	root := NewNode(nil)
	winner := NewNode(dep("a", "2.0"))
	loser := NewNode(dep("a", "1.0"))
	loser.SetData("conflict.winner", winner)
	root.AddChild(winner)
	root.AddChild(loser)

	var buf bytes.Buffer
	assert.NoError(t, WriteDOT(&buf, root, nil))
	assert.Contains(t, buf.String(), `style=dashed`)
}

func TestWriteDOTToleratesSharedChildList(t *testing.T) {
	root := NewNode(nil)
	a := NewNode(dep("a", "1.0"))
	b := NewNode(dep("b", "1.0"))
	a.ShareChildrenWith(b)
	root.AddChild(a)
	root.AddChild(b)

	var buf bytes.Buffer
	assert.NoError(t, WriteDOT(&buf, root, nil))
}

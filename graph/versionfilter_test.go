package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gruntwork-io/artifact-resolver/coordinate"
)

func TestSemanticVersionFilterSortsDescendingAndDropsUnparsable(t *testing.T) {
	art := coordinate.Coordinate{GroupID: "g", ArtifactID: "a"}
	candidates := []string{"1.0.0", "not-a-version", "1.2.0", "1.1.5"}

	filtered := SemanticVersionFilter(art, candidates)
	assert.Equal(t, []string{"1.2.0", "1.1.5", "1.0.0"}, filtered)
}

func TestSemanticVersionFilterEmptyInput(t *testing.T) {
	art := coordinate.Coordinate{GroupID: "g", ArtifactID: "a"}
	assert.Empty(t, SemanticVersionFilter(art, nil))
}

package graph

import (
	"fmt"

	"github.com/gruntwork-io/artifact-resolver/coordinate"
)

// ConflictID is the equivalence-class key assigned to every node; two nodes
// belong to the same conflict group iff they denote the same artifact
// identity (groupId+artifactId+extension+classifier, version ignored).
type ConflictID string

func conflictIDFor(id coordinate.Identity) ConflictID {
	return ConflictID(fmt.Sprintf("%s:%s:%s:%s", id.GroupID, id.ArtifactID, id.Extension, id.Classifier))
}

// ConflictIDs is the side table produced by ConflictMarker: node identity ->
// conflict id. It is intentionally not stored on DependencyNode itself
// (spec §3 "Computed once... and stored externally in a side table").
type ConflictIDs map[*DependencyNode]ConflictID

// NodeMeta records the smallest depth (from the root) a node was observed at
// and its declaration order at that visit, which the ConflictIdSorter
// (SortConflictIDs) uses as tie-breakers.
type NodeMeta struct {
	Depth int
	Seq   int64
}

// MarkConflictIDs walks root and assigns every node a ConflictID. Root nodes
// that carry no Dependency are excluded (they have no artifact identity).
// It also returns per-node depth/declaration-order metadata.
func MarkConflictIDs(root *DependencyNode) (ConflictIDs, map[*DependencyNode]NodeMeta) {
	ids := ConflictIDs{}
	meta := map[*DependencyNode]NodeMeta{}
	var seq int64

	Walk(root, func(n *DependencyNode, depth int) bool {
		if n.Dependency != nil {
			ids[n] = conflictIDFor(n.Dependency.Artifact.Identity())
		}
		if existing, ok := meta[n]; !ok || depth < existing.Depth {
			meta[n] = NodeMeta{Depth: depth, Seq: seq}
		}
		seq++
		return true
	})

	return ids, meta
}

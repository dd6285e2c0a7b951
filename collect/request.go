// Package collect implements the dependency collector (spec §4.1, C1): it
// expands a root artifact's direct dependencies into a full, possibly
// cyclic dependency tree by repeatedly reading descriptors, applying
// dependency management, and recursing -- then hands the tree to the C2
// conflict resolver so callers receive an already-reduced graph.
package collect

import (
	"github.com/gruntwork-io/artifact-resolver/coordinate"
	"github.com/gruntwork-io/artifact-resolver/graph"
)

// Request describes one collection (spec §4.1): either a bare root artifact
// or a fully-formed root dependency, its direct dependencies, the managed
// dependencies that apply from the start, and the repositories to resolve
// against.
type Request struct {
	RootArtifact   *coordinate.Coordinate
	RootDependency *coordinate.Dependency

	Dependencies        []coordinate.Dependency
	ManagedDependencies []coordinate.Dependency
	Repositories        []string
}

// Result is the outcome of a Collect call: the (already conflict-resolved)
// tree rooted at Root, plus every non-fatal exception the walk accumulated
// along the way (spec §4.1 "Errors": "collection does not abort on a single
// node's failure; it records the exception against that node's subtree and
// continues").
type Result struct {
	Root       *graph.DependencyNode
	Exceptions []error
}

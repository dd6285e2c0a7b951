package graph

import "github.com/gruntwork-io/artifact-resolver/coordinate"

// The types below are the "polymorphic selectors/deriver" capabilities spec
// §9 calls for: single-method capabilities the caller supplies through the
// session, never a global registry. They live in package graph (rather than
// package session or collect) purely to break the import cycle those two
// packages would otherwise form over these shared types.

// DependencyTraverser decides whether a node's children should be expanded
// during collection (spec §4.1). false stops the DFS from descending.
type DependencyTraverser func(node *DependencyNode) bool

// DependencySelector rejects a child dependency outright before it is ever
// turned into a node (spec §4.1).
type DependencySelector func(dep coordinate.Dependency) bool

// ManagementInfo records which fields a DependencyManager changed, so the
// node can retain a PreManagementSnapshot of the original values.
type ManagementInfo struct {
	Bits ManagedBits
	Pre  PreManagementSnapshot
}

// DependencyManager applies ancestor dependency-management declarations to a
// child dependency, returning the (possibly rewritten) dependency and a
// record of what changed (spec §4.1).
type DependencyManager func(managed []coordinate.Dependency, dep coordinate.Dependency) (coordinate.Dependency, ManagementInfo)

// VersionFilter filters an ordered list of candidate version strings
// produced by expanding a version range (spec §4.1 step 1).
type VersionFilter func(art coordinate.Coordinate, candidates []string) []string

// ConflictItem is a candidate considered during conflict resolution: the
// node, which parent child-list it was reached through, the depth it was
// recorded at, and the set of derived scopes it has been visited with via
// different paths (spec §4.2).
type ConflictItem struct {
	Parent        *ChildList
	Node          *DependencyNode
	Depth         int
	DerivedScopes map[string]bool
}

// AddDerivedScope records scope as one of the scopes this item has been
// reached under.
func (c *ConflictItem) AddDerivedScope(scope string) {
	if c.DerivedScopes == nil {
		c.DerivedScopes = map[string]bool{}
	}
	c.DerivedScopes[scope] = true
}

// VersionSelector picks the winning ConflictItem among those sharing a
// conflict id. Must return a non-nil winner or a non-nil error (spec §4.2
// "Failure to do so is a fatal resolution error").
type VersionSelector func(items []*ConflictItem) (*ConflictItem, error)

// ScopeSelector picks the effective scope for the winner after inspecting
// the derived scopes observed across all items (spec §4.2).
type ScopeSelector func(items []*ConflictItem, winner *ConflictItem) (string, error)

// ScopeDeriver computes a child's effective scope given its parent's derived
// scope and the child's own declared scope (spec §4.2).
type ScopeDeriver func(parentScope, childScope string) string

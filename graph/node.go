// Package graph implements the dependency-graph data model and traversal
// primitives (spec §3, §4.3, C3): node allocation, managed-attribute masks,
// child-list identity, conflict-id marking and topological sorting.
package graph

import (
	"sync/atomic"

	"github.com/gruntwork-io/artifact-resolver/coordinate"
)

// ManagedBits records which of a node's attributes were overridden by
// dependency management (spec §3).
type ManagedBits uint8

const (
	ManagedScope ManagedBits = 1 << iota
	ManagedVersion
	ManagedOptional
	ManagedExclusions
	ManagedProperties
)

// Has reports whether bit is set.
func (b ManagedBits) Has(bit ManagedBits) bool { return b&bit != 0 }

// PreManagementSnapshot preserves the attribute values a node carried before
// dependency management overrode them, so a caller can explain what changed.
type PreManagementSnapshot struct {
	Scope      string
	Version    string
	Optional   bool
	Exclusions []coordinate.Exclusion
}

// ChildList is the owned, ordered list of a node's children. Its identity
// (the pointer itself) is what the conflict resolver keys its per-node
// bookkeeping on -- two DependencyNodes MAY deliberately share the same
// *ChildList to save memory, and the resolver treats that as one node for
// visit-tracking purposes (spec §9 "Child-list identity").
type ChildList struct {
	ID       int64
	Children []*DependencyNode
}

var nextListID int64

func newChildList() *ChildList {
	return &ChildList{ID: atomic.AddInt64(&nextListID, 1)}
}

// DependencyNode is the graph vertex (spec §3).
type DependencyNode struct {
	id int64

	// Dependency is nil for root nodes that carry only a bare artifact.
	Dependency *coordinate.Dependency

	Children *ChildList

	// Repositories lists the remote repositories considered when resolving
	// this node; opaque to the core (spec §1 -- repository layout is an
	// external collaborator), represented here as repository identifiers.
	Repositories []string

	ManagedBits   ManagedBits
	PreManagement PreManagementSnapshot

	// RequestContext is a free-form tag, defaulting to "project".
	RequestContext string

	// Data is the free-form transformer annotation map (e.g.
	// data["conflict.winner"], data["cyclic-parent"]).
	Data map[string]interface{}
}

var nextNodeID int64

// NewNode allocates a node with a fresh child list and the default request
// context. dep may be nil for a root node.
func NewNode(dep *coordinate.Dependency) *DependencyNode {
	return &DependencyNode{
		id:             atomic.AddInt64(&nextNodeID, 1),
		Dependency:     dep,
		Children:       newChildList(),
		RequestContext: "project",
	}
}

// ID returns the node's monotonically increasing allocation id, used for
// cross-references in place of owning pointers when modeling cyclic back-
// edges (spec §9 "arena+index allocation").
func (n *DependencyNode) ID() int64 { return n.id }

// AddChild appends child to n's child list.
func (n *DependencyNode) AddChild(child *DependencyNode) {
	n.Children.Children = append(n.Children.Children, child)
}

// ShareChildrenWith makes n and other address the same *ChildList, the
// deliberate aliasing spec §9 calls out.
func (n *DependencyNode) ShareChildrenWith(other *DependencyNode) {
	other.Children = n.Children
}

// SetData sets a key in the node's annotation map, allocating it lazily.
func (n *DependencyNode) SetData(key string, value interface{}) {
	if n.Data == nil {
		n.Data = map[string]interface{}{}
	}
	n.Data[key] = value
}

// DataString returns n.Data[key] as a string, or "" if absent/wrong type.
func (n *DependencyNode) DataString(key string) string {
	v, _ := n.Data[key].(string)
	return v
}

// MarkCyclic annotates n as a leaf produced because its identity matched an
// ancestor on the DFS stack (spec §4.1 "Cycle handling"); back-edges are
// recorded as data annotations, not direct pointers, so the graph remains a
// tree even when the logical dependency relation is cyclic.
func (n *DependencyNode) MarkCyclic(ancestor *DependencyNode) {
	n.SetData("cyclic-parent", ancestor.ID())
}

// IsCyclic reports whether n was truncated by cycle handling.
func (n *DependencyNode) IsCyclic() bool {
	_, ok := n.Data["cyclic-parent"]
	return ok
}

// Scope returns the effective scope, defaulting to compile for root nodes
// without a dependency.
func (n *DependencyNode) Scope() string {
	if n.Dependency == nil {
		return coordinate.ScopeCompile
	}
	return n.Dependency.Scope
}

// Walk performs a pre-order traversal of the tree rooted at n, calling visit
// for every node including n itself. visit returning false prunes that
// node's children. Walk tolerates cycles introduced by shared *ChildLists by
// tracking visited list identities.
func Walk(root *DependencyNode, visit func(node *DependencyNode, depth int) bool) {
	seen := map[*ChildList]bool{}
	var rec func(n *DependencyNode, depth int)
	rec = func(n *DependencyNode, depth int) {
		if !visit(n, depth) {
			return
		}
		if n.Children == nil || seen[n.Children] {
			return
		}
		seen[n.Children] = true
		for _, child := range n.Children.Children {
			rec(child, depth+1)
		}
	}
	rec(root, 0)
}

package resolve

import (
	resolverrors "github.com/gruntwork-io/artifact-resolver/errors"
	"github.com/gruntwork-io/artifact-resolver/graph"
)

// Context is the shared transformation context the collector threads into
// Transform (spec §4.2/§4.3): the conflict ids every node was assigned plus
// whatever sort/cycle information the collector already computed. When
// SortedConflictIDs is absent, both it and the cyclic groups are recomputed
// on the fly; a CyclicConflictIDs supplied alongside SortedConflictIDs is
// used as given. ConflictIDs being absent is fatal, since nothing else can
// be derived without it.
type Context struct {
	ConflictIDs       graph.ConflictIDs
	NodeMeta          map[*graph.DependencyNode]graph.NodeMeta
	SortedConflictIDs []graph.ConflictID
	CyclicConflictIDs [][]graph.ConflictID
}

// Resolver is the C2 conflict resolver: it turns a freshly-collected,
// possibly cyclic dependency tree into one with exactly one surviving node
// per conflict id, each carrying its resolved effective scope.
type Resolver struct {
	VersionSelector graph.VersionSelector
	ScopeSelector   graph.ScopeSelector
	ScopeDeriver    graph.ScopeDeriver

	// Verbose retains losing nodes as childless clones annotated with
	// their winner instead of deleting them outright (spec §4.2/§7).
	Verbose bool
}

// NewResolver builds a Resolver, defaulting any nil hook to its
// conventional implementation.
func NewResolver(versionSelector graph.VersionSelector, scopeSelector graph.ScopeSelector, scopeDeriver graph.ScopeDeriver, verbose bool) *Resolver {
	if versionSelector == nil {
		versionSelector = NearestWinsVersionSelector
	}
	if scopeSelector == nil {
		scopeSelector = ConventionalScopeSelector
	}
	if scopeDeriver == nil {
		scopeDeriver = ConventionalScopeDeriver
	}
	return &Resolver{VersionSelector: versionSelector, ScopeSelector: scopeSelector, ScopeDeriver: scopeDeriver, Verbose: verbose}
}

// Transform resolves every conflict id in root in sorted order, splicing
// losing nodes out of the tree (or retaining them as annotated clones in
// verbose mode) and recording each winner's resolved scope. A trailing
// flush pass runs once more over the whole tree when any cyclic group was
// present, since a cyclic-group member resolved late can leave stray
// leftovers from ids resolved earlier in the same cycle.
func (r *Resolver) Transform(root *graph.DependencyNode, ctx *Context) error {
	if ctx == nil || ctx.ConflictIDs == nil {
		return resolverrors.New("conflict resolver: missing conflict ids in transformation context")
	}

	sorted := ctx.SortedConflictIDs
	cyclicGroups := ctx.CyclicConflictIDs
	if sorted == nil {
		sorted, cyclicGroups = graph.SortConflictIDs(root, ctx.ConflictIDs, ctx.NodeMeta)
	}

	w := &walker{ids: ctx.ConflictIDs, scopeDeriver: r.ScopeDeriver, resolvedIds: map[graph.ConflictID]*graph.DependencyNode{}}

	for _, id := range sorted {
		items := w.run(root, id)
		w.finish()
		if len(items) == 0 {
			continue
		}

		winner, err := r.VersionSelector(items)
		if err != nil {
			return resolverrors.WithStackTrace(err)
		}
		if winner == nil {
			return resolverrors.Errorf("conflict resolver: version selector returned no winner for conflict id %q", id)
		}

		scope, err := r.ScopeSelector(items, winner)
		if err != nil {
			return resolverrors.WithStackTrace(err)
		}

		if r.Verbose {
			winner.Node.SetData("conflict.originalScope", winner.Node.Scope())
		}
		if winner.Node.Dependency != nil {
			winner.Node.Dependency.Scope = scope
		}

		removeLosers(items, winner, r.Verbose)
		w.resolvedIds[id] = winner.Node
	}

	if len(cyclicGroups) > 0 {
		flush := &walker{ids: ctx.ConflictIDs, scopeDeriver: r.ScopeDeriver, resolvedIds: w.resolvedIds}
		flush.currentId = graph.ConflictID("")
		flush.seenItems = map[itemKey]*graph.ConflictItem{}
		flush.infos = map[*graph.ChildList]*nodeInfo{}
		flush.stack = map[*graph.ChildList]bool{}
		flush.walkList(root.Children, root.Scope(), 1)
	}

	return nil
}

// removeLosers splices every non-winning item's node out of its parent
// child-list. In verbose mode the loser is replaced by a childless clone
// annotated with its winner instead of being deleted outright, so callers
// that want to inspect what lost (and why) still can.
func removeLosers(items []*graph.ConflictItem, winner *graph.ConflictItem, verbose bool) {
	for _, it := range items {
		if it == winner {
			continue
		}
		spliceOut(it.Parent, it.Node, winner.Node, verbose)
	}
}

func spliceOut(list *graph.ChildList, loser *graph.DependencyNode, winner *graph.DependencyNode, verbose bool) {
	if list == nil {
		return
	}
	for i, c := range list.Children {
		if c != loser {
			continue
		}
		if verbose {
			clone := graph.NewNode(loser.Dependency)
			clone.SetData("conflict.winner", winner)
			list.Children[i] = clone
		} else {
			list.Children = append(list.Children[:i], list.Children[i+1:]...)
		}
		return
	}
}

package resolve

import "github.com/gruntwork-io/artifact-resolver/graph"

// itemKey identifies a single (parent child-list, node) occurrence so a
// repeat DFS visit updates the existing ConflictItem's derived-scope set
// instead of fabricating a duplicate (spec §4.2 rule 7: "do not create
// fresh conflict items for this sub-visit").
type itemKey struct {
	parent *graph.ChildList
	node   *graph.DependencyNode
}

// nodeInfo is the per-child-list bookkeeping the walk keeps so it can tell
// a first visit from a re-visit, and a re-visit that deepens or introduces
// a new derived scope from one that changes nothing (spec §4.2 rules 5-7).
type nodeInfo struct {
	minDepth      int
	derivedScopes map[string]bool
}

// walker performs one conflict id's DFS pass over the tree, rewriting child
// lists in place to splice out nodes that belong to an already-resolved,
// different conflict id (spec §4.2 rule 2), and collecting one ConflictItem
// per occurrence of the id under inspection.
//
// This implementation folds the spec's rules 6 and 7 into one: a first visit
// to a child-list not on the active stack recurses, as does a re-visit that
// reaches it at a smaller depth or with a new derived scope (any other
// re-visit is skipped), and item creation at rule 1
// dedupes by (parent list, node) so a re-visit updates the existing item's
// derived-scope set rather than recording a duplicate. That preserves every
// externally observable invariant the split rules describe (one item per
// occurrence, complete derived-scope sets, no infinite recursion on cycles)
// with less bookkeeping than tracking "items living under this child"
// separately the way the rules narrate it.
type walker struct {
	ids          graph.ConflictIDs
	scopeDeriver graph.ScopeDeriver
	resolvedIds  map[graph.ConflictID]*graph.DependencyNode

	currentId graph.ConflictID
	items     []*graph.ConflictItem
	seenItems map[itemKey]*graph.ConflictItem
	infos     map[*graph.ChildList]*nodeInfo
	stack     map[*graph.ChildList]bool
}

// run walks root in search of every occurrence of id, rewriting child lists
// to drop stray leftovers from previously resolved ids as it goes.
func (w *walker) run(root *graph.DependencyNode, id graph.ConflictID) []*graph.ConflictItem {
	w.currentId = id
	w.items = nil
	w.seenItems = map[itemKey]*graph.ConflictItem{}
	w.infos = map[*graph.ChildList]*nodeInfo{}
	w.stack = map[*graph.ChildList]bool{}
	w.walkList(root.Children, root.Scope(), 1)
	return w.items
}

// finish recomputes each item's depth as minDepth(parent node) + 1, so an
// item reached through a node that turned out to have a shallower path
// elsewhere in the tree reports that shallower depth (spec §4.2 "second
// pass ... canonical depth").
func (w *walker) finish() {
	for i := len(w.items) - 1; i >= 0; i-- {
		it := w.items[i]
		if info, ok := w.infos[it.Parent]; ok {
			it.Depth = info.minDepth + 1
		}
	}
}

func (w *walker) walkList(list *graph.ChildList, parentScope string, depth int) {
	if list == nil {
		return
	}
	kept := make([]*graph.DependencyNode, 0, len(list.Children))
	for _, child := range list.Children {
		if w.visitChild(list, child, parentScope, depth) {
			kept = append(kept, child)
		}
	}
	list.Children = kept
}

func (w *walker) visitChild(parentList *graph.ChildList, child *graph.DependencyNode, parentScope string, depth int) bool {
	childId, hasId := w.ids[child]

	if hasId && childId == w.currentId {
		derived := deriveScope(w.scopeDeriver, parentScope, child.Scope())
		key := itemKey{parentList, child}
		if existing, ok := w.seenItems[key]; ok {
			existing.AddDerivedScope(derived)
			return true
		}
		item := &graph.ConflictItem{Parent: parentList, Node: child, Depth: depth}
		item.AddDerivedScope(derived)
		w.seenItems[key] = item
		w.items = append(w.items, item)
		return true
	}

	if hasId {
		if winner, ok := w.resolvedIds[childId]; ok && winner != child {
			// rule 2: this occurrence lost a previous round's conflict;
			// splice it out of the tree now that its id is settled.
			return false
		}
	}

	if child.Children == nil {
		return true
	}
	if w.stack[child.Children] {
		// rule 4: cyclic back-edge, already on the active DFS stack.
		return true
	}

	derivedScope := deriveScope(w.scopeDeriver, parentScope, child.Scope())

	info, seen := w.infos[child.Children]
	if !seen {
		info = &nodeInfo{minDepth: depth, derivedScopes: map[string]bool{derivedScope: true}}
		w.infos[child.Children] = info
		w.stack[child.Children] = true
		w.walkList(child.Children, derivedScope, depth+1)
		delete(w.stack, child.Children)
		return true
	}

	deepened := depth < info.minDepth
	isNew := !info.derivedScopes[derivedScope]
	if deepened {
		info.minDepth = depth
	}
	if isNew {
		info.derivedScopes[derivedScope] = true
	}
	if deepened || isNew {
		w.stack[child.Children] = true
		w.walkList(child.Children, derivedScope, depth+1)
		delete(w.stack, child.Children)
	}
	return true
}

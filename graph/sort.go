package graph

import "sort"

// idEdge records that some node with conflict id Parent has a child with
// conflict id Child.
type idEdge struct{ Parent, Child ConflictID }

// BuildIDGraph derives the conflict-id dependency graph from root: an edge
// parent->child for every tree edge whose endpoints both carry a conflict
// id, including self-loops (a node depending on a different version of its
// own artifact identity) -- those are genuinely cyclic for conflict
// resolution purposes even though they never affect topological ordering
// among *distinct* ids.
func BuildIDGraph(root *DependencyNode, ids ConflictIDs) []idEdge {
	var edges []idEdge
	Walk(root, func(n *DependencyNode, _ int) bool {
		parentID, ok := ids[n]
		if !ok {
			return true
		}
		if n.Children != nil {
			for _, child := range n.Children.Children {
				childID, ok := ids[child]
				if !ok {
					continue
				}
				edges = append(edges, idEdge{Parent: parentID, Child: childID})
			}
		}
		return true
	})
	return edges
}

// SortConflictIDs computes (a) a topological ordering of the conflict ids
// present in ids such that an id appears before the ids of any of its
// descendants, tie-broken by smaller depth first then declaration order
// (spec §4.3 "Tie-break"), and (b) the groups of ids that could not be
// ordered because they form a cycle.
func SortConflictIDs(root *DependencyNode, ids ConflictIDs, meta map[*DependencyNode]NodeMeta) (sorted []ConflictID, cyclic [][]ConflictID) {
	idMeta := map[ConflictID]NodeMeta{}
	for node, id := range ids {
		m := meta[node]
		existing, ok := idMeta[id]
		if !ok || m.Depth < existing.Depth || (m.Depth == existing.Depth && m.Seq < existing.Seq) {
			idMeta[id] = m
		}
	}

	edges := BuildIDGraph(root, ids)

	adjacency := map[ConflictID]map[ConflictID]bool{}
	allIDs := map[ConflictID]bool{}
	for id := range idMeta {
		allIDs[id] = true
		adjacency[id] = map[ConflictID]bool{}
	}
	for _, e := range edges {
		adjacency[e.Parent][e.Child] = true
	}

	sccs := tarjanSCC(allIDs, adjacency)

	sccOf := map[ConflictID]int{}
	for i, scc := range sccs {
		for _, id := range scc {
			sccOf[id] = i
		}
	}

	condAdj := map[int]map[int]bool{}
	indegree := map[int]int{}
	for i := range sccs {
		condAdj[i] = map[int]bool{}
		indegree[i] = 0
	}
	for _, e := range edges {
		from, to := sccOf[e.Parent], sccOf[e.Child]
		if from == to {
			continue
		}
		if !condAdj[from][to] {
			condAdj[from][to] = true
			indegree[to]++
		}
	}

	sccRank := func(i int) NodeMeta {
		best := NodeMeta{Depth: 1 << 30, Seq: 1 << 62}
		for _, id := range sccs[i] {
			m := idMeta[id]
			if m.Depth < best.Depth || (m.Depth == best.Depth && m.Seq < best.Seq) {
				best = m
			}
		}
		return best
	}

	var ready []int
	for i := range sccs {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := func(a, b int) bool {
		ra, rb := sccRank(a), sccRank(b)
		if ra.Depth != rb.Depth {
			return ra.Depth < rb.Depth
		}
		return ra.Seq < rb.Seq
	}

	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return order(ready[i], ready[j]) })
		next := ready[0]
		ready = ready[1:]

		members := append([]ConflictID(nil), sccs[next]...)
		sort.Slice(members, func(i, j int) bool {
			mi, mj := idMeta[members[i]], idMeta[members[j]]
			if mi.Depth != mj.Depth {
				return mi.Depth < mj.Depth
			}
			return mi.Seq < mj.Seq
		})
		sorted = append(sorted, members...)
		if len(members) > 1 {
			cyclic = append(cyclic, members)
		} else if adjacency[members[0]][members[0]] {
			cyclic = append(cyclic, members)
		}

		for to := range condAdj[next] {
			indegree[to]--
			if indegree[to] == 0 {
				ready = append(ready, to)
			}
		}
	}

	return sorted, cyclic
}

// tarjanSCC computes the strongly connected components of the directed
// graph described by adjacency, restricted to the vertex set ids.
func tarjanSCC(ids map[ConflictID]bool, adjacency map[ConflictID]map[ConflictID]bool) [][]ConflictID {
	index := 0
	indices := map[ConflictID]int{}
	lowlink := map[ConflictID]int{}
	onStack := map[ConflictID]bool{}
	var stack []ConflictID
	var result [][]ConflictID

	var ordered []ConflictID
	for id := range ids {
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	var strongconnect func(v ConflictID)
	strongconnect = func(v ConflictID) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		neighbors := make([]ConflictID, 0, len(adjacency[v]))
		for w := range adjacency[v] {
			neighbors = append(neighbors, w)
		}
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })

		for _, w := range neighbors {
			if _, seen := indices[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []ConflictID
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			result = append(result, scc)
		}
	}

	for _, id := range ordered {
		if _, seen := indices[id]; !seen {
			strongconnect(id)
		}
	}

	return result
}

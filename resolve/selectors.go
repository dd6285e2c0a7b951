// Package resolve implements the conflict resolver (spec §4.2, C2): it
// reduces a cyclic dependency graph to a tree-with-back-edges by selecting
// one winning ConflictItem per conflict id and deriving effective scopes.
package resolve

import (
	resolverrors "github.com/gruntwork-io/artifact-resolver/errors"
	"github.com/gruntwork-io/artifact-resolver/coordinate"
	"github.com/gruntwork-io/artifact-resolver/graph"
)

// NearestWinsVersionSelector is the conventional VersionSelector (spec
// §4.2): the item at the smallest depth wins; ties are broken by insertion
// order, which mirrors declaration order in the parent descriptor since
// items are recorded in the order the DFS walk encounters them.
func NearestWinsVersionSelector(items []*graph.ConflictItem) (*graph.ConflictItem, error) {
	if len(items) == 0 {
		return nil, resolverrors.New("version selector: no candidate items for conflict id")
	}
	best := items[0]
	for _, it := range items[1:] {
		if it.Depth < best.Depth {
			best = it
		}
	}
	return best, nil
}

// scopeDominance is the tie-break order conventional ScopeSelector uses once
// more than one derived scope is in play (spec §4.2).
var scopeDominance = []string{
	coordinate.ScopeCompile,
	coordinate.ScopeRuntime,
	coordinate.ScopeProvided,
	coordinate.ScopeTest,
}

// ConventionalScopeSelector is the conventional ScopeSelector (spec §4.2):
// a direct dependency's (depth<=1) declared scope wins verbatim; otherwise
// the derived scopes observed across every item are pooled, system is
// dropped if more than one scope remains, and the first scope present in
// dominance order (compile > runtime > provided > test) is returned.
func ConventionalScopeSelector(items []*graph.ConflictItem, winner *graph.ConflictItem) (string, error) {
	for _, it := range items {
		if it.Depth <= 1 {
			return it.Node.Scope(), nil
		}
	}

	scopes := map[string]bool{}
	for _, it := range items {
		for s := range it.DerivedScopes {
			scopes[s] = true
		}
	}
	if len(scopes) > 1 {
		delete(scopes, coordinate.ScopeSystem)
	}

	for _, s := range scopeDominance {
		if scopes[s] {
			return s, nil
		}
	}

	for s := range winner.DerivedScopes {
		return s, nil
	}
	return winner.Node.Scope(), nil
}

// scopeDerivationTable is the ScopeDeriver conventional matrix (spec §4.2):
// effective child scope given the parent's derived scope.
var scopeDerivationTable = map[string]map[string]string{
	coordinate.ScopeCompile: {
		coordinate.ScopeCompile:  coordinate.ScopeCompile,
		coordinate.ScopeRuntime:  coordinate.ScopeRuntime,
		coordinate.ScopeProvided: coordinate.ScopeProvided,
		coordinate.ScopeTest:     coordinate.ScopeTest,
		coordinate.ScopeSystem:   coordinate.ScopeSystem,
	},
	coordinate.ScopeRuntime: {
		coordinate.ScopeCompile:  coordinate.ScopeRuntime,
		coordinate.ScopeRuntime:  coordinate.ScopeRuntime,
		coordinate.ScopeProvided: coordinate.ScopeProvided,
		coordinate.ScopeTest:     coordinate.ScopeTest,
		coordinate.ScopeSystem:   coordinate.ScopeSystem,
	},
	coordinate.ScopeProvided: {
		coordinate.ScopeCompile:  coordinate.ScopeProvided,
		coordinate.ScopeRuntime:  coordinate.ScopeProvided,
		coordinate.ScopeProvided: coordinate.ScopeProvided,
		coordinate.ScopeTest:     coordinate.ScopeTest,
		coordinate.ScopeSystem:   coordinate.ScopeSystem,
	},
	coordinate.ScopeTest: {
		coordinate.ScopeCompile:  coordinate.ScopeTest,
		coordinate.ScopeRuntime:  coordinate.ScopeTest,
		coordinate.ScopeProvided: coordinate.ScopeProvided,
		coordinate.ScopeTest:     coordinate.ScopeTest,
		coordinate.ScopeSystem:   coordinate.ScopeSystem,
	},
}

// ConventionalScopeDeriver implements the scope-derivation matrix of spec
// §4.2. Unrecognized parent scopes fall back to the child's own declared
// scope (no ambient widening/narrowing can be inferred for them).
func ConventionalScopeDeriver(parentScope, childScope string) string {
	row, ok := scopeDerivationTable[parentScope]
	if !ok {
		return childScope
	}
	if derived, ok := row[childScope]; ok {
		return derived
	}
	return childScope
}

func deriveScope(deriver graph.ScopeDeriver, parentScope, childScope string) string {
	if deriver == nil {
		return childScope
	}
	return deriver(parentScope, childScope)
}

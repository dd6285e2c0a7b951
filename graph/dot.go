package graph

import (
	"fmt"
	"io"
)

// WriteDOT renders root as a Graphviz digraph, one line per node and one
// line per edge, in the same "quoted-label ;" / "quoted-label" -> "quoted" ;"
// style terragrunt's own module-dependency graph writer uses. Loser nodes
// retained in verbose mode (data["conflict.winner"] set) are rendered with a
// dashed edge to their winner so the back-reference is visible.
func WriteDOT(w io.Writer, root *DependencyNode, label func(*DependencyNode) string) error {
	if label == nil {
		label = func(n *DependencyNode) string {
			if n.Dependency == nil {
				return "root"
			}
			return n.Dependency.Artifact.String()
		}
	}

	if _, err := fmt.Fprintln(w, "digraph {"); err != nil {
		return err
	}

	seen := map[*ChildList]bool{}
	var walk func(n *DependencyNode)
	walk = func(n *DependencyNode) {
		if _, err := fmt.Fprintf(w, "\t%q ;\n", label(n)); err != nil {
			return
		}
		if winner, ok := n.Data["conflict.winner"].(*DependencyNode); ok {
			fmt.Fprintf(w, "\t%q -> %q [style=dashed];\n", label(n), label(winner))
		}
		if n.Children == nil || seen[n.Children] {
			return
		}
		seen[n.Children] = true
		for _, child := range n.Children.Children {
			fmt.Fprintf(w, "\t%q -> %q;\n", label(n), label(child))
			walk(child)
		}
	}
	walk(root)

	_, err := fmt.Fprintln(w, "}")
	return err
}

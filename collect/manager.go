package collect

import (
	"github.com/gruntwork-io/artifact-resolver/coordinate"
	"github.com/gruntwork-io/artifact-resolver/graph"
)

// DefaultDependencyManager is the conventional graph.DependencyManager: the
// first managed entry matching dep's identity applies (managed lists are
// threaded root-first down the recursion, so the declaration closest to the
// root wins). It overrides Version and Scope when that entry sets them,
// replaces Optional with the entry's value (a bool has no unset state, so
// this happens whenever the two differ), and appends the entry's Exclusions
// to dep's, recording what changed in a PreManagementSnapshot (spec §4.1 step 2,
// §3 "ManagedBits/PreManagementSnapshot").
func DefaultDependencyManager(managed []coordinate.Dependency, dep coordinate.Dependency) (coordinate.Dependency, graph.ManagementInfo) {
	id := dep.Artifact.Identity()
	var info graph.ManagementInfo

	for _, m := range managed {
		if m.Artifact.Identity() != id {
			continue
		}

		pre := graph.PreManagementSnapshot{
			Scope:      dep.Scope,
			Version:    dep.Artifact.Version,
			Optional:   dep.Optional,
			Exclusions: dep.Exclusions,
		}

		if m.Artifact.Version != "" && m.Artifact.Version != dep.Artifact.Version {
			dep.Artifact = dep.Artifact.WithVersion(m.Artifact.Version)
			info.Bits |= graph.ManagedVersion
		}
		if m.Scope != "" && m.Scope != dep.Scope {
			dep.Scope = m.Scope
			info.Bits |= graph.ManagedScope
		}
		if m.Optional != dep.Optional {
			dep.Optional = m.Optional
			info.Bits |= graph.ManagedOptional
		}
		if len(m.Exclusions) > 0 {
			dep.Exclusions = append(append([]coordinate.Exclusion(nil), dep.Exclusions...), m.Exclusions...)
			info.Bits |= graph.ManagedExclusions
		}

		if info.Bits != 0 {
			info.Pre = pre
		}
		break
	}

	return dep, info
}

package collect

import (
	"context"
	"strings"

	resolverrors "github.com/gruntwork-io/artifact-resolver/errors"
	"github.com/gruntwork-io/artifact-resolver/coordinate"
	"github.com/gruntwork-io/artifact-resolver/external"
	"github.com/gruntwork-io/artifact-resolver/graph"
	"github.com/gruntwork-io/artifact-resolver/resolve"
	"github.com/gruntwork-io/artifact-resolver/session"
)

// Collect builds and conflict-resolves the dependency tree described by
// req. It fails outright only if the root itself can't be established or
// conflict resolution fails; every per-node descriptor/version failure
// deeper in the tree is recorded into Result.Exceptions instead: a node
// whose descriptor can't be read is kept as a leaf, and a dependency whose
// versions can't be resolved is left out of the tree, so a caller still
// receives a usable partial graph (spec §4.1 "Errors").
func Collect(ctx context.Context, sess *session.Session, req Request) (*Result, error) {
	rootDep, err := rootDependency(req)
	if err != nil {
		return nil, err
	}

	ctx, end := sess.Telemeter.Start(ctx, "collect.collect")
	defer end()

	root := graph.NewNode(rootDep)

	errs := &resolverrors.MultiError{}
	onStack := map[coordinate.Identity]int{rootDep.Artifact.Identity(): 1}

	c := &collector{sess: sess, errs: errs, onStack: onStack}

	directDeps := req.Dependencies
	managedDeps := req.ManagedDependencies
	repos := req.Repositories

	if len(directDeps) == 0 {
		// No explicit direct-dependency list was supplied: the root was
		// given as a bare artifact (or a dependency standing in for one),
		// so its own descriptor must be read to discover its dependencies,
		// mirroring the real resolver's root-artifact contract (spec §4.1
		// step 3 applied to the root itself).
		desc, err := sess.DescriptorReader.ReadArtifactDescriptor(ctx, external.ArtifactDescriptorRequest{
			Artifact:     rootDep.Artifact,
			Repositories: repos,
		})
		if err != nil {
			errs.Append(resolverrors.Errorf("reading descriptor for root %s: %w", rootDep.Artifact.String(), err))
		} else {
			directDeps = desc.Dependencies
			managedDeps = append(append([]coordinate.Dependency(nil), managedDeps...), desc.ManagedDependencies...)
			if len(desc.Repositories) > 0 && sess.RepositoryManager != nil {
				repos = sess.RepositoryManager.AggregateRepositories(desc.Repositories, repos, false)
			}
		}
	}

	root.Repositories = repos
	c.expand(ctx, root, directDeps, managedDeps, repos, rootDep.Scope, 1)

	if err := c.transform(root); err != nil {
		return nil, err
	}

	return &Result{Root: root, Exceptions: errs.Errors()}, nil
}

func rootDependency(req Request) (*coordinate.Dependency, error) {
	if req.RootDependency != nil {
		dep := *req.RootDependency
		return &dep, nil
	}
	if req.RootArtifact != nil {
		return &coordinate.Dependency{Artifact: *req.RootArtifact, Scope: coordinate.ScopeCompile}, nil
	}
	return nil, resolverrors.New("collect: request must carry a root artifact or root dependency")
}

// collector holds the mutable state threaded through one Collect call's DFS:
// the accumulating exception list and the identity-keyed parent-chain used
// for cycle detection (spec §4.1 "Cycle handling"). Single-threaded by
// design (spec §5), so a shared map mutated around each recursive call is
// sufficient -- no locking needed.
type collector struct {
	sess    *session.Session
	errs    *resolverrors.MultiError
	onStack map[coordinate.Identity]int
}

// expand turns rawDeps into children of parent, recursing into each child's
// own descriptor unless a traverser hook says not to, the child's identity
// is already on the DFS stack (a cycle), or the child's own derived scope
// is non-transitive (provided/test); in each of these cases the child is
// kept but its own children are not expanded (spec §4.1 "Provided and test
// scopes are non-transitive").
func (c *collector) expand(ctx context.Context, parent *graph.DependencyNode, rawDeps, managedDeps []coordinate.Dependency, repos []string, parentScope string, depth int) {
	parentDep := parent.Dependency

	for _, dep := range rawDeps {
		if parentDep != nil && parentDep.IsExcluded(dep.Artifact.Identity()) {
			continue
		}
		if c.sess.Selector != nil && !c.sess.Selector(dep) {
			continue
		}

		managed, mgmtInfo := c.manage(managedDeps, dep)
		identity := managed.Artifact.Identity()

		if c.onStack[identity] > 0 {
			leaf := graph.NewNode(&managed)
			leaf.ManagedBits = mgmtInfo.Bits
			leaf.PreManagement = mgmtInfo.Pre
			leaf.MarkCyclic(parent)
			parent.AddChild(leaf)
			continue
		}

		versions, err := c.resolveVersions(ctx, managed.Artifact, repos)
		if err != nil {
			c.errs.Append(resolverrors.Errorf("resolving versions for %s: %w", managed.Artifact.String(), err))
			continue
		}
		if len(versions) == 0 {
			c.errs.Append(resolverrors.Errorf("no versions satisfy %s", managed.Artifact.String()))
			continue
		}

		for _, v := range versions {
			c.expandVersion(ctx, parent, managed, v, mgmtInfo, managedDeps, repos, parentScope, depth, identity)
		}
	}
}

func (c *collector) expandVersion(ctx context.Context, parent *graph.DependencyNode, managed coordinate.Dependency, version string, mgmtInfo graph.ManagementInfo, managedDeps []coordinate.Dependency, repos []string, parentScope string, depth int, identity coordinate.Identity) {
	childDep := managed
	childDep.Artifact = childDep.Artifact.WithVersion(version)

	child := graph.NewNode(&childDep)
	child.ManagedBits = mgmtInfo.Bits
	child.PreManagement = mgmtInfo.Pre
	child.Repositories = repos
	parent.AddChild(child)

	if c.sess.Traverser != nil && !c.sess.Traverser(child) {
		return
	}

	derivedScope := childDep.Scope
	if c.sess.ScopeDeriver != nil {
		derivedScope = c.sess.ScopeDeriver(parentScope, childDep.Scope)
	}
	child.SetData("derivedScope", derivedScope)

	nonTransitive := derivedScope == coordinate.ScopeProvided || derivedScope == coordinate.ScopeTest

	// identity must stay on the DFS stack for the child's entire subtree
	// expansion, not just its own descriptor read -- otherwise a cycle that
	// loops back through a grandchild (B -> C -> B) rather than directly to
	// the request root is never caught by expand's onStack check (spec §3
	// "the algorithm must never infinitely recurse", §4.1 "Cycle handling").
	c.onStack[identity]++
	defer func() { c.onStack[identity]-- }()

	desc, err := c.sess.DescriptorReader.ReadArtifactDescriptor(ctx, external.ArtifactDescriptorRequest{
		Artifact:     childDep.Artifact,
		Repositories: repos,
	})

	if err != nil {
		c.errs.Append(resolverrors.Errorf("reading descriptor for %s: %w", childDep.Artifact.String(), err))
		return
	}

	if desc.Relocation != nil {
		child.SetData("relocated-from", childDep.Artifact.String())
		childDep.Artifact = *desc.Relocation
		child.Dependency = &childDep
	}

	childRepos := repos
	if c.sess.RepositoryManager != nil {
		childRepos = c.sess.RepositoryManager.AggregateRepositories(desc.Repositories, repos, false)
	}
	child.Repositories = childRepos

	if nonTransitive {
		// This node's own dependencies don't propagate further (spec
		// §4.1): the node stands, but its children are never expanded.
		return
	}

	childManaged := append(append([]coordinate.Dependency(nil), managedDeps...), desc.ManagedDependencies...)
	c.expand(ctx, child, desc.Dependencies, childManaged, childRepos, derivedScope, depth+1)
}

func (c *collector) manage(managed []coordinate.Dependency, dep coordinate.Dependency) (coordinate.Dependency, graph.ManagementInfo) {
	if c.sess.Manager != nil {
		return c.sess.Manager(managed, dep)
	}
	return DefaultDependencyManager(managed, dep)
}

// resolveVersions expands art.Version into the concrete version(s) it
// should become (spec §4.1 step 1): a range is delegated to the
// VersionRangeResolver and filtered, a meta token (LATEST/RELEASE/SNAPSHOT)
// to the VersionResolver, and anything else is already concrete.
func (c *collector) resolveVersions(ctx context.Context, art coordinate.Coordinate, repos []string) ([]string, error) {
	switch {
	case isVersionRange(art.Version):
		if c.sess.VersionRangeResolver == nil {
			return nil, resolverrors.New("version range requires a VersionRangeResolver")
		}
		res, err := c.sess.VersionRangeResolver.ResolveVersionRange(ctx, external.VersionRangeRequest{Artifact: art, Repositories: repos})
		if err != nil {
			return nil, err
		}
		versions := res.Versions
		if c.sess.VersionFilter != nil {
			versions = c.sess.VersionFilter(art, versions)
		}
		return versions, nil

	case isMetaVersion(art.Version):
		if c.sess.VersionResolver == nil {
			return nil, resolverrors.New("meta version requires a VersionResolver")
		}
		res, err := c.sess.VersionResolver.ResolveVersion(ctx, external.VersionRequest{Artifact: art, Repositories: repos})
		if err != nil {
			return nil, err
		}
		return []string{res.Version}, nil

	default:
		return []string{art.Version}, nil
	}
}

func isVersionRange(version string) bool {
	return strings.ContainsAny(version, "[](),")
}

func isMetaVersion(version string) bool {
	switch version {
	case "LATEST", "RELEASE", "SNAPSHOT":
		return true
	default:
		return false
	}
}

// transform runs the post-build chain (spec §4.3): conflict-id marking,
// topological sort, the C2 conflict resolver, and a trailing request-
// context refiner that fills in any node whose context was never set
// explicitly by inheriting its parent's.
func (c *collector) transform(root *graph.DependencyNode) error {
	ctx, end := c.sess.Telemeter.Start(context.Background(), "collect.transform")
	defer end()

	ids, meta := graph.MarkConflictIDs(root)
	sorted, cyclic := graph.SortConflictIDs(root, ids, meta)

	resolver := resolve.NewResolver(c.sess.VersionSelector, c.sess.ScopeSelector, c.sess.ScopeDeriver, c.sess.Verbose)
	if err := resolver.Transform(root, &resolve.Context{
		ConflictIDs:       ids,
		NodeMeta:          meta,
		SortedConflictIDs: sorted,
		CyclicConflictIDs: cyclic,
	}); err != nil {
		c.sess.Telemeter.RecordError(ctx, err)
		return err
	}

	refineRequestContext(root)
	return nil
}

// refineRequestContext propagates a parent's RequestContext onto children
// that still carry the NewNode default ("project"), so a caller that tagged
// only the root's context sees it flow down the tree. Tracks visited
// child-lists like graph.Walk does, since a shared *ChildList (spec §9)
// would otherwise make this recursion loop forever.
func refineRequestContext(root *graph.DependencyNode) {
	seen := map[*graph.ChildList]bool{}
	var rec func(n *graph.DependencyNode)
	rec = func(n *graph.DependencyNode) {
		if n.Children == nil || seen[n.Children] {
			return
		}
		seen[n.Children] = true
		for _, child := range n.Children.Children {
			if child.RequestContext == "" || child.RequestContext == "project" {
				child.RequestContext = n.RequestContext
			}
			rec(child)
		}
	}
	rec(root)
}

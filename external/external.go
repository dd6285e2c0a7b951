// Package external declares the "Supplier interfaces the core consumes"
// (spec §6): artifact-descriptor parsing, version/version-range resolution,
// and remote-repository aggregation. spec.md deliberately treats these as
// external collaborators reached only through their interface -- the core
// never implements them. They are factored into their own package (rather
// than living on session or collect) so every package that needs to declare
// a field or parameter of one of these types can do so without an import
// cycle.
package external

import (
	"context"

	"github.com/gruntwork-io/artifact-resolver/coordinate"
)

// ArtifactDescriptorRequest asks for the descriptor of a single artifact.
type ArtifactDescriptorRequest struct {
	Artifact     coordinate.Coordinate
	Repositories []string
}

// ArtifactDescriptorResult is the descriptor: direct dependencies, managed
// dependencies, an optional relocation redirect, and aggregated
// repositories (spec §4.1 step 3).
type ArtifactDescriptorResult struct {
	Dependencies        []coordinate.Dependency
	ManagedDependencies []coordinate.Dependency
	Relocation          *coordinate.Coordinate
	Repositories        []string
}

// ArtifactDescriptorReader reads artifact descriptors.
type ArtifactDescriptorReader interface {
	ReadArtifactDescriptor(ctx context.Context, req ArtifactDescriptorRequest) (*ArtifactDescriptorResult, error)
}

// VersionRequest asks for a meta-version (LATEST/RELEASE/SNAPSHOT) to be
// resolved to a concrete one.
type VersionRequest struct {
	Artifact     coordinate.Coordinate
	Repositories []string
}

// VersionResult is the concrete version a VersionRequest resolved to.
type VersionResult struct {
	Version string
}

// VersionResolver resolves meta-versions to concrete ones.
type VersionResolver interface {
	ResolveVersion(ctx context.Context, req VersionRequest) (*VersionResult, error)
}

// VersionRangeRequest asks for a version range (e.g. "[1.0,2.0)") to be
// expanded.
type VersionRangeRequest struct {
	Artifact     coordinate.Coordinate
	Repositories []string
}

// VersionRangeResult is the ascending list of versions a range expanded to.
type VersionRangeResult struct {
	Versions []string
}

// VersionRangeResolver expands version ranges to ascending concrete version
// lists.
type VersionRangeResolver interface {
	ResolveVersionRange(ctx context.Context, req VersionRangeRequest) (*VersionRangeResult, error)
}

// RemoteRepositoryManager aggregates a dominant repository list with a
// recessive one, applying mirror/proxy/authentication policy.
type RemoteRepositoryManager interface {
	AggregateRepositories(dominant, recessive []string, recessiveIsRaw bool) []string
}

// LocalRepositoryManager is the on-disk cache layout collaborator (spec §1
// -- deliberately out of scope; only its interface is referenced).
type LocalRepositoryManager interface {
	Find(art coordinate.Coordinate) (path string, found bool)
}

// LocalRepositoryProvider constructs a LocalRepositoryManager for a given
// local repository path.
type LocalRepositoryProvider interface {
	NewLocalRepositoryManager(localRepositoryPath string) (LocalRepositoryManager, error)
}

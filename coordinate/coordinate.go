// Package coordinate defines the artifact coordinate and dependency types
// that flow through the collector and conflict resolver (spec §3).
package coordinate

import "fmt"

// DefaultExtension is the conventional archive marker used when a Coordinate
// doesn't specify one.
const DefaultExtension = "jar"

// Coordinate identifies an artifact by (groupId, artifactId, classifier,
// extension, version). groupId and artifactId must be nonempty; classifier
// may be empty; extension defaults to DefaultExtension; version is a raw
// string that may be concrete, a range expression, or a meta token such as
// "LATEST" or "RELEASE".
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Classifier string
	Extension  string
	Version    string
}

// New builds a Coordinate, defaulting Extension when empty.
func New(groupID, artifactID, classifier, extension, version string) Coordinate {
	if extension == "" {
		extension = DefaultExtension
	}
	return Coordinate{
		GroupID:    groupID,
		ArtifactID: artifactID,
		Classifier: classifier,
		Extension:  extension,
		Version:    version,
	}
}

// String renders the conventional groupId:artifactId:extension[:classifier]:version form.
func (c Coordinate) String() string {
	if c.Classifier == "" {
		return fmt.Sprintf("%s:%s:%s:%s", c.GroupID, c.ArtifactID, c.Extension, c.Version)
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s", c.GroupID, c.ArtifactID, c.Extension, c.Classifier, c.Version)
}

// WithVersion returns a copy of c with Version replaced, used after a
// version range has been resolved to a concrete version.
func (c Coordinate) WithVersion(version string) Coordinate {
	c.Version = version
	return c
}

// Identity is the (groupId, artifactId, classifier, extension) tuple ignored
// version -- the key the cycle-detection parent-chain is keyed on (spec
// §4.1 "Cycle handling").
type Identity struct {
	GroupID    string
	ArtifactID string
	Classifier string
	Extension  string
}

// Identity extracts c's version-independent identity tuple.
func (c Coordinate) Identity() Identity {
	return Identity{
		GroupID:    c.GroupID,
		ArtifactID: c.ArtifactID,
		Classifier: c.Classifier,
		Extension:  c.Extension,
	}
}

// Exclusion matches dependencies by (groupId, artifactId); "*" matches any
// value in either field, mirroring the common ecosystem convention.
type Exclusion struct {
	GroupID    string
	ArtifactID string
}

// Matches reports whether id is excluded by e.
func (e Exclusion) Matches(id Identity) bool {
	return (e.GroupID == "*" || e.GroupID == id.GroupID) &&
		(e.ArtifactID == "*" || e.ArtifactID == id.ArtifactID)
}

// Recognized scope values (spec §3); Scope itself is a free string so
// ecosystem-specific scopes pass through unmodified.
const (
	ScopeCompile  = "compile"
	ScopeProvided = "provided"
	ScopeRuntime  = "runtime"
	ScopeTest     = "test"
	ScopeSystem   = "system"
)

// Dependency is a Coordinate plus the scope/optional/exclusion metadata the
// collector and resolver operate on.
type Dependency struct {
	Artifact   Coordinate
	Scope      string
	Optional   bool
	Exclusions []Exclusion
}

// IsExcluded reports whether id is excluded by any of d's exclusions.
func (d Dependency) IsExcluded(id Identity) bool {
	for _, excl := range d.Exclusions {
		if excl.Matches(id) {
			return true
		}
	}
	return false
}

// Package session is the ambient configuration/session object threaded by
// pointer through every collector, resolver, and transport call, modeled on
// terragrunt's options.TerragruntOptions (referenced throughout
// config/*.go and spin/test_helpers.go as terragruntOptions.Source,
// .DownloadDir, etc.) -- the same "everything needed for one call" struct,
// generalized to this module's domain.
package session

import (
	"sync"

	"github.com/gruntwork-io/artifact-resolver/external"
	"github.com/gruntwork-io/artifact-resolver/graph"
	"github.com/gruntwork-io/artifact-resolver/log"
	"github.com/gruntwork-io/artifact-resolver/telemetry"
	"github.com/gruntwork-io/artifact-resolver/transport/state"
)

// Session is the per-call context object. Build one with New and share it
// across every collect/resolve/transport call that should see the same
// caches and configuration; a GlobalState is created lazily and reused for
// the Session's lifetime.
type Session struct {
	Logger    *log.Logger
	Telemeter *telemetry.Telemeter

	// Verbose controls whether conflict resolution retains loser nodes as
	// childless back-reference clones (spec §3 invariant (b)) instead of
	// deleting them outright.
	Verbose bool

	// C1 hooks (spec §4.1), pulled from the session rather than a global
	// registry (spec §9).
	Traverser         graph.DependencyTraverser
	Selector          graph.DependencySelector
	Manager           graph.DependencyManager
	VersionFilter     graph.VersionFilter
	RepositoryManager external.RemoteRepositoryManager

	// External collaborators (spec §6).
	DescriptorReader     external.ArtifactDescriptorReader
	VersionResolver      external.VersionResolver
	VersionRangeResolver external.VersionRangeResolver

	// C2 selectors (spec §4.2), also pulled from the session per §9.
	VersionSelector graph.VersionSelector
	ScopeSelector   graph.ScopeSelector
	ScopeDeriver    graph.ScopeDeriver

	// Config is the global string/typed key->value configuration surface
	// (spec §4.5/§6); RepoConfig holds per-repository overrides keyed by
	// repository id. Both take precedence over the global value, as does a
	// Config entry written as key+"."+repoId.
	Config     map[string]interface{}
	RepoConfig map[string]map[string]interface{}

	globalOnce  sync.Once
	globalState *state.GlobalState
}

// New returns a Session with empty configuration maps ready to populate.
func New(logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(nil)
	}
	return &Session{
		Logger:     logger,
		Config:     map[string]interface{}{},
		RepoConfig: map[string]map[string]interface{}{},
	}
}

// GlobalState returns the Session's shared transport state, creating it on
// first use under a coarse lock so concurrent callers never double-init it
// (spec §4.5: "Writing to the session cache to install GlobalState is done
// under a coarse lock to avoid double-init; after install, reads are
// lock-free").
func (s *Session) GlobalState() *state.GlobalState {
	s.globalOnce.Do(func() {
		s.globalState = state.NewGlobalState()
	})
	return s.globalState
}

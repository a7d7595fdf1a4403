package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func mustBuild(t *testing.T, paths ...string) []*Node {
	t.Helper()
	nodes, err := BuildCollapsed(docs(paths...), "/root")
	require.NoError(t, err)
	return nodes
}

func TestInitialExpansion_OpensAllFolders(t *testing.T) {
	nodes := mustBuild(t, "/root/a.md", "/root/b/c.md", "/root/b/d/e.md")

	state := InitialExpansion(nodes)
	assert.Equal(t, []string{"/root/b", "/root/b/d"}, state.Expanded())
	assert.True(t, state.IsExpanded("/root/b"))
	assert.False(t, state.IsExpanded("/root/a.md"))
}

func TestExpansionState_ZeroValue(t *testing.T) {
	var state ExpansionState
	assert.Empty(t, state.Expanded())
	assert.False(t, state.IsExpanded("/root/b"))

	_, err := state.Toggle("/root/b")
	assert.ErrorIs(t, err, ErrUnknownFolder)
}

func TestExpansionState_ReconcileFromZeroOpensEverything(t *testing.T) {
	nodes := mustBuild(t, "/root/b/c.md", "/root/b/d/e.md")

	var state ExpansionState
	assert.Equal(t, []string{"/root/b", "/root/b/d"}, state.Reconcile(nodes).Expanded())
}

func TestExpansionState_ToggleRoundTrip(t *testing.T) {
	nodes := mustBuild(t, "/root/b/c.md", "/root/b/d/e.md")
	state := InitialExpansion(nodes)

	closed, err := state.Toggle("/root/b/d")
	require.NoError(t, err)
	assert.False(t, closed.IsExpanded("/root/b/d"))
	assert.True(t, state.IsExpanded("/root/b/d"), "toggle must not modify the receiver")

	reopened, err := closed.Toggle("/root/b/d")
	require.NoError(t, err)
	assert.True(t, reopened.Equal(state))
}

func TestExpansionState_ReconcilePreservesUserChoice(t *testing.T) {
	nodes := mustBuild(t, "/root/b/c.md", "/root/b/d/e.md", "/root/f/g.md")
	state, err := InitialExpansion(nodes).Toggle("/root/b/d")
	require.NoError(t, err)

	rebuilt := mustBuild(t, "/root/b/c.md", "/root/b/d/e.md", "/root/f/g.md", "/root/b/d/h.md")
	next := state.Reconcile(rebuilt)

	assert.True(t, next.IsExpanded("/root/b"))
	assert.True(t, next.IsExpanded("/root/f"))
	assert.False(t, next.IsExpanded("/root/b/d"))
}

func TestExpansionState_ReconcileOpensNewFolders(t *testing.T) {
	nodes := mustBuild(t, "/root/b/c.md", "/root/f/g.md")
	state, err := InitialExpansion(nodes).Toggle("/root/b")
	require.NoError(t, err)

	rebuilt := mustBuild(t, "/root/b/c.md", "/root/f/g.md", "/root/n/new.md")
	next := state.Reconcile(rebuilt)

	assert.Equal(t, []string{"/root/f", "/root/n"}, next.Expanded())
}

func TestExpansionState_ReconcileDropsDeletedFolders(t *testing.T) {
	nodes := mustBuild(t, "/root/a.md", "/root/b/c.md", "/root/b/d/e.md")
	state, err := InitialExpansion(nodes).Toggle("/root/b/d")
	require.NoError(t, err)
	assert.Equal(t, []string{"/root/b"}, state.Expanded())

	rebuilt := mustBuild(t, "/root/a.md", "/root/b/c.md", "/root/x.md")
	next := state.Reconcile(rebuilt)
	assert.Equal(t, []string{"/root/b"}, next.Expanded())

	_, err = next.Toggle("/root/b/d")
	assert.ErrorIs(t, err, ErrUnknownFolder)

	// An open folder that disappears is dropped as well.
	gone := next.Reconcile(mustBuild(t, "/root/a.md"))
	assert.Empty(t, gone.Expanded())
}

func TestExpansionState_ReconcileIdempotent(t *testing.T) {
	nodes := mustBuild(t, "/root/b/c.md", "/root/b/d/e.md", "/root/f/g.md")
	state, err := InitialExpansion(nodes).Toggle("/root/f")
	require.NoError(t, err)

	rebuilt := mustBuild(t, "/root/b/c.md", "/root/k/l.md", "/root/f/g.md")
	once := state.Reconcile(rebuilt)
	twice := once.Reconcile(rebuilt)

	assert.True(t, once.Equal(twice))
	assert.Equal(t, once.Expanded(), twice.Expanded())
}

func TestExpansionState_ReconcileOrderIndependent(t *testing.T) {
	nodes := mustBuild(t, "/root/b/c.md", "/root/f/g.md")
	state, err := InitialExpansion(nodes).Toggle("/root/f")
	require.NoError(t, err)

	forward := mustBuild(t, "/root/b/c.md", "/root/f/g.md", "/root/n/o.md")
	backward := mustBuild(t, "/root/n/o.md", "/root/f/g.md", "/root/b/c.md")

	assert.True(t, state.Reconcile(forward).Equal(state.Reconcile(backward)))
}

func TestExpansionState_CollapsedChainUsesOuterPath(t *testing.T) {
	nodes := mustBuild(t, "/root/x/y/z/file.md")
	state := InitialExpansion(nodes)

	assert.Equal(t, []string{"/root/x"}, state.Expanded())
	_, err := state.Toggle("/root/x/y")
	assert.ErrorIs(t, err, ErrUnknownFolder)
}

func TestTracker_FirstReconcileInitializes(t *testing.T) {
	tracker := NewTracker(nil)
	nodes := mustBuild(t, "/root/b/c.md", "/root/b/d/e.md")

	tracker.Reconcile(nodes)
	assert.Equal(t, []string{"/root/b", "/root/b/d"}, tracker.State().Expanded())
}

func TestTracker_Session(t *testing.T) {
	tracker := NewTracker(zap.NewNop())
	tracker.Initialize(mustBuild(t, "/root/a.md", "/root/b/c.md", "/root/b/d/e.md"))

	require.NoError(t, tracker.Toggle("/root/b/d"))
	assert.False(t, tracker.IsExpanded("/root/b/d"))

	tracker.Reconcile(mustBuild(t, "/root/a.md", "/root/b/c.md", "/root/b/d/e.md", "/root/q/r.md"))
	assert.Equal(t, []string{"/root/b", "/root/q"}, tracker.State().Expanded())

	require.NoError(t, tracker.Collapse("/root/q"))
	require.NoError(t, tracker.Collapse("/root/q"))
	assert.False(t, tracker.IsExpanded("/root/q"))

	require.NoError(t, tracker.Expand("/root/b/d"))
	require.NoError(t, tracker.Expand("/root/b/d"))
	assert.True(t, tracker.IsExpanded("/root/b/d"))
}

func TestTracker_UnknownFolderIsLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	tracker := NewTracker(zap.New(core))
	tracker.Initialize(mustBuild(t, "/root/b/c.md"))

	err := tracker.Toggle("/root/missing")
	assert.ErrorIs(t, err, ErrUnknownFolder)
	assert.Equal(t, []string{"/root/b"}, tracker.State().Expanded())

	warnings := logs.FilterMessage("toggle ignored").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "/root/missing", warnings[0].ContextMap()["path"])
}

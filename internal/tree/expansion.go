package tree

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// ExpansionState records which folders are open. It also remembers the
// folders of the tree it was last reconciled against, so that folders the
// user closed are not reopened when the tree is rebuilt.
//
// The zero value is an empty state. Methods never modify the receiver.
type ExpansionState struct {
	open    map[string]struct{}
	folders map[string]struct{}
}

// InitialExpansion returns a state with every folder of nodes open.
func InitialExpansion(nodes []*Node) ExpansionState {
	paths := FolderPaths(nodes)
	return ExpansionState{
		open:    toSet(paths),
		folders: toSet(paths),
	}
}

// Reconcile adapts the state to a rebuilt tree. Folders that did not exist
// before are opened, folders that disappeared are forgotten and the rest keep
// whatever the user last chose.
func (s ExpansionState) Reconcile(nodes []*Node) ExpansionState {
	current := toSet(FolderPaths(nodes))
	open := make(map[string]struct{}, len(current))
	for path := range current {
		_, known := s.folders[path]
		_, wasOpen := s.open[path]
		if !known || wasOpen {
			open[path] = struct{}{}
		}
	}
	return ExpansionState{open: open, folders: current}
}

// Toggle flips a folder between open and closed.
func (s ExpansionState) Toggle(path string) (ExpansionState, error) {
	if _, ok := s.folders[path]; !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownFolder, path)
	}
	open := maps.Clone(s.open)
	if open == nil {
		open = make(map[string]struct{})
	}
	if _, ok := open[path]; ok {
		delete(open, path)
	} else {
		open[path] = struct{}{}
	}
	return ExpansionState{open: open, folders: s.folders}, nil
}

// IsExpanded reports whether the folder at path is open.
func (s ExpansionState) IsExpanded(path string) bool {
	_, ok := s.open[path]
	return ok
}

// Expanded lists the open folder paths in lexical order.
func (s ExpansionState) Expanded() []string {
	return slices.Sorted(maps.Keys(s.open))
}

// Equal reports whether both states hold the same open and known folders.
func (s ExpansionState) Equal(other ExpansionState) bool {
	return setEqual(s.open, other.open) && setEqual(s.folders, other.folders)
}

func toSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		set[path] = struct{}{}
	}
	return set
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// Tracker owns the expansion state for one browsing session.
type Tracker struct {
	state       ExpansionState
	initialized bool
	logger      *zap.Logger
}

// NewTracker returns an empty tracker. A nil logger disables logging.
func NewTracker(logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{logger: logger}
}

// Initialize opens every folder of nodes, discarding earlier state.
func (t *Tracker) Initialize(nodes []*Node) {
	t.state = InitialExpansion(nodes)
	t.initialized = true
}

// Reconcile updates the state after a rebuild. The first call behaves like
// Initialize.
func (t *Tracker) Reconcile(nodes []*Node) {
	if !t.initialized {
		t.Initialize(nodes)
		return
	}
	t.state = t.state.Reconcile(nodes)
}

// Toggle flips the folder at path. Unknown folders are logged and ignored.
func (t *Tracker) Toggle(path string) error {
	next, err := t.state.Toggle(path)
	if err != nil {
		t.logger.Warn("toggle ignored", zap.String("path", path), zap.Error(err))
		return err
	}
	t.state = next
	t.logger.Debug("folder toggled",
		zap.String("path", path),
		zap.Bool("expanded", next.IsExpanded(path)))
	return nil
}

// Expand opens the folder at path if it is known and closed.
func (t *Tracker) Expand(path string) error {
	if t.IsExpanded(path) {
		return nil
	}
	return t.Toggle(path)
}

// Collapse closes the folder at path if it is known and open.
func (t *Tracker) Collapse(path string) error {
	if !t.IsExpanded(path) {
		return nil
	}
	return t.Toggle(path)
}

// IsExpanded reports whether the folder at path is open.
func (t *Tracker) IsExpanded(path string) bool {
	return t.state.IsExpanded(path)
}

// State returns a snapshot of the current expansion state.
func (t *Tracker) State() ExpansionState {
	return t.state
}

package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyaoi/docbrowse/internal/docs"
)

func TestForward_GivesUpWhenClosed(t *testing.T) {
	out := make(chan tea.Msg, 1)
	done := make(chan struct{})

	assert.True(t, forward(out, fileWatchErrMsg{}, done))

	close(done)
	assert.False(t, forward(out, fileWatchErrMsg{}, done), "a full channel must not block after close")
}

func TestCloseWatcher_StopsLoop(t *testing.T) {
	m := &Model{watchEnabled: true, watchedDirs: map[string]bool{}}
	require.NoError(t, m.ensureWatcher())
	done := m.watchDone

	m.closeWatcher()

	assert.Nil(t, m.watcher)
	assert.Nil(t, m.watchDone)
	select {
	case <-done:
	default:
		t.Fatal("done channel still open")
	}
}

func TestAffectsDocuments(t *testing.T) {
	m, _ := newTestModel(t, sampleFiles)
	m.condition = docs.DefaultCondition()

	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{"new document", "/r/new.md", fsnotify.Create, true},
		{"swap file", "/r/.a.md.swp", fsnotify.Create, false},
		{"plain text", "/r/notes.txt", fsnotify.Create, false},
		{"under excluded dir", "/r/node_modules/x.md", fsnotify.Create, false},
		{"removed document", "/r/a.md", fsnotify.Remove, true},
		{"renamed folder holding documents", "/r/b", fsnotify.Rename, true},
		{"removed unrelated file", "/r/tmp.txt", fsnotify.Remove, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.affectsDocuments(tt.path, tt.op))
		})
	}
}

func TestHandleFileEvent_IgnoresNonDocuments(t *testing.T) {
	m, _ := newTestModel(t, sampleFiles)
	m.condition = docs.DefaultCondition()

	assert.Nil(t, m.handleFileEvent(fileEventMsg{path: "/r/.a.md.swp", op: fsnotify.Create}))

	cmd := m.handleFileEvent(fileEventMsg{path: "/r/new.md", op: fsnotify.Create})
	require.NotNil(t, cmd)
	_, ok := cmd().(documentsLoadedMsg)
	assert.True(t, ok)
}

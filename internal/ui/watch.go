package ui

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type fileEventMsg struct {
	path string
	op   fsnotify.Op
}

type fileWatchErrMsg struct {
	err error
}

// watchActiveFile makes sure the directory of the open document is watched.
func (m *Model) watchActiveFile() tea.Cmd {
	if !m.watchEnabled || m.activePath == "" {
		return nil
	}
	if err := m.ensureWatcher(); err != nil {
		m.err = err
		return nil
	}
	m.watchDir(filepath.Dir(filepath.Clean(m.activePath)))
	return m.waitForFileEvent()
}

// syncWatches watches the root and every directory holding a document, and
// drops watches on directories that no longer do.
func (m *Model) syncWatches() tea.Cmd {
	if !m.watchEnabled || m.rootDir == "" {
		return nil
	}
	if err := m.ensureWatcher(); err != nil {
		m.err = err
		return nil
	}

	wanted := map[string]bool{filepath.Clean(m.rootDir): true}
	for _, doc := range m.documents {
		wanted[filepath.Clean(path.Dir(doc.Path))] = true
	}
	if m.activePath != "" {
		wanted[filepath.Dir(filepath.Clean(m.activePath))] = true
	}

	for dir := range m.watchedDirs {
		if !wanted[dir] {
			_ = m.watcher.Remove(dir)
			delete(m.watchedDirs, dir)
		}
	}
	for dir := range wanted {
		m.watchDir(dir)
	}
	return m.waitForFileEvent()
}

func (m *Model) watchDir(dir string) {
	if m.watchedDirs[dir] {
		return
	}
	if err := m.watcher.Add(dir); err != nil {
		m.logger.Warn("watch directory", zap.String("dir", dir), zap.Error(err))
		return
	}
	m.watchedDirs[dir] = true
}

func (m *Model) ensureWatcher() error {
	if m.watcher != nil {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	m.watcher = watcher
	m.watchChan = make(chan tea.Msg, 10)
	m.watchDone = make(chan struct{})

	go watchLoop(watcher, m.watchChan, m.watchDone)
	return nil
}

func (m *Model) closeWatcher() {
	if m.watcher == nil {
		return
	}
	close(m.watchDone)
	_ = m.watcher.Close()
	m.watcher = nil
	m.watchDone = nil
}

func watchLoop(watcher *fsnotify.Watcher, out chan<- tea.Msg, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !forward(out, fileEventMsg{path: event.Name, op: event.Op}, done) {
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if !forward(out, fileWatchErrMsg{err: err}, done) {
				return
			}
		}
	}
}

// forward hands msg to the UI, giving up once done is closed.
func forward(out chan<- tea.Msg, msg tea.Msg, done <-chan struct{}) bool {
	select {
	case out <- msg:
		return true
	case <-done:
		return false
	}
}

// waitForFileEvent keeps at most one reader on the watch channel.
func (m *Model) waitForFileEvent() tea.Cmd {
	if m.watchChan == nil || m.watchWaiting {
		return nil
	}
	m.watchWaiting = true
	ch := m.watchChan
	return func() tea.Msg {
		return <-ch
	}
}

// handleFileEvent reloads the open document on writes and refreshes the tree
// when documents or folders appear or vanish.
func (m *Model) handleFileEvent(msg fileEventMsg) tea.Cmd {
	m.watchWaiting = false
	name := filepath.Clean(msg.path)
	cmds := []tea.Cmd{m.waitForFileEvent()}

	if m.activePath != "" && name == filepath.Clean(m.activePath) && msg.op&fsnotify.Write != 0 {
		m.reloadActiveFile()
	}

	if m.rootDir != "" && msg.op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
		if !m.affectsDocuments(name, msg.op) {
			return tea.Batch(cmds...)
		}
		if msg.op&fsnotify.Create != 0 {
			if info, err := os.Stat(name); err == nil && info.IsDir() && m.watcher != nil {
				m.watchDir(name)
			}
		}
		m.logger.Debug("filesystem changed", zap.String("path", name), zap.String("op", msg.op.String()))
		cmds = append(cmds, m.loadDocuments(m.rootDir))
	}
	return tea.Batch(cmds...)
}

// affectsDocuments reports whether a create, remove or rename of name can
// change the document list. Removed paths matter when they were a document
// or held one; created paths are checked against the document condition.
func (m *Model) affectsDocuments(name string, op fsnotify.Op) bool {
	p := filepath.ToSlash(name)
	for _, doc := range m.documents {
		if doc.Path == p || strings.HasPrefix(doc.Path, p+"/") {
			return true
		}
	}
	if op&fsnotify.Create == 0 {
		return false
	}

	base, dir := path.Base(p), path.Base(path.Dir(p))
	if info, err := os.Stat(name); err == nil && info.IsDir() {
		return !m.condition.SkipDir(base)
	}
	return m.condition.Match(base, dir)
}

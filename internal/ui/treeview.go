package ui

import (
	"fmt"
	"path"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/kyaoi/docbrowse/internal/tree"
)

type treeLine struct {
	node   *tree.Node
	depth  int
	parent int
	label  string
}

type documentsLoadedMsg struct {
	root      string
	documents []tree.Document
	err       error
}

type documentCreatedMsg struct {
	path string
	err  error
}

// loadDocuments fetches the document list for root in the background.
func (m *Model) loadDocuments(root string) tea.Cmd {
	if root == "" || m.provider == nil {
		return nil
	}
	ctx, provider, filter, logger := m.ctx, m.provider, m.filter, m.logger
	return func() tea.Msg {
		documents, err := provider.ListDocuments(ctx, root)
		if err == nil && filter != nil {
			var filterErr error
			documents, filterErr = filter(ctx, documents)
			if filterErr != nil {
				logger.Warn("filter documents", zap.String("root", root), zap.Error(filterErr))
			}
		}
		return documentsLoadedMsg{root: root, documents: documents, err: err}
	}
}

func (m *Model) handleDocumentsLoaded(msg documentsLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.err = msg.err
		m.logger.Error("load documents", zap.String("root", msg.root), zap.Error(msg.err))
		return nil
	}
	m.err = nil
	m.applyDocuments(msg.root, msg.documents)

	var cmd tea.Cmd
	if m.openAfterLoad {
		m.openAfterLoad = false
		if line := m.currentTreeLine(); line != nil && !line.node.IsDir() {
			cmd = m.openFile(line.node.Path)
		}
	}
	return tea.Batch(cmd, m.syncWatches())
}

// applyDocuments rebuilds the tree for root and reconciles the expansion
// state before anything is rendered.
func (m *Model) applyDocuments(root string, documents []tree.Document) {
	selected := m.pendingSelect
	if selected == "" {
		if line := m.currentTreeLine(); line != nil {
			selected = line.node.Path
		}
	}
	m.pendingSelect = ""

	m.treeWarning = ""
	nodes, err := tree.BuildCollapsed(documents, root)
	if err != nil {
		skipped := multierr.Errors(err)
		for _, e := range skipped {
			m.logger.Warn("document skipped", zap.Error(e))
		}
		m.treeWarning = fmt.Sprintf("%d document(s) skipped: %v", len(skipped), skipped[0])
	}

	m.rootDir = root
	m.documents = documents
	m.nodes = tree.Sorted(nodes)
	m.expansion.Reconcile(m.nodes)
	m.loaded = true

	m.logger.Debug("tree rebuilt",
		zap.String("root", root),
		zap.Int("documents", len(documents)),
		zap.Int("folders", len(tree.FolderPaths(m.nodes))))

	if selected != "" {
		m.revealPath(selected)
	}
	m.refreshTreeView(selected)
}

// revealPath expands the folders that lead to target.
func (m *Model) revealPath(target string) {
	var walk func([]*tree.Node) bool
	walk = func(level []*tree.Node) bool {
		for _, node := range level {
			if node.Path == target {
				return true
			}
			if node.IsDir() && walk(node.Children) {
				_ = m.expansion.Expand(node.Path)
				return true
			}
		}
		return false
	}
	walk(m.nodes)
}

func (m *Model) refreshTreeView(selected string) {
	maxWidth := m.rebuildFlatTree()
	switch {
	case len(m.flatTree) == 0:
		m.treeSelection = 0
	case m.indexForPath(selected) >= 0:
		m.treeSelection = m.indexForPath(selected)
	default:
		m.treeSelection = clamp(m.treeSelection, 0, len(m.flatTree)-1)
	}
	m.treeContentWidth = maxWidth
	m.updateTreeContent(maxWidth)
}

func (m *Model) rebuildFlatTree() int {
	var lines []treeLine
	maxWidth := lipgloss.Width(m.treeTitle())
	var walk func([]*tree.Node, int, int)
	walk = func(level []*tree.Node, depth, parent int) {
		for _, node := range level {
			label := formatTreeLabel(node, depth, m.expansion.IsExpanded(node.Path))
			maxWidth = max(maxWidth, lipgloss.Width(label))
			lines = append(lines, treeLine{node: node, depth: depth, parent: parent, label: label})
			if node.IsDir() && m.expansion.IsExpanded(node.Path) {
				walk(node.Children, depth+1, len(lines)-1)
			}
		}
	}
	walk(m.nodes, 0, -1)
	m.flatTree = lines
	return maxWidth
}

func (m *Model) treeTitle() string {
	title := path.Base(m.rootDir) + "/"
	if m.filterLabel != "" {
		title += " (" + m.filterLabel + ")"
	}
	return title
}

func (m *Model) updateTreeContent(width int) {
	if m.rootDir == "" {
		return
	}
	if width <= 0 {
		width = minTreePanelWidth
	}
	var builder strings.Builder
	builder.WriteString(treeTitleStyle.Render(m.treeTitle()))
	if len(m.flatTree) == 0 && m.loaded {
		builder.WriteByte('\n')
		builder.WriteString(treeLineStyle.Render("  (no documents)"))
	}
	for i, line := range m.flatTree {
		builder.WriteByte('\n')
		switch {
		case i == m.treeSelection && m.treeFocus:
			builder.WriteString(treeSelectedActive.Render(line.label))
		case i == m.treeSelection:
			builder.WriteString(treeSelectedInactive.Render(line.label))
		default:
			builder.WriteString(treeLineStyle.Render(line.label))
		}
	}
	m.treePreferredWidth = max(width+4, minTreePanelWidth)
	m.treeVP.SetContent(builder.String())
	m.ensureSelectionVisible()
}

func formatTreeLabel(node *tree.Node, depth int, expanded bool) string {
	indent := strings.Repeat("  ", depth)
	indicator := "  "
	if node.IsDir() {
		if expanded {
			indicator = "- "
		} else {
			indicator = "+ "
		}
		return indent + indicator + node.Name + "/"
	}
	return indent + indicator + node.Name
}

func (m *Model) indexForPath(p string) int {
	if p == "" {
		return -1
	}
	for i, line := range m.flatTree {
		if line.node.Path == p {
			return i
		}
	}
	return -1
}

// ensureSelectionVisible scrolls the tree panel. Line 0 of the panel is the
// title, so entry i sits on line i+1.
func (m *Model) ensureSelectionVisible() {
	if len(m.flatTree) == 0 || m.treeVP.Height == 0 {
		return
	}
	line := m.treeSelection + 1
	top := line
	if m.treeSelection == 0 {
		top = 0
	}
	if top < m.treeVP.YOffset {
		m.treeVP.SetYOffset(top)
		return
	}
	if bottom := m.treeVP.YOffset + m.treeVP.Height - 1; line > bottom {
		m.treeVP.SetYOffset(line - m.treeVP.Height + 1)
	}
}

func (m *Model) currentTreeLine() *treeLine {
	if len(m.flatTree) == 0 || m.treeSelection < 0 || m.treeSelection >= len(m.flatTree) {
		return nil
	}
	return &m.flatTree[m.treeSelection]
}

func (m *Model) selectIndex(i int) {
	if len(m.flatTree) == 0 {
		return
	}
	m.treeSelection = clamp(i, 0, len(m.flatTree)-1)
	m.updateTreeContent(m.treeContentWidth)
}

func (m *Model) moveTreeSelection(delta int) {
	m.selectIndex(m.treeSelection + delta)
}

func (m *Model) openOrDescend() tea.Cmd {
	line := m.currentTreeLine()
	if line == nil {
		return nil
	}
	node := line.node
	if !node.IsDir() {
		return m.openFile(node.Path)
	}
	if !m.expansion.IsExpanded(node.Path) {
		_ = m.expansion.Expand(node.Path)
		m.refreshTreeView(node.Path)
		return nil
	}
	if len(node.Children) > 0 {
		m.moveTreeSelection(1)
	}
	return nil
}

func (m *Model) closeOrAscend() {
	line := m.currentTreeLine()
	if line == nil {
		return
	}
	if line.node.IsDir() && m.expansion.IsExpanded(line.node.Path) {
		_ = m.expansion.Collapse(line.node.Path)
		m.refreshTreeView(line.node.Path)
		return
	}
	if line.parent >= 0 {
		m.selectIndex(line.parent)
	}
}

func (m *Model) toggleSelected() {
	line := m.currentTreeLine()
	if line == nil || !line.node.IsDir() {
		return
	}
	p := line.node.Path
	if err := m.expansion.Toggle(p); err != nil {
		m.err = err
		return
	}
	m.refreshTreeView(p)
}

// selectedFolder is the folder new files go into: the selected folder, the
// folder holding the selected file, or the root.
func (m *Model) selectedFolder() string {
	line := m.currentTreeLine()
	if line == nil {
		return m.rootDir
	}
	if line.node.IsDir() {
		return line.node.Path
	}
	if line.parent >= 0 {
		return m.flatTree[line.parent].node.Path
	}
	return m.rootDir
}

// browseSelected makes the selected folder the new root.
func (m *Model) browseSelected() tea.Cmd {
	line := m.currentTreeLine()
	if line == nil || !line.node.IsDir() {
		return nil
	}
	m.logger.Info("browse folder", zap.String("path", line.node.Path))
	return m.loadDocuments(line.node.Path)
}

// browseParent moves the root one directory up.
func (m *Model) browseParent() tea.Cmd {
	if m.rootDir == "" || m.rootDir == "/" {
		return nil
	}
	parent := path.Dir(strings.TrimSuffix(m.rootDir, "/"))
	m.pendingSelect = m.rootDir
	m.logger.Info("browse parent", zap.String("path", parent))
	return m.loadDocuments(parent)
}

func (m *Model) enterCreateMode() tea.Cmd {
	if m.provider == nil || m.rootDir == "" {
		return nil
	}
	m.createFolder = m.selectedFolder()
	m.createActive = true
	m.createInput.Prompt = fmt.Sprintf("new file in %s/: ", m.displayPath(m.createFolder))
	m.createInput.SetValue("")
	return m.createInput.Focus()
}

func (m *Model) exitCreateMode() {
	m.createActive = false
	m.createInput.Blur()
	m.createInput.SetValue("")
}

func (m *Model) handleCreateKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		name := strings.TrimSpace(m.createInput.Value())
		folder := m.createFolder
		m.exitCreateMode()
		if name == "" {
			return nil
		}
		ctx, provider := m.ctx, m.provider
		return func() tea.Msg {
			p, err := provider.CreateDocument(ctx, folder, name)
			return documentCreatedMsg{path: p, err: err}
		}
	case tea.KeyEsc, tea.KeyCtrlC:
		m.exitCreateMode()
		return nil
	}
	var cmd tea.Cmd
	m.createInput, cmd = m.createInput.Update(msg)
	return cmd
}

func (m *Model) handleDocumentCreated(msg documentCreatedMsg) tea.Cmd {
	if msg.err != nil {
		m.err = msg.err
		m.logger.Error("create document", zap.Error(msg.err))
		return nil
	}
	m.err = nil
	m.setStatus("created %s", m.displayPath(msg.path))
	m.pendingSelect = msg.path
	m.openAfterLoad = true
	return m.loadDocuments(m.rootDir)
}

// displayPath renders p relative to the parent of the root, e.g. "docs/a.md".
func (m *Model) displayPath(p string) string {
	if m.rootDir == "" {
		return p
	}
	base := path.Base(m.rootDir)
	root := strings.TrimSuffix(m.rootDir, "/")
	switch {
	case p == m.rootDir || p == root:
		return base
	case strings.HasPrefix(p, root+"/"):
		return base + "/" + strings.TrimPrefix(p, root+"/")
	default:
		return p
	}
}

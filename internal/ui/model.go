package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	styles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kyaoi/docbrowse/internal/docs"
	"github.com/kyaoi/docbrowse/internal/tree"
)

const (
	headerHeight      = 0
	minContentWidth   = 20
	minTreePanelWidth = 18
	defaultTreeWidth  = 28
)

var (
	treeBlurBorderColor  = lipgloss.Color("#3b4261")
	treeFocusBorderColor = lipgloss.Color("#7aa2f7")
	treeLineStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#a9b1d6"))
	treeTitleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true)
	treeSelectedActive   = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1a1b26")).
				Background(lipgloss.Color("#7aa2f7")).
				Bold(true)
	treeSelectedInactive = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#c0caf5")).
				Background(lipgloss.Color("#283457"))
	helpBoxStyle = lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Background(lipgloss.Color("#1f2335"))
	barStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#a9b1d6")).
			Background(lipgloss.Color("#1f2335"))
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b"))
)

// Model implements the Bubble Tea program for the document browser.
type Model struct {
	ctx      context.Context
	provider docs.Provider
	logger   *zap.Logger

	contentVP          viewport.Model
	treeVP             viewport.Model
	renderer           *glamour.TermRenderer
	style              string
	rawContent         string
	headerPath         string
	treeVisible        bool
	treePreferredWidth int
	fixedTreeWidth     int
	treeContentWidth   int
	treeFocus          bool
	showHelp           bool
	pendingKey         string
	width              int
	height             int
	err                error
	status             string
	treeWarning        string

	rootDir       string
	filter        DocumentFilter
	filterLabel   string
	documents     []tree.Document
	nodes         []*tree.Node
	expansion     *tree.Tracker
	flatTree      []treeLine
	treeSelection int
	pendingSelect string
	openAfterLoad bool
	loaded        bool

	activePath      string
	renderedContent string

	createInput  textinput.Model
	createActive bool
	createFolder string

	searchInput   textinput.Model
	searchActive  bool
	searchQuery   string
	searchMatches []int
	searchIndex   int

	condition    docs.Condition
	watchEnabled bool
	watchDone    chan struct{}
	watcher      *fsnotify.Watcher
	watchedDirs  map[string]bool
	watchChan    chan tea.Msg
	watchWaiting bool
}

// NewModel constructs the browser model with the provided initial state.
func NewModel(ctx context.Context, state State, provider docs.Provider, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	contentVP := viewport.New(0, 0)
	contentVP.Style = lipgloss.NewStyle().Padding(0, 1)
	contentVP.SetHorizontalStep(2)

	treeVP := viewport.New(0, 0)
	treeVP.Style = treePanelStyle(treeBlurBorderColor)
	treeVP.MouseWheelEnabled = false

	style := state.Style
	if style == "" {
		style = styles.TokyoNightStyle
	}

	m := &Model{
		ctx:                ctx,
		provider:           provider,
		logger:             logger,
		contentVP:          contentVP,
		treeVP:             treeVP,
		style:              style,
		rawContent:         state.RawContent,
		headerPath:         state.HeaderPath,
		treeVisible:        state.TreeVisible && state.RootDir != "",
		fixedTreeWidth:     state.TreePreferredWidth,
		rootDir:            state.RootDir,
		filter:             state.Filter,
		filterLabel:        state.FilterLabel,
		expansion:          tree.NewTracker(logger),
		pendingSelect:      state.SelectionPath,
		activePath:         state.ActivePath,
		searchIndex:        -1,
		condition:          state.Condition,
		watchEnabled:       state.Watch,
		watchedDirs:        make(map[string]bool),
	}

	searchInput := textinput.New()
	searchInput.Prompt = "/"
	searchInput.CharLimit = 256
	searchInput.Placeholder = "search"
	searchInput.Blur()
	m.searchInput = searchInput

	createInput := textinput.New()
	createInput.Prompt = "new file: "
	createInput.CharLimit = 255
	createInput.Placeholder = "name.md"
	createInput.Blur()
	m.createInput = createInput

	if state.Documents != nil && m.rootDir != "" {
		m.applyDocuments(m.rootDir, state.Documents)
	}
	m.updateTreePanelStyle()

	if state.FocusTree && m.treeVisible {
		m.focusTree()
	}

	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.rootDir != "" && !m.loaded {
		cmds = append(cmds, m.loadDocuments(m.rootDir))
	}
	if m.activePath != "" {
		cmds = append(cmds, m.watchActiveFile())
	}
	return tea.Batch(cmds...)
}

// View implements tea.Model.
func (m *Model) View() string {
	body := m.contentVP.View()
	if m.treeVisible {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.treeVP.View(), body)
	}

	if m.err != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, errStyle.Render(m.err.Error()), body)
	}

	if m.showHelp {
		helpOverlay := helpBoxStyle.Render(helpText())
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpOverlay)
		}
		return helpOverlay
	}

	switch {
	case m.createActive:
		body = lipgloss.JoinVertical(lipgloss.Left, body, barStyle.Render(m.createInput.View()))
	case m.searchActive:
		body = lipgloss.JoinVertical(lipgloss.Left, body, barStyle.Render(m.searchInput.View()))
	case m.searchQuery != "":
		if status := m.searchStatusLine(); status != "" {
			body = lipgloss.JoinVertical(lipgloss.Left, body, barStyle.Render(status))
		}
	case m.status != "":
		body = lipgloss.JoinVertical(lipgloss.Left, body, barStyle.Render(m.status))
	case m.treeWarning != "":
		body = lipgloss.JoinVertical(lipgloss.Left, body, barStyle.Render(m.treeWarning))
	}

	return body
}

func helpText() string {
	return strings.Join([]string{
		"Help (? / Esc to close)",
		"Ctrl+h / Ctrl+l : focus tree / content",
		"j / k            : move selection / scroll",
		"Ctrl+d / Ctrl+u : half page (content focus)",
		"Ctrl+f / Ctrl+b : scroll content (tree focus)",
		"gg / G           : top / bottom",
		"l / Enter        : open file or expand folder",
		"h                : collapse folder or go to parent",
		"Space            : toggle folder",
		"a                : create a file in the folder",
		"o / u            : browse into folder / up one level",
		"r                : reload documents",
		"/ , n / N        : search, next / previous match",
		"t                : toggle tree",
		"q / Ctrl+c       : quit",
	}, "\n")
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case documentsLoadedMsg:
		return m, m.handleDocumentsLoaded(msg)
	case documentCreatedMsg:
		return m, m.handleDocumentCreated(msg)
	case fileEventMsg:
		return m, m.handleFileEvent(msg)
	case fileWatchErrMsg:
		m.watchWaiting = false
		m.err = msg.err
		return m, m.waitForFileEvent()
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.createActive {
			return m, m.handleCreateKey(msg)
		}
		if m.searchActive {
			switch msg.Type {
			case tea.KeyEnter:
				query := strings.TrimSpace(m.searchInput.Value())
				m.exitSearchMode()
				if query == "" {
					m.clearSearch()
					return m, nil
				}
				m.performSearch(query, true)
				return m, nil
			case tea.KeyEsc, tea.KeyCtrlC:
				m.exitSearchMode()
				return m, nil
			}
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			return m, cmd
		}

		key := msg.String()
		if key != "g" {
			m.pendingKey = ""
		}

		if m.showHelp {
			m.pendingKey = ""
			switch key {
			case "q", "?", "esc":
				m.showHelp = false
			}
			return m, nil
		}

		switch key {
		case "q", "ctrl+c":
			m.closeWatcher()
			return m, tea.Quit
		case "?":
			m.showHelp = true
			m.pendingKey = ""
			return m, nil
		case "ctrl+h":
			if m.treeVisible {
				m.focusTree()
			}
			return m, nil
		case "ctrl+l":
			m.blurTree()
			return m, nil
		case "t":
			if m.rootDir != "" {
				m.treeVisible = !m.treeVisible
				if !m.treeVisible {
					m.blurTree()
				}
				m.resize(m.width, m.height)
			}
			return m, nil
		case "/":
			return m, m.enterSearchMode()
		case "n":
			if len(m.searchMatches) > 0 {
				m.nextSearchMatch()
				return m, nil
			}
		case "N":
			if len(m.searchMatches) > 0 {
				m.previousSearchMatch()
				return m, nil
			}
		}

		if m.treeFocus && m.treeVisible {
			_, cmd := m.handleTreeKey(key)
			return m, cmd
		}

		if m.handleContentKey(key) {
			return m, nil
		}

		var cmd tea.Cmd
		m.contentVP, cmd = m.contentVP.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.contentVP, cmd = m.contentVP.Update(msg)
	return m, cmd
}

func (m *Model) handleContentKey(key string) bool {
	switch key {
	case "j":
		m.contentVP.ScrollDown(1)
	case "k":
		m.contentVP.ScrollUp(1)
	case "ctrl+d":
		m.contentVP.HalfPageDown()
	case "ctrl+u":
		m.contentVP.HalfPageUp()
	case "h":
		m.contentVP.ScrollLeft(max(2, m.contentVP.Width/6))
	case "l":
		m.contentVP.ScrollRight(max(2, m.contentVP.Width/6))
	case "g":
		if m.pendingKey == "g" {
			m.contentVP.GotoTop()
			m.pendingKey = ""
		} else {
			m.pendingKey = "g"
		}
		return true
	case "G":
		m.pendingKey = ""
		m.contentVP.GotoBottom()
	default:
		return false
	}
	m.pendingKey = ""
	return true
}

func (m *Model) handleTreeKey(key string) (bool, tea.Cmd) {
	switch key {
	case "j", "down":
		m.moveTreeSelection(1)
	case "k", "up":
		m.moveTreeSelection(-1)
	case "ctrl+d":
		m.moveTreeSelection(max(1, m.treeVP.Height/2))
	case "ctrl+u":
		m.moveTreeSelection(-max(1, m.treeVP.Height/2))
	case "ctrl+j":
		m.contentVP.ScrollDown(1)
	case "ctrl+k":
		m.contentVP.ScrollUp(1)
	case "ctrl+f":
		m.contentVP.ScrollDown(max(1, m.contentVP.Height/2))
	case "ctrl+b":
		m.contentVP.ScrollUp(max(1, m.contentVP.Height/2))
	case "l", "right", "enter":
		return true, m.openOrDescend()
	case "h", "left":
		m.closeOrAscend()
	case " ", "space":
		m.toggleSelected()
	case "a":
		return true, m.enterCreateMode()
	case "o":
		return true, m.browseSelected()
	case "u", "backspace":
		return true, m.browseParent()
	case "r":
		return true, m.loadDocuments(m.rootDir)
	case "g":
		if m.pendingKey == "g" {
			m.pendingKey = ""
			m.selectIndex(0)
		} else {
			m.pendingKey = "g"
		}
	case "G":
		m.pendingKey = ""
		m.selectIndex(len(m.flatTree) - 1)
	default:
		m.pendingKey = ""
		return false, nil
	}
	return true, nil
}

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= headerHeight {
		return
	}

	m.width = width
	m.height = height

	treeWidth := m.treeWidth(width)
	contentWidth := width - treeWidth
	if m.treeVisible && treeWidth > 0 {
		contentWidth--
	}
	if contentWidth < minContentWidth {
		contentWidth = minContentWidth
	}

	contentHeight := max(height-headerHeight, 1)
	m.contentVP.Width = contentWidth
	m.contentVP.Height = contentHeight

	wrapWidth := max(contentWidth-m.contentVP.Style.GetHorizontalFrameSize(), 0)
	renderer, err := newRenderer(m.style, wrapWidth)
	if err != nil {
		m.err = err
		return
	}
	m.renderer = renderer
	m.renderMarkdown()

	if m.treeVisible && treeWidth > 0 {
		m.treeVP.Width = treeWidth
		m.treeVP.Height = contentHeight
		m.ensureSelectionVisible()
	} else {
		m.treeVP.Width = 0
		m.treeVP.Height = contentHeight
	}
}

// treeWidth prefers the configured width over the one derived from the labels.
func (m *Model) treeWidth(totalWidth int) int {
	if !m.treeVisible {
		return 0
	}
	preferred := m.fixedTreeWidth
	if preferred <= 0 {
		preferred = m.treePreferredWidth
	}
	if preferred <= 0 {
		preferred = defaultTreeWidth
	}

	frame := m.treeVP.Style.GetHorizontalFrameSize()
	minPanel := max(minTreePanelWidth-frame, 0)
	maxPanel := max(totalWidth/2-frame, minPanel)
	panelContentWidth := clamp(preferred, minPanel, maxPanel)

	width := panelContentWidth + frame
	if totalWidth-width < minContentWidth {
		width = max(totalWidth-minContentWidth, 0)
	}
	return min(width, totalWidth)
}

func (m *Model) focusTree() {
	m.treeFocus = true
	m.updateTreePanelStyle()
	m.updateTreeContent(m.treeContentWidth)
}

func (m *Model) blurTree() {
	m.treeFocus = false
	m.updateTreePanelStyle()
	m.updateTreeContent(m.treeContentWidth)
}

func (m *Model) updateTreePanelStyle() {
	color := treeBlurBorderColor
	if m.treeFocus {
		color = treeFocusBorderColor
	}
	m.treeVP.Style = treePanelStyle(color)
}

func treePanelStyle(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(color)
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

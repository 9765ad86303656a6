// Package bubbletea provides a terminal UI viewer for expandable diffs using
// the Bubble Tea framework.
package bubbletea

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/diffexpand"
)

// expandResultMsg reports the outcome of an expansion request issued as a
// command.
type expandResultMsg struct {
	ref    hunkRef
	dir    diffexpand.Direction
	result diffexpand.ExpandResult
	err    error
}

// Model is the Bubble Tea model for viewing an expandable diff. All diff
// state lives on the controller; the model holds only presentation state and
// re-reads a snapshot whenever the controller changes.
type Model struct {
	ctrl *diffexpand.Controller
	diff *diffexpand.Diff

	refs      []hunkRef
	positions map[hunkRef]int
	edges     map[hunkRef]edgeState
	cursor    int

	wordDiffer diffexpand.WordDiffer
	clipboard  diffexpand.Clipboard

	viewport   viewport.Model
	keymap     KeyMap
	styles     diffexpand.Styles
	renderer   *lipgloss.Renderer
	width      int
	ready      bool
	pendingKey string
	status     string
}

// ModelOption configures a Model.
type ModelOption func(*modelConfig)

type modelConfig struct {
	renderer   *lipgloss.Renderer
	theme      diffexpand.Theme
	wordDiffer diffexpand.WordDiffer
	clipboard  diffexpand.Clipboard
}

// WithRenderer sets a custom lipgloss renderer for the model.
func WithRenderer(r *lipgloss.Renderer) ModelOption {
	return func(cfg *modelConfig) {
		cfg.renderer = r
	}
}

// WithTheme sets the theme for the model.
func WithTheme(t diffexpand.Theme) ModelOption {
	return func(cfg *modelConfig) {
		cfg.theme = t
	}
}

// WithWordDiffer sets the word differ for word-level highlighting.
func WithWordDiffer(d diffexpand.WordDiffer) ModelOption {
	return func(cfg *modelConfig) {
		cfg.wordDiffer = d
	}
}

// WithClipboard sets the clipboard used for yanking hunk text.
func WithClipboard(c diffexpand.Clipboard) ModelOption {
	return func(cfg *modelConfig) {
		cfg.clipboard = c
	}
}

// NewModel creates a new Model over the given controller.
func NewModel(ctrl *diffexpand.Controller, opts ...ModelOption) Model {
	cfg := &modelConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var styles diffexpand.Styles
	if cfg.theme != nil {
		styles = cfg.theme.Styles()
	}

	m := Model{
		ctrl:       ctrl,
		wordDiffer: cfg.wordDiffer,
		clipboard:  cfg.clipboard,
		keymap:     DefaultKeyMap(),
		styles:     styles,
		renderer:   cfg.renderer,
	}
	m.refresh()
	return m
}

// refresh re-reads the controller snapshot and rebuilds the hunk list,
// expansion affordances, and layout positions. The cursor follows the hunk
// it was on; after a merge the controller resolves the absorbed ID to its
// survivor, otherwise the index is clamped.
func (m *Model) refresh() {
	prev := m.selectedRef()

	m.diff = m.ctrl.Diff()
	m.refs = m.refs[:0]
	m.edges = make(map[hunkRef]edgeState)
	for _, file := range m.diff.Files {
		if !shouldRenderFile(file) {
			continue
		}
		path := file.Path()
		for _, hunk := range file.Hunks {
			ref := hunkRef{path: path, id: hunk.ID}
			m.refs = append(m.refs, ref)
			m.edges[ref] = edgeState{
				canBefore:     m.ctrl.CanExpand(path, hunk.ID, diffexpand.Before),
				canAfter:      m.ctrl.CanExpand(path, hunk.ID, diffexpand.After),
				loadingBefore: m.ctrl.IsLoading(path, hunk.ID, diffexpand.Before),
				loadingAfter:  m.ctrl.IsLoading(path, hunk.ID, diffexpand.After),
			}
		}
	}

	m.cursor = 0
	for i, ref := range m.refs {
		if ref == prev {
			m.cursor = i
			break
		}
	}
	if m.cursor >= len(m.refs) {
		m.cursor = max(len(m.refs)-1, 0)
	}

	m.positions, _ = computePositions(m.renderCfg())
	if m.ready {
		m.viewport.SetContent(renderDiff(m.renderCfg()))
	}
}

// selectedRef returns the hunk under the cursor, or a zero ref when the diff
// has no hunks.
func (m Model) selectedRef() hunkRef {
	if m.cursor < 0 || m.cursor >= len(m.refs) {
		return hunkRef{}
	}
	return m.refs[m.cursor]
}

// renderCfg assembles the rendering parameters from the current model state.
func (m Model) renderCfg() renderConfig {
	return renderConfig{
		diff:         m.diff,
		styles:       m.styles,
		renderer:     m.renderer,
		width:        m.width,
		wordDiffer:   m.wordDiffer,
		edges:        m.edges,
		selected:     m.selectedRef(),
		contextLines: m.ctrl.ContextLines(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Multi-key sequence: gg goes to top
		if m.pendingKey == "g" && key.Matches(msg, m.keymap.GotoTop) {
			m.viewport.GotoTop()
			m.pendingKey = ""
			return m, nil
		}
		if key.Matches(msg, m.keymap.GotoTop) {
			m.pendingKey = "g"
			return m, nil
		}
		m.pendingKey = ""

		switch {
		case key.Matches(msg, m.keymap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keymap.GotoBottom):
			m.viewport.GotoBottom()
			return m, nil
		case key.Matches(msg, m.keymap.HalfPageUp):
			m.viewport.HalfPageUp()
			return m, nil
		case key.Matches(msg, m.keymap.HalfPageDown):
			m.viewport.HalfPageDown()
			return m, nil
		case key.Matches(msg, m.keymap.Up):
			m.viewport.ScrollUp(1)
			return m, nil
		case key.Matches(msg, m.keymap.Down):
			m.viewport.ScrollDown(1)
			return m, nil
		case key.Matches(msg, m.keymap.NextHunk):
			m.moveCursor(1)
			return m, nil
		case key.Matches(msg, m.keymap.PrevHunk):
			m.moveCursor(-1)
			return m, nil
		case key.Matches(msg, m.keymap.ExpandBefore):
			return m, m.expandCmd(diffexpand.Before)
		case key.Matches(msg, m.keymap.ExpandAfter):
			return m, m.expandCmd(diffexpand.After)
		case key.Matches(msg, m.keymap.Yank):
			m.yankSelected()
			return m, nil
		}
	case expandResultMsg:
		m.status = expandStatus(msg)
		m.refresh()
		return m, nil
	case tea.WindowSizeMsg:
		statusBarHeight := 1
		widthChanged := m.width != msg.Width
		m.width = msg.Width

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-statusBarHeight)
			m.ready = true
			m.viewport.SetContent(renderDiff(m.renderCfg()))
			m.positions, _ = computePositions(m.renderCfg())
		} else if widthChanged {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - statusBarHeight
			m.viewport.SetContent(renderDiff(m.renderCfg()))
		} else {
			m.viewport.Height = msg.Height - statusBarHeight
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.statusBarView())
}

// moveCursor moves the hunk cursor by delta and scrolls the viewport so the
// selected hunk header is visible.
func (m *Model) moveCursor(delta int) {
	if len(m.refs) == 0 {
		return
	}
	next := m.cursor + delta
	if next < 0 || next >= len(m.refs) {
		return
	}
	m.cursor = next
	m.viewport.SetContent(renderDiff(m.renderCfg()))
	if pos, ok := m.positions[m.refs[m.cursor]]; ok {
		m.viewport.SetYOffset(pos)
	}
}

// expandCmd returns a command that requests expansion of the selected hunk's
// dir edge and reports the outcome.
func (m *Model) expandCmd(dir diffexpand.Direction) tea.Cmd {
	ref := m.selectedRef()
	if ref == (hunkRef{}) {
		return nil
	}
	ctrl := m.ctrl
	return func() tea.Msg {
		res, err := ctrl.RequestExpansion(context.Background(), ref.path, ref.id, dir, 0)
		return expandResultMsg{ref: ref, dir: dir, result: res, err: err}
	}
}

// yankSelected copies the selected hunk's text, in unified diff format, to
// the clipboard. Best effort: errors are silently ignored in the UI.
func (m *Model) yankSelected() {
	ref := m.selectedRef()
	if m.clipboard == nil || ref == (hunkRef{}) {
		return
	}
	for _, file := range m.diff.Files {
		if file.Path() != ref.path {
			continue
		}
		for _, hunk := range file.Hunks {
			if hunk.ID != ref.id {
				continue
			}
			var sb strings.Builder
			sb.WriteString(formatHunkHeader(hunk))
			sb.WriteString("\n")
			for _, line := range hunk.Lines {
				sb.WriteString(linePrefixFor(line.Type))
				sb.WriteString(line.Content)
				sb.WriteString("\n")
			}
			_ = m.clipboard.Copy(sb.String())
			m.status = "yanked"
			return
		}
	}
}

// expandStatus summarizes an expansion outcome for the status bar.
func expandStatus(msg expandResultMsg) string {
	switch {
	case msg.err != nil:
		return "expand failed: " + msg.err.Error()
	case msg.result.Stale:
		return "expansion superseded"
	case msg.result.Merged:
		return fmt.Sprintf("expanded %d lines, hunks merged", msg.result.LinesAdded)
	case msg.result.LinesAdded > 0:
		return fmt.Sprintf("expanded %d lines %s", msg.result.LinesAdded, msg.dir)
	default:
		return "nothing to expand"
	}
}

// newStyle creates a new lipgloss style using the model's renderer.
func (m Model) newStyle() lipgloss.Style {
	if m.renderer != nil {
		return m.renderer.NewStyle()
	}
	return lipgloss.NewStyle()
}

// statusBarView renders the status bar with position info and key help.
func (m Model) statusBarView() string {
	barStyle := styleFromColorPair(m.styles.FileHeader, m.renderer)
	dimStyle := styleFromColorPair(m.styles.Context, m.renderer)

	hunkTotal := len(m.refs)
	hunkWidth := digitWidth(hunkTotal)
	hunkPos := fmt.Sprintf("hunk %*d/%-*d", hunkWidth, min(m.cursor+1, hunkTotal), hunkWidth, hunkTotal)

	sep := m.newStyle().Render(" │ ")
	content := barStyle.Render(hunkPos) + sep
	if m.status != "" {
		content += barStyle.Render(m.status) + sep
	}
	content += barStyle.Render(m.scrollPosition()) + sep +
		dimStyle.Render("j/k:scroll  J/K:hunk  e/E:expand  y:yank  q:quit") +
		barStyle.Render("  ")

	contentWidth := lipgloss.Width(content)
	if m.width > contentWidth {
		content = barStyle.Render(strings.Repeat(" ", m.width-contentWidth)) + content
	}
	return content
}

// scrollPosition returns a string indicating the scroll position.
func (m Model) scrollPosition() string {
	if m.viewport.AtTop() {
		return "Top"
	}
	if m.viewport.AtBottom() {
		return "Bot"
	}
	return fmt.Sprintf("%2d%%", int(m.viewport.ScrollPercent()*100))
}

// Compile-time interface verification.
var _ diffexpand.Viewer = (*Viewer)(nil)

// Viewer implements diffexpand.Viewer using a Bubble Tea TUI.
type Viewer struct {
	opts []ModelOption
}

// NewViewer creates a new Viewer. The options are applied to the model each
// time a diff is viewed.
func NewViewer(opts ...ModelOption) *Viewer {
	return &Viewer{opts: opts}
}

// View displays the controller's diff and blocks until the user exits.
func (v *Viewer) View(ctx context.Context, ctrl *diffexpand.Controller) error {
	m := NewModel(ctrl, v.opts...)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}

package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/geometry"
	"github.com/matzehuels/platecut/pkg/interact"
	"github.com/matzehuels/platecut/pkg/socket"
	"github.com/matzehuels/platecut/pkg/store"
)

// Editor styles
var (
	editorPlateStyle       = lipgloss.NewStyle().Foreground(colorDim)
	editorActivePlateStyle = lipgloss.NewStyle().Foreground(colorGray)
	editorUnitStyle        = lipgloss.NewStyle().Foreground(colorCyan)
	editorActiveUnitStyle  = lipgloss.NewStyle().Foreground(colorOrange).Bold(true)
	editorSeparatorStyle   = lipgloss.NewStyle().Foreground(colorDim)
	editorLabelStyle       = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
)

const (
	// editorChromeRows are the title, status, error and help lines.
	editorChromeRows = 4

	// Terminal cells are coarse, so the editor uses its own margins.
	editorPaddingPx = 2
	editorGapPx     = 4
)

// cellKind is what one terminal cell of the canvas shows.
type cellKind int

const (
	cellEmpty cellKind = iota
	cellPlate
	cellActivePlate
	cellSeparator
	cellUnit
	cellActiveUnit
	cellLabel
)

var cellGlyphs = map[cellKind]rune{
	cellEmpty:       ' ',
	cellPlate:       '░',
	cellActivePlate: '▒',
	cellSeparator:   '·',
	cellUnit:        '█',
	cellActiveUnit:  '█',
}

var cellStyles = map[cellKind]lipgloss.Style{
	cellPlate:       editorPlateStyle,
	cellActivePlate: editorActivePlateStyle,
	cellSeparator:   editorSeparatorStyle,
	cellUnit:        editorUnitStyle,
	cellActiveUnit:  editorActiveUnitStyle,
	cellLabel:       editorLabelStyle,
}

// refreshMsg redraws after the controller changed state on its own, e.g. a
// cleared error or a debounced resize.
type refreshMsg struct{}

// savedMsg reports the outcome of a background save.
type savedMsg struct{ err error }

// =============================================================================
// EditorModel - Interactive socket placement
// =============================================================================

// EditorModel is the bubbletea model for the terminal plate editor. One
// terminal cell is one pixel wide and two pixels tall, which keeps the plate
// proportions close to square on most fonts.
type EditorModel struct {
	ctx     context.Context
	repo    store.Repository
	ctrl    *interact.Controller
	refresh chan struct{}

	width   int
	height  int
	sized   bool
	pressed bool
	pressAt geometry.Point
	moved   bool
	status  string
	err     error
}

func newEditorModel(ctx context.Context, repo store.Repository, ctrl *interact.Controller, refresh chan struct{}) EditorModel {
	return EditorModel{ctx: ctx, repo: repo, ctrl: ctrl, refresh: refresh}
}

func waitForRefresh(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return refreshMsg{}
	}
}

func (m EditorModel) Init() tea.Cmd {
	return waitForRefresh(m.refresh)
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		w, h := m.canvasSize()
		if !m.sized {
			m.ctrl.ResizeNow(w, h)
			m.sized = true
		} else {
			m.ctrl.Resize(w, h)
		}
	case refreshMsg:
		return m, waitForRefresh(m.refresh)
	case savedMsg:
		m.err = msg.err
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m EditorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		m.ctrl.Leave()
		return m, tea.Sequence(m.save(), tea.Quit)
	case "tab", "right", "l":
		m.stepPlate(1)
		return m, m.save()
	case "shift+tab", "left", "h":
		m.stepPlate(-1)
		return m, m.save()
	case "f", "enter":
		if _, ok := m.ctrl.Focused(); ok {
			m.ctrl.Unfocus()
		} else {
			m.err = m.ctrl.Focus(m.ctrl.ActivePlate())
		}
	case "esc":
		m.ctrl.Unfocus()
	case "c":
		m.ctrl.SetCutoutsVisible(!m.ctrl.CutoutsVisible())
	case "x", "delete", "backspace":
		id := m.ctrl.ActiveGroup()
		if id == "" || !m.ctrl.Groups().Remove(id) {
			return m, nil
		}
		m.status = "group removed"
		return m, m.save()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.err = m.ctrl.Focus(int(key[0] - '1'))
	}
	return m, nil
}

// stepPlate activates the next or previous plate, following focus.
func (m *EditorModel) stepPlate(delta int) {
	n := len(m.ctrl.Plates())
	if n == 0 {
		return
	}
	next := ((m.ctrl.ActivePlate()+delta)%n + n) % n
	if _, ok := m.ctrl.Focused(); ok {
		m.err = m.ctrl.Focus(next)
		return
	}
	m.err = m.ctrl.SetActivePlate(next)
}

func (m EditorModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	px, inside := m.cellToPx(msg.X, msg.Y)

	switch msg.Action { //nolint:exhaustive // wheel events are ignored
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return m, nil
		}
		m.pressed, m.pressAt, m.moved = true, px, false
		m.status = ""
		m.ctrl.PointerDown(px)

	case tea.MouseActionMotion:
		if m.ctrl.State() != interact.Dragging {
			return m, nil
		}
		if !inside {
			m.pressed = false
			return m.finishDrag(m.ctrl.Leave())
		}
		if px == m.pressAt && !m.moved {
			return m, nil
		}
		m.moved = true
		if _, err := m.ctrl.UpdateDrag(px); err != nil {
			m.err = err
		}

	case tea.MouseActionRelease:
		if !m.pressed {
			return m, nil
		}
		m.pressed = false
		if m.ctrl.State() == interact.Dragging {
			res := m.ctrl.EndDrag()
			if !m.moved {
				m.ctrl.Click(m.pressAt)
				return m, nil
			}
			return m.finishDrag(res)
		}
		if inside {
			if r := m.ctrl.Click(px); r.Kind == interact.ClickPlate {
				return m, m.save()
			}
		}
	}
	return m, nil
}

func (m EditorModel) finishDrag(res interact.EndResult) (tea.Model, tea.Cmd) {
	if res.GroupID == "" {
		return m, nil
	}
	if res.SnappedBack {
		m.status = "snapped back"
		return m, nil
	}
	if g, ok := m.ctrl.Groups().Get(res.GroupID); ok {
		m.status = "moved to " + g.PositionLabel()
	}
	return m, m.save()
}

// save persists the groups and active plate as they are now.
func (m EditorModel) save() tea.Cmd {
	groups := m.ctrl.Groups().Snapshot()
	active := m.ctrl.ActivePlate()
	ctx, repo := m.ctx, m.repo
	return func() tea.Msg {
		if err := repo.SaveGroups(ctx, groups); err != nil {
			return savedMsg{err: errors.Wrap(errors.ErrCodeStore, err, "save socket groups")}
		}
		if err := repo.SaveActiveIndex(ctx, active); err != nil {
			return savedMsg{err: errors.Wrap(errors.ErrCodeStore, err, "save active plate")}
		}
		return savedMsg{}
	}
}

// =============================================================================
// Geometry
// =============================================================================

func (m EditorModel) canvasRows() int {
	return max(m.height-editorChromeRows, 0)
}

// canvasSize is the canvas in pixels.
func (m EditorModel) canvasSize() (float64, float64) {
	return float64(m.width), float64(m.canvasRows() * 2)
}

// cellToPx maps a terminal cell to the pixel at its center. The canvas starts
// below the title line.
func (m EditorModel) cellToPx(x, y int) (geometry.Point, bool) {
	row := y - 1
	if x < 0 || x >= m.width || row < 0 || row >= m.canvasRows() {
		return geometry.Point{}, false
	}
	return geometry.Point{X: float64(x) + 0.5, Y: float64(row)*2 + 1}, true
}

// canvas is the cell grid for one frame.
type canvas struct {
	kinds  [][]cellKind
	glyphs [][]rune
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{kinds: make([][]cellKind, rows), glyphs: make([][]rune, rows)}
	for r := range rows {
		c.kinds[r] = make([]cellKind, cols)
		c.glyphs[r] = make([]rune, cols)
		for i := range c.glyphs[r] {
			c.glyphs[r][i] = ' '
		}
	}
	return c
}

// fill paints every cell whose center lies in rect. A rect smaller than a
// cell still paints the cell under its center.
func (c *canvas) fill(rect geometry.Rect, k cellKind) {
	c0, c1 := int(math.Ceil(rect.MinX-0.5)), int(math.Floor(rect.MaxX-0.5))
	r0, r1 := int(math.Ceil((rect.MinY-1)/2)), int(math.Floor((rect.MaxY-1)/2))
	if c0 > c1 {
		c0 = int(math.Floor((rect.MinX + rect.MaxX) / 2))
		c1 = c0
	}
	if r0 > r1 {
		r0 = int(math.Floor((rect.MinY + rect.MaxY) / 4))
		r1 = r0
	}
	for r := max(r0, 0); r <= r1 && r < len(c.kinds); r++ {
		for col := max(c0, 0); col <= c1 && col < len(c.kinds[r]); col++ {
			c.kinds[r][col] = k
			c.glyphs[r][col] = cellGlyphs[k]
		}
	}
}

func (c *canvas) label(col, row int, text string) {
	if row < 0 || row >= len(c.kinds) {
		return
	}
	for i, ch := range []rune(text) {
		if x := col + i; x >= 0 && x < len(c.kinds[row]) {
			c.kinds[row][x] = cellLabel
			c.glyphs[row][x] = ch
		}
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for r := range c.kinds {
		row := c.kinds[r]
		for start := 0; start < len(row); {
			end := start
			for end < len(row) && row[end] == row[start] {
				end++
			}
			run := string(c.glyphs[r][start:end])
			if st, ok := cellStyles[row[start]]; ok {
				run = st.Render(run)
			}
			b.WriteString(run)
			start = end
		}
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// View
// =============================================================================

func (m EditorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("platecut editor"))
	b.WriteString("\n")
	b.WriteString(m.renderCanvas())
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.errorLine())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("drag: move  tab: next plate  f: focus  c: cutouts  x: delete  q: quit"))

	return b.String()
}

func (m EditorModel) renderCanvas() string {
	cols, rows := m.width, m.canvasRows()
	if cols <= 0 || rows <= 0 {
		return ""
	}
	cv := newCanvas(cols, rows)

	f, ok := m.ctrl.Frame()
	if !ok {
		cv.label(1, 0, "window too small")
		return cv.String()
	}

	active := m.ctrl.ActivePlate()
	for _, p := range f.Plates {
		k := cellPlate
		if p.Index == active {
			k = cellActivePlate
		}
		cv.fill(p.Rect, k)
	}

	if m.ctrl.CutoutsVisible() {
		selected := m.ctrl.ActiveGroup()
		if s, ok := m.ctrl.Session(); ok {
			selected = s.GroupID
		}
		for _, l := range socket.ProjectAll(f, m.ctrl.Groups().Snapshot()) {
			k := cellUnit
			if l.GroupID == selected {
				k = cellActiveUnit
			}
			for _, sep := range l.Separators() {
				cv.fill(sep, cellSeparator)
			}
			for _, u := range l.Units {
				cv.fill(u, k)
			}
		}
	}

	for _, p := range f.Plates {
		col := int(math.Ceil(p.Rect.MinX - 0.5))
		row := int(math.Ceil((p.Rect.MinY - 1) / 2))
		cv.label(col, row, fmt.Sprintf("#%d", p.Index+1))
	}

	return cv.String()
}

func (m EditorModel) statusLine() string {
	plates := m.ctrl.Plates()
	active := m.ctrl.ActivePlate()
	if active >= len(plates) {
		return ""
	}
	groups := m.ctrl.Groups().Snapshot()

	parts := []string{
		StyleHighlight.Render(fmt.Sprintf("Plate #%d/%d", active+1, len(plates))),
		StyleValue.Render(plates[active].Label()),
		fmt.Sprintf("%d group(s)", len(socket.OnPlate(groups, active))),
	}
	if !m.ctrl.CutoutsVisible() {
		parts = append(parts, StyleWarning.Render("cutouts hidden"))
	}
	if _, ok := m.ctrl.Focused(); ok {
		parts = append(parts, "focused")
	}
	if i := socket.Find(groups, m.ctrl.ActiveGroup()); i >= 0 {
		parts = append(parts, StyleNumber.Render(groups[i].PositionLabel()))
	}
	if m.status != "" {
		parts = append(parts, StyleSuccess.Render(m.status))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

func (m EditorModel) errorLine() string {
	if e := m.ctrl.Error(); e != "" {
		return StyleError.Render(e)
	}
	if m.err != nil {
		return StyleError.Render(errors.UserMessage(m.err))
	}
	return ""
}

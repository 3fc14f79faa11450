package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtnitsch/chartbuddy/models"
	"github.com/dtnitsch/chartbuddy/pkg/dom"
	"github.com/dtnitsch/chartbuddy/pkg/layout"
	"github.com/dtnitsch/chartbuddy/pkg/presenter"
	"github.com/dtnitsch/chartbuddy/pkg/widget"
)

// One terminal cell covers this many page pixels.
const (
	cellWidth  = 10
	cellHeight = 20
)

// mousePointer is the only pointer a terminal has.
const mousePointer = 1

type settledMsg struct {
	out widget.Outcome
}

type revertMsg struct {
	revert func()
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	faces       = map[models.Mood]string{
		models.MoodIdle:      "(o_o)",
		models.MoodDragging:  "(>_<)",
		models.MoodAnalyzing: "(@_@)",
		models.MoodHappy:     "(^_^)",
		models.MoodThinking:  "(-_-)",
	}
)

// Model drives an Overlay from terminal mouse events. Bubble Tea's Update
// loop is the overlay's single owner; analyses run as commands and come
// back as settledMsg.
type Model struct {
	ctx       context.Context
	overlay   *widget.Overlay
	surface   *layout.Surface
	highlight time.Duration
	cols      int
	rows      int
}

// NewModel creates a model for a viewport of the given pixel size.
func NewModel(ctx context.Context, overlay *widget.Overlay, surface *layout.Surface, viewportWidth, viewportHeight int, highlight time.Duration) Model {
	return Model{
		ctx:       ctx,
		overlay:   overlay,
		surface:   surface,
		highlight: highlight,
		cols:      viewportWidth / cellWidth,
		rows:      viewportHeight / cellHeight,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			m.overlay.Dismiss()
		case "r":
			if m.overlay.CanRecall() {
				m.overlay.Recall()
			}
		}

	case tea.MouseMsg:
		p := toPage(msg.X, msg.Y)
		switch msg.Type {
		case tea.MouseLeft:
			if !m.overlay.PointerDown(mousePointer, p) {
				m.overlay.PointerMove(mousePointer, p)
			}
		case tea.MouseMotion:
			m.overlay.PointerMove(mousePointer, p)
		case tea.MouseRelease:
			if d := m.overlay.PointerUp(mousePointer, p); d != nil {
				return m, tea.Batch(m.analyze(d), m.scheduleRevert(d))
			}
			m.overlay.GlobalPointerUp()
		}

	case settledMsg:
		m.overlay.Settle(m.ctx, msg.out)

	case revertMsg:
		msg.revert()
	}

	return m, nil
}

func (m Model) analyze(d *widget.Drop) tea.Cmd {
	return func() tea.Msg {
		return settledMsg{out: m.overlay.Analyze(m.ctx, d)}
	}
}

// scheduleRevert brings the highlight revert back onto the update loop.
func (m Model) scheduleRevert(d *widget.Drop) tea.Cmd {
	return tea.Tick(m.highlight, func(time.Time) tea.Msg {
		return revertMsg{revert: d.Revert}
	})
}

func (m Model) View() string {
	page := m.renderPage()

	var footer string
	switch {
	case m.overlay.Status() != "":
		footer = statusStyle.Render(m.overlay.Status())
	case m.overlay.CanRecall():
		footer = hintStyle.Render("drag the widget onto a chart · r: show last analysis · q: quit")
	default:
		footer = hintStyle.Render("drag the widget onto a chart · q: quit")
	}

	if panel := presenter.Render(m.overlay.View()); panel != "" {
		page = lipgloss.JoinHorizontal(lipgloss.Top, page, " ", panel)
	}
	return page + "\n" + footer
}

func (m Model) renderPage() string {
	grid := newGrid(m.cols, m.rows)
	for _, b := range m.surface.Boxes() {
		border := '.'
		if style, _ := b.Node.Attr("style"); strings.Contains(style, "outline") {
			border = '#'
		}
		grid.box(toCells(b.Rect), border, boxLabel(b.Node))
	}

	w := m.overlay.Widget()
	cells := toCells(w.Bounds())
	grid.box(cells, '*', "")
	grid.text(cells.X+1, cells.Y+cells.H/2, faces[m.overlay.Mood()])

	return grid.String()
}

func boxLabel(n dom.Node) string {
	if id, ok := n.Attr("id"); ok && id != "" {
		return n.Tag() + "#" + id
	}
	return n.Tag()
}

func toPage(col, row int) models.Position {
	return models.Position{X: col * cellWidth, Y: row * cellHeight}
}

func toCells(r layout.Rect) layout.Rect {
	return layout.Rect{
		X: r.X / cellWidth,
		Y: r.Y / cellHeight,
		W: max(r.W/cellWidth, 1),
		H: max(r.H/cellHeight, 1),
	}
}

// grid is a fixed-size rune canvas.
type grid struct {
	cells [][]rune
}

func newGrid(cols, rows int) *grid {
	g := &grid{cells: make([][]rune, rows)}
	for i := range g.cells {
		g.cells[i] = []rune(strings.Repeat(" ", cols))
	}
	return g
}

func (g *grid) set(x, y int, r rune) {
	if y < 0 || y >= len(g.cells) || x < 0 || x >= len(g.cells[y]) {
		return
	}
	g.cells[y][x] = r
}

func (g *grid) text(x, y int, s string) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r)
	}
}

func (g *grid) box(r layout.Rect, border rune, label string) {
	right, bottom := r.X+r.W-1, r.Y+r.H-1
	for x := r.X; x <= right; x++ {
		g.set(x, r.Y, border)
		g.set(x, bottom, border)
	}
	for y := r.Y; y <= bottom; y++ {
		g.set(r.X, y, border)
		g.set(right, y, border)
	}
	if label != "" && r.W > 2 {
		runes := []rune(label)
		if len(runes) > r.W-2 {
			runes = runes[:r.W-2]
		}
		g.text(r.X+1, r.Y, string(runes))
	}
}

func (g *grid) String() string {
	lines := make([]string, len(g.cells))
	for i, row := range g.cells {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}

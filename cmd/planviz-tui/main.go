package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	goredis "github.com/redis/go-redis/v9"

	"github.com/plurapay/planviz/pkg/graph"
	"github.com/plurapay/planviz/pkg/layout"
	"github.com/plurapay/planviz/pkg/plan"
	"github.com/plurapay/planviz/pkg/render"
	"github.com/plurapay/planviz/pkg/store"
	redisstore "github.com/plurapay/planviz/pkg/store/redis"
	"github.com/plurapay/planviz/pkg/view"
)

const inspectorWidth = 36

// Styles
var (
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle   = lipgloss.NewStyle().Bold(true)
	nodeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	bonusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	rankStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("135"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimmedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	capsuleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	edgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	lassoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

type model struct {
	cfg Config

	graph     *graph.Graph
	signature string
	positions map[string]layout.Position
	groups    *view.GroupSet

	machine *view.Machine
	writer  *store.DebouncedWriter

	spinner   spinner.Model
	inspector viewport.Model
	ready     bool
	width     int
	height    int
	status    string
}

func initialModel(cfg Config, g *graph.Graph, positions map[string]layout.Position, groups *view.GroupSet, writer *store.DebouncedWriter) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		cfg:       cfg,
		graph:     g,
		signature: graph.Signature(g),
		positions: positions,
		groups:    groups,
		writer:    writer,
		spinner:   s,
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.writer != nil {
				m.writer.Close()
			}
			return m, tea.Quit
		case "esc":
			if m.machine != nil {
				m.machine.Escape()
			}
		case "g":
			if m.machine != nil {
				if m.machine.CreateGroup() {
					m.status = "group created"
				} else {
					m.status = "select two or more definitions to group"
				}
			}
		case "u":
			if m.machine != nil {
				if m.machine.UngroupSelected() {
					m.status = "group dissolved"
				}
			}
		case "f":
			if m.machine != nil {
				m.machine.Viewport.Fit(render.ContentBounds(m.positions), 40)
			}
		}
		m.persistIfDirty()

	case tea.MouseMsg:
		m.handleMouse(msg)
		m.persistIfDirty()

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			vp := view.NewViewport(float64(m.canvasWidth()), float64(m.canvasHeight()))
			m.machine = view.NewMachine(m.graph, vp, m.groups, m.positions)
			vp.Fit(render.ContentBounds(m.positions), 40)
			m.inspector = viewport.New(inspectorWidth, m.canvasHeight())
			m.ready = true
		} else {
			m.inspector.Height = m.canvasHeight()
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *model) canvasWidth() int {
	w := m.width - inspectorWidth - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m *model) canvasHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

// handleMouse translates terminal mouse events into machine events.
// Canvas cells act as screen pixels; the header row is excluded.
func (m *model) handleMouse(msg tea.MouseMsg) {
	if m.machine == nil {
		return
	}
	sx := float64(msg.X)
	sy := float64(msg.Y - 1)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.machine.Wheel(sx, sy, 1)
		return
	case tea.MouseButtonWheelDown:
		m.machine.Wheel(sx, sy, -1)
		return
	}

	mods := view.Modifiers{Alt: msg.Alt, Shift: msg.Shift, Ctrl: msg.Ctrl}
	switch msg.Action {
	case tea.MouseActionPress:
		m.machine.PointerDown(sx, sy, mods)
	case tea.MouseActionMotion:
		m.machine.PointerMove(sx, sy)
	case tea.MouseActionRelease:
		m.machine.PointerUp(sx, sy)
	}
}

func (m *model) persistIfDirty() {
	if m.machine == nil || m.writer == nil || !m.machine.ConsumeDirty() {
		return
	}
	positions := make(map[string]layout.Position, len(m.positions))
	for id, p := range m.positions {
		positions[id] = p
	}
	m.writer.Write(m.cfg.InstanceID, store.Record{
		Signature: m.signature,
		Positions: positions,
		Groups:    append([]store.Group{}, m.groups.List()...),
	})
}

func (m model) View() string {
	if !m.ready {
		return fmt.Sprintf("\n%s Initializing...", m.spinner.View())
	}

	scene := render.BuildScene(m.machine)
	canvas := drawCanvas(scene, m.machine, m.canvasWidth(), m.canvasHeight())

	m.inspector.SetContent(inspectorContent(m.machine))
	right := paneStyle.Render(m.inspector.View())

	header := headerStyle.Render(fmt.Sprintf("planviz %s", m.spinner.View())) +
		subtleStyle.Render(fmt.Sprintf("  sig:%s  nodes:%d  zoom:%.0f%%",
			m.signature, len(m.graph.Nodes), scene.Scale*100))

	body := lipgloss.JoinHorizontal(lipgloss.Top, canvas, right)

	var status string
	if m.status != "" {
		status = statusStyle.Render(m.status)
	}
	footer := subtleStyle.Render("drag:move  alt+drag:lasso  wheel:zoom  g:group  u:ungroup  f:fit  esc:clear  q:quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, footer)
}

// cell styles for the canvas grid
const (
	cellEmpty = iota
	cellEdge
	cellCapsule
	cellNode
	cellBonus
	cellRank
	cellSelected
	cellDimmed
	cellLasso
)

var cellStyles = map[int]lipgloss.Style{
	cellEdge:     edgeStyle,
	cellCapsule:  capsuleStyle,
	cellNode:     nodeStyle,
	cellBonus:    bonusStyle,
	cellRank:     rankStyle,
	cellSelected: selectedStyle,
	cellDimmed:   dimmedStyle,
	cellLasso:    lassoStyle,
}

type canvasGrid struct {
	w, h  int
	runes [][]rune
	style [][]int
}

func newCanvasGrid(w, h int) *canvasGrid {
	g := &canvasGrid{w: w, h: h}
	g.runes = make([][]rune, h)
	g.style = make([][]int, h)
	for y := 0; y < h; y++ {
		g.runes[y] = make([]rune, w)
		g.style[y] = make([]int, w)
		for x := 0; x < w; x++ {
			g.runes[y][x] = ' '
		}
	}
	return g
}

func (g *canvasGrid) set(x, y int, r rune, style int) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.runes[y][x] = r
	g.style[y][x] = style
}

func (g *canvasGrid) text(x, y int, s string, style int) {
	for i, r := range s {
		g.set(x+i, y, r, style)
	}
}

func (g *canvasGrid) String() string {
	var sb strings.Builder
	for y := 0; y < g.h; y++ {
		x := 0
		for x < g.w {
			style := g.style[y][x]
			start := x
			for x < g.w && g.style[y][x] == style {
				x++
			}
			run := string(g.runes[y][start:x])
			if st, ok := cellStyles[style]; ok {
				run = st.Render(run)
			}
			sb.WriteString(run)
		}
		if y < g.h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func drawCanvas(scene render.Scene, machine *view.Machine, w, h int) string {
	grid := newCanvasGrid(w, h)
	vp := machine.Viewport

	for _, e := range scene.Edges {
		style := cellEdge
		if e.Dimmed {
			style = cellDimmed
		}
		fx, fy := vp.ToScreen(e.FromX, e.FromY)
		tx, ty := vp.ToScreen(e.ToX, e.ToY)
		drawLine(grid, fx, fy, tx, ty, style)
		grid.set(int(tx), int(ty), '*', style)
	}

	for _, c := range scene.Capsules {
		style := cellCapsule
		if c.Selected {
			style = cellSelected
		} else if c.Dimmed {
			style = cellDimmed
		}
		x0, y0 := vp.ToScreen(c.Rect.MinX, c.Rect.MinY)
		x1, y1 := vp.ToScreen(c.Rect.MaxX, c.Rect.MaxY)
		drawBox(grid, int(x0), int(y0), int(x1), int(y1), style)
		grid.text(int(x0)+1, int(y0), c.Label, style)
	}

	for _, n := range scene.Nodes {
		style := cellNode
		switch {
		case n.Selected:
			style = cellSelected
		case n.Dimmed:
			style = cellDimmed
		case n.Kind == graph.KindBonus:
			style = cellBonus
		case n.Kind == graph.KindRank:
			style = cellRank
		}
		sx, sy := vp.ToScreen(n.X, n.Y)
		label := "[" + n.Title + "]"
		grid.text(int(sx)-len(label)/2, int(sy), label, style)
	}

	if scene.Lasso != nil {
		x0, y0 := vp.ToScreen(scene.Lasso.MinX, scene.Lasso.MinY)
		x1, y1 := vp.ToScreen(scene.Lasso.MaxX, scene.Lasso.MaxY)
		drawBox(grid, int(x0), int(y0), int(x1), int(y1), cellLasso)
	}

	return grid.String()
}

func drawLine(g *canvasGrid, x0, y0, x1, y1 float64, style int) {
	steps := int(maxFloat(absFloat(x1-x0), absFloat(y1-y0)))
	if steps == 0 {
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + (x1-x0)*t
		y := y0 + (y1-y0)*t
		g.set(int(x), int(y), '.', style)
	}
}

func drawBox(g *canvasGrid, x0, y0, x1, y1, style int) {
	for x := x0; x <= x1; x++ {
		g.set(x, y0, '-', style)
		g.set(x, y1, '-', style)
	}
	for y := y0; y <= y1; y++ {
		g.set(x0, y, '|', style)
		g.set(x1, y, '|', style)
	}
	g.set(x0, y0, '+', style)
	g.set(x1, y0, '+', style)
	g.set(x0, y1, '+', style)
	g.set(x1, y1, '+', style)
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func inspectorContent(machine *view.Machine) string {
	insp := render.BuildInspector(machine)
	if insp == nil {
		return subtleStyle.Render("Select a single node or group\nto inspect it.")
	}

	var sb strings.Builder
	switch insp.Kind {
	case render.PanelGroup:
		sb.WriteString(statusStyle.Render(insp.Title) + "\n")
		sb.WriteString(subtleStyle.Render(insp.ID) + "\n\n")
		sb.WriteString("Members:\n")
		for _, m := range insp.Members {
			sb.WriteString("  • " + m + "\n")
		}
	case render.PanelBonus:
		sb.WriteString(statusStyle.Render(insp.Title) + "\n")
		sb.WriteString(subtleStyle.Render(insp.ID) + "\n\n")
		if insp.Description != "" {
			sb.WriteString(insp.Description + "\n\n")
		}
		if insp.VolumeKey != "" {
			sb.WriteString("Volume: " + insp.VolumeKey + "\n")
		}
		for _, section := range insp.Sections {
			sb.WriteString("\n" + section.Name + ":\n")
			for i, quals := range section.Entries {
				sb.WriteString(fmt.Sprintf("  #%d\n", i+1))
				for _, q := range quals {
					sb.WriteString(fmt.Sprintf("    %s = %s\n", q.Key, q.Value))
				}
			}
		}
	case render.PanelNode:
		sb.WriteString(statusStyle.Render(insp.Title) + "\n")
		sb.WriteString(subtleStyle.Render(insp.ID) + "\n\n")
		if insp.Comment != "" {
			sb.WriteString(insp.Comment + "\n\n")
		}
		if len(insp.Parameters) > 0 {
			sb.WriteString("Parameters:\n")
			for _, p := range insp.Parameters {
				sb.WriteString(fmt.Sprintf("  %s = %s\n", p.ID, p.Value))
			}
		}
		if len(insp.Parents) > 0 {
			sb.WriteString("\nDepends on:\n")
			for _, r := range insp.Parents {
				sb.WriteString(fmt.Sprintf("  ← %s [%s]\n", r.ID, r.Label))
			}
		}
		if len(insp.Children) > 0 {
			sb.WriteString("\nUsed by:\n")
			for _, r := range insp.Children {
				sb.WriteString(fmt.Sprintf("  → %s [%s]\n", r.ID, r.Label))
			}
		}
	}
	return sb.String()
}

func openStore(cfg Config) (store.LayoutStore, error) {
	switch cfg.Store {
	case "sqlite":
		return store.NewSQLiteStore(cfg.DBPath)
	case "file":
		return store.NewFileStore(cfg.LayoutDir), nil
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		return redisstore.NewLayoutStore(client), nil
	default:
		return nil, nil
	}
}

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "planviz-tui: %v\n", err)
		os.Exit(1)
	}

	p, err := plan.LoadFile(cfg.PlanPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "planviz-tui: %v\n", err)
		os.Exit(1)
	}

	g := graph.Build(p)
	signature := graph.Signature(g)
	positions := layout.Compute(g)

	backend, err := openStore(cfg)
	if err != nil {
		// Degrade to defaults; the canvas still works without persistence.
		log.Printf("Layout store unavailable, using defaults: %v", err)
		backend = nil
	}

	var writer *store.DebouncedWriter
	groups := view.NewGroupSet(nil)
	if backend != nil {
		known := make(map[string]bool, len(g.Nodes))
		for id := range g.Nodes {
			known[id] = true
		}
		rec, err := backend.Load(context.Background(), cfg.InstanceID)
		if err != nil {
			log.Printf("Failed to load stored layout: %v", err)
			rec = nil
		}
		overrides, restoredGroups := store.Restore(rec, signature, known)
		for id, pos := range overrides {
			positions[id] = pos
		}
		groups = view.NewGroupSet(restoredGroups)
		writer = store.NewDebouncedWriter(backend, store.DefaultDebounce)
		defer backend.Close()
	}

	m := initialModel(cfg, g, positions, groups, writer)
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := prog.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}

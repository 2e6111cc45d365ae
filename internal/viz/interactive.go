package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/folio/internal/anim"
	"github.com/san-kum/folio/internal/motion"
)

// Scene is a renderer the menu can launch. Build receives the canvas the
// renderer must paint on and returns it with an optional stats line.
type Scene struct {
	Name  string
	Info  string
	Build func(c *Canvas, sig motion.Signal) (anim.Renderer, func() string)
}

const (
	stateMenu = iota
	stateLive
)

// App is the scene menu. Esc in a live scene returns to it.
type App struct {
	state, cursor int
	scenes        []Scene
	sig           motion.Signal
	fps           int
	width, height int
	live          Model
}

func NewInteractiveApp(scenes []Scene, sig motion.Signal, fps int) App {
	return App{state: stateMenu, scenes: scenes, sig: sig, fps: fps, width: 80, height: 24}
}

func (m App) Init() tea.Cmd { return nil }

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateLive {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			m.live.Close()
			m.state = stateMenu
			return m, nil
		}
		if ws, ok := msg.(tea.WindowSizeMsg); ok {
			m.width, m.height = ws.Width, ws.Height
		}
		newLive, cmd := m.live.Update(msg)
		m.live = newLive.(Model)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.menuKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m App) menuKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.scenes)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.scenes) == 0 {
			return m, nil
		}
		cmd := m.start(m.scenes[m.cursor])
		return m, cmd
	}
	return m, nil
}

func (m *App) start(sc Scene) tea.Cmd {
	cols, rows := CanvasCells(m.width, m.height)
	canvas := NewCanvas(cols, rows)
	r, stats := sc.Build(canvas, m.sig)
	w, h := canvas.Size()
	r.Resize(w, h)
	m.live = NewModel(sc.Name, r, canvas, m.sig, m.fps, stats)
	m.state = stateLive
	return m.live.Init()
}

func (m App) View() string {
	if m.state == stateLive {
		return m.live.View()
	}
	var b strings.Builder
	h, sub := lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true), lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	b.WriteString("\n\n    " + h.Render("FOLIO") + "\n    " + sub.Render("procedural hud animations") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, sc := range m.scenes {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true).Render("▸"), lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true).Render(fmt.Sprintf("%-10s", sc.Name)), lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Render(sc.Info)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", lipgloss.NewStyle().Foreground(lipgloss.Color("#555566")).Render(fmt.Sprintf("  %-10s", sc.Name)), lipgloss.NewStyle().Foreground(lipgloss.Color("#444455")).Render(sc.Info)))
		}
	}
	b.WriteString("\n    " + lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true).Render("j/k") + sub.Render(" navigate  ") + lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true).Render("enter") + sub.Render(" select  ") + lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true).Render("esc") + sub.Render(" back  ") + lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true).Render("q") + sub.Render(" quit") + "\n")
	return b.String()
}

func RunInteractive(scenes []Scene, sig motion.Signal, fps int) error {
	return Run(NewInteractiveApp(scenes, sig, fps))
}

package viz

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/folio/internal/anim"
	"github.com/san-kum/folio/internal/motion"
	"github.com/san-kum/folio/internal/scramble"
)

const (
	width  = 80
	height = 24
	// header, separator, status and hint lines around the canvas
	chromeRows   = 4
	fpsHistory   = 60
	sparkWidth   = 20
	fpsSmoothing = 0.1
)

// TickMsg drives one frame of the Model whose id it carries. Ticks from a
// closed scene arrive with a stale id and are dropped, which ends their chain.
type TickMsg struct {
	ID   int64
	Time time.Time
}

var modelSeq atomic.Int64

// Model hosts one renderer on a terminal canvas. Frames are driven by
// tea.Tick; every tick reschedules the next one, so quitting the program is
// the teardown.
type Model struct {
	id       int64
	name     string
	renderer anim.Renderer
	canvas   *Canvas
	title    *scramble.Scrambler
	motion   motion.Signal
	stats    func() string

	fps      int
	running  bool
	showHelp bool
	last     time.Time
	frames   int
	fpsEst   float64
	fpsHist  []float64

	width, height int
}

// NewModel wires renderer r, which must paint on canvas, into a TUI. stats
// may be nil.
func NewModel(name string, r anim.Renderer, canvas *Canvas, sig motion.Signal, fps int, stats func() string) Model {
	if sig == nil {
		sig = motion.Static(false)
	}
	if fps <= 0 {
		fps = anim.DefaultFPS
	}
	return Model{
		id:       modelSeq.Add(1),
		name:     name,
		renderer: r,
		canvas:   canvas,
		title:    scramble.New(scramble.DefaultConfig(), strings.ToUpper(name), sig),
		motion:   sig,
		stats:    stats,
		fps:      fps,
		running:  true,
		fpsHist:  make([]float64, 0, fpsHistory),
		width:    width,
		height:   height,
	}
}

func (m Model) tick() tea.Cmd {
	id := m.id
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg{ID: id, Time: t} })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input, resizes and frame ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Close()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "m":
			if sw, ok := m.motion.(interface{ Toggle() }); ok {
				sw.Toggle()
			}
		case "t":
			NextTheme()
		case "r":
			if rs, ok := m.renderer.(interface{ Restart() }); ok {
				rs.Restart()
			}
			m.title.Restart()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		cols, rows := CanvasCells(msg.Width, msg.Height)
		m.renderer.Resize(float64(cols*CellWidth), float64(rows*CellHeight))
	case TickMsg:
		if msg.ID != m.id {
			return m, nil
		}
		now := msg.Time
		var dt time.Duration
		if !m.last.IsZero() {
			dt = now.Sub(m.last)
		}
		m.last = now
		if m.running {
			m.renderer.Frame(dt)
		}
		m.title.Frame(dt)
		m.observe(dt)
		return m, m.tick()
	}
	return m, nil
}

// Close releases the motion subscriptions of the title and, when it has
// one, the renderer.
func (m Model) Close() {
	m.title.Close()
	if c, ok := m.renderer.(interface{ Close() }); ok {
		c.Close()
	}
}

// CanvasCells is the canvas size that fits a terminal of w x h cells.
func CanvasCells(w, h int) (cols, rows int) {
	cols, rows = w-4, h-chromeRows
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return cols, rows
}

func (m *Model) observe(dt time.Duration) {
	m.frames++
	if dt <= 0 {
		return
	}
	inst := 1 / dt.Seconds()
	if m.fpsEst == 0 {
		m.fpsEst = inst
	} else {
		m.fpsEst += (inst - m.fpsEst) * fpsSmoothing
	}
	m.fpsHist = append(m.fpsHist, m.fpsEst)
	if len(m.fpsHist) > fpsHistory {
		m.fpsHist = m.fpsHist[1:]
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	t := CurrentTheme
	var s strings.Builder

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.motion.Reduced():
		status = StatusReduced.Render("REDUCED MOTION")
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString("  " + GradientText(m.title.Text(), t.Primary, t.Accent) + "  " + status + "\n")
	s.WriteString("  " + Separator(max(m.canvas.Width, 20)) + "\n")

	if m.showHelp {
		s.WriteString(helpBox.Render(helpText()) + "\n")
	} else {
		for _, line := range strings.Split(strings.TrimRight(m.canvas.Render(t), "\n"), "\n") {
			s.WriteString("  " + line + "\n")
		}
	}

	info := fmt.Sprintf("%5.1f fps %s", m.fpsEst, SparklineChart(m.fpsHist, sparkWidth))
	if m.stats != nil {
		info += "  " + lipgloss.NewStyle().Foreground(t.Text).Render(m.stats())
	}
	s.WriteString("  " + info + "\n")
	s.WriteString("  " + KeyHint.Render("space pause  m motion  t theme  r restart  ? help  q quit"))
	return s.String()
}

func helpText() string {
	return strings.Join([]string{
		"space  pause / resume",
		"m      toggle reduced motion",
		"t      cycle color theme",
		"r      restart text reveal",
		"?      close help",
		"q      quit",
	}, "\n")
}

// Run starts a full-screen program for m.
func Run(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

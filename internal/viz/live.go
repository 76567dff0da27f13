package viz

import (
	"fmt"
	"image"
	"image/gif"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spinarena/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600

	// canvasStyle padding, needed to map mouse cells back onto the canvas.
	padTop, padLeft = 1, 2
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(padTop, padLeft)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

// tunables are the parameters the arrow keys adjust, in display order.
var tunables = []string{"gravity", "air_density", "drag", "rotational_drag"}

// nudges seed a parameter that is currently zero, since scaling zero does
// nothing.
var nudges = map[string]float64{
	"gravity":         0.5,
	"air_density":     1e-4,
	"drag":            0.05,
	"rotational_drag": 0.05,
}

type TickMsg time.Time

// WorldBuilder creates the world shown by the live view. It is called again
// on reset.
type WorldBuilder func() (*sim.World, error)

type Options struct {
	Title   string
	Dt      float64
	FPS     int
	GIFPath string
	Theme   string
}

// grab tracks a body dragged with the mouse.
type grab struct {
	id       int
	last     time.Time
	vx, vy   float64
	lastX    float64
	lastY    float64
	hasDelta bool
}

// Model is the bubbletea model of the live arena view.
type Model struct {
	build    WorldBuilder
	world    *sim.World
	opts     Options
	substeps int

	canvas   *Canvas
	viewport Viewport
	running  bool
	showHelp bool
	ticks    int

	initialParams map[string]float64
	selected      int

	energyHistory []float64
	speedHistory  []float64
	history       []sim.Frame
	playHead      int
	totals        sim.StepStats

	grab      *grab
	recording bool
	frames    []*image.Paletted
	message   string
}

// NewModel builds the first world and prepares an 80x24 canvas for it.
func NewModel(build WorldBuilder, opts Options) (Model, error) {
	w, err := build()
	if err != nil {
		return Model{}, err
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Dt <= 0 {
		opts.Dt = 1.0 / float64(opts.FPS)
	}
	if opts.Title == "" {
		opts.Title = "spinarena"
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "spinarena.gif"
	}
	if opts.Theme != "" && !SetTheme(opts.Theme) {
		return Model{}, fmt.Errorf("unknown theme %q (have %v)", opts.Theme, ThemeNames())
	}

	frameTime := 1 / float64(opts.FPS)
	m := Model{
		build:         build,
		world:         w,
		opts:          opts,
		substeps:      max(1, int(math.Round(frameTime/opts.Dt))),
		canvas:        NewCanvas(width, height),
		running:       true,
		initialParams: w.Params().GetParams(),
		energyHistory: make([]float64, 0, historyCapacity),
		speedHistory:  make([]float64, 0, historyCapacity),
		history:       make([]sim.Frame, 0, historyCapacity),
		playHead:      -1,
	}
	m.viewport = DrawFrame(m.canvas, w.Snapshot())
	return m, nil
}

// Run starts the live view with the mouse enabled and blocks until it quits.
func Run(build WorldBuilder, opts Options) error {
	m, err := NewModel(build, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

func (m Model) World() *sim.World { return m.world }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "tab":
			m.selected = (m.selected + 1) % len(tunables)
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			NextTheme()
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		m.ticks++
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.viewport = DrawFrame(m.canvas, m.currentFrame())
		if m.recording {
			m.captureFrame()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) adjustParam(factor float64) {
	key := tunables[m.selected]
	val := m.world.Params().GetParams()[key]
	next := val * factor
	if val == 0 && factor > 1 {
		next = nudges[key]
	}
	if err := m.world.Params().SetParam(key, next); err != nil {
		m.message = err.Error()
	}
}

// step advances the world by one display frame worth of ticks.
func (m *Model) step() {
	for i := 0; i < m.substeps; i++ {
		stats := m.world.Step(m.opts.Dt)
		m.totals.WallHits += stats.WallHits
		m.totals.Collisions += stats.Collisions
	}

	frame := m.world.Snapshot()
	fastest := 0.0
	for _, b := range frame.Bodies {
		fastest = max(fastest, math.Hypot(b.VX, b.VY))
	}
	m.energyHistory = appendCapped(m.energyHistory, frame.Energy())
	m.speedHistory = appendCapped(m.speedHistory, fastest)
	m.history = append(m.history, frame)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func appendCapped(values []float64, v float64) []float64 {
	values = append(values, v)
	if len(values) > historyCapacity {
		values = values[1:]
	}
	return values
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset rebuilds the world and clears the recorded history.
func (m *Model) reset() {
	w, err := m.build()
	if err != nil {
		m.message = err.Error()
		return
	}
	m.world = w
	m.initialParams = w.Params().GetParams()
	m.energyHistory = m.energyHistory[:0]
	m.speedHistory = m.speedHistory[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.totals = sim.StepStats{}
	m.grab = nil
	m.message = ""
}

func (m Model) currentFrame() sim.Frame {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.world.Snapshot()
}

// handleMouse lets the user pick up a body, drag it and throw it. Mouse input
// is ignored while replaying history.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.playHead != -1 || m.showHelp {
		return
	}
	pos := m.viewport.Unproject((msg.X-padLeft)*2+1, (msg.Y-padTop)*4+2)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		b, ok := m.world.Pick(pos.X, pos.Y)
		if !ok {
			return
		}
		if err := m.world.Hold(b.ID); err != nil {
			m.message = err.Error()
			return
		}
		m.grab = &grab{id: b.ID, last: time.Now(), lastX: pos.X, lastY: pos.Y}
	case tea.MouseActionMotion:
		if m.grab == nil {
			return
		}
		now := time.Now()
		if elapsed := now.Sub(m.grab.last).Seconds(); elapsed > 0 {
			m.grab.vx = (pos.X - m.grab.lastX) / elapsed
			m.grab.vy = (pos.Y - m.grab.lastY) / elapsed
			m.grab.hasDelta = true
		}
		m.grab.last, m.grab.lastX, m.grab.lastY = now, pos.X, pos.Y
		if err := m.world.MoveTo(m.grab.id, pos.X, pos.Y); err != nil {
			m.message = err.Error()
			m.grab = nil
		}
	case tea.MouseActionRelease:
		if m.grab == nil {
			return
		}
		vx, vy := 0.0, 0.0
		if m.grab.hasDelta {
			vx, vy = m.grab.vx, m.grab.vy
		}
		if err := m.world.Release(m.grab.id, vx, vy); err != nil {
			m.message = err.Error()
		}
		m.grab = nil
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	frame := m.currentFrame()
	DrawFrame(m.canvas, frame)
	canvasView := canvasStyle.Foreground(CurrentTheme.Arena).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.opts.Title), CurrentTheme.Arena, CurrentTheme.Title) + "\n\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	fastest := 0.0
	for _, b := range frame.Bodies {
		fastest = max(fastest, math.Hypot(b.VX, b.VY))
	}
	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", frame.Time))
	row("Bodies", fmt.Sprintf("%d", len(frame.Bodies)))
	row("Energy", fmt.Sprintf("%.1f", frame.Energy()))
	row("Max speed", fmt.Sprintf("%.1f px/s", fastest))
	s.WriteString(MetricLabel.Render("") + SparklineChart(m.speedHistory, 24) + "\n")
	row("Wall hits", fmt.Sprintf("%d", m.totals.WallHits))
	row("Collisions", fmt.Sprintf("%d", m.totals.Collisions))

	s.WriteString("\n" + Separator(36) + "\nPARAMETERS\n")
	current := m.world.Params().GetParams()
	for i, k := range tunables {
		val, initial := current[k], m.initialParams[k]
		ratio := 0.5
		if initial != 0 {
			ratio = val / (2 * initial)
		} else if val > 0 {
			ratio = 1
		}
		line := fmt.Sprintf("%-16s %s %.4g", k, ProgressBar(ratio, 10), val)
		if i == m.selected {
			s.WriteString(NeonGlow.Foreground(CurrentTheme.Highlight).Render("> "+k) + strings.TrimPrefix(line, k) + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}
	if m.message != "" {
		s.WriteString("\n" + StatusRecording.UnsetBlink().Render(m.message) + "\n")
	}
	s.WriteString(helpStyle.Render(KeyHint.Render("SP:Pause R:Reset Q:Quit\nT:Theme  G:Record ?:Help\n[ ]:Time-Travel ↑↓:Tune\nMouse: drag and throw")))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return GlassPanel.Render(helpText) + "\n\n" + mainView
	}
	return mainView
}

func (m Model) status() string {
	var status string
	switch {
	case m.playHead != -1 && len(m.history) > 0:
		offset := m.history[m.playHead].Time - m.history[len(m.history)-1].Time
		if m.running {
			status = StatusPaused.Render(fmt.Sprintf("REPLAYING (%.1fs)", offset))
		} else {
			status = StatusPaused.Render(fmt.Sprintf("REPLAY PAUSED (%.1fs)", offset))
		}
	case m.running:
		status = StatusRunning.Render(AnimatedSpinner(m.ticks) + " RUNNING")
	default:
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += "  " + StatusRecording.Render("● REC")
	}
	return status
}

const helpText = `KEYBOARD SHORTCUTS

Space    Pause/Resume simulation
R        Reset the arena
Q        Quit
Tab      Cycle parameters
Up/K     Increase parameter (+5%)
Down/J   Decrease parameter (-5%)
[        Rewind (time travel)
]        Forward (time travel)
G        Toggle GIF recording
T        Cycle themes
?        Toggle this help
Mouse    Drag a disk, release to throw`

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = make([]*image.Paletted, 0)
		return
	}
	if err := m.saveGIF(); err != nil {
		m.message = err.Error()
	} else if len(m.frames) > 0 {
		m.message = "saved " + m.opts.GIFPath
	}
	m.recording = false
	m.frames = nil
}

// captureFrame rasterizes the braille canvas, one block per dot.
func (m *Model) captureFrame() {
	const charW, charH = 8, 16
	const dotW, dotH = charW / 2, charH / 4
	img := image.NewPaletted(image.Rect(0, 0, m.canvas.Width*charW, m.canvas.Height*charH), CurrentTheme.Palette())
	for row := 0; row < m.canvas.Height; row++ {
		for col := 0; col < m.canvas.Width; col++ {
			bits := int(m.canvas.Grid[row][col] - brailleBlank)
			if bits <= 0 {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if bits&pixelMap[dy][dx] == 0 {
						continue
					}
					x0, y0 := col*charW+dx*dotW, row*charH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(x0+px, y0+py, 1)
						}
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() error {
	if len(m.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	delay := max(1, 100/m.opts.FPS)
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(m.opts.GIFPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

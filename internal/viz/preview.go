package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/lorenzgif/internal/animation"
	"github.com/san-kum/lorenzgif/internal/dynamo"
	"github.com/san-kum/lorenzgif/internal/render"
)

const (
	defaultCols = 72
	defaultRows = 22
	minCols     = 20
	minRows     = 8
	rotateStep  = 5.0
)

// tickMsg advances playback. gen ties a tick to the play session that
// scheduled it so that pausing and resuming never doubles the rate.
type tickMsg struct{ gen int }

// Preview replays the chunk trajectories in order, holding on the first
// and last frame and looping like the GIF.
type Preview struct {
	name       string
	frames     [][]dynamo.State
	box        render.Box
	elevation  float64
	azimuth    float64
	view       *render.View
	canvas     *Canvas
	frameDelay time.Duration
	holdDelay  time.Duration
	speed      float64
	index      int
	playing    bool
	gen        int
}

func NewPreview(name string, frames [][]dynamo.State, ropts render.Options, aopts animation.Options) Preview {
	return Preview{
		name:       name,
		frames:     frames,
		box:        ropts.Bounds,
		elevation:  ropts.Elevation,
		azimuth:    ropts.Azimuth,
		view:       render.NewView(ropts.Bounds, ropts.Elevation, ropts.Azimuth),
		canvas:     NewCanvas(defaultCols, defaultRows),
		frameDelay: aopts.FrameDelay,
		holdDelay:  aopts.HoldDelay,
		speed:      1,
		playing:    len(frames) > 0,
	}
}

func (m Preview) Index() int    { return m.index }
func (m Preview) Playing() bool { return m.playing }

// Delay is how long frame i stays on screen at the current speed.
func (m Preview) Delay(i int) time.Duration {
	d := m.frameDelay
	if i == 0 || i == len(m.frames)-1 {
		d = m.holdDelay
	}
	return time.Duration(float64(d) / m.speed)
}

func (m Preview) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.Delay(m.index), func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m Preview) Init() tea.Cmd {
	if !m.playing {
		return nil
	}
	return m.tick()
}

func (m Preview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.gen != m.gen || !m.playing {
			return m, nil
		}
		m.index = (m.index + 1) % len(m.frames)
		return m, m.tick()

	case tea.WindowSizeMsg:
		cols := max(minCols, msg.Width-4)
		rows := max(minRows, msg.Height-6)
		m.canvas = NewCanvas(cols, rows)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if len(m.frames) == 0 {
				return m, nil
			}
			m.playing = !m.playing
			m.gen++
			if m.playing {
				return m, m.tick()
			}
		case "left", "h":
			if !m.playing && m.index > 0 {
				m.index--
			}
		case "right", "l":
			if !m.playing && m.index < len(m.frames)-1 {
				m.index++
			}
		case "a":
			m.rotate(-rotateStep)
		case "d":
			m.rotate(rotateStep)
		case "+", "=":
			m.speed = min(8, m.speed*2)
		case "-", "_":
			m.speed = max(0.125, m.speed/2)
		case "r":
			m.index = 0
			m.gen++
			if m.playing {
				return m, m.tick()
			}
		}
	}
	return m, nil
}

func (m *Preview) rotate(deg float64) {
	m.azimuth += deg
	m.view = render.NewView(m.box, m.elevation, m.azimuth)
}

func (m Preview) View() string {
	var b strings.Builder
	b.WriteString(Title.Render("Lorenz preview: " + m.name))
	b.WriteString("\n\n")

	if len(m.frames) == 0 {
		b.WriteString(StatusFailed.Render("no frames"))
		b.WriteString("\n")
		return b.String()
	}

	traj := m.frames[m.index]
	m.canvas.Clear()
	m.canvas.Plot(m.view, traj)
	b.WriteString(Trace.Render(m.canvas.String()))

	status := StatusRunning.Render("▶ playing")
	if !m.playing {
		status = StatusPaused.Render("⏸ paused")
	}
	total := len(m.frames)
	fmt.Fprintf(&b, "%s  frame %d/%d  points %d  az %.0f°  x%.3g\n",
		status, m.index+1, total, len(traj), m.azimuth, m.speed)
	b.WriteString(ProgressBar(float64(m.index+1)/float64(total), 40))
	b.WriteString("\n")
	b.WriteString(KeyHint.Render("space pause  ←/→ step  a/d rotate  +/- speed  r restart  q quit"))
	b.WriteString("\n")
	return b.String()
}

// RunPreview blocks until the user quits.
func RunPreview(m Preview) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

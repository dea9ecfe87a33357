package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nathoo/tilequest/engine"
	"github.com/nathoo/tilequest/engine/events"
	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/engine/input"
	"github.com/nathoo/tilequest/loader"
	"github.com/nathoo/tilequest/storage"
)

// Player plays the sounds a frame asks for.
type Player interface {
	Play(sfx []events.SFX)
}

// Recorder stores finished runs.
type Recorder interface {
	SaveRun(r storage.Run) (int64, error)
}

// Options configures a Model. Every field is optional.
type Options struct {
	FPS        int
	Spec       geom.Spec     // zero means geom.DefaultSpec
	Sheet      *loader.Sheet // nil paints from a fixed palette
	Audio      Player
	Records    Recorder
	Logger     *log.Logger
	ConfigName string
}

// observed is the part of the game the message log watches for changes.
type observed struct {
	segment int
	items   int
	steps   int
	mode    engine.Mode
	won     bool
}

// Model is the Bubble Tea model that drives one run.
type Model struct {
	engine   *engine.Engine
	painter  *Painter
	canvas   *Canvas
	keys     KeyMap
	help     help.Model
	history  *History
	in       input.Input
	held     [16]int // frames left before each button bit is released
	hold     int
	interval time.Duration

	audio   Player
	records Recorder
	logger  *log.Logger
	config  string

	seen     observed
	width    int
	height   int
	recorded bool
	quitting bool
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Spec == (geom.Spec{}) {
		opts.Spec = geom.DefaultSpec
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	m := Model{
		engine:   eng,
		painter:  NewPainter(opts.Spec, opts.Sheet),
		canvas:   NewCanvas(CanvasCols, CanvasRows),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		history:  NewHistory(50),
		hold:     max(1, opts.FPS/5),
		interval: time.Second / time.Duration(opts.FPS),
		audio:    opts.Audio,
		records:  opts.Records,
		logger:   opts.Logger,
		config:   opts.ConfigName,
		width:    CanvasCols,
		height:   CanvasRows + 2,
	}
	m.seen = m.observe()
	if eng.Err != nil {
		m.history.Push("World generation failed")
	}
	return m
}

// Run starts the Bubble Tea program on the local terminal.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init starts the frame clock.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.interval)
}

// Update handles key presses, resizes and frame ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.record(false)
		m.quitting = true
		return m, tea.Quit
	}

	b := m.keys.Buttons(msg)
	if b == 0 {
		return m, nil
	}
	if b.Has(input.Reset) {
		m.record(false)
		m.recorded = false
	}
	m.in.Press(b)
	for i := range m.held {
		if b&(1<<i) != 0 {
			m.held[i] = m.hold
		}
	}
	return m, nil
}

// handleTick runs one engine frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds, sfx := m.engine.Frame(&m.in)
	m.painter.Paint(m.canvas, cmds)
	if m.audio != nil && len(sfx) > 0 {
		m.audio.Play(sfx)
	}

	// Terminals report presses only, so buttons let go after a few frames.
	for i, n := range m.held {
		if n == 0 {
			continue
		}
		m.held[i] = n - 1
		if n == 1 {
			m.in.Release(input.Button(1 << i))
		}
	}

	m.note()
	if m.engine.Won {
		m.record(true)
	}
	return m, tickCmd(m.interval)
}

func (m Model) observe() observed {
	o := observed{steps: m.engine.StepCount, mode: m.engine.Mode, won: m.engine.Won}
	if w := m.engine.World(); w != nil {
		o.segment = int(w.SegmentID)
		o.items = len(w.Player.Inventory)
	}
	return o
}

// note logs what changed since the last frame.
func (m *Model) note() {
	now := m.observe()
	was := m.seen
	m.seen = now

	switch {
	case now.steps < was.steps:
		m.history.Push("Run restarted")
		return
	case now.won && !was.won:
		m.history.Push(fmt.Sprintf("Victory in %d steps!", now.steps))
	case now.segment != was.segment:
		m.history.Push(fmt.Sprintf("Entered segment %d", now.segment))
	case now.mode == engine.Hallway && was.mode != engine.Hallway:
		m.history.Push("Something blocks the hallway")
	}
	switch {
	case now.items > was.items:
		m.history.Push("Picked up an item")
	case now.items < was.items:
		m.history.Push("Handed over an item")
	}
}

// record stores the current run once.
func (m *Model) record(victory bool) {
	if m.recorded {
		return
	}
	e := m.engine
	if e.Err != nil || (e.StepCount == 0 && !victory) {
		return
	}
	m.recorded = true

	run := storage.Run{
		Seed:    e.Seed().String(),
		Config:  m.config,
		Victory: victory,
		Steps:   e.StepCount,
		Frames:  int64(e.Frames),
		Segment: m.seen.segment,
	}
	m.logger.Info("run finished", "seed", run.Seed, "victory", victory, "steps", run.Steps, "frames", run.Frames)
	if m.records == nil {
		return
	}
	if _, err := m.records.SaveRun(run); err != nil {
		m.logger.Warn("could not save run", "error", err)
	}
}

// View renders the game canvas, status bar and key help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	rows := max(m.height-2, 1)
	return m.canvas.Render(m.width, rows) + "\n" + m.renderStatusBar() + "\n" + m.help.View(m.keys)
}

// History returns the message log.
func (m Model) History() *History { return m.history }

// Canvas returns the last painted frame.
func (m Model) Canvas() *Canvas { return m.canvas }

// Engine returns the engine the model drives.
func (m Model) Engine() *engine.Engine { return m.engine }

// Package cli runs the engine headless: button script lines in, one status
// line per action out.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/tilequest/engine"
	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/engine/input"
	"github.com/nathoo/tilequest/engine/parser"
	"github.com/nathoo/tilequest/engine/snapshot"
)

// CLI feeds script lines to an engine and reports what happened.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool // echo each script line before its status
	in        input.Input
	reported  bool
}

// Result summarises a finished run.
type Result struct {
	Frames  uint32
	Steps   int
	Victory bool
	Mode    engine.Mode
	Segment int
	XY      geom.XY
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Engine:  eng,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".tilequest", "saves"),
	}
}

// Run reads script lines until the input ends or /quit, running each
// action's frames. A malformed line stops the run with a *parser.SyntaxError.
func (c *CLI) Run() (Result, error) {
	if err := c.Engine.Err; err != nil {
		c.printSystem(fmt.Sprintf("world generation failed: %v", err))
		return c.result(), err
	}
	c.printStatus("start")

	scanner := bufio.NewScanner(c.In)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "/") {
			if c.EchoInput {
				c.printLine(line)
			}
			if c.handleMeta(line) {
				break
			}
			continue
		}

		a, ok, err := parser.Parse(line)
		if err != nil {
			err.(*parser.SyntaxError).Line = n
			return c.result(), err
		}
		if !ok {
			continue
		}
		if c.EchoInput {
			c.printLine(a.Text)
		}
		c.Do(a)
	}
	if err := scanner.Err(); err != nil {
		return c.result(), fmt.Errorf("reading script: %w", err)
	}
	return c.result(), nil
}

// Do runs every frame of a and prints the resulting status.
func (c *CLI) Do(a parser.Action) {
	for _, pad := range a.Frames() {
		c.in.Gamepad = pad
		_, sfx := c.Engine.Frame(&c.in)
		if c.Trace && len(sfx) > 0 {
			names := make([]string, len(sfx))
			for i, s := range sfx {
				names[i] = s.String()
			}
			c.printSystem(fmt.Sprintf("[trace] frame %d sfx %s", c.Engine.Frames-1, strings.Join(names, ",")))
		}
	}
	c.printStatus(a.Text)
	if c.Engine.Won && !c.reported {
		c.reported = true
		c.printLine(fmt.Sprintf("VICTORY in %d steps", c.Engine.StepCount))
	}
}

// handleMeta dispatches meta-commands. Returns true if the run should stop.
func (c *CLI) handleMeta(line string) bool {
	parts := strings.Fields(line)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := snapshot.Encode(c.Engine.Gen)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("World saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	g, err := snapshot.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	old := c.Engine
	c.Engine = engine.FromGenerated(old.Seed(), g, geom.DefaultSpec)
	c.in = input.Input{}
	c.reported = false
	c.printSystem(fmt.Sprintf("World loaded from %s.", name))
	c.printStatus("load")
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  - Save the world (default: quicksave)",
		"  /load [name]  - Load a saved world (default: quicksave)",
		"  /quit         - Stop the run",
		"  /help         - Show this help",
		"  /state        - Debug: dump current state",
		"  /trace        - Toggle sound trace output",
		"",
		"Script lines:",
		"  UP DOWN LEFT RIGHT A B START SELECT  - Tap a button",
		"  <button> x3                          - Tap it three times",
		"  A B                                  - Tap buttons together",
		"  hold <dir> [button] (talk <dir>)     - Press a button while facing dir",
		"  wait [frames] (z)                    - Let frames pass",
		"  # comment                            - Ignored",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	e := c.Engine
	w := e.World()
	c.printSystem(fmt.Sprintf("Seed: %s", e.Seed()))
	c.printSystem(fmt.Sprintf("Frames: %d", e.Frames))
	c.printSystem(fmt.Sprintf("Steps: %d", e.StepCount))
	c.printSystem(fmt.Sprintf("Mode: %s", e.Mode))
	if w == nil {
		return
	}
	c.printSystem(fmt.Sprintf("Location: segment %d (%d,%d)", w.SegmentID, w.Player.XY.X, w.Player.XY.Y))
	defs := make([]string, len(w.Player.Inventory))
	for i, item := range w.Player.Inventory {
		defs[i] = fmt.Sprint(item.Def)
	}
	c.printSystem(fmt.Sprintf("Inventory: [%s]", strings.Join(defs, " ")))
	if sp, ok := e.CurrentSpeech(); ok {
		c.printSystem(fmt.Sprintf("Speech: %q", string(sp)))
	}
}

func (c *CLI) result() Result {
	r := Result{
		Frames:  c.Engine.Frames,
		Steps:   c.Engine.StepCount,
		Victory: c.Engine.Won,
		Mode:    c.Engine.Mode,
	}
	if w := c.Engine.World(); w != nil {
		r.Segment = int(w.SegmentID)
		r.XY = w.Player.XY
	}
	return r
}

func (c *CLI) printStatus(label string) {
	r := c.result()
	c.printLine(fmt.Sprintf("%-16s mode=%-9s segment=%d pos=(%d,%d) steps=%d",
		label, r.Mode, r.Segment, r.XY.X, r.XY.Y, r.Steps))
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

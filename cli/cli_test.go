package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/tilequest/engine"
	"github.com/nathoo/tilequest/engine/gen"
	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/engine/parser"
	"github.com/nathoo/tilequest/engine/rng"
	"github.com/nathoo/tilequest/engine/state"
	"github.com/nathoo/tilequest/loader"
	"github.com/nathoo/tilequest/types"
)

// corridor returns a 4x1 room with the player at the west end and a trophy
// at the east end.
func corridor(t *testing.T) *gen.Generated {
	t.Helper()
	defs := []types.EntityDef{
		{ID: 0, Flags: types.Collectable | types.Steppable | types.Victory, TileSprite: 31},
	}
	w := state.NewWorld([]state.Segment{state.NewSegment(types.WorldSegment{
		Width: 4,
		Tiles: []types.TileFlags{types.Floor, types.Floor, types.Floor, types.Floor},
	})})
	w.Player = state.Entity{Sprite: types.PlayerSprite}
	w.Steppables.Insert(state.Location{XY: geom.XY{X: 3}}, state.FromDef(defs[0], geom.XY{}))

	speeches, descriptions := &state.Speeches{}, &state.Speeches{}
	for _, d := range defs {
		if err := speeches.Push(d.ID, d.Speeches); err != nil {
			t.Fatal(err)
		}
		if err := descriptions.Push(d.ID, d.InventoryDescriptions); err != nil {
			t.Fatal(err)
		}
	}
	return &gen.Generated{World: w, Speeches: speeches, InventoryDescriptions: descriptions, EntityDefs: defs}
}

func newTestCLI(t *testing.T, script string) (*CLI, *bytes.Buffer) {
	t.Helper()
	eng := engine.FromGenerated(rng.SeedFromInt64(1), corridor(t), geom.DefaultSpec)
	var out bytes.Buffer
	c := &CLI{
		Engine:  eng,
		In:      strings.NewReader(script),
		Out:     &out,
		SaveDir: t.TempDir(),
	}
	return c, &out
}

func TestCLI_StartStatus(t *testing.T) {
	c, out := newTestCLI(t, "")
	if _, err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "mode=walking") || !strings.Contains(out.String(), "pos=(0,0)") {
		t.Errorf("start status missing: %q", out.String())
	}
}

func TestCLI_Walk(t *testing.T) {
	c, out := newTestCLI(t, "# a comment\n\nRIGHT\n")
	res, err := c.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.XY != (geom.XY{X: 1}) || res.Steps != 1 {
		t.Errorf("result = %+v", res)
	}
	if res.Frames != 2 {
		t.Errorf("frames = %d, want 2", res.Frames)
	}
	if strings.Count(out.String(), "\n") != 2 {
		t.Errorf("want the start line plus one status line, got %q", out.String())
	}
}

func TestCLI_Victory(t *testing.T) {
	c, out := newTestCLI(t, "RIGHT x3\nLEFT\n")
	res, err := c.Run()
	if err != nil {
		t.Fatal(err)
	}
	if !res.Victory || res.Mode != engine.Speech {
		t.Errorf("result = %+v", res)
	}
	if res.Steps != 3 {
		t.Errorf("steps = %d, want 3 (no moves after winning)", res.Steps)
	}
	if got := strings.Count(out.String(), "VICTORY in 3 steps"); got != 1 {
		t.Errorf("victory reported %d times:\n%s", got, out.String())
	}
}

func TestCLI_Wait(t *testing.T) {
	c, _ := newTestCLI(t, "wait 10\n")
	res, _ := c.Run()
	if res.Frames != 10 || res.Steps != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestCLI_SyntaxError(t *testing.T) {
	c, _ := newTestCLI(t, "RIGHT\nfly away\n")
	_, err := c.Run()
	var se *parser.SyntaxError
	if !errors.As(err, &se) || se.Line != 2 {
		t.Fatalf("err = %v, want a syntax error on line 2", err)
	}
}

func TestCLI_QuitStops(t *testing.T) {
	c, _ := newTestCLI(t, "/quit\nRIGHT\n")
	res, err := c.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps != 0 {
		t.Error("ran a line after /quit")
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n")
	c.Run()
	for _, want := range []string{"/save", "/load", "/quit", "hold <dir>"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %s in help output", want)
		}
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/bogus\n")
	c.Run()
	if !strings.Contains(out.String(), "Unknown command") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\nSTART\n/trace\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Trace output enabled") || !strings.Contains(output, "Trace output disabled") {
		t.Error("expected trace toggle messages")
	}
	if !strings.Contains(output, "sfx button-press") {
		t.Errorf("expected a traced sound in %q", output)
	}
}

func TestCLI_StateCommand(t *testing.T) {
	c, out := newTestCLI(t, "RIGHT\n/state\n")
	c.Run()
	output := out.String()
	if !strings.Contains(output, "Location: segment 0 (1,0)") {
		t.Errorf("expected location in state output: %q", output)
	}
	if !strings.Contains(output, "Steps: 1") {
		t.Error("expected step count in state output")
	}
}

func TestCLI_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	c, out := newTestCLI(t, "RIGHT x2\n/save test\n")
	c.SaveDir = dir
	c.Run()
	if !strings.Contains(out.String(), "World saved to test.") {
		t.Fatalf("expected save confirmation: %q", out.String())
	}

	c2, out2 := newTestCLI(t, "/load test\nRIGHT\n")
	c2.SaveDir = dir
	res, err := c2.Run()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out2.String(), "World loaded from test.") {
		t.Errorf("expected load confirmation: %q", out2.String())
	}
	// the loaded world has the player two cells in, one step from the trophy
	if !res.Victory || res.XY != (geom.XY{X: 3}) {
		t.Errorf("result after load = %+v", res)
	}
}

func TestCLI_LoadNonexistent(t *testing.T) {
	c, out := newTestCLI(t, "/load nonexistent\n")
	c.Run()
	if !strings.Contains(out.String(), "Load failed") {
		t.Error("expected load failure message")
	}
}

func TestCLI_GenerationError(t *testing.T) {
	cfg := loader.Default()
	cfg.Entities = cfg.Entities[:0]
	eng := engine.New(rng.SeedFromInt64(1), cfg, geom.DefaultSpec)
	var out bytes.Buffer
	c := &CLI{Engine: eng, In: strings.NewReader("RIGHT\n"), Out: &out}
	if _, err := c.Run(); err == nil {
		t.Fatal("expected the generation error")
	}
	if !strings.Contains(out.String(), "world generation failed") {
		t.Errorf("output = %q", out.String())
	}
}

func TestCLI_DefaultWorldIsDeterministic(t *testing.T) {
	script := "RIGHT x4\nDOWN x3\nLEFT x2\nUP\nhold LEFT A\nA\nSTART\nSTART\n"
	run := func() string {
		eng := engine.New(rng.SeedFromInt64(99), loader.Default(), geom.DefaultSpec)
		var out bytes.Buffer
		c := &CLI{Engine: eng, In: strings.NewReader(script), Out: &out}
		if _, err := c.Run(); err != nil {
			t.Fatal(err)
		}
		return out.String()
	}
	if a, b := run(), run(); a != b {
		t.Errorf("same seed and script traced differently:\n%s\n---\n%s", a, b)
	}
}

package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/tilequest/engine"
	"github.com/nathoo/tilequest/engine/draw"
	"github.com/nathoo/tilequest/engine/events"
	"github.com/nathoo/tilequest/engine/gen"
	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/engine/input"
	"github.com/nathoo/tilequest/engine/rng"
	"github.com/nathoo/tilequest/engine/state"
	"github.com/nathoo/tilequest/loader"
	"github.com/nathoo/tilequest/storage"
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

type fakePlayer struct{ played []events.SFX }

func (p *fakePlayer) Play(sfx []events.SFX) { p.played = append(p.played, sfx...) }

type fakeRecorder struct {
	runs []storage.Run
	err  error
}

func (r *fakeRecorder) SaveRun(run storage.Run) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.runs = append(r.runs, run)
	return int64(len(r.runs)), nil
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	eng := engine.FromGenerated(rng.SeedFromInt64(1), corridor(t), geom.DefaultSpec)
	return New(eng, opts)
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

var (
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyQuit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
	tick     = TickMsg{}
)

func TestHistory(t *testing.T) {
	h := NewHistory(3)
	if _, ok := h.Last(); ok {
		t.Error("empty history has a last entry")
	}
	for _, msg := range []string{"a", "a", "b", "c", "d"} {
		h.Push(msg)
	}
	if h.Len() != 3 {
		t.Errorf("len = %d, want 3", h.Len())
	}
	if got := strings.Join(h.Recent(10), ","); got != "b,c,d" {
		t.Errorf("recent = %s", got)
	}
	if got := strings.Join(h.Recent(2), ","); got != "c,d" {
		t.Errorf("recent(2) = %s", got)
	}
	if last, _ := h.Last(); last != "d" {
		t.Errorf("last = %s", last)
	}
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Set(0, 0, Cell{Rune: 'a'})
	c.Set(1, 0, Cell{Rune: 'b'})
	c.Set(5, 5, Cell{Rune: 'x'})
	if got := c.Row(0); got != "ab " {
		t.Errorf("row 0 = %q", got)
	}
	if got := c.Get(-1, 0); got != blank {
		t.Errorf("out of bounds = %+v", got)
	}
	out := c.Render(10, 10)
	if strings.Count(out, "\n") != 1 || !strings.Contains(out, "ab") {
		t.Errorf("render = %q", out)
	}
	if out := c.Render(1, 1); strings.Contains(out, "b") || strings.Contains(out, "\n") {
		t.Errorf("cropped render = %q", out)
	}
	c.Clear()
	if c.Row(0) != "   " {
		t.Error("clear left content behind")
	}
}

func TestCanvasSize(t *testing.T) {
	if CanvasCols != 60 || CanvasRows != 40 {
		t.Errorf("canvas = %dx%d", CanvasCols, CanvasRows)
	}
}

func TestPainter_Glyph(t *testing.T) {
	cmds := draw.New(geom.DefaultSpec)
	cmds.PrintChar('H', 16, 8, draw.Red)

	c := NewCanvas(CanvasCols, CanvasRows)
	NewPainter(geom.DefaultSpec, nil).Paint(c, cmds.List)
	if got := c.Get(2, 1); got.Rune != 'H' || got.FG != draw.Red {
		t.Errorf("glyph cell = %+v", got)
	}
}

func TestPainter_GlyphKeepsPanelBackground(t *testing.T) {
	cmds := draw.New(geom.DefaultSpec)
	cmds.NineSlice(geom.Rect{XMax: 64, YMax: 32}, draw.DefaultSlices)
	cmds.PrintChar('k', 8, 8, draw.NoOverride)

	c := NewCanvas(CanvasCols, CanvasRows)
	NewPainter(geom.DefaultSpec, nil).Paint(c, cmds.List)
	got := c.Get(1, 1)
	if got.Rune != 'k' || got.FG != draw.White || got.BG != draw.Blue {
		t.Errorf("cell = %+v", got)
	}
}

func TestPainter_TileFallback(t *testing.T) {
	cmds := draw.New(geom.DefaultSpec)
	cmds.Tile(types.PlayerSprite, 32, 16)
	cmds.Tile(types.WallSprite, 0, 0)

	c := NewCanvas(CanvasCols, CanvasRows)
	NewPainter(geom.DefaultSpec, nil).Paint(c, cmds.List)
	for _, xy := range [][2]int{{4, 2}, {5, 2}, {4, 3}, {5, 3}} {
		if got := c.Get(xy[0], xy[1]); got.BG != draw.Yellow {
			t.Errorf("cell %v = %+v, want yellow", xy, got)
		}
	}
	if got := c.Get(4, 2); got.Rune != '@' {
		t.Errorf("player rune = %q", got.Rune)
	}
	if got := c.Get(5, 3); got.Rune != ' ' {
		t.Errorf("only the first cell of a tile is marked, got %q", got.Rune)
	}
	if got := c.Get(0, 0); got.BG != draw.Grey || got.Rune != ' ' {
		t.Errorf("wall = %+v", got)
	}
	if got := c.Get(10, 10); got != blank {
		t.Errorf("untouched cell = %+v", got)
	}
}

func TestPainter_SheetMeanColour(t *testing.T) {
	const red, blue = 0xFFFF0000, 0xFF0000FF
	sheet := &loader.Sheet{Width: 16, Pixels: make([]uint32, 16*16)}
	for y := range 16 {
		for x := range 16 {
			if x < 8 {
				sheet.Pixels[y*16+x] = red
			} else {
				sheet.Pixels[y*16+x] = blue
			}
		}
	}
	// half the bottom-right block is transparent; the mean ignores it
	for y := 8; y < 16; y++ {
		sheet.Pixels[y*16+15] = 0
	}

	cmds := draw.New(geom.DefaultSpec)
	cmds.Tile(types.WallSprite, 0, 0)
	cmds.Tile(types.FloorSprite, 16, 0) // off the sheet: fully transparent

	c := NewCanvas(CanvasCols, CanvasRows)
	NewPainter(geom.DefaultSpec, sheet).Paint(c, cmds.List)
	if got := c.Get(0, 0).BG; got != red {
		t.Errorf("left = %08x", got)
	}
	if got := c.Get(1, 1).BG; got != blue {
		t.Errorf("right = %08x", got)
	}
	if got := c.Get(2, 0); got != blank {
		t.Errorf("transparent sprite painted %+v", got)
	}
}

func TestPainter_ColourOverride(t *testing.T) {
	cmds := draw.New(geom.DefaultSpec)
	src := geom.Apply(geom.DefaultSpec, draw.TileXY(types.FloorSprite))
	cmds.SsprColour(src, geom.Rect{XMax: 16, YMax: 16}, draw.Green)

	c := NewCanvas(CanvasCols, CanvasRows)
	NewPainter(geom.DefaultSpec, nil).Paint(c, cmds.List)
	if got := c.Get(1, 1).BG; got != draw.Green {
		t.Errorf("bg = %08x", got)
	}
}

func TestKeyMap_Buttons(t *testing.T) {
	km := DefaultKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want input.Button
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, input.Up},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}}, input.Right},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}}, input.A},
		{tea.KeyMsg{Type: tea.KeyEnter}, input.Start},
		{tea.KeyMsg{Type: tea.KeyShiftLeft}, input.Left | input.A},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}, input.Reset},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}}, 0},
	}
	for _, tt := range tests {
		if got := km.Buttons(tt.msg); got != tt.want {
			t.Errorf("Buttons(%s) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestModel_TickWalksAndReleases(t *testing.T) {
	p := &fakePlayer{}
	m := newTestModel(t, Options{FPS: 10, Audio: p})

	m = step(t, m, keyRight)
	m = step(t, m, tick)
	if got := m.Engine().World().Player.XY; got != (geom.XY{X: 1}) {
		t.Fatalf("player at %+v, want (1,0)", got)
	}
	if !m.in.Held(input.Right) {
		t.Error("button released too early")
	}

	// hold lasts FPS/5 frames
	m = step(t, m, tick)
	if m.in.Held(input.Right) {
		t.Error("button still held")
	}
	if got := m.Engine().World().Player.XY; got != (geom.XY{X: 1}) {
		t.Errorf("holding walked again: %+v", got)
	}
	if len(p.played) != 0 {
		t.Errorf("walking played %v", p.played)
	}
	painted := false
	for y := range m.Canvas().Rows() {
		painted = painted || strings.Contains(m.Canvas().Row(y), "@")
	}
	if !painted {
		t.Error("player not painted")
	}
}

func TestModel_VictoryIsRecordedOnce(t *testing.T) {
	rec := &fakeRecorder{}
	p := &fakePlayer{}
	m := newTestModel(t, Options{Records: rec, Audio: p, ConfigName: "corridor"})

	for range 3 {
		m = step(t, m, keyRight)
		m = step(t, m, tick)
	}
	if !m.Engine().Won {
		t.Fatal("no victory")
	}
	m = step(t, m, tick)
	m = step(t, m, keyQuit)

	if len(rec.runs) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(rec.runs))
	}
	run := rec.runs[0]
	if !run.Victory || run.Steps != 3 || run.Config != "corridor" || run.Seed != rng.SeedFromInt64(1).String() {
		t.Errorf("run = %+v", run)
	}
	if len(p.played) == 0 || p.played[0] != events.CardPlace {
		t.Errorf("played %v, want the pickup sound first", p.played)
	}
	if last, _ := m.History().Last(); !strings.HasPrefix(last, "Victory") && last != "Picked up an item" {
		t.Errorf("last message = %q", last)
	}
	if m.View() != "" {
		t.Error("view after quit should be empty")
	}
}

func TestModel_QuitRecordsAbandonedRun(t *testing.T) {
	rec := &fakeRecorder{}
	m := newTestModel(t, Options{Records: rec})
	m = step(t, m, keyRight)
	m = step(t, m, tick)

	_, cmd := m.Update(keyQuit)
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit key did not quit")
	}
	if len(rec.runs) != 1 || rec.runs[0].Victory || rec.runs[0].Steps != 1 {
		t.Errorf("runs = %+v", rec.runs)
	}
}

func TestModel_QuitWithoutPlayingRecordsNothing(t *testing.T) {
	rec := &fakeRecorder{}
	m := newTestModel(t, Options{Records: rec})
	step(t, m, keyQuit)
	if len(rec.runs) != 0 {
		t.Errorf("runs = %+v", rec.runs)
	}
}

func TestModel_RecorderErrorIsNotFatal(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	m := newTestModel(t, Options{Records: rec})
	m = step(t, m, keyRight)
	m = step(t, m, tick)
	step(t, m, keyQuit)
}

func TestModel_HistoryNotesSegmentChange(t *testing.T) {
	m := newTestModel(t, Options{})
	m.seen.segment = 3
	m = step(t, m, tick)
	if last, _ := m.History().Last(); last != "Entered segment 0" {
		t.Errorf("last = %q", last)
	}
}

func TestStatusBar(t *testing.T) {
	m := newTestModel(t, Options{})
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 50})
	m = step(t, m, keyRight)
	m = step(t, m, tick)

	bar := m.renderStatusBar()
	for _, want := range []string{"Segment 0 (1,0)", "walking", "Inv: 0", "Steps: 1", "Seed: "} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar missing %q: %q", want, bar)
		}
	}
}

func TestStatusBar_GenerationError(t *testing.T) {
	cfg := loader.Default()
	cfg.Entities = cfg.Entities[:0]
	m := New(engine.New(rng.SeedFromInt64(1), cfg, geom.DefaultSpec), Options{})
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 50})
	bar := m.renderStatusBar()
	if !strings.Contains(bar, "No world") || !strings.Contains(bar, "World generation failed") {
		t.Errorf("status bar = %q", bar)
	}
}

func TestNewServer(t *testing.T) {
	newSession := func(string) (Model, error) { return newTestModel(t, Options{}), nil }
	if _, err := NewServer(ServerConfig{Address: ":0"}, newSession, nil); err == nil {
		t.Error("expected an error without a host key path")
	}

	srv, err := NewServer(ServerConfig{
		Address:     "127.0.0.1:0",
		HostKeyPath: filepath.Join(t.TempDir(), "keys", "host_ed25519"),
	}, newSession, nil)
	if err != nil {
		t.Fatal(err)
	}
	if srv.Addr() != "127.0.0.1:0" {
		t.Errorf("addr = %s", srv.Addr())
	}
}

package engine

import (
	"github.com/nathoo/tilequest/engine/draw"
	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/engine/state"
	"github.com/nathoo/tilequest/types"
)

// InventoryBox is where the inventory panel sits.
var InventoryBox = geom.Rect{XMin: 8, YMin: 8, XMax: 472, YMax: 64}

const (
	inventoryX     = 24
	inventoryY     = 28
	inventoryPitch = 20
	goalX          = 440
)

func (e *Engine) render() {
	c := e.commands
	if e.Err != nil {
		c.ErrorScreen("could not generate a world:\n" + e.Err.Error())
		return
	}

	if e.Mode == Hallway && e.hallway != nil {
		e.hallway.Render(c)
	} else {
		e.renderWorld()
		switch e.Mode {
		case Inventory:
			e.renderInventory()
		case Speech:
			e.renderInventoryIfUnder()
			if sp, ok := e.CurrentSpeech(); ok {
				c.Speech(sp, e.scroll, e.page+1 < len(e.pages), e.Frames)
			}
		}
	}

	if e.shake > 0 {
		xd, yd := geom.ShakeDisplacement(e.shakeRNG.Angle(), e.shake)
		c.Translate(0, xd, yd)
		e.shake--
	}
}

// renderInventoryIfUnder keeps the inventory on screen while one of its
// descriptions is being read.
func (e *Engine) renderInventoryIfUnder() {
	if e.previous == Inventory {
		e.renderInventory()
	}
}

// Camera returns the pixel position of the screen's top-left corner in
// segment space. It follows the player, stopping at the segment's edges,
// and centres segments smaller than the screen.
func (e *Engine) Camera() (int, int) {
	w := e.Gen.World
	seg := w.Current()
	px, py := entityPixels(w.Player)
	return cameraAxis(px, int(seg.Width)*draw.TileSize, int(draw.ScreenWidth)),
		cameraAxis(py, int(seg.Height())*draw.TileSize, int(draw.ScreenHeight))
}

func cameraAxis(player, world, screen int) int {
	if world <= screen {
		return -(screen - world) / 2
	}
	return min(max(player+draw.TileSize/2-screen/2, 0), world-screen)
}

func entityPixels(en state.Entity) (int, int) {
	x := int(en.XY.X)*draw.TileSize + int(en.OffsetX.Pixels(draw.TileSize))
	y := int(en.XY.Y)*draw.TileSize + int(en.OffsetY.Pixels(draw.TileSize))
	return x, y
}

func (e *Engine) renderWorld() {
	c := e.commands
	w := e.Gen.World
	seg := w.Current()
	camX, camY := e.Camera()

	for i, sprite := range seg.Tiles {
		xy := geom.FromIndex(i, seg.Width)
		c.TileAt(sprite, int(xy.X)*draw.TileSize-camX, int(xy.Y)*draw.TileSize-camY)
	}
	drawEntities := func(loc state.Location, en state.Entity) bool {
		if loc.Segment == w.SegmentID {
			x, y := entityPixels(en)
			c.TileAt(en.Sprite, x-camX, y-camY)
		}
		return true
	}
	w.Steppables.Each(drawEntities)
	w.Mobs.Each(drawEntities)

	x, y := entityPixels(w.Player)
	c.TileAt(types.PlayerSprite, x-camX, y-camY)
}

func (e *Engine) renderInventory() {
	c := e.commands
	c.NineSlice(InventoryBox, draw.DefaultSlices)
	c.PrintLine("inventory", inventoryX, 16, draw.White)
	c.PrintLine("goal", goalX-8, 16, draw.Yellow)
	c.Tile(e.Gen.GoalDoorTileSprite, goalX, inventoryY)

	for i, item := range e.Gen.World.Player.Inventory {
		x := inventoryX + i*inventoryPitch
		if x+draw.TileSize > goalX-16 {
			break
		}
		c.Tile(item.Sprite, geom.PX(x), inventoryY)
		if i == e.cursor && e.Mode == Inventory {
			c.PrintChar('^', geom.PX(x+4), inventoryY+draw.TileSize+2, draw.Yellow)
		}
	}
}

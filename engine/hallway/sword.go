package hallway

import (
	"fmt"

	"github.com/nathoo/tilequest/engine/draw"
	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/engine/input"
	"github.com/nathoo/tilequest/engine/rng"
	"github.com/nathoo/tilequest/types"
)

const (
	swordStart     = 200
	swordReach     = 24
	swordKnockback = 96
	swordHits      = 3
	slashFrames    = 8
)

var (
	swordPlayer = geom.SpriteXY[geom.Sword]{X: 0, Y: 0}
	swordEnemy  = geom.SpriteXY[geom.Sword]{X: 16, Y: 0}
	swordSlash  = geom.SpriteXY[geom.Sword]{X: 32, Y: 0}
)

// Sword is a timing duel: an enemy walks in from the right and A swings.
// A swing connects when the enemy is within reach. Three hits win. An enemy
// that reaches the player is pushed back to the start.
type Sword struct {
	distance int
	speed    int
	hits     int
	slash    int
}

// NewSword starts a duel with a random enemy speed.
func NewSword(r *rng.RNG) *Sword {
	return &Sword{distance: swordStart, speed: 1 + r.Intn(2)}
}

func (s *Sword) Kind() types.HallwaySpec { return types.HallwaySword }

// Hits is how many swings have connected.
func (s *Sword) Hits() int { return s.hits }

func (s *Sword) Update(in input.Input) bool {
	if s.hits >= swordHits {
		return true
	}
	if s.slash > 0 {
		s.slash--
	}
	s.distance -= s.speed
	if s.distance <= 0 {
		s.distance = swordStart
	}
	if in.PressedThisFrame(input.A) && s.slash == 0 {
		s.slash = slashFrames
		if s.distance <= swordReach {
			s.hits++
			s.distance += swordKnockback
		}
	}
	return s.hits >= swordHits
}

const swordX, swordY = 120, 152

func swordRect(x int) geom.Rect {
	return geom.RectFromUnscaled(geom.Unscaled{X: geom.PX(x), Y: swordY, W: draw.TileSize, H: draw.TileSize})
}

func (s *Sword) Render(c *draw.Commands) {
	draw.Put(c, swordPlayer, swordRect(swordX))
	if s.slash > 0 {
		draw.Put(c, swordSlash, swordRect(swordX+draw.TileSize))
	}
	draw.Put(c, swordEnemy, swordRect(swordX+draw.TileSize+s.distance))
	c.PrintLine(fmt.Sprintf("press a when it is close. hits %d/%d", s.hits, swordHits), 96, 120, draw.White)
}

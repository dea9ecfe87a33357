package geom

// Sheet identifies a region of the spritesheet. Only SpriteXY[Renderable]
// values may be emitted as draw commands; every other sheet must go through
// Apply, which adds that region's offset.
type Sheet interface {
	sheetOffset(s Spec) (uint16, uint16)
}

// Sheet markers.
type (
	BaseFont   struct{}
	BaseUI     struct{}
	BaseTiles  struct{}
	IcePuzzles struct{}
	Sword      struct{}
	Renderable struct{}
)

func (BaseFont) sheetOffset(s Spec) (uint16, uint16)   { return s.Font.X, s.Font.Y }
func (BaseUI) sheetOffset(s Spec) (uint16, uint16)     { return s.UI.X, s.UI.Y }
func (BaseTiles) sheetOffset(s Spec) (uint16, uint16)  { return s.Tiles.X, s.Tiles.Y }
func (IcePuzzles) sheetOffset(s Spec) (uint16, uint16) { return s.IcePuzzles.X, s.IcePuzzles.Y }
func (Sword) sheetOffset(s Spec) (uint16, uint16)      { return s.Sword.X, s.Sword.Y }
func (Renderable) sheetOffset(Spec) (uint16, uint16)   { return 0, 0 }

// SpriteXY is a pixel position on the spritesheet, tagged with the sheet
// region it is relative to.
type SpriteXY[S Sheet] struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
}

// SheetOrigin is the top-left pixel of a sheet region.
type SheetOrigin struct {
	X uint16 `yaml:"x" json:"x"`
	Y uint16 `yaml:"y" json:"y"`
}

// Spec describes where each region lives on the loaded spritesheet.
type Spec struct {
	Tiles      SheetOrigin `yaml:"tiles" json:"tiles"`
	UI         SheetOrigin `yaml:"ui" json:"ui"`
	Font       SheetOrigin `yaml:"font" json:"font"`
	IcePuzzles SheetOrigin `yaml:"ice_puzzles" json:"ice_puzzles"`
	Sword      SheetOrigin `yaml:"sword" json:"sword"`
}

// DefaultSpec is the layout of the built-in spritesheet.
var DefaultSpec = Spec{
	Tiles:      SheetOrigin{0, 0},
	UI:         SheetOrigin{0, 128},
	Font:       SheetOrigin{0, 160},
	IcePuzzles: SheetOrigin{0, 224},
	Sword:      SheetOrigin{0, 256},
}

// Apply converts a sheet-relative sprite position into a renderable one.
func Apply[S Sheet](s Spec, xy SpriteXY[S]) SpriteXY[Renderable] {
	var sheet S
	dx, dy := sheet.sheetOffset(s)
	return SpriteXY[Renderable]{
		X: satAdd(xy.X, dx),
		Y: satAdd(xy.Y, dy),
	}
}

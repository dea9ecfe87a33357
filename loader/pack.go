package loader

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"path"
)

// ManifestName is the pack entry evaluated to locate the other entries.
const ManifestName = "manifest.lua"

// Sheet is a decoded spritesheet: ARGB32 pixels in row-major order.
type Sheet struct {
	Pixels []uint32
	Width  int
}

// Height is the number of pixel rows.
func (s *Sheet) Height() int {
	if s.Width == 0 {
		return 0
	}
	return len(s.Pixels) / s.Width
}

// At returns the pixel at (x, y), or 0 outside the sheet.
func (s *Sheet) At(x, y int) uint32 {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height() {
		return 0
	}
	return s.Pixels[y*s.Width+x]
}

// Pack is the content of a pack archive.
type Pack struct {
	ConfigName   string
	ConfigSource string
	Sheet        *Sheet
}

// OpenPack reads a pack archive from disk.
func OpenPack(filename string) (*Pack, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening pack %s: %w", filename, err)
	}
	defer zr.Close()
	return readPack(&zr.Reader)
}

// ReadPack reads a pack archive held in memory.
func ReadPack(r io.ReaderAt, size int64) (*Pack, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("reading pack: %w", err)
	}
	return readPack(zr)
}

func readPack(zr *zip.Reader) (*Pack, error) {
	manifest, err := readEntry(zr, ManifestName)
	if err != nil {
		return nil, err
	}
	res, err := Evaluate(ManifestName, string(manifest))
	if err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", ManifestName, err)
	}
	configName, err := stringField(res.Value, "config")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ManifestName, err)
	}
	sheetName, err := stringField(res.Value, "spritesheet")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ManifestName, err)
	}

	src, err := readEntry(zr, configName)
	if err != nil {
		return nil, err
	}
	img, err := readEntry(zr, sheetName)
	if err != nil {
		return nil, err
	}
	sheet, err := DecodeSheet(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", sheetName, err)
	}
	return &Pack{ConfigName: path.Base(configName), ConfigSource: string(src), Sheet: sheet}, nil
}

func stringField(m map[string]any, key string) (string, error) {
	v, err := field(m, key, "manifest")
	if err != nil {
		return "", err
	}
	return asString(v, key, "manifest")
}

func readEntry(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(path.Clean(name))
	if err != nil {
		return nil, fmt.Errorf("pack entry %s: %w", name, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading pack entry %s: %w", name, err)
	}
	return data, nil
}

// DecodeSheet decodes a PNG into ARGB32 pixels, alpha in the top byte.
func DecodeSheet(r io.Reader) (*Sheet, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, err
	}
	return sheetFromImage(img), nil
}

func sheetFromImage(img image.Image) *Sheet {
	b := img.Bounds()
	s := &Sheet{Width: b.Dx(), Pixels: make([]uint32, 0, b.Dx()*b.Dy())}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			// RGBA is alpha-premultiplied 16-bit; the sheet stores straight 8-bit.
			r, g, bl, a := img.At(x, y).RGBA()
			if a != 0 {
				r, g, bl = r*0xffff/a, g*0xffff/a, bl*0xffff/a
			}
			s.Pixels = append(s.Pixels, (a>>8)<<24|(r>>8)<<16|(g>>8)<<8|bl>>8)
		}
	}
	return s
}

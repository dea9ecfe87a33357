package loader

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func buildPack(t *testing.T, files map[string][]byte) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(buf.Bytes())
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 0xDE, G: 0x49, B: 0x49, A: 0xFF})
	img.Set(1, 0, color.NRGBA{R: 0x30, G: 0xB0, B: 0x6E, A: 0xFF})
	img.Set(0, 1, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x80})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadPack(t *testing.T) {
	r := buildPack(t, map[string][]byte{
		ManifestName: []byte(`function main() return Ok({ config = "world/config.lua", spritesheet = "sheet.png" }) end`),
		"world/config.lua": []byte(tinyWorld),
		"sheet.png":        testPNG(t),
	})
	pack, err := ReadPack(r, r.Size())
	if err != nil {
		t.Fatalf("ReadPack: %v", err)
	}
	if pack.ConfigName != "config.lua" {
		t.Errorf("ConfigName = %q", pack.ConfigName)
	}
	if _, _, err := Parse(pack.ConfigName, pack.ConfigSource); err != nil {
		t.Errorf("pack config: %v", err)
	}

	s := pack.Sheet
	if s.Width != 2 || s.Height() != 2 {
		t.Fatalf("sheet %dx%d", s.Width, s.Height())
	}
	if got := s.At(0, 0); got != 0xFFDE4949 {
		t.Errorf("At(0,0) = %#08x", got)
	}
	if got := s.At(1, 0); got != 0xFF30B06E {
		t.Errorf("At(1,0) = %#08x", got)
	}
	if got := s.At(0, 1) >> 24; got != 0x80 {
		t.Errorf("alpha = %#x", got)
	}
	if s.At(1, 1) != 0 || s.At(5, 5) != 0 {
		t.Error("transparent and out of range pixels should be 0")
	}
}

func TestReadPack_MissingEntries(t *testing.T) {
	r := buildPack(t, map[string][]byte{"config.lua": []byte(tinyWorld)})
	if _, err := ReadPack(r, r.Size()); err == nil {
		t.Error("pack without a manifest accepted")
	}

	r = buildPack(t, map[string][]byte{
		ManifestName: []byte(`function main() return Ok({ config = "config.lua", spritesheet = "none.png" }) end`),
		"config.lua": []byte(tinyWorld),
	})
	if _, err := ReadPack(r, r.Size()); err == nil {
		t.Error("pack without its spritesheet accepted")
	}

	r = buildPack(t, map[string][]byte{
		ManifestName: []byte(`function main() return Ok({ config = 7 }) end`),
	})
	if _, err := ReadPack(r, r.Size()); err == nil {
		t.Error("manifest with a numeric config accepted")
	}
}

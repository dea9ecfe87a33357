package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// isolate points HOME and the working directory at empty temp dirs.
func isolate(t *testing.T) (home, cwd string) {
	t.Helper()
	home, cwd = t.TempDir(), t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(cwd)
	return home, cwd
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestEmbeddedMatchesDefault(t *testing.T) {
	var s Settings
	if err := yaml.Unmarshal(defaultYAML, &s); err != nil {
		t.Fatal(err)
	}
	if s != Default() {
		t.Errorf("embedded = %+v\nDefault() = %+v", s, Default())
	}
}

func TestLoad_EmbeddedFallback(t *testing.T) {
	isolate(t)
	s, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if s != Default() {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_SearchOrder(t *testing.T) {
	home, cwd := isolate(t)
	write(t, filepath.Join(cwd, FileName), "fps: 20\n")

	s, _ := Load("")
	if s.FPS != 20 {
		t.Errorf("local file: fps = %d, want 20", s.FPS)
	}

	write(t, filepath.Join(home, ".tilequest", FileName), "fps: 30\n")
	s, _ = Load("")
	if s.FPS != 30 {
		t.Errorf("home file should win: fps = %d, want 30", s.FPS)
	}

	custom := filepath.Join(t.TempDir(), "mine.yaml")
	write(t, custom, "fps: 40\n")
	s, err := Load(custom)
	if err != nil {
		t.Fatal(err)
	}
	if s.FPS != 40 {
		t.Errorf("custom file should win: fps = %d, want 40", s.FPS)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	isolate(t)
	custom := filepath.Join(t.TempDir(), "s.yaml")
	write(t, custom, "audio:\n  volume: 0.25\nssh:\n  idle_timeout: 90s\n")

	s, err := Load(custom)
	if err != nil {
		t.Fatal(err)
	}
	if s.Audio.Volume != 0.25 || !s.Audio.Enabled {
		t.Errorf("audio = %+v", s.Audio)
	}
	if s.SSH.IdleTimeout != 90*time.Second || s.SSH.Address != ":23235" {
		t.Errorf("ssh = %+v", s.SSH)
	}
	if s.FPS != 60 {
		t.Errorf("fps = %d", s.FPS)
	}
}

func TestLoad_BrokenImplicitFileIsSkipped(t *testing.T) {
	_, cwd := isolate(t)
	write(t, filepath.Join(cwd, FileName), "fps: [\n")
	s, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if s.FPS != 60 {
		t.Errorf("fps = %d", s.FPS)
	}
}

func TestLoad_CustomErrors(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("missing file: %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	write(t, bad, "fps: 0\n")
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "fps 0") {
		t.Errorf("invalid fps: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		ok     bool
	}{
		{"defaults", func(*Settings) {}, true},
		{"seed", func(s *Settings) { s.Seed = "00112233445566778899aabbccddeeff" }, true},
		{"bad seed", func(s *Settings) { s.Seed = "nothex" }, false},
		{"fast", func(s *Settings) { s.FPS = 1000 }, false},
		{"loud", func(s *Settings) { s.Audio.Volume = 2 }, false},
		{"level", func(s *Settings) { s.LogLevel = "chatty" }, false},
		{"timeout", func(s *Settings) { s.SSH.IdleTimeout = -time.Second }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.modify(&s)
			if err := s.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok %v", err, tt.ok)
			}
		})
	}
}

func TestLevelAndInterval(t *testing.T) {
	s := Default()
	s.LogLevel = "debug"
	if s.Level() != log.DebugLevel {
		t.Errorf("level = %v", s.Level())
	}
	s.LogLevel = "nonsense"
	if s.Level() != log.InfoLevel {
		t.Errorf("fallback level = %v", s.Level())
	}
	s.FPS = 50
	if s.FrameInterval() != 20*time.Millisecond {
		t.Errorf("interval = %v", s.FrameInterval())
	}
}

func TestRunSeed(t *testing.T) {
	s := Default()
	a, _ := s.RunSeed(func() int64 { return 7 })
	b, _ := s.RunSeed(func() int64 { return 8 })
	if a == b {
		t.Error("random seeds collided")
	}

	s.Seed = "ff"
	seed, err := s.RunSeed(func() int64 { panic("random called with a fixed seed") })
	if err != nil {
		t.Fatal(err)
	}
	if seed[0] != 0xff {
		t.Errorf("seed = %v", seed)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := isolate(t)
	if got := ExpandPath("~/runs.db"); got != filepath.Join(home, "runs.db") {
		t.Errorf("ExpandPath = %q", got)
	}
	if got := ExpandPath("/tmp/x"); got != "/tmp/x" {
		t.Errorf("absolute path changed to %q", got)
	}
	if got := ExpandPath("~user/x"); got != "~user/x" {
		t.Errorf("~user path changed to %q", got)
	}
}

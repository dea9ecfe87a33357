// Package settings loads the host's YAML settings: frame rate, seed,
// logging, audio, run records and the SSH server.
package settings

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nathoo/tilequest/engine/rng"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/settings.yaml
var defaultYAML []byte

// FileName is the settings file looked for in the search directories.
const FileName = "settings.yaml"

// Settings is everything the host reads from settings.yaml.
type Settings struct {
	FPS      int     `yaml:"fps"`
	Seed     string  `yaml:"seed"`
	LogLevel string  `yaml:"log_level"`
	Audio    Audio   `yaml:"audio"`
	Records  Records `yaml:"records"`
	SSH      SSH     `yaml:"ssh"`
}

// Audio controls sound effect playback.
type Audio struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

// Records locates the run record database.
type Records struct {
	Path string `yaml:"path"`
}

// SSH configures `tilequest serve`.
type SSH struct {
	Address     string        `yaml:"address"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Default returns the hardcoded defaults, which match the embedded file.
func Default() Settings {
	return Settings{
		FPS:      60,
		LogLevel: "info",
		Audio:    Audio{Enabled: true, Volume: 0.5},
		Records:  Records{Path: "~/.tilequest/runs.db"},
		SSH: SSH{
			Address:     ":23235",
			HostKey:     "~/.tilequest/ssh_host_ed25519",
			IdleTimeout: 10 * time.Minute,
		},
	}
}

// Load reads settings.
// Search order: customPath -> ~/.tilequest/settings.yaml -> ./settings.yaml -> embedded default
//
// Fields missing from a file keep their default. Only a customPath that
// cannot be read or parsed is an error; broken files further down the
// search order are skipped.
func Load(customPath string) (Settings, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Settings{}, fmt.Errorf("failed to read settings %s: %w", customPath, err)
		}
		s, err := parse(data)
		if err != nil {
			return Settings{}, fmt.Errorf("failed to parse settings %s: %w", customPath, err)
		}
		return s, nil
	}

	for _, path := range searchPaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if s, err := parse(data); err == nil {
			return s, nil
		}
	}

	s, err := parse(defaultYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return s, nil
}

func parse(data []byte) (Settings, error) {
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// searchPaths lists the implicit settings locations in search order.
func searchPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".tilequest", FileName))
	}
	return append(paths, FileName)
}

// Validate checks ranges and formats.
func (s Settings) Validate() error {
	if s.FPS < 1 || s.FPS > 240 {
		return fmt.Errorf("fps %d out of range 1..240", s.FPS)
	}
	if s.Audio.Volume < 0 || s.Audio.Volume > 1 {
		return fmt.Errorf("audio volume %v out of range 0..1", s.Audio.Volume)
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if s.Seed != "" {
		if _, err := rng.ParseSeed(s.Seed); err != nil {
			return err
		}
	}
	if s.SSH.IdleTimeout < 0 {
		return fmt.Errorf("ssh idle timeout %v is negative", s.SSH.IdleTimeout)
	}
	return nil
}

// Level is the parsed log level. Invalid levels fall back to info.
func (s Settings) Level() log.Level {
	lvl, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// FrameInterval is the time between frames.
func (s Settings) FrameInterval() time.Duration {
	return time.Second / time.Duration(s.FPS)
}

// RunSeed returns the configured seed, or a fresh one from random when no
// seed is set.
func (s Settings) RunSeed(random func() int64) (rng.Seed, error) {
	if s.Seed == "" {
		return rng.SeedFromInt64(random()), nil
	}
	return rng.ParseSeed(s.Seed)
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

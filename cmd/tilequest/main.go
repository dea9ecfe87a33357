// tilequest generates and plays procedurally built tile worlds described by
// Lua configuration programs.
//
// Usage:
//
//	tilequest play [pack.zip|config.lua]   - Play in the terminal
//	tilequest run --script moves.txt [cfg] - Run a button script headless
//	tilequest check <config.lua>           - Validate a configuration program
//	tilequest records                      - Show stored runs
//	tilequest serve                        - Host runs over SSH
//
// Global flags:
//
//	--settings <path>  - Settings file (default: search ~/.tilequest, then .)
//	--seed <hex>       - World seed (default: random)
//	--fps <rate>       - Frame rate
//	--db <path>        - Run record database
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nathoo/tilequest/engine/rng"
	"github.com/nathoo/tilequest/loader"
	"github.com/nathoo/tilequest/settings"
	"github.com/nathoo/tilequest/storage"
	"github.com/nathoo/tilequest/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	// Global flags
	flagSettings string
	flagSeed     string
	flagFPS      int
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "tilequest",
	Short:   "Tilequest - procedurally generated tile adventures",
	Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	Long: `Tilequest builds a small world of rooms, characters and items from a Lua
configuration program and a seed, then lets you play it.

Available commands:
  play     - Play a world in the terminal
  run      - Run a button script against a world without a display
  check    - Validate a configuration program
  records  - Show stored runs
  serve    - Start an SSH server for remote play

Examples:
  tilequest play
  tilequest play ./castle.zip --seed 00c0ffee
  tilequest run --script moves.txt ./castle.lua
  tilequest check ./castle.lua
  tilequest serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", "", "Path to settings YAML")
	rootCmd.PersistentFlags().StringVar(&flagSeed, "seed", "", "World seed in hex (empty = random)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Frame rate (default from settings)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the run record database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadSettings reads settings and applies the global flags over them.
func loadSettings(cmd *cobra.Command) (settings.Settings, error) {
	s, err := settings.Load(flagSettings)
	if err != nil {
		return s, err
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		s.Seed = flagSeed
	}
	if flags.Changed("fps") {
		s.FPS = flagFPS
	}
	if flags.Changed("db") {
		s.Records.Path = flagDBPath
	}
	if flags.Changed("log-level") {
		s.LogLevel = flagLogLevel
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid flags: %w", err)
	}
	return s, nil
}

func newLogger(s settings.Settings) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tilequest",
		Level:           s.Level(),
	})
}

// source is the configuration program a world is generated from, plus the
// spritesheet when it came from a pack.
type source struct {
	Name  string
	Src   string
	Sheet *loader.Sheet
}

// openSource reads a pack archive or a Lua file. An empty path is the
// built-in configuration.
func openSource(path string) (source, error) {
	switch {
	case path == "":
		return source{Name: loader.DefaultName, Src: loader.DefaultSource()}, nil
	case strings.EqualFold(filepath.Ext(path), ".zip"):
		p, err := loader.OpenPack(path)
		if err != nil {
			return source{}, err
		}
		return source{Name: p.ConfigName, Src: p.ConfigSource, Sheet: p.Sheet}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return source{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return source{Name: filepath.Base(path), Src: string(data)}, nil
}

// loadConfig opens the source and extracts its config, falling back to the
// built-in world when the program is rejected.
func loadConfig(logger *log.Logger, path string) (source, *types.Config, error) {
	src, err := openSource(path)
	if err != nil {
		return source{}, nil, err
	}
	cfg, _ := loader.Load(logger, src.Name, src.Src)
	return src, cfg, nil
}

func randomSeed() int64 { return time.Now().UnixNano() }

// runSeed picks the seed for one run and logs it so it can be replayed.
func runSeed(s settings.Settings, logger *log.Logger) (rng.Seed, error) {
	seed, err := s.RunSeed(randomSeed)
	if err != nil {
		return seed, err
	}
	logger.Debug("seed", "seed", seed)
	return seed, nil
}

// openStore opens the run record database. A failure is logged and play
// continues without records.
func openStore(s settings.Settings, logger *log.Logger) *storage.Store {
	store, err := storage.Open(settings.ExpandPath(s.Records.Path))
	if err != nil {
		logger.Warn("could not open run records", "path", s.Records.Path, "error", err)
		return nil
	}
	return store
}

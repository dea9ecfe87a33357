package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nathoo/tilequest/audio"
	"github.com/nathoo/tilequest/cli"
	"github.com/nathoo/tilequest/engine"
	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/tui"
)

var flagMute bool

var playCmd = &cobra.Command{
	Use:   "play [pack.zip|config.lua]",
	Short: "Play a world in the terminal",
	Long: `Generate a world and play it in the terminal. Without an argument the
built-in world is used. A pack archive also supplies the spritesheet the
terminal colours are sampled from.

Controls:
  Arrows/WASD    - Walk
  Shift+Arrow    - Talk to whoever is in that direction
  Z/Space        - A (interact, next page, confirm)
  X/Esc          - B (back)
  Enter/I        - Inventory
  R              - Restart the world
  Q/Ctrl+C       - Quit

When stdout is not a terminal the headless runner reads button script lines
from stdin instead.

Examples:
  tilequest play
  tilequest play ./castle.zip
  tilequest play ./castle.lua --seed 0123abcd --mute`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound effects")
}

func runPlay(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(s)

	var path string
	if len(args) > 0 {
		path = args[0]
	}
	src, cfg, err := loadConfig(logger, path)
	if err != nil {
		return err
	}
	seed, err := runSeed(s, logger)
	if err != nil {
		return err
	}
	eng := engine.New(seed, cfg, geom.DefaultSpec)
	if eng.Err != nil {
		logger.Error("world generation failed", "seed", seed, "err", eng.Err)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		c := cli.New(eng)
		_, err := c.Run()
		return err
	}

	opts := tui.Options{
		FPS:        s.FPS,
		Sheet:      src.Sheet,
		Logger:     logger,
		ConfigName: src.Name,
	}

	if s.Audio.Enabled && !flagMute {
		sp := audio.NewSpeaker(s.Audio.Volume)
		if err := sp.Init(); err != nil {
			logger.Warn("audio unavailable", "error", err)
		} else {
			defer sp.Close()
			opts.Audio = sp
		}
	}

	if store := openStore(s, logger); store != nil {
		defer store.Close()
		opts.Records = store
	}

	if err := tui.Run(tui.New(eng, opts)); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}

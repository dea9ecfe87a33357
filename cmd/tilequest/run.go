package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathoo/tilequest/cli"
	"github.com/nathoo/tilequest/engine"
	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/engine/snapshot"
	"github.com/nathoo/tilequest/settings"
	"github.com/nathoo/tilequest/storage"
)

var (
	flagScript string
	flagDump   string
	flagTrace  bool
	flagEcho   bool
	flagRecord bool
)

var runCmd = &cobra.Command{
	Use:   "run [pack.zip|config.lua]",
	Short: "Run a button script against a world without a display",
	Long: `Generate a world and feed it a button script, printing one status line
per script line and VICTORY when the goal is reached.

Script lines:
  UP DOWN LEFT RIGHT A B START SELECT   - Tap a button
  RIGHT x3                              - Tap it three times
  hold LEFT A                           - Press A while holding LEFT
  wait 30                               - Let 30 frames pass
  # comment                             - Ignored
  /save name, /load name, /state        - Meta commands

Examples:
  tilequest run --script moves.txt
  tilequest run --script moves.txt --seed ff --dump world.json ./castle.lua
  cat moves.txt | tilequest run --trace`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagScript, "script", "", "Button script file (default: stdin)")
	runCmd.Flags().StringVar(&flagDump, "dump", "", "Write the generated world as JSON to this file")
	runCmd.Flags().BoolVar(&flagTrace, "trace", false, "Print the sounds each frame asks for")
	runCmd.Flags().BoolVar(&flagEcho, "echo", false, "Echo each script line before its status")
	runCmd.Flags().BoolVar(&flagRecord, "record", false, "Store the run in the record database")
}

func runRun(cmd *cobra.Command, args []string) error {
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

	if flagDump != "" && eng.Err == nil {
		data, err := snapshot.Encode(eng.Gen)
		if err != nil {
			return fmt.Errorf("encoding world: %w", err)
		}
		if err := os.WriteFile(flagDump, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", flagDump, err)
		}
		logger.Info("world dumped", "path", flagDump, "bytes", len(data))
	}

	var in io.Reader = os.Stdin
	if flagScript != "" {
		f, err := os.Open(flagScript)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		in = f
	}

	c := cli.New(eng)
	c.In = in
	c.Out = cmd.OutOrStdout()
	c.Trace = flagTrace
	c.EchoInput = flagEcho
	res, err := c.Run()
	if err != nil {
		return err
	}
	logger.Info("run finished", "seed", seed, "victory", res.Victory, "steps", res.Steps, "frames", res.Frames)

	if flagRecord {
		store, err := storage.Open(settings.ExpandPath(s.Records.Path))
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.SaveRun(storage.Run{
			Seed:    seed.String(),
			Config:  src.Name,
			Victory: res.Victory,
			Steps:   res.Steps,
			Frames:  int64(res.Frames),
			Segment: res.Segment,
		})
		if err != nil {
			return err
		}
		logger.Info("run recorded", "id", id)
	}
	return nil
}

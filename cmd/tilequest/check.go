package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathoo/tilequest/engine"
	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/loader"
)

var flagSeeds int

var checkCmd = &cobra.Command{
	Use:   "check <pack.zip|config.lua>",
	Short: "Validate a configuration program",
	Long: `Evaluate a configuration program, print its lint warnings and any
configuration error, then try generating worlds from it.

Examples:
  tilequest check ./castle.lua
  tilequest check ./castle.zip --seeds 50`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().IntVar(&flagSeeds, "seeds", 10, "How many seeds to try generating")
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	src, err := openSource(args[0])
	if err != nil {
		return err
	}
	cfg, warnings, err := loader.Parse(src.Name, src.Src)
	for _, w := range warnings {
		fmt.Fprintf(out, "%s: warning: %s\n", src.Name, w)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %d segments, %d entities, %d hallways\n",
		src.Name, len(cfg.Segments), len(cfg.Entities), len(cfg.Hallways))

	failed := 0
	for i := range flagSeeds {
		seed, err := s.RunSeed(func() int64 { return int64(i) + 1 })
		if err != nil {
			return err
		}
		if eng := engine.New(seed, cfg, geom.DefaultSpec); eng.Err != nil {
			failed++
			fmt.Fprintf(out, "seed %s: %v\n", seed, eng.Err)
		}
		if s.Seed != "" {
			break
		}
	}
	if failed > 0 {
		return fmt.Errorf("%s: generation failed for %d seeds", src.Name, failed)
	}
	fmt.Fprintln(out, "ok")
	return nil
}

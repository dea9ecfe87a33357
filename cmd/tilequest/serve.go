package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nathoo/tilequest/engine"
	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/settings"
	"github.com/nathoo/tilequest/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve [pack.zip|config.lua]",
	Short: "Start an SSH server for remote play",
	Long: `Start an SSH server where every connection plays its own freshly
generated world. Runs from every session go to the same record database.

Host key handling:
  - Uses the key at --host-key (or ssh.host_key in settings)
  - Generates it there on first start

Examples:
  tilequest serve                          # Listen on :23235
  tilequest serve --ssh :2222 ./castle.zip
  tilequest serve --idle-timeout 5m

Users can connect with:
  ssh -t localhost -p 23235`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Disconnect idle sessions after this long")
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("ssh") {
		s.SSH.Address = flagSSHAddr
	}
	if cmd.Flags().Changed("host-key") {
		s.SSH.HostKey = flagHostKey
	}
	if cmd.Flags().Changed("idle-timeout") {
		s.SSH.IdleTimeout = flagIdleTimeout
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

	store := openStore(s, logger)
	if store != nil {
		defer store.Close()
	}

	newSession := func(user string) (tui.Model, error) {
		seed, err := s.RunSeed(randomSeed)
		if err != nil {
			return tui.Model{}, err
		}
		opts := tui.Options{
			FPS:        s.FPS,
			Sheet:      src.Sheet,
			Logger:     logger.With("user", user),
			ConfigName: src.Name,
		}
		if store != nil {
			opts.Records = store
		}
		return tui.New(engine.New(seed, cfg, geom.DefaultSpec), opts), nil
	}

	server, err := tui.NewServer(tui.ServerConfig{
		Address:     s.SSH.Address,
		HostKeyPath: settings.ExpandPath(s.SSH.HostKey),
		IdleTimeout: s.SSH.IdleTimeout,
	}, newSession, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Starting tilequest SSH server on %s\n", server.Addr())
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")
	return server.ListenAndServe()
}

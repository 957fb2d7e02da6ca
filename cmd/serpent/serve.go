package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/serpent-arena/internal/platform/tui"
	"github.com/vovakirdan/serpent-arena/internal/platform/web"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagServeFeed   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with a game picker menu.
Scores are stored per-server (all users share the same leaderboard) and
every user gets their own quick save slot.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.serpent/host_key

Examples:
  serpent serve                           # Listen on :23234
  serpent serve --ssh :2222               # Listen on port 2222
  serpent serve --feed :8080              # Also stream events over websocket

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 30*time.Minute, "Idle timeout before disconnecting")
	serveCmd.Flags().StringVar(&flagServeFeed, "feed", "", "Serve a websocket event feed on this address")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := loadArenaConfig()

	sshCfg := tui.DefaultSSHServerConfig()
	sshCfg.Address = flagSSHAddr
	sshCfg.HostKeyPath = flagHostKey
	sshCfg.DBPath = flagDBPath
	sshCfg.IdleTimeout = flagIdleTimeout
	sshCfg.TickRate = flagFPS
	sshCfg.MaxFrameDelta = cfg.Host.MaxFrameDelta
	sshCfg.Logger = logger

	var hub *web.Hub
	if flagServeFeed != "" {
		hub = web.NewHub(logger.WithPrefix("web"))
		sshCfg.Feed = hub
	}

	server, err := tui.NewSSHServer(sshCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting SSH server on %s\n", sshCfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	// Either server failing takes the other down with it.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 2)
	n := 1
	go func() {
		errc <- server.ListenAndServe(ctx)
	}()
	if hub != nil {
		n++
		go func() {
			errc <- web.ListenAndServe(ctx, flagServeFeed, hub)
		}()
	}

	var errs []error
	for range n {
		if err := <-errc; err != nil {
			errs = append(errs, err)
		}
		cancel()
	}
	return errors.Join(errs...)
}

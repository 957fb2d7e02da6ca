package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/serpent-arena/internal/config"
	"github.com/vovakirdan/serpent-arena/internal/games/arena"
	"github.com/vovakirdan/serpent-arena/internal/platform/tui"
	"github.com/vovakirdan/serpent-arena/internal/platform/web"
	"github.com/vovakirdan/serpent-arena/internal/registry"
	"github.com/vovakirdan/serpent-arena/internal/storage"
	"github.com/vovakirdan/serpent-arena/internal/taunt"
)

var (
	flagSpeedPreset string
	flagSnakeType   string
	flagFeedAddr    string
	flagNoTaunts    bool
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a game",
	Long: `Start playing the specified game (default: arena).

Controls:
  Arrows/WASD  - Steer
  P/Space      - Pause
  F5 / F9      - Quick save / quick load
  R            - Restart (after game over)
  Q/Ctrl+C     - Quit

Speed presets: slow, normal, fast, insane
Snake types:   classic, neon, cobra

Taunts are generated when GEMINI_API_KEY is set in the environment.

Examples:
  serpent play
  serpent play classic
  serpent play arena --speed-preset insane --snake-type cobra
  serpent play --feed :8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	addArenaFlags(playCmd)
}

func addArenaFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagSpeedPreset, "speed-preset", "", "Player speed preset: slow, normal, fast, insane")
	cmd.Flags().StringVar(&flagSnakeType, "snake-type", "", "Snake look: classic, neon, cobra")
	cmd.Flags().StringVar(&flagFeedAddr, "feed", "", "Serve a websocket event feed on this address (e.g. :8080)")
	cmd.Flags().BoolVar(&flagNoTaunts, "no-taunts", false, "Disable generated taunts")
}

func runPlay(cmd *cobra.Command, args []string) error {
	gameID := arena.ID
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'serpent list' to see available games", gameID)
	}

	arena.SetSpeedPreset(flagSpeedPreset)
	arena.SetSnakeType(flagSnakeType)

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	width, height := terminalSize()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	opts, cleanup := hostOptions(ctx, loadArenaConfig(), store)
	defer cleanup()

	logger.Info("starting game", "game", gameID)
	return tui.Run(game, runtimeConfig(width, height), opts)
}

// terminalSize returns the size of stdout, or 80x24 when it isn't a
// terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// hostOptions builds the collaborators shared by play and menu: the
// commentator and the optional websocket feed. The cleanup function stops
// both.
func hostOptions(ctx context.Context, cfg config.ArenaConfig, store *storage.Store) (tui.Options, func()) {
	ctx, cancel := context.WithCancel(ctx)
	opts := tui.Options{
		Store:         store,
		MaxFrameDelta: cfg.Host.MaxFrameDelta,
		Logger:        logger,
	}

	var gen taunt.Generator
	if !flagNoTaunts {
		gen = taunt.FromEnv(cfg.Taunts)
		if gen == nil {
			logger.Info("taunts limited to announcements", "reason", taunt.KeyEnv+" not set")
		}
	}
	commentator := taunt.New(gen, cfg.Taunts, taunt.Options{
		Logger:   logger.WithPrefix("taunt"),
		Seed:     time.Now().UnixNano(),
		PowerUps: cfg.PowerUps.Types,
	})
	commentator.Start(ctx)
	opts.Commentator = commentator

	done := make(chan struct{})
	if flagFeedAddr != "" {
		hub := web.NewHub(logger.WithPrefix("web"))
		opts.Feed = hub
		go func() {
			defer close(done)
			if err := web.ListenAndServe(ctx, flagFeedAddr, hub); err != nil {
				logger.Error("event feed stopped", "err", err)
			}
		}()
	} else {
		close(done)
	}

	return opts, func() {
		cancel()
		commentator.Close()
		<-done
	}
}

package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/serpent-arena/internal/games/arena"
	"github.com/vovakirdan/serpent-arena/internal/platform/tui"
	"github.com/vovakirdan/serpent-arena/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a game picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game and Tab for
the scoreboard. After a game ends, you return to the menu.

Examples:
  serpent menu
  serpent menu --fps 30
  serpent menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	addArenaFlags(menuCmd)
}

func runMenu(cmd *cobra.Command, _ []string) error {
	arena.SetSpeedPreset(flagSpeedPreset)
	arena.SetSnakeType(flagSnakeType)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	opts, cleanup := hostOptions(ctx, loadArenaConfig(), store)
	defer cleanup()

	cfg := runtimeConfig(terminalSize())
	for {
		result, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}
		cfg = result.Config

		switch {
		case result.Quit:
			return nil

		case result.WantsScoreboard:
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		}

		game, err := registry.Create(result.GameID)
		if err != nil {
			logger.Error("create game", "game", result.GameID, "err", err)
			continue
		}

		cfg.Seed = time.Now().UnixNano()
		if err := tui.Run(game, cfg, opts); err != nil {
			return err
		}
	}
}

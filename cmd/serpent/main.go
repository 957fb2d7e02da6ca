// serpent runs the snake arena in the terminal, over SSH, or headless.
//
// Usage:
//
//	serpent list              - List available games
//	serpent play [game]       - Play a game (default: arena)
//	serpent menu              - Start menu to pick games interactively
//	serpent serve             - Start SSH server for remote play
//	serpent sim               - Run the arena headless and print events
//	serpent scores <game>     - Show high scores for a game
//	serpent saves             - List saved snapshots
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.serpent/scores.db)
//	--config <path>     - Arena config YAML
//	--log-level <level> - debug, info, warn, error
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/serpent-arena/internal/config"
	"github.com/vovakirdan/serpent-arena/internal/core"
	"github.com/vovakirdan/serpent-arena/internal/games/arena"
	"github.com/vovakirdan/serpent-arena/internal/games/classic"
	"github.com/vovakirdan/serpent-arena/internal/storage"
)

var (
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

// logger is the process logger, configured in PersistentPreRunE.
var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "serpent"})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "serpent",
	Short: "Serpent Arena - a snake arena in your terminal",
	Long: `Serpent Arena is a continuous-space snake game with AI enemies,
power-ups and themes, played in the terminal or over SSH.

Available commands:
  list     - Show all available games
  play     - Play a game directly
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote play
  sim      - Run the arena headless
  scores   - View high scores
  saves    - List saved games

Examples:
  serpent play
  serpent play classic
  serpent play arena --speed-preset fast --feed :8080
  serpent serve --ssh :2222
  serpent sim --duration 30s --seed 7`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.serpent/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom arena config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (default ~/.serpent/serpent.log for terminal play)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(savesCmd)
}

// setupLogging applies --log-level and hands the game packages their
// loggers. Full-screen commands log to a file so output does not tear the
// terminal.
func setupLogging(cmd *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger.SetLevel(level)
	logger.SetReportTimestamp(true)

	path := flagLogFile
	if path == "" && (cmd == playCmd || cmd == menuCmd) {
		if home, homeErr := os.UserHomeDir(); homeErr == nil {
			path = filepath.Join(home, ".serpent", "serpent.log")
		}
	}
	if path != "" {
		//nolint:errcheck // Best-effort directory creation
		os.MkdirAll(filepath.Dir(path), 0o755)
		f, openErr := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if openErr != nil {
			return fmt.Errorf("open log file: %w", openErr)
		}
		logger.SetOutput(f)
	}

	arena.SetConfigPath(flagConfig)
	arena.SetLogger(logger.WithPrefix("sim"))
	classic.SetConfigPath(flagConfig)
	classic.SetLogger(logger.WithPrefix("classic"))
	return nil
}

// loadArenaConfig reads the config the host needs for frame policy and
// taunts. Games load their own copy on Reset.
func loadArenaConfig() config.ArenaConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		logger.Warn("config rejected, using defaults", "err", err)
		return config.DefaultArenaConfig()
	}
	return cfg
}

// openStore opens the score database. Storage is optional everywhere but
// the scores and saves commands.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

func runtimeConfig(width, height int) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/serpent-arena/internal/core"
	"github.com/vovakirdan/serpent-arena/internal/games/arena"
	"github.com/vovakirdan/serpent-arena/internal/platform/web"
)

var (
	flagSimDuration time.Duration
	flagSimStep     time.Duration
	flagSimRealtime bool
	flagSimEvents   bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the arena headless",
	Long: `Run the arena without a terminal, steering the player with a simple
autopilot, and print what happens.

The step is fixed, so a run is reproducible for a given --seed.
With --feed the events are also streamed over websocket; combine with
--realtime to watch at wall-clock speed.

Examples:
  serpent sim --seed 7
  serpent sim --duration 5m --step 10ms --events
  serpent sim --feed :8080 --realtime`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().DurationVar(&flagSimDuration, "duration", time.Minute, "Simulated time to run")
	simCmd.Flags().DurationVar(&flagSimStep, "step", 16*time.Millisecond, "Fixed step length")
	simCmd.Flags().BoolVar(&flagSimRealtime, "realtime", false, "Sleep between steps")
	simCmd.Flags().BoolVar(&flagSimEvents, "events", false, "Log every event")
	simCmd.Flags().StringVar(&flagSpeedPreset, "speed-preset", "", "Player speed preset: slow, normal, fast, insane")
	simCmd.Flags().StringVar(&flagFeedAddr, "feed", "", "Serve a websocket event feed on this address")
}

// autopilot turns the player onto a random perpendicular axis at random
// intervals.
type autopilot struct {
	rng   *rand.Rand
	until time.Duration
}

func (a *autopilot) next(now time.Duration, frame *core.InputFrame) {
	if now < a.until {
		return
	}
	a.until = now + time.Duration(500+a.rng.Intn(1500))*time.Millisecond
	dirs := [...]core.Action{core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight}
	frame.Press(dirs[a.rng.Intn(len(dirs))])
}

func runSim(cmd *cobra.Command, _ []string) error {
	if flagSimStep <= 0 {
		return errors.New("--step must be positive")
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	arena.SetSpeedPreset(flagSpeedPreset)
	game := arena.New()
	game.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: flagFPS, Seed: seed})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var hub *web.Hub
	if flagFeedAddr != "" {
		hub = web.NewHub(logger.WithPrefix("web"))
		feedCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := web.ListenAndServe(feedCtx, flagFeedAddr, hub); err != nil {
				logger.Error("event feed stopped", "err", err)
			}
		}()
		defer func() {
			cancel()
			<-done
		}()
	}

	pilot := &autopilot{rng: rand.New(rand.NewSource(seed))}
	frame := core.NewInputFrame()
	counts := make(map[core.EventKind]int)

	var elapsed time.Duration
	for elapsed < flagSimDuration && ctx.Err() == nil {
		pilot.next(elapsed, &frame)
		result := game.Step(frame, flagSimStep)
		frame.Clear()
		elapsed += flagSimStep

		for _, ev := range result.Events {
			counts[ev.Kind]++
			if flagSimEvents {
				logger.Info(ev.Kind.String(), "t", elapsed, "score", result.State.Score, "name", ev.Name, "delta", ev.Delta)
			}
		}
		if hub != nil && len(result.Events) > 0 {
			hub.Publish(web.Frame{Game: arena.ID, Score: result.State.Score, Events: result.Events})
		}
		if result.State.GameOver {
			break
		}
		if flagSimRealtime {
			time.Sleep(flagSimStep)
		}
	}

	w := game.World()
	fmt.Printf("seed %d  simulated %v\n", seed, w.Clock().Round(time.Millisecond))
	fmt.Printf("score %d  length %d  enemies %d  stopped %v\n",
		w.Score, w.Player.Length(), len(w.Enemies), w.Stopped())
	for k := core.EventStarted; k <= core.EventThemeChanged; k++ {
		if counts[k] > 0 {
			fmt.Printf("  %-18s %d\n", k, counts[k])
		}
	}
	return nil
}

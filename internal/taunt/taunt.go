// Package taunt turns game events into commentary lines. Generated lines
// come from a language model behind the Generator interface; fixed
// announcements need no network at all.
package taunt

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/serpent-arena/internal/config"
	"github.com/vovakirdan/serpent-arena/internal/core"
)

// Category groups taunts by the moment they comment on.
type Category string

const (
	CategoryStart Category = "start"
	CategoryEat   Category = "eat"
	CategoryDie   Category = "die"
)

// lowWater is the pool size below which a category is refilled.
var lowWater = map[Category]int{
	CategoryStart: 2,
	CategoryEat:   3,
	CategoryDie:   2,
}

// context line handed to the generator when refilling a pool.
var poolContext = map[Category]string{
	CategoryStart: "starting the game",
	CategoryEat:   "eating food",
	CategoryDie:   "dying in the game",
}

const killAnnouncement = "You killed an enemy!"

// Generator produces taunt text. Implementations may block on the network.
type Generator interface {
	Generate(ctx context.Context, situation string) (string, error)
	Batch(ctx context.Context, situation string, n int) ([]string, error)
}

// Taunt is one line ready for display.
type Taunt struct {
	Category     Category
	Text         string
	Announcement bool
}

type job struct {
	category  Category
	situation string
	realtime  bool
}

// Commentator owns the per-category pools and the single worker that
// talks to the Generator. Observe and Announce never block.
type Commentator struct {
	gen      Generator
	cfg      config.TauntConfig
	powerUps []config.PowerUpType
	log      *log.Logger
	rng      *rand.Rand

	mu        sync.Mutex
	pools     map[Category][]string
	refilling map[Category]bool

	jobs   chan job
	out    chan Taunt
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Options configure a Commentator.
type Options struct {
	Logger *log.Logger
	Seed   int64
	// PowerUps supplies the descriptions announced on collection.
	PowerUps []config.PowerUpType
}

// New creates a commentator. A nil gen or disabled config leaves only the
// fixed announcements.
func New(gen Generator, cfg config.TauntConfig, opts Options) *Commentator {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if !cfg.Enabled {
		gen = nil
	}
	return &Commentator{
		gen:       gen,
		cfg:       cfg,
		powerUps:  opts.PowerUps,
		log:       logger,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		pools:     make(map[Category][]string),
		refilling: make(map[Category]bool),
		jobs:      make(chan job, 8),
		out:       make(chan Taunt, 16),
	}
}

// Start launches the worker and preloads every pool.
func (c *Commentator) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go c.run(ctx)
	for _, cat := range []Category{CategoryStart, CategoryEat, CategoryDie} {
		c.refill(cat)
	}
}

// Close stops the worker and closes Taunts(). The commentator must not
// be used afterwards.
func (c *Commentator) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	close(c.out)
}

// Taunts delivers lines as they become ready.
func (c *Commentator) Taunts() <-chan Taunt {
	return c.out
}

// Observe reacts to one frame of simulation events.
func (c *Commentator) Observe(evs []core.Event) {
	for _, ev := range evs {
		switch ev.Kind {
		case core.EventStarted:
			c.Trigger(CategoryStart, "started the game")
		case core.EventFoodEaten:
			if c.rng.Float64() < c.cfg.EatChance {
				c.Trigger(CategoryEat, "ate food")
			}
		case core.EventStopped:
			c.Trigger(CategoryDie, fmt.Sprintf("died with score %d", ev.Score))
		case core.EventEnemyKilled:
			c.Announce(killAnnouncement)
		case core.EventPowerUpCollected:
			c.Announce(c.describe(ev.Name))
		}
	}
}

func (c *Commentator) describe(name string) string {
	for _, t := range c.powerUps {
		if t.Name == name && t.Description != "" {
			return t.Description
		}
	}
	return name
}

// Announce emits a fixed line.
func (c *Commentator) Announce(text string) {
	c.emit(Taunt{Text: text, Announcement: true})
}

// Trigger plays a pooled taunt for category, or asks the generator for
// one right away when the pool is empty. Either way the pool is topped up.
func (c *Commentator) Trigger(cat Category, situation string) {
	if c.gen == nil {
		return
	}
	c.mu.Lock()
	pool := c.pools[cat]
	var text string
	if len(pool) > 0 {
		text = pool[0]
		c.pools[cat] = pool[1:]
	}
	c.mu.Unlock()

	if text != "" {
		c.emit(Taunt{Category: cat, Text: text})
	} else {
		c.enqueue(job{category: cat, situation: situation, realtime: true})
	}
	c.refill(cat)
}

// Pooled returns the number of ready taunts for category.
func (c *Commentator) Pooled(cat Category) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pools[cat])
}

func (c *Commentator) refill(cat Category) {
	if c.gen == nil {
		return
	}
	c.mu.Lock()
	need := len(c.pools[cat]) < lowWater[cat] && !c.refilling[cat]
	if need {
		c.refilling[cat] = true
	}
	c.mu.Unlock()
	if !need {
		return
	}
	if !c.enqueue(job{category: cat, situation: poolContext[cat]}) {
		c.mu.Lock()
		c.refilling[cat] = false
		c.mu.Unlock()
	}
}

// enqueue drops the job when the worker is backed up.
func (c *Commentator) enqueue(j job) bool {
	select {
	case c.jobs <- j:
		return true
	default:
		c.log.Debug("taunt queue full, dropping", "category", j.category, "realtime", j.realtime)
		return false
	}
}

// emit drops the taunt when nobody is reading.
func (c *Commentator) emit(t Taunt) {
	select {
	case c.out <- t:
	default:
		c.log.Debug("taunt output full, dropping", "text", t.Text)
	}
}

func (c *Commentator) run(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-c.jobs:
			c.handle(ctx, j)
		}
	}
}

func (c *Commentator) handle(ctx context.Context, j job) {
	timeout := c.cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if j.realtime {
		text, err := c.gen.Generate(ctx, j.situation)
		if err != nil {
			c.log.Warn("taunt generation failed", "category", j.category, "err", err)
			return
		}
		if text != "" {
			c.emit(Taunt{Category: j.category, Text: text})
		}
		return
	}

	texts, err := c.gen.Batch(ctx, j.situation, max(c.cfg.PoolSize, 1))
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refilling[j.category] = false
	if err != nil {
		c.log.Warn("taunt pool refill failed", "category", j.category, "err", err)
		return
	}
	for _, t := range texts {
		if t != "" {
			c.pools[j.category] = append(c.pools[j.category], t)
		}
	}
	c.log.Debug("taunt pool refilled", "category", j.category, "size", len(c.pools[j.category]))
}

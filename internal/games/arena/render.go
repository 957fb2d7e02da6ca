package arena

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vovakirdan/serpent-arena/internal/core"
	"github.com/vovakirdan/serpent-arena/internal/sim"
)

// World units covered by one terminal cell. Cells are about twice as tall
// as they are wide.
const (
	cellW = 10.0
	cellH = 20.0

	hudHeight = 2
)

// glyphs per snake type: body, head.
var glyphs = map[string][2]rune{
	"classic": {'o', 'O'},
	"neon":    {'▪', '■'},
	"cobra":   {'◆', '◈'},
}

// viewport maps world positions to screen cells around a camera point.
type viewport struct {
	center core.Vec2
	worldW float64
	worldH float64
	screen core.Rect
}

// cell returns the screen cell for p, taking the shortest way around the
// wrapping world. ok is false when p falls outside the viewport.
func (v viewport) cell(p core.Vec2) (x, y int, ok bool) {
	dx := shortest(p.X-v.center.X, v.worldW)
	dy := shortest(p.Y-v.center.Y, v.worldH)
	x = v.screen.X + v.screen.W/2 + int(math.Floor(dx/cellW))
	y = v.screen.Y + v.screen.H/2 + int(math.Floor(dy/cellH))
	return x, y, v.screen.Contains(x, y)
}

func shortest(d, size float64) float64 {
	if size <= 0 {
		return d
	}
	switch {
	case d > size/2:
		return d - size
	case d < -size/2:
		return d + size
	}
	return d
}

// Render draws the HUD and a camera view centered on the player head.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.world == nil {
		return
	}
	w := g.world
	theme := w.Theme()
	cfg := w.Config()

	g.renderHUD(dst)

	v := viewport{
		center: w.Player.Head(),
		worldW: cfg.World.Width,
		worldH: cfg.World.Height,
		screen: core.NewRect(0, hudHeight, dst.Width(), dst.Height()-hudHeight),
	}

	g.renderGrid(dst, v)

	for _, f := range w.Food {
		if x, y, ok := v.cell(f.Pos); ok {
			dst.SetColored(x, y, '•', theme.Secondary)
		}
	}
	for _, pu := range w.PowerUps {
		x, y, ok := v.cell(pu.Pos)
		if !ok {
			continue
		}
		icon, color := '?', core.ColorWhite
		if t, found := cfg.PowerUpType(pu.Type); found {
			if t.Icon != "" {
				icon = []rune(t.Icon)[0]
			}
			if c, ok := core.ParseColor(t.Color); ok {
				color = c
			}
		}
		dst.SetColored(x, y, icon, color)
	}

	for _, e := range w.Enemies {
		drawSnake(dst, v, e, 'o', '@', e.Color)
	}

	gl := glyphs[w.SnakeType]
	if gl == [2]rune{} {
		gl = glyphs["classic"]
	}
	color := theme.Primary
	if w.Player.Ghost {
		color = core.ColorGray
	}
	drawSnake(dst, v, w.Player, gl[0], gl[1], color)

	switch {
	case w.Stopped():
		g.renderOverlay(dst, "Game Over", fmt.Sprintf("Score: %d  Press R to restart", w.Score))
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// drawSnake draws tail first so the head wins on overlapping cells.
func drawSnake(dst *core.Screen, v viewport, c *sim.Creature, body, head rune, color core.Color) {
	segs := c.Body.Segments
	for i := len(segs) - 1; i >= 0; i-- {
		x, y, ok := v.cell(segs[i])
		if !ok {
			continue
		}
		r := body
		if i == 0 {
			r = head
		}
		dst.SetColored(x, y, r, color)
	}
}

// renderGrid draws faint dots on world grid lines so motion is visible in
// an empty field.
func (g *Game) renderGrid(dst *core.Screen, v viewport) {
	grid := g.world.Config().World.GridSize
	if grid <= 0 {
		return
	}
	for y := v.screen.Y; y < v.screen.Bottom(); y++ {
		for x := v.screen.X; x < v.screen.Right(); x++ {
			wx := v.center.X + float64(x-v.screen.X-v.screen.W/2)*cellW
			wy := v.center.Y + float64(y-v.screen.Y-v.screen.H/2)*cellH
			if onGrid(wx, grid, cellW) && onGrid(wy, grid, cellH) {
				dst.SetColored(x, y, '·', core.ColorGray)
			}
		}
	}
}

// onGrid reports whether a cell starting at pos contains a grid line.
func onGrid(pos, grid, cell float64) bool {
	m := math.Mod(pos, grid)
	if m < 0 {
		m += grid
	}
	return m < cell
}

func (g *Game) renderHUD(dst *core.Screen) {
	w := g.world
	hud := fmt.Sprintf(" Serpent Arena | Score: %d  Length: %d  Enemies: %d  Theme: %s",
		w.Score, w.Player.Length(), len(w.Enemies), w.Theme().Name)
	if fx := effectsLine(w); fx != "" {
		hud += "  " + fx
	}
	dst.DrawTextColored(0, 0, hud, w.Theme().Primary)
	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}
}

// effectsLine lists active effects with whole seconds remaining.
func effectsLine(w *sim.World) string {
	if len(w.Effects) == 0 {
		return ""
	}
	parts := make([]string, 0, len(w.Effects))
	for _, e := range w.Effects {
		left := e.Remaining(w.Clock()).Round(time.Second)
		parts = append(parts, fmt.Sprintf("%s %ds", e.Type, int(left.Seconds())))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	width := max(len([]rune(line1)), len([]rune(line2))) + 4
	box := core.NewRect((dst.Width()-width)/2, (dst.Height()-5)/2, width, 5)
	dst.DrawRect(core.NewRect(box.X+1, box.Y+1, box.W-2, box.H-2), ' ')
	dst.DrawBox(box, core.ColorWhite)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}

package sim

import (
	"github.com/vovakirdan/serpent-arena/internal/config"
	"github.com/vovakirdan/serpent-arena/internal/core"
)

// Theme is a resolved, score-gated color scheme.
type Theme struct {
	Name      string
	Score     int
	Primary   core.Color
	Secondary core.Color
}

// Themes tracks theme progression. It only ever moves forward.
type Themes struct {
	list  []Theme
	index int
}

// NewThemes resolves config colors. An empty table yields one plain theme.
func NewThemes(cfg []config.Theme) *Themes {
	t := &Themes{}
	for _, c := range cfg {
		primary, _ := core.ParseColor(c.Primary)
		secondary, _ := core.ParseColor(c.Secondary)
		t.list = append(t.list, Theme{Name: c.Name, Score: c.Score, Primary: primary, Secondary: secondary})
	}
	if len(t.list) == 0 {
		t.list = []Theme{{Name: "Plain", Primary: core.ColorGreen, Secondary: core.ColorYellow}}
	}
	return t
}

// Current returns the active theme.
func (t *Themes) Current() Theme {
	return t.list[t.index]
}

// Index returns the active theme index.
func (t *Themes) Index() int {
	return t.index
}

// Set selects a theme by index. Out-of-range indexes are ignored.
func (t *Themes) Set(i int) {
	if i >= 0 && i < len(t.list) {
		t.index = i
	}
}

// Advance moves to the next theme once score reaches its threshold and
// reports whether the theme changed. At most one step per call.
func (t *Themes) Advance(score int) bool {
	if t.index >= len(t.list)-1 {
		return false
	}
	if score >= t.list[t.index+1].Score {
		t.index++
		return true
	}
	return false
}

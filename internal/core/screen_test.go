package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}
	if got := s.GetCell(79, 23); got.Rune != ' ' || got.Color != ColorDefault {
		t.Errorf("new screen cell = %+v, expected blank", got)
	}
}

func TestScreenSetColored(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColored(5, 5, '●', ColorBrightGreen)
	cell := s.GetCell(5, 5)
	if cell.Rune != '●' || cell.Color != ColorBrightGreen {
		t.Errorf("GetCell(5, 5) = %+v, expected green dot", cell)
	}

	// Out of bounds writes are dropped.
	s.SetColored(-1, 0, 'A', ColorRed)
	s.SetColored(0, 100, 'A', ColorRed)
	if s.Get(-1, 0) != ' ' {
		t.Error("out of bounds Get should return space")
	}

	s.Clear()
	if s.GetCell(5, 5) != (Cell{Rune: ' '}) {
		t.Error("Clear should reset rune and color")
	}
}

func TestScreenDrawTextColored(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextColored(2, 1, "Score", ColorYellow)

	for i, ch := range "Score" {
		cell := s.GetCell(2+i, 1)
		if cell.Rune != ch || cell.Color != ColorYellow {
			t.Errorf("DrawTextColored: expected yellow %q at (%d, 1), got %+v", ch, 2+i, cell)
		}
	}

	// Clipped at the right edge.
	s.DrawText(18, 0, "Hello")
	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("text should be clipped at right boundary")
	}
}

func TestScreenDrawTextCenteredMultibyte(t *testing.T) {
	s := NewScreen(20, 3)
	s.DrawTextCentered(1, "★★")

	x := (20 - 2) / 2
	if s.Get(x, 1) != '★' || s.Get(x+1, 1) != '★' {
		t.Errorf("DrawTextCentered placed text wrong, row = %q", s.Row(1))
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4), ColorCyan)

	corners := []struct {
		x, y int
		r    rune
	}{
		{1, 1, '┌'}, {5, 1, '┐'}, {1, 4, '└'}, {5, 4, '┘'},
	}
	for _, c := range corners {
		cell := s.GetCell(c.x, c.y)
		if cell.Rune != c.r || cell.Color != ColorCyan {
			t.Errorf("corner (%d, %d) = %+v, expected %q cyan", c.x, c.y, cell, c.r)
		}
	}
	if s.Get(3, 1) != '─' || s.Get(1, 2) != '│' {
		t.Error("box edges not drawn")
	}
}

func TestScreenDrawRect(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawRect(NewRect(2, 2, 3, 3), '#')

	if s.Get(2, 2) != '#' || s.Get(4, 4) != '#' {
		t.Error("DrawRect should fill its area")
	}
	if s.Get(5, 5) != ' ' {
		t.Error("DrawRect should not affect outside area")
	}
}

func TestScreenStringAndResize(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "AAAAA")
	s.DrawText(0, 1, "BBBBB")
	s.DrawText(0, 2, "CCCCC")

	if got, expected := s.String(), "AAAAA\nBBBBB\nCCCCC"; got != expected {
		t.Errorf("String() = %q, expected %q", got, expected)
	}

	s.Resize(3, 2)
	if s.String() != "AAA\nBBB" {
		t.Errorf("after shrink String() = %q", s.String())
	}

	s.Resize(6, 4)
	if !strings.HasPrefix(s.Row(0), "AAA") {
		t.Errorf("content should survive enlarge, row 0 = %q", s.Row(0))
	}
	if s.Row(-1) != "      " {
		t.Errorf("out of bounds row should be blank, got %q", s.Row(-1))
	}
}

func TestParseColor(t *testing.T) {
	if c, ok := ParseColor("bright_cyan"); !ok || c != ColorBrightCyan {
		t.Errorf("ParseColor(bright_cyan) = %v, %v", c, ok)
	}
	if _, ok := ParseColor("chartreuse"); ok {
		t.Error("ParseColor should reject unknown names")
	}
}

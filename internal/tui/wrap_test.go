package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/stitchcalc/internal/model"
)

func TestClassifyWord(t *testing.T) {
	table := model.CustomActionTable{"C4F": {Consumes: 4, Produces: 4}}
	cases := map[string]tokenClass{
		"K2tog":  classStitch,
		"k12":    classStitch,
		"C4F":    classCustom,
		"c4f":    classCustom,
		"bobble": classUnknown,
		"×3":     classMultiplier,
		"x4":     classMultiplier,
		"3":      classMultiplier,
		"times":  classMultiplier,
	}
	for word, want := range cases {
		if got := classifyWord(word, table); got != want {
			t.Fatalf("classifyWord(%q) = %d, want %d", word, got, want)
		}
	}
}

func TestBuildStyledRunesColoursWords(t *testing.T) {
	text := []rune("K2, bobble")
	runes := buildStyledRunes(text, nil, -1)
	if len(runes) != len(text) {
		t.Fatalf("expected %d runes, got %d", len(text), len(runes))
	}
	if runes[0].s != stitchStyle.Render("K") {
		t.Fatalf("expected stitch style for first rune")
	}
	if runes[2].s != punctStyle.Render(",") {
		t.Fatalf("expected punctuation style for comma")
	}
	if runes[4].s != unknownStyle.Render("b") {
		t.Fatalf("expected unknown style for custom name")
	}
	if !runes[3].isSpace {
		t.Fatalf("expected space flag")
	}
}

func TestBuildStyledRunesCursorAtEnd(t *testing.T) {
	text := []rune("K2")
	runes := buildStyledRunes(text, nil, len(text))
	if len(runes) != 3 {
		t.Fatalf("expected trailing cursor cell, got %d runes", len(runes))
	}
	if runes[2].s != cursorStyle.Render(" ") {
		t.Fatalf("expected cursor style for trailing cell")
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	runes := make([]styledRune, 0)
	for _, r := range "K2, P2, K2" {
		runes = append(runes, styledRune{s: string(r), width: 1, isSpace: r == ' '})
	}
	got := wrapStyledRunes(runes, 8)
	if got != "K2, P2,\nK2" {
		t.Fatalf("unexpected wrap %q", got)
	}
	if strings.Contains(wrapStyledRunes(runes, 0), "\n") {
		t.Fatalf("zero width should not wrap")
	}
}

// Package tui provides the Bubble Tea row builder.
package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/stitchcalc/internal/model"
	"github.com/verte-zerg/stitchcalc/internal/notation"
)

type tokenClass int

const (
	classPunct tokenClass = iota
	classStitch
	classCustom
	classUnknown
	classMultiplier
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

type wordRange struct {
	start int
	end   int
}

// buildStyledRunes colours each rune of a row by what its word resolves to.
// The cursor rune, when inside the text, is underlined.
func buildStyledRunes(textRunes []rune, table model.CustomActionTable, cursorIndex int) []styledRune {
	classes := make([]tokenClass, len(textRunes))
	for _, w := range findWords(textRunes) {
		class := classifyWord(string(textRunes[w.start:w.end]), table)
		for i := w.start; i < w.end; i++ {
			classes[i] = class
		}
	}
	out := make([]styledRune, 0, len(textRunes)+1)
	for i, r := range textRunes {
		style := styleFor(classes[i])
		if i == cursorIndex {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	if cursorIndex >= len(textRunes) {
		out = append(out, styledRune{s: cursorStyle.Render(" "), width: 1})
	}
	return out
}

func styleFor(class tokenClass) lipgloss.Style {
	switch class {
	case classStitch:
		return stitchStyle
	case classCustom:
		return customStyle
	case classUnknown:
		return unknownStyle
	case classMultiplier:
		return multiplierStyle
	default:
		return punctStyle
	}
}

func findWords(textRunes []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range textRunes {
		if isBreak(r) {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(textRunes)})
	}
	return words
}

func isBreak(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(",()[]", r)
}

func classifyWord(word string, table model.CustomActionTable) tokenClass {
	if isMultiplierWord(word) {
		return classMultiplier
	}
	ops := notation.Parse(word, table)
	if len(ops) != 1 {
		return classPunct
	}
	switch {
	case ops[0].Kind == notation.KindStitch:
		return classStitch
	case ops[0].Known:
		return classCustom
	default:
		return classUnknown
	}
}

// isMultiplierWord matches "3", "times", "×3" and "x3".
func isMultiplierWord(word string) bool {
	lower := strings.ToLower(word)
	if lower == "times" || lower == "time" {
		return true
	}
	rest := strings.TrimLeft(lower, "×x*")
	return isDigits(rest) || (rest == "" && lower != "")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

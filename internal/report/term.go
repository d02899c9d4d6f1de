// Package report renders calculation results for the terminal.
package report

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const terminalWidthBackup = 80

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// ShouldUseColor reports whether w is a terminal and NO_COLOR is unset.
func ShouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// WrapInstruction breaks an instruction into lines no wider than width,
// splitting only after the commas that separate operations. A single
// operation wider than width gets a line of its own.
func WrapInstruction(text string, width int) []string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return []string{text}
	}
	var lines []string
	line := ""
	for _, part := range splitTopLevel(text) {
		if line == "" {
			line = part
			continue
		}
		if runewidth.StringWidth(line)+1+runewidth.StringWidth(part) > width {
			lines = append(lines, line)
			line = part
			continue
		}
		line += " " + part
	}
	return append(lines, line)
}

// splitTopLevel splits after commas outside brackets, keeping the comma on
// the left piece.
func splitTopLevel(text string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range text {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(text[start:i+1]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

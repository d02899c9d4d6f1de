// Package format compresses fully expanded knitting instructions into
// standard shorthand, e.g. "K4, inc, K4, inc, K4, inc, K4, inc, K4" becomes
// "(K4, inc) 4 times, K4".
//
// Detection runs as a fixed sequence of phases, most specific first; the
// first phase that recognises a structure wins. Formatting is cosmetic: when
// nothing is recognised the input comes back untouched, and the expanded
// form of any output is the original sequence of operations.
package format

import (
	"strconv"
	"strings"

	"github.com/verte-zerg/stitchcalc/internal/notation"
)

const (
	minTokens          = 3
	minMultiTokens     = 8
	minPrefixTokens    = 6
	minPrefixRepeats   = 3
	minEndRun          = 2
	minOneSidedEndRun  = 3
	minIdenticalRun    = 3
	maxSimpleUnitWidth = 4
)

var prefixOffsets = []int{0, 2, 4}

type phase func(tokens []string) (string, bool)

var phases = []phase{
	multiPattern,
	prefixRepeatRemainder,
	sectionsFromStart,
	sectionalFromEnds,
	simpleRepeat,
}

// Instruction compresses raw into shorthand. raw is returned unchanged when
// no repeat is found or anything goes wrong.
func Instruction(raw string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = raw
		}
	}()
	if s, ok := compress(tokenize(notation.Parse(raw, nil))); ok {
		return s
	}
	return raw
}

// Operations compresses a parsed sequence, falling back to its plain rendering.
func Operations(ops []notation.Operation) (out string) {
	plain := notation.Render(ops)
	defer func() {
		if r := recover(); r != nil {
			out = plain
		}
	}()
	if s, ok := compress(tokenize(ops)); ok {
		return s
	}
	return plain
}

// Expand reverses shorthand into one token per operation.
func Expand(formatted string) []string {
	return tokenize(notation.Flatten(notation.Parse(formatted, nil)))
}

func tokenize(ops []notation.Operation) []string {
	tokens := make([]string, len(ops))
	for i, op := range ops {
		tokens[i] = op.String()
	}
	return tokens
}

func compress(tokens []string) (string, bool) {
	if len(tokens) < minTokens {
		return "", false
	}
	for _, p := range phases {
		if s, ok := p(tokens); ok {
			return s, true
		}
	}
	return "", false
}

// multiPattern scans left to right for runs of 2- or 3-token units, keeping
// whatever does not repeat as literal sections with identical runs collapsed. It only applies when at
// least two repeating sections exist, as in tapering with two spacings.
func multiPattern(tokens []string) (string, bool) {
	if len(tokens) < minMultiTokens {
		return "", false
	}
	var parts, literal []string
	flush := func() {
		if len(literal) > 0 {
			parts = append(parts, formatLiteral(literal))
			literal = nil
		}
	}
	patterns := 0
	for i := 0; i < len(tokens); {
		bestSize, bestCount := 0, 0
		for _, size := range []int{2, 3} {
			if c := repeatsAt(tokens, i, size); c >= 2 && c > bestCount {
				bestSize, bestCount = size, c
			}
		}
		if bestCount == 0 {
			literal = append(literal, tokens[i])
			i++
			continue
		}
		flush()
		parts = append(parts, group(tokens[i:i+bestSize], bestCount))
		patterns++
		i += bestSize * bestCount
	}
	flush()
	if patterns < 2 {
		return "", false
	}
	return strings.Join(parts, ", "), true
}

// prefixRepeatRemainder finds the longest run of a 2- or 3-token unit that
// starts at a short even offset.
func prefixRepeatRemainder(tokens []string) (string, bool) {
	if len(tokens) < minPrefixTokens {
		return "", false
	}
	bestStart, bestSize, bestCount := 0, 0, 0
	for _, start := range prefixOffsets {
		for _, size := range []int{2, 3} {
			c := repeatsAt(tokens, start, size)
			if c >= minPrefixRepeats && size*c > bestSize*bestCount {
				bestStart, bestSize, bestCount = start, size, c
			}
		}
	}
	if bestCount == 0 {
		return "", false
	}
	end := bestStart + bestSize*bestCount
	var parts []string
	if bestStart > 0 {
		parts = append(parts, join(tokens[:bestStart]))
	}
	parts = append(parts, group(tokens[bestStart:bestStart+bestSize], bestCount))
	if end < len(tokens) {
		parts = append(parts, join(tokens[end:]))
	}
	return strings.Join(parts, ", "), true
}

// sectionsFromStart matches two different 2-token units back to back at the
// start of the row.
func sectionsFromStart(tokens []string) (string, bool) {
	first := repeatsAt(tokens, 0, 2)
	if first < 2 {
		return "", false
	}
	pos := 2 * first
	second := repeatsAt(tokens, pos, 2)
	if second < 2 || equal(tokens[:2], tokens[pos:pos+2]) {
		return "", false
	}
	parts := []string{
		group(tokens[:2], first),
		group(tokens[pos:pos+2], second),
	}
	if rest := tokens[pos+2*second:]; len(rest) > 0 {
		parts = append(parts, formatMiddle(rest))
	}
	return strings.Join(parts, ", "), true
}

// sectionalFromEnds collapses runs of one repeated token at either end.
func sectionalFromEnds(tokens []string) (string, bool) {
	n := len(tokens)
	lead := leadingRun(tokens)
	trail := trailingRun(tokens)

	if lead < n && lead >= minEndRun && trail >= minEndRun && n-lead-trail >= 2 {
		return strings.Join([]string{
			run(tokens[0], lead),
			formatMiddle(tokens[lead : n-trail]),
			run(tokens[n-1], trail),
		}, ", "), true
	}
	if lead >= minOneSidedEndRun {
		parts := []string{run(tokens[0], lead)}
		if lead < n {
			parts = append(parts, formatMiddle(tokens[lead:]))
		}
		return strings.Join(parts, ", "), true
	}
	if trail >= minOneSidedEndRun {
		return formatMiddle(tokens[:n-trail]) + ", " + run(tokens[n-1], trail), true
	}
	return "", false
}

// simpleRepeat is the fallback: the unit of 2 to 4 tokens covering the most
// of the row from its first token.
func simpleRepeat(tokens []string) (string, bool) {
	bestSize, bestCount := 0, 0
	for size := 2; size <= maxSimpleUnitWidth; size++ {
		if c := repeatsAt(tokens, 0, size); c >= 2 && size*c > bestSize*bestCount {
			bestSize, bestCount = size, c
		}
	}
	if bestCount == 0 {
		return "", false
	}
	parts := []string{group(tokens[:bestSize], bestCount)}
	if end := bestSize * bestCount; end < len(tokens) {
		parts = append(parts, join(tokens[end:]))
	}
	return strings.Join(parts, ", "), true
}

// formatMiddle formats the part of a row between detected sections: a run of
// one token, then repeating units from its start, then plain tokens.
func formatMiddle(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	if len(tokens) >= minIdenticalRun && uniform(tokens) {
		return run(tokens[0], len(tokens))
	}
	for _, size := range []int{2, 3} {
		if c := repeatsAt(tokens, 0, size); c >= 2 {
			parts := []string{group(tokens[:size], c)}
			if rest := tokens[size*c:]; len(rest) > 0 {
				parts = append(parts, formatMiddle(rest))
			}
			return strings.Join(parts, ", ")
		}
	}
	return join(tokens)
}

// formatLiteral joins tokens, writing runs of one token as "X N times".
func formatLiteral(tokens []string) string {
	var parts []string
	for i := 0; i < len(tokens); {
		j := i + 1
		for j < len(tokens) && tokens[j] == tokens[i] {
			j++
		}
		if j-i >= minIdenticalRun {
			parts = append(parts, run(tokens[i], j-i))
		} else {
			parts = append(parts, tokens[i:j]...)
		}
		i = j
	}
	return join(parts)
}

// repeatsAt counts back-to-back copies of tokens[start:start+size]. Units of
// one repeated token do not count; those are runs, not patterns.
func repeatsAt(tokens []string, start, size int) int {
	if size < 2 || start < 0 || start+size > len(tokens) {
		return 0
	}
	unit := tokens[start : start+size]
	if uniform(unit) {
		return 0
	}
	count := 1
	for pos := start + size; pos+size <= len(tokens) && equal(tokens[pos:pos+size], unit); pos += size {
		count++
	}
	return count
}

func leadingRun(tokens []string) int {
	n := 1
	for n < len(tokens) && tokens[n] == tokens[0] {
		n++
	}
	return n
}

func trailingRun(tokens []string) int {
	last := len(tokens) - 1
	n := 1
	for n <= last && tokens[last-n] == tokens[last] {
		n++
	}
	return n
}

func uniform(tokens []string) bool {
	for _, t := range tokens[1:] {
		if t != tokens[0] {
			return false
		}
	}
	return true
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func group(unit []string, count int) string {
	return "(" + join(unit) + ") " + strconv.Itoa(count) + " times"
}

func run(token string, count int) string {
	if strings.ContainsAny(token, " (") {
		token = "(" + token + ")"
	}
	return token + " " + strconv.Itoa(count) + " times"
}

func join(tokens []string) string {
	return strings.Join(tokens, ", ")
}

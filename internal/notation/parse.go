// Package notation parses row text into operations.
package notation

import (
	"strings"
	"unicode"

	"github.com/verte-zerg/stitchcalc/internal/model"
)

// Parse reads row text into operations. It never fails: unclosed groups are
// closed at the end of input, stray closers are skipped and unrecognised
// names become unknown custom actions with no stitch effect.
//
// Items are separated by spaces or commas. Groups use () or [] and may nest.
// Any item may be followed by a multiplier written "× 3", "x3", "* 3" or
// "3 times".
func Parse(text string, table model.CustomActionTable) []Operation {
	p := &parser{src: []rune(text), table: table}
	return p.parseSeq(0)
}

type parser struct {
	src   []rune
	pos   int
	table model.CustomActionTable
}

func (p *parser) parseSeq(depth int) []Operation {
	var ops []Operation
	for {
		p.skipSeparators()
		if p.eof() {
			return ops
		}
		r := p.peek()
		if isCloser(r) {
			if depth > 0 {
				return ops
			}
			p.pos++
			continue
		}

		var op Operation
		if isOpener(r) {
			p.pos++
			body := p.parseSeq(depth + 1)
			if !p.eof() && isCloser(p.peek()) {
				p.pos++
			}
			op = Repeat(1, body...)
			if n, ok := p.parseMultiplier(); ok {
				op.Times = n
			}
		} else {
			word := p.readWord()
			if word == "" {
				// A lone multiplier sign.
				p.pos++
				continue
			}
			op = classify(word, p.table)
			if n, ok := p.parseMultiplier(); ok {
				op = Repeat(n, op)
			}
		}
		ops = append(ops, op)
	}
}

// parseMultiplier consumes a trailing multiplier if one follows. The parser
// position is left untouched otherwise.
func (p *parser) parseMultiplier() (int, bool) {
	start := p.pos
	p.skipSpaces()
	if p.eof() {
		p.pos = start
		return 0, false
	}
	if isTimesSign(p.peek()) {
		p.pos++
		p.skipSpaces()
		if n, ok := p.readInt(); ok && p.atBoundary() {
			return n, true
		}
		p.pos = start
		return 0, false
	}
	if n, ok := p.readInt(); ok {
		p.skipSpaces()
		if p.readKeyword("times") || p.readKeyword("time") {
			return n, true
		}
	}
	p.pos = start
	return 0, false
}

func (p *parser) readWord() string {
	start := p.pos
	for !p.eof() && isWordRune(p.peek()) {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

// readInt reads a run of digits. Numbers above model.MaxStitchCount are
// consumed but rejected.
func (p *parser) readInt() (int, bool) {
	start := p.pos
	n, ok := 0, true
	for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
		if ok {
			n, ok = appendDigit(n, p.peek())
		}
		p.pos++
	}
	if p.pos == start || !ok {
		return 0, false
	}
	return n, true
}

func appendDigit(n int, r rune) (int, bool) {
	n = n*10 + int(r-'0')
	return n, n <= model.MaxStitchCount
}

func (p *parser) readKeyword(kw string) bool {
	kr := []rune(kw)
	if p.pos+len(kr) > len(p.src) {
		return false
	}
	if !strings.EqualFold(string(p.src[p.pos:p.pos+len(kr)]), kw) {
		return false
	}
	end := p.pos + len(kr)
	if end < len(p.src) && isWordRune(p.src[end]) {
		return false
	}
	p.pos = end
	return true
}

func (p *parser) atBoundary() bool {
	return p.eof() || !isWordRune(p.peek())
}

func (p *parser) skipSeparators() {
	for !p.eof() && (unicode.IsSpace(p.peek()) || p.peek() == ',') {
		p.pos++
	}
}

func (p *parser) skipSpaces() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.pos++
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() rune {
	return p.src[p.pos]
}

// classify resolves a word against the built-ins, then the custom table,
// then tries to split a trailing count off either.
func classify(word string, table model.CustomActionTable) Operation {
	if op, ok := Stitch(word, 0); ok {
		return op
	}
	if e, ok := table.Lookup(word); ok {
		return Operation{Kind: KindCustom, Name: word, Effect: e, Known: true}
	}
	if name, count, ok := splitCount(word); ok {
		if op, ok := Stitch(name, count); ok {
			return op
		}
		if e, ok := table.Lookup(name); ok {
			return Operation{Kind: KindCustom, Name: name, Count: count, Effect: e, Known: true}
		}
	}
	return Operation{Kind: KindCustom, Name: word}
}

// splitCount splits "K12" into "K" and 12. The name must end in a letter and
// the count must be in 1..model.MaxStitchCount.
func splitCount(word string) (string, int, bool) {
	runes := []rune(word)
	i := len(runes)
	for i > 0 && runes[i-1] >= '0' && runes[i-1] <= '9' {
		i--
	}
	if i == 0 || i == len(runes) || !unicode.IsLetter(runes[i-1]) {
		return "", 0, false
	}
	n, ok := 0, true
	for _, r := range runes[i:] {
		if n, ok = appendDigit(n, r); !ok {
			return "", 0, false
		}
	}
	if n <= 0 {
		return "", 0, false
	}
	return string(runes[:i]), n, true
}

// OpenGroup finds the innermost group left unclosed at the end of text and
// returns the text before its opening bracket and the text inside it.
func OpenGroup(text string) (prefix, body string, ok bool) {
	var open []int
	for i, r := range text {
		switch {
		case isOpener(r):
			open = append(open, i)
		case isCloser(r) && len(open) > 0:
			open = open[:len(open)-1]
		}
	}
	if len(open) == 0 {
		return "", "", false
	}
	at := open[len(open)-1]
	return text[:at], text[at+1:], true
}

func isOpener(r rune) bool {
	return r == '(' || r == '['
}

func isCloser(r rune) bool {
	return r == ')' || r == ']'
}

func isTimesSign(r rune) bool {
	return r == '×' || r == 'x' || r == 'X' || r == '*'
}

func isWordRune(r rune) bool {
	if unicode.IsSpace(r) || r == ',' || isOpener(r) || isCloser(r) {
		return false
	}
	return r != '×' && r != '*'
}

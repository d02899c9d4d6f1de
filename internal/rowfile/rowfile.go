// Package rowfile loads row instructions from plain text files.
package rowfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Line is one instruction and the file line it came from.
type Line struct {
	Number int
	Text   string
}

// Load reads one instruction per line from path. Blank lines and lines
// starting with # are skipped.
func Load(path string) ([]Line, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only file.
			_ = cerr
		}
	}()
	lines, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lines, nil
}

// Read is Load for an already open reader.
func Read(r io.Reader) ([]Line, error) {
	var lines []Line
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, Line{Number: n, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no instructions found")
	}
	return lines, nil
}

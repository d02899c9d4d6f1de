package rowfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadSkipsBlankAndComments(t *testing.T) {
	src := "# crown\n\nK4, inc, K4, inc, K4\n  P13  \n"
	lines, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Number != 3 || lines[0].Text != "K4, inc, K4, inc, K4" {
		t.Fatalf("unexpected first line %+v", lines[0])
	}
	if lines[1].Number != 4 || lines[1].Text != "P13" {
		t.Fatalf("unexpected second line %+v", lines[1])
	}
}

func TestReadEmpty(t *testing.T) {
	if _, err := Read(strings.NewReader("# nothing\n\n")); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestLoadIncludesPathInError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.txt")
	if err := os.WriteFile(path, []byte("\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "rows.txt") {
		t.Fatalf("expected path in error, got %v", err)
	}
}

package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/stitchcalc/internal/model"
	"github.com/verte-zerg/stitchcalc/internal/store"
)

func typeText(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestTypingUpdatesCounts(t *testing.T) {
	m := NewModel(Config{Construction: model.Flat, Available: 6}, nil)
	typeText(m, "K2tog, K2tog")
	if m.calc.StitchesConsumed != 4 || m.calc.Remaining() != 2 {
		t.Fatalf("unexpected calculation %+v", m.calc)
	}
	if m.done.IsComplete {
		t.Fatalf("row should not be complete yet")
	}
	status := m.renderStatus()
	if !containsAll(status, []string{"Worked 4/6", "Remaining 2", "Produces 2"}) {
		t.Fatalf("status missing expected segments: %s", status)
	}
}

func TestEnterRejectsIncompleteRow(t *testing.T) {
	m := NewModel(Config{Construction: model.Flat, Available: 8}, nil)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.errMsg != "row is empty" {
		t.Fatalf("expected empty row error, got %q", m.errMsg)
	}
	typeText(m, "K4")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.rows) != 0 {
		t.Fatalf("incomplete row must not be finished")
	}
	if !strings.Contains(m.errMsg, "4 of 8") {
		t.Fatalf("expected remaining stitches in error, got %q", m.errMsg)
	}
}

func TestEnterFinishesRowAndCarriesStitches(t *testing.T) {
	m := NewModel(Config{Construction: model.Round, Available: 6}, nil)
	typeText(m, "K2tog, K2tog, K2tog")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.rows) != 1 {
		t.Fatalf("expected 1 finished row, got %d", len(m.rows))
	}
	row := m.rows[0]
	if row.label != "Round 1" || row.instruction != "K2tog 3 times" || row.produced != 3 {
		t.Fatalf("unexpected row %+v", row)
	}
	if m.available != 3 || m.rowNum != 2 || m.input.Value() != "" {
		t.Fatalf("next row not prepared: available=%d row=%d input=%q", m.available, m.rowNum, m.input.Value())
	}
	if !strings.Contains(m.renderHeader(), "Round 2 · 3 stitches") {
		t.Fatalf("unexpected header %q", m.renderHeader())
	}
}

func TestTabClosesOpenGroup(t *testing.T) {
	m := NewModel(Config{Construction: model.Flat, Available: 20}, nil)
	typeText(m, "K4, (K2tog, YO")
	if !m.hasSuggestion || m.suggestion != 8 {
		t.Fatalf("expected suggestion 8, got %d (%v)", m.suggestion, m.hasSuggestion)
	}
	if !strings.Contains(m.renderFooter(), "tab close group ×8") {
		t.Fatalf("footer missing suggestion: %s", m.renderFooter())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := m.input.Value(); got != "K4, (K2tog, YO) × 8" {
		t.Fatalf("unexpected input %q", got)
	}
	if !m.done.IsComplete || m.hasSuggestion {
		t.Fatalf("expected a complete row with no open group")
	}
}

func TestFinishedRowsAreSaved(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "builder.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	m := NewModel(Config{Project: "hat", Construction: model.Flat, Available: 4, Save: true}, st)
	typeText(m, "K1, inc, K2, inc, K1")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.errMsg != "" {
		t.Fatalf("unexpected error %q", m.errMsg)
	}

	steps, err := st.ListSteps(context.Background(), "hat")
	if err != nil {
		t.Fatalf("list steps: %v", err)
	}
	if len(steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(steps))
	}
	if steps[0].Description != "Row 1 (RS)" || steps[0].StartingStitches != 4 || steps[0].EndingStitches != 6 {
		t.Fatalf("unexpected step %+v", steps[0])
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

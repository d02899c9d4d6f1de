// Package tui provides the Bubble Tea row builder.
package tui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/stitchcalc/internal/format"
	"github.com/verte-zerg/stitchcalc/internal/model"
	"github.com/verte-zerg/stitchcalc/internal/rowcalc"
	"github.com/verte-zerg/stitchcalc/internal/store"
)

const historyHeight = 8

// Config configures a row building session.
type Config struct {
	Project      string
	Construction model.Construction
	Available    int
	Table        model.CustomActionTable
	// Save stores every finished row as a project step.
	Save bool
}

type finishedRow struct {
	label       string
	instruction string
	worked      int
	produced    int
}

// Model implements the Bubble Tea row builder.
type Model struct {
	config Config
	store  *store.Store

	input   textinput.Model
	history table.Model
	rows    []finishedRow

	rowNum    int
	available int
	calc      rowcalc.Calculation
	done      rowcalc.Completion

	suggestion    int
	hasSuggestion bool
	errMsg        string

	width  int
	height int
}

var (
	stitchStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	customStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	unknownStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Underline(true)
	multiplierStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7"))
	punctStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle     = punctStyle.Underline(true)
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	completeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D13D"))
	incompleteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	panelStyle      = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// NewModel constructs a row builder. st may be nil when rows are not saved.
func NewModel(cfg Config, st *store.Store) *Model {
	m := &Model{
		config:    cfg,
		store:     st,
		rowNum:    1,
		available: cfg.Available,
	}
	m.input = newRowInput()
	m.history = newHistoryTable(0)
	m.recalculate()
	return m
}

func newRowInput() textinput.Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "K2, (K2tog, YO) × 3, K2"
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	input.Focus()
	return input
}

func newHistoryTable(width int) table.Model {
	columns := []table.Column{
		{Title: "Row", Width: 12},
		{Title: "Sts", Width: 5},
		{Title: "Instruction", Width: maxInt(20, width-24)},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(historyHeight),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(false)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#F0F0F0")).Bold(false)
	t.SetStyles(styles)
	return t
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = maxInt(10, msg.Width-8)
		m.history = newHistoryTable(msg.Width - 4)
		m.syncHistory()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			m.finishRow()
			return m, nil
		case tea.KeyTab:
			m.applySuggestion()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.recalculate()
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{
		headerStyle.Render(m.renderHeader()),
		m.input.View(),
		m.renderPreview(),
		m.renderStatus(),
	}
	if m.errMsg != "" {
		sections = append(sections, errorStyle.Render(m.errMsg))
	}
	if len(m.rows) > 0 {
		sections = append(sections, panelStyle.Render(m.history.View()))
	}
	sections = append(sections, footerStyle.Render(m.renderFooter()))
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, content)
}

func (m *Model) renderHeader() string {
	label := m.config.Construction.RowLabel(m.rowNum)
	if m.config.Project != "" {
		return fmt.Sprintf("%s · %s · %d stitches", m.config.Project, label, m.available)
	}
	return fmt.Sprintf("%s · %d stitches", label, m.available)
}

func (m *Model) renderPreview() string {
	text := []rune(m.input.Value())
	if len(text) == 0 {
		return ""
	}
	runes := buildStyledRunes(text, m.config.Table, -1)
	width := m.width - 2
	if width < 1 {
		width = 0
	}
	return wrapStyledRunes(runes, width)
}

func (m *Model) renderStatus() string {
	segments := []string{
		fmt.Sprintf("Worked %d/%d", m.calc.StitchesConsumed, m.calc.PreviousStitches),
		fmt.Sprintf("Remaining %d", m.calc.Remaining()),
		fmt.Sprintf("Produces %d", m.calc.StitchesProduced),
	}
	if m.hasSuggestion {
		segments = append(segments, fmt.Sprintf("Max ×%d", m.suggestion))
	}
	if len(m.calc.Unknown) > 0 {
		segments = append(segments, "Unknown "+strings.Join(m.calc.Unknown, ", "))
	}
	line := strings.Join(segments, "  ")
	switch m.done.Status {
	case rowcalc.Complete:
		return completeStyle.Render(line)
	case rowcalc.Overconsumed:
		return errorStyle.Render(line)
	default:
		return incompleteStyle.Render(line)
	}
}

func (m *Model) renderFooter() string {
	parts := []string{"enter finish row"}
	if m.hasSuggestion {
		parts = append(parts, fmt.Sprintf("tab close group ×%d", m.suggestion))
	}
	parts = append(parts, "esc quit")
	return strings.Join(parts, " · ")
}

func (m *Model) recalculate() {
	text := m.input.Value()
	m.calc = rowcalc.Calculate(text, m.available, m.config.Table)
	m.done = rowcalc.IsRowComplete(text, m.available, m.config.Table)
	m.suggestion, m.hasSuggestion = rowcalc.SuggestMultiplier(text, m.available, m.config.Table)
}

func (m *Model) applySuggestion() {
	if !m.hasSuggestion {
		return
	}
	value := strings.TrimRight(m.input.Value(), " ,")
	m.input.SetValue(value + ") × " + strconv.Itoa(m.suggestion))
	m.input.CursorEnd()
	m.recalculate()
}

// finishRow closes the row when it works every available stitch. The next
// row starts from the stitches it produced.
func (m *Model) finishRow() {
	if strings.TrimSpace(m.input.Value()) == "" {
		m.errMsg = "row is empty"
		return
	}
	if !m.done.IsComplete {
		m.errMsg = m.done.Reason
		return
	}
	m.errMsg = ""
	row := finishedRow{
		label:       m.config.Construction.RowLabel(m.rowNum),
		instruction: format.Instruction(strings.TrimSpace(m.input.Value())),
		worked:      m.calc.StitchesConsumed,
		produced:    m.calc.StitchesProduced,
	}
	m.rows = append(m.rows, row)
	m.saveRow(row)

	m.available = row.produced
	m.rowNum++
	m.input.Reset()
	m.syncHistory()
	m.recalculate()
}

func (m *Model) saveRow(row finishedRow) {
	if !m.config.Save || m.store == nil {
		return
	}
	step := model.Step{
		Project:          m.config.Project,
		Description:      row.label,
		Instruction:      row.instruction,
		Construction:     m.config.Construction,
		StartingStitches: row.worked,
		EndingStitches:   row.produced,
		TotalRows:        1,
		CreatedAt:        time.Now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := m.store.InsertStep(ctx, step); err != nil {
		logErrf("failed to save row: %v\n", err)
		m.errMsg = "row not saved: " + err.Error()
	}
}

func (m *Model) syncHistory() {
	rows := make([]table.Row, 0, len(m.rows))
	for i := len(m.rows) - 1; i >= 0; i-- {
		r := m.rows[i]
		rows = append(rows, table.Row{r.label, strconv.Itoa(r.produced), r.instruction})
	}
	m.history.SetRows(rows)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

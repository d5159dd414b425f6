package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"genedata/internal/input"
	"genedata/internal/query"
	"genedata/internal/store"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Colors for modern design
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	surfaceColor   = lipgloss.Color("#1F2937") // Dark gray
	textColor      = lipgloss.Color("#F3F4F6") // Light gray
	mutedColor     = lipgloss.Color("#9CA3AF") // Muted gray
	borderColor    = lipgloss.Color("#374151") // Border gray
)

// Styles
var (
	containerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Align(lipgloss.Center)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(surfaceColor).
			Padding(0, 1)

	sequenceStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(lipgloss.Color("#111827")).
			Padding(1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	modeSymbolStyle = lipgloss.NewStyle().Foreground(secondaryColor).Bold(true)
	labelStyle      = lipgloss.NewStyle().Foreground(mutedColor)
)

type listItem struct {
	record store.Record
}

func (i listItem) FilterValue() string {
	return i.record.Protein + " " + i.record.Organism
}

func (i listItem) Title() string {
	return i.record.Protein
}

func (i listItem) Description() string {
	return fmt.Sprintf("%s    AA: %d", i.record.Organism, len(i.record.Sequence))
}

type mode int

const (
	modeSequence mode = iota
	modeComposition
	modeSummary
)

func (m mode) String() string {
	switch m {
	case modeSequence:
		return "Sequence"
	case modeComposition:
		return "Composition"
	case modeSummary:
		return "Mode"
	default:
		return "Unknown"
	}
}

type model struct {
	list          list.Model
	records       []store.Record
	currentMode   mode
	showHelp      bool
	width         int
	height        int
	totalRecords  int
	selectedIndex int
}

func initialModel(st *store.Store) model {
	records := st.Records()
	items := make([]list.Item, len(records))
	for i, record := range records {
		items[i] = listItem{record: record}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Proteins"
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)

	return model{
		list:         l,
		records:      records,
		currentMode:  modeSequence,
		totalRecords: len(records),
	}
}

// cycleMode advances to the next view mode, wrapping around.
func (m model) cycleMode() model {
	m.currentMode = (m.currentMode + 1) % 3
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// left panel takes 1/3 of width
		m.list.SetWidth(msg.Width / 3)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		// keys go to the filter input while the user is typing
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "h":
			m.showHelp = !m.showHelp
			return m, nil
		case "tab":
			return m.cycleMode(), nil
		case "1":
			m.currentMode = modeSequence
			return m, nil
		case "2":
			m.currentMode = modeComposition
			return m, nil
		case "3":
			m.currentMode = modeSummary
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.selectedIndex = m.list.Index()
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpModal()
	}

	main := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderLeftPanel(),
		m.renderRightPanel(),
	)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		main,
		m.renderStatusBar(),
	)
}

func (m model) renderLeftPanel() string {
	return containerStyle.
		Width(m.width/3 - 2).
		Height(m.height - 4).
		Render(m.list.View())
}

func (m model) renderRightPanel() string {
	rightWidth := (m.width * 2) / 3
	panel := containerStyle.Width(rightWidth - 2).Height(m.height - 4)

	if len(m.records) == 0 {
		return panel.Render("No records available")
	}
	selectedItem := m.list.SelectedItem()
	if selectedItem == nil {
		return panel.Render("No item selected")
	}
	rec := selectedItem.(listItem).record
	return panel.Render(strings.Join(m.buildRightLines(rec), "\n"))
}

// buildRightLines renders the detail pane for rec in the current mode.
func (m model) buildRightLines(rec store.Record) []string {
	header := titleStyle.Render(fmt.Sprintf("%s - %s", rec.Protein, rec.Organism))
	meta := labelStyle.Render(fmt.Sprintf("Length: %d", len(rec.Sequence)))
	lines := []string{header, meta, ""}

	switch m.currentMode {
	case modeSequence:
		lines = append(lines, m.formatSequence(rec.Sequence))
	case modeComposition:
		for _, row := range query.Composition(rec.Sequence) {
			bar := strings.Repeat("█", barWidth(row.Count, len(rec.Sequence), m.width/3))
			lines = append(lines, fmt.Sprintf("%c %5d %s", row.Symbol, row.Count, bar))
		}
	case modeSummary:
		sym, n := query.MostFrequent(rec.Sequence)
		if n == 0 {
			lines = append(lines, "amino-acid occurs: ? 0")
		} else {
			lines = append(lines, "amino-acid occurs: "+modeSymbolStyle.Render(fmt.Sprintf("%c %d", sym, n)))
		}
	}
	return lines
}

func barWidth(count, total, max int) int {
	if total == 0 || max <= 0 {
		return 0
	}
	return count * max / total
}

func (m model) formatSequence(sequence string) string {
	if sequence == "" {
		return labelStyle.Render("No sequence available")
	}
	titleStr := lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true).
		Render("Decoded sequence:")

	width := m.width*2/3 - 6
	if width < 10 {
		width = 10
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStr,
		"",
		sequenceStyle.Width(width).Render(sequence),
	)
}

func (m model) renderStatusBar() string {
	leftInfo := fmt.Sprintf("%d/%d proteins", m.selectedIndex+1, m.totalRecords)
	centerInfo := fmt.Sprintf("Mode: %s", m.currentMode.String())
	rightInfo := "Press 'h' for help, 'q' to quit"

	totalUsed := len(leftInfo) + len(centerInfo) + len(rightInfo)
	spacing := m.width - totalUsed - 6

	var statusContent string
	if spacing > 0 {
		leftSpacing := spacing / 2
		statusContent = leftInfo + strings.Repeat(" ", leftSpacing) + centerInfo +
			strings.Repeat(" ", spacing-leftSpacing) + rightInfo
	} else {
		// narrow terminals
		statusContent = fmt.Sprintf("%s | %s", leftInfo, centerInfo)
	}
	return statusBarStyle.Width(m.width).Render(statusContent)
}

func (m model) renderHelpModal() string {
	helpContent := `Protein Browser - Help

Navigation:
  up/down, j/k   Navigate list
  /              Filter proteins

View Modes:
  1              Decoded sequence
  2              Composition
  3              Most frequent amino acid
  tab            Next mode

General:
  h              Toggle this help
  q, Ctrl+C      Quit

Current Mode: ` + m.currentMode.String() + `
Total Proteins: ` + fmt.Sprintf("%d", m.totalRecords) + `
`
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor).
		Padding(1, 2).
		Background(surfaceColor).
		Foreground(textColor).
		Width(60).
		Render(helpContent)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

// errStdinInput rejects "-": the browser reads the keyboard from stdin.
var errStdinInput = errors.New("sequences cannot be read from stdin in the browser; pass a file path")

func loadRecords(path string) (*store.Store, []store.Skip, error) {
	if path == "-" {
		return nil, nil, errStdinInput
	}
	rc, err := input.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()
	return store.Load(rc)
}

func main() {
	seqFlag := flag.String("sequences", "sequences.0.txt", "sequences file to browse (.gz ok)")
	flag.Parse()

	logger := log.New(os.Stderr)
	st, skips, err := loadRecords(*seqFlag)
	if err != nil {
		logger.Fatal("cannot load sequences", "path", *seqFlag, "err", err)
	}
	if len(skips) > 0 {
		logger.Warn("records skipped", "count", len(skips))
	}

	p := tea.NewProgram(initialModel(st), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v", err)
		os.Exit(1)
	}
}

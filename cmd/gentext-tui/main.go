package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yashmgupta/gentext/internal/config"
	"github.com/yashmgupta/gentext/internal/genbank"
	"github.com/yashmgupta/gentext/internal/report"
)

// Colors for modern design
var (
	primaryColor = lipgloss.Color("#7C3AED") // Purple
	accentColor  = lipgloss.Color("#F59E0B") // Amber
	dangerColor  = lipgloss.Color("#EF4444") // Red
	surfaceColor = lipgloss.Color("#1F2937") // Dark gray
	textColor    = lipgloss.Color("#F3F4F6") // Light gray
	mutedColor   = lipgloss.Color("#9CA3AF") // Muted gray
	borderColor  = lipgloss.Color("#374151") // Border gray
)

// Styles
var (
	containerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(surfaceColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	filterOnStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
)

type uiState int

const (
	stateBrowse uiState = iota
	statePick
	stateError
)

type model struct {
	picker   filepicker.Model
	viewport viewport.Model
	state    uiState
	showHelp bool

	content  string // accumulated summary text
	errMsg   string
	lastFile string
	loads    int
	allFiles bool
	startDir string

	width  int
	height int
	ready  bool
}

func newFilePicker(dir string, allFiles bool) filepicker.Model {
	fp := filepicker.New()
	if !allFiles {
		fp.AllowedTypes = []string{".gb", ".gbk"}
	}
	fp.CurrentDirectory = dir
	fp.ShowHidden = false
	return fp
}

func initialModel(cfg *config.Config) model {
	dir := cfg.StartDir
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		} else {
			dir = "."
		}
	}
	return model{
		picker:   newFilePicker(dir, false),
		startDir: dir,
		state:    stateBrowse,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

// appendSummary adds a load's combined output below whatever is already
// displayed, separated by a blank line.
func (m model) appendSummary(out string) model {
	m.content += "\n\n" + out
	m.loads++
	m.viewport.SetContent(m.content)
	m.viewport.GotoBottom()
	return m
}

// clearOutput empties the display without touching picker state.
func (m model) clearOutput() model {
	m.content = ""
	m.loads = 0
	m.viewport.SetContent("")
	m.viewport.GotoTop()
	return m
}

// loadSummary parses and summarizes one file, mapping every error to the
// tagged failure the error modal renders.
func loadSummary(path string) (string, *report.Failure) {
	records, err := genbank.ParseFile(path)
	if err != nil {
		return "", report.AsFailure(err)
	}
	out, err := report.Summarize(records)
	if err != nil {
		return "", report.AsFailure(err)
	}
	return out, nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		m.viewport = viewport.New(msg.Width-4, msg.Height-5)
		m.viewport.SetContent(m.content)
		m.picker.Height = msg.Height - 6
		return m, nil

	case tea.KeyMsg:
		if m.state == stateError {
			// any key dismisses the error modal
			m.state = stateBrowse
			m.errMsg = ""
			return m, nil
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch m.state {
		case stateBrowse:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "o":
				m.picker = newFilePicker(m.startDir, m.allFiles)
				m.picker.Height = m.height - 6
				m.state = statePick
				return m, m.picker.Init()
			case "c":
				return m.clearOutput(), nil
			case "a":
				m.allFiles = !m.allFiles
				return m, nil
			case "h":
				m.showHelp = true
				return m, nil
			}

		case statePick:
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc":
				m.state = stateBrowse
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case statePick:
		m.picker, cmd = m.picker.Update(msg)
		if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
			m.lastFile = path
			m.state = stateBrowse
			out, fail := loadSummary(path)
			if fail != nil {
				m.errMsg = fail.Message
				m.state = stateError
				return m, nil
			}
			return m.appendSummary(out), nil
		}
	default:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.errMsg != "" && m.state == stateError {
		return m.renderErrorModal()
	}
	if m.showHelp {
		return m.renderHelpModal()
	}

	title := titleStyle.Render("GenBank Manuscript Summary")

	var body string
	switch m.state {
	case statePick:
		filter := ".gb/.gbk"
		if m.allFiles {
			filter = "all files"
		}
		header := helpStyle.Render(fmt.Sprintf("Select a GenBank file (%s) • esc to cancel", filter))
		body = containerStyle.
			Width(m.width - 2).
			Height(m.height - 4).
			Render(lipgloss.JoinVertical(lipgloss.Left, header, m.picker.View()))
	default:
		body = containerStyle.
			Width(m.width - 2).
			Height(m.height - 4).
			Render(m.viewport.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, m.renderStatusBar())
}

func (m model) renderStatusBar() string {
	left := fmt.Sprintf("%d load(s)", m.loads)
	if m.lastFile != "" {
		left += " • " + m.lastFile
	}
	filter := "filter: .gb/.gbk"
	if m.allFiles {
		filter = filterOnStyle.Render("filter: off")
	}
	right := "o open • c clear • a " + filter + " • h help • q quit"

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.
		Width(m.width).
		Render(left + lipgloss.NewStyle().Render(fmt.Sprintf("%*s", gap, "")) + right)
}

func (m model) renderErrorModal() string {
	msg := lipgloss.NewStyle().Foreground(dangerColor).Bold(true).Render("Error") +
		"\n\nFailed to process file:\n" + m.errMsg +
		"\n\n" + helpStyle.Render("press any key to continue")

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dangerColor).
		Padding(1, 2).
		Background(surfaceColor).
		Foreground(textColor).
		Width(60).
		Render(msg)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m model) renderHelpModal() string {
	helpContent := `GenBank Manuscript Summary - Help

Actions:
  o            Open a GenBank file (.gb/.gbk)
  c            Clear the output
  a            Toggle the file-type filter

Scrolling:
  up/down, j/k, pgup/pgdn

General:
  h            Toggle this help
  q, Ctrl+C    Quit

Loads this session: ` + fmt.Sprintf("%d", m.loads) + `
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

func main() {
	cfg, err := config.LoadConfig(os.Getenv("GENTEXT_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "gentext-tui: bad config:", err)
		os.Exit(1)
	}
	p := tea.NewProgram(initialModel(cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v", err)
		os.Exit(1)
	}
}

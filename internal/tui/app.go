package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/webdesk/webdesk/internal/persist"
	"github.com/webdesk/webdesk/internal/session"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("57")).Padding(0, 1)
	listStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	detailStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// model is the root bubbletea model for the inspector.
type model struct {
	files *persist.FileStore

	names    []string
	selected int
	current  *session.State

	confirmDelete bool
	lastError     string

	width  int
	height int
}

func newModel(files *persist.FileStore) model {
	m := model{files: files}
	m.refresh()
	return m
}

func (m *model) refresh() {
	m.lastError = ""
	names, err := m.files.List()
	if err != nil {
		m.lastError = err.Error()
		return
	}
	m.names = names
	if m.selected >= len(m.names) {
		m.selected = len(m.names) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.loadSelected()
}

func (m *model) loadSelected() {
	m.current = nil
	if len(m.names) == 0 {
		return
	}
	var st session.State
	if err := m.files.Get(m.names[m.selected], &st); err != nil {
		m.lastError = err.Error()
		return
	}
	m.current = &st
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDelete {
			switch msg.String() {
			case "y":
				m.confirmDelete = false
				if len(m.names) > 0 {
					if err := m.files.Delete(m.names[m.selected]); err != nil {
						m.lastError = err.Error()
					}
				}
				m.refresh()
			case "ctrl+c":
				return m, tea.Quit
			default:
				m.confirmDelete = false
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.loadSelected()
			}
		case "down", "j":
			if m.selected < len(m.names)-1 {
				m.selected++
				m.loadSelected()
			}
		case "d":
			if len(m.names) > 0 {
				m.confirmDelete = true
			}
		case "r":
			m.refresh()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("webdesk sessions"))
	b.WriteString("\n\n")

	list := m.renderList()
	detail := m.renderDetail()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, listStyle.Render(list), detailStyle.Render(detail)))

	if m.lastError != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("error: " + m.lastError))
	}
	if m.confirmDelete {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("delete session %q? (y/n)", m.names[m.selected])))
	} else {
		b.WriteString(helpStyle.Render("\n↑/↓ select · d delete · r refresh · q quit"))
	}
	return b.String()
}

func (m model) renderList() string {
	if len(m.names) == 0 {
		return dimStyle.Render("no saved sessions")
	}
	var lines []string
	for i, name := range m.names {
		if i == m.selected {
			lines = append(lines, selectedStyle.Render("> "+name))
		} else {
			lines = append(lines, "  "+name)
		}
	}
	return strings.Join(lines, "\n")
}

func (m model) renderDetail() string {
	if m.current == nil {
		return dimStyle.Render("nothing selected")
	}
	st := m.current

	var b strings.Builder
	saved := time.UnixMilli(st.Timestamp).Format("2006-01-02 15:04:05")
	fmt.Fprintf(&b, "version %s · saved %s\n", st.Version, saved)
	fmt.Fprintf(&b, "%d windows · %d apps", len(st.Windows), len(st.Apps))
	if st.Desktop.Theme != "" {
		fmt.Fprintf(&b, " · theme %s", st.Desktop.Theme)
	}
	if st.Desktop.Wallpaper != "" {
		fmt.Fprintf(&b, " · wallpaper %s", st.Desktop.Wallpaper)
	}
	b.WriteString("\n\n")

	for _, w := range st.Windows {
		marker := " "
		if w.ID == st.ActiveWindowID {
			marker = "*"
		}
		state := ""
		switch {
		case w.IsMinimized:
			state = " min"
		case w.IsMaximized:
			state = " max"
		}
		fmt.Fprintf(&b, "%s %-12s %4dx%-4d @ (%d,%d) z=%d%s\n",
			marker, w.AppID, w.Width, w.Height, w.X, w.Y, w.ZIndex, state)
	}
	if len(st.PinnedApps) > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("pinned: " + strings.Join(st.PinnedApps, ", ")))
	}
	return strings.TrimRight(b.String(), "\n")
}

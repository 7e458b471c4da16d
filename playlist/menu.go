package playlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrNoSelection is returned when the picker is dismissed without choosing
var ErrNoSelection = errors.New("playlist: no song selected")

const menuTitle = "Elige una de estas canciones para acompañar esta dedicatoria."

var (
	creamBeige = lipgloss.Color("#F5F0E6")
	softBlue   = lipgloss.Color("#87B5D1")
	deepBlue   = lipgloss.Color("#5C8AA8")

	titleStyle = lipgloss.NewStyle().
			Foreground(deepBlue).
			Bold(true).
			MarginBottom(1)

	itemStyle = lipgloss.NewStyle().
			Foreground(softBlue).
			Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(creamBeige).
			Background(deepBlue).
			Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(softBlue).
			Faint(true).
			MarginTop(1)
)

// Menu is the bubbletea song picker model
type Menu struct {
	songs    []Song
	cursor   int
	chosen   int
	quitting bool
	width    int
}

// NewMenu creates a picker over the catalog, cursor on preselect when present
func NewMenu(c *Catalog, preselect string) Menu {
	m := Menu{songs: c.Songs(), chosen: -1}
	for i, s := range m.songs {
		if s.ID == preselect {
			m.cursor = i
		}
	}
	return m
}

// Selected returns the chosen song once the picker has finished
func (m Menu) Selected() (Song, bool) {
	if m.chosen < 0 || m.chosen >= len(m.songs) {
		return Song{}, false
	}
	return m.songs[m.chosen], true
}

// Cursor returns the highlighted row
func (m Menu) Cursor() int { return m.cursor }

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j", "tab":
			if m.cursor < len(m.songs)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(len(m.songs)-1, 0)
		case "enter", " ":
			if len(m.songs) > 0 {
				m.chosen = m.cursor
				return m, tea.Quit
			}
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			if i := int(msg.String()[0] - '1'); i < len(m.songs) {
				m.cursor = i
				m.chosen = i
				return m, tea.Quit
			}
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Menu) View() string {
	if m.quitting || m.chosen >= 0 {
		return ""
	}
	var sb strings.Builder
	title := titleStyle
	if m.width > 0 {
		title = title.Width(m.width - 2)
	}
	sb.WriteString(title.Render(menuTitle))
	sb.WriteString("\n")
	for i, s := range m.songs {
		row := fmt.Sprintf("%d  %s  ▶", i+1, s.Title)
		if i == m.cursor {
			sb.WriteString(selectedStyle.Render(row))
		} else {
			sb.WriteString(itemStyle.Render(row))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render("↑/↓ move · enter play · q quit"))
	return sb.String()
}

// Pick runs the picker on the controlling terminal
func Pick(ctx context.Context, c *Catalog, preselect string, opts ...tea.ProgramOption) (Song, error) {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(NewMenu(c, preselect), opts...).Run()
	if err != nil {
		return Song{}, fmt.Errorf("playlist: run picker: %w", err)
	}
	song, ok := final.(Menu).Selected()
	if !ok {
		return Song{}, ErrNoSelection
	}
	return song, nil
}

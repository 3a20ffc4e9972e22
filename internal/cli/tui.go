package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// modelEntry is one candidate model file in the picker.
type modelEntry struct {
	Path     string
	Format   string // "toml", "yaml", or "" when the extension is unknown
	Size     int64
	Modified time.Time
}

// newModelEntries stats each path and classifies its format. Paths that
// cannot be statted are kept with zero metadata so the user still sees
// them and the load error surfaces with the name they typed.
func newModelEntries(paths []string) []modelEntry {
	entries := make([]modelEntry, 0, len(paths))
	for _, p := range paths {
		e := modelEntry{Path: p}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".toml":
			e.Format = "toml"
		case ".yaml", ".yml":
			e.Format = "yaml"
		}
		if info, err := os.Stat(p); err == nil {
			e.Size = info.Size()
			e.Modified = info.ModTime()
		}
		entries = append(entries, e)
	}
	return entries
}

// ModelSelection holds the result of the model picker.
type ModelSelection struct {
	Entry *modelEntry
}

// ModelListModel is the bubbletea model for interactive model selection.
type ModelListModel struct {
	Entries  []modelEntry
	Cursor   int
	Selected *ModelSelection
	Height   int
	Offset   int
}

// NewModelListModel creates a new model list picker.
func NewModelListModel(entries []modelEntry) ModelListModel {
	return ModelListModel{
		Entries: entries,
		Cursor:  0,
		Height:  15,
		Offset:  0,
	}
}

func (m ModelListModel) Init() tea.Cmd {
	return nil
}

func (m ModelListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			entry := m.Entries[m.Cursor]
			if entry.Format == "" {
				return m, nil
			}
			m.Selected = &ModelSelection{Entry: &entry}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ModelListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Model"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Entries) {
		end = len(m.Entries)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		format := e.Format
		if format == "" {
			format = "—"
		}

		rows = append(rows, []string{cursor, e.Path, format, formatSize(e.Size), formatRelativeTime(e.Modified)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Model", "Format", "Size", "Modified").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Entries) {
				return lipgloss.NewStyle()
			}
			e := m.Entries[actualIdx]
			supported := e.Format != ""
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Foreground(colorDim)
			}

			switch {
			case isCurrent && supported:
				if col < 3 {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Bold(true)
			case isCurrent:
				return base.Foreground(colorDim).Bold(true)
			case supported:
				return base
			default:
				return base.Foreground(colorDim)
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// pickModel runs the interactive picker and returns the chosen path, or
// "" when the user quit without selecting.
func pickModel(paths []string) (string, error) {
	m := NewModelListModel(newModelEntries(paths))
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	fm, ok := finalModel.(ModelListModel)
	if !ok || fm.Selected == nil {
		return "", nil
	}
	return fm.Selected.Entry.Path, nil
}

func formatSize(n int64) string {
	switch {
	case n <= 0:
		return "—"
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	default:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	}
}

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}

	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

package cli

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/shaderdoc/pkg/errors"
	"github.com/matzehuels/shaderdoc/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// MaterialListModel - Interactive material selection
// =============================================================================

// MaterialListModel is the bubbletea model for picking the material to
// document. Materials that cannot be documented are shown but not
// selectable.
type MaterialListModel struct {
	Materials []pipeline.MaterialSummary
	Cursor    int
	Selected  *pipeline.MaterialSummary
	Height    int
	Offset    int
}

// NewMaterialListModel creates a new material list model with the cursor on
// the first usable material.
func NewMaterialListModel(materials []pipeline.MaterialSummary) MaterialListModel {
	m := MaterialListModel{Materials: materials, Height: 15}
	for i, s := range materials {
		if s.Err == nil {
			m.Cursor = i
			break
		}
	}
	return m
}

func (m MaterialListModel) Init() tea.Cmd {
	return nil
}

func (m MaterialListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Materials)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Materials) == 0 {
				return m, nil
			}
			s := m.Materials[m.Cursor]
			if s.Err != nil {
				return m, nil
			}
			m.Selected = &s
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m MaterialListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Shader"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Materials))
	for i := m.Offset; i < end; i++ {
		s := m.Materials[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		detail := s.Root
		if s.Err != nil {
			detail = describeUnusable(s.Err)
		}
		line := fmt.Sprintf("%s%-28s  %s", cursor, s.Name, listDimStyle.Render(detail))

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case s.Err != nil:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Materials)), len(m.Materials))))
	return b.String()
}

// pickMaterial runs the picker on in/out and returns the chosen material
// name. Quitting without a choice is NO_MATERIAL_SELECTED.
func pickMaterial(sums []pipeline.MaterialSummary, in io.Reader, out io.Writer) (string, error) {
	p := tea.NewProgram(NewMaterialListModel(sums), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("material picker: %w", err)
	}
	if m, ok := final.(MaterialListModel); ok && m.Selected != nil {
		return m.Selected.Name, nil
	}
	return "", errors.New(errors.ErrCodeNoMaterialSelected, "no shader selected")
}

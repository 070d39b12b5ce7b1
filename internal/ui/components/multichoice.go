package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/drillsergeant/internal/ui/theme"
)

// MultiChoice is a lettered multiple-choice selector. Options are
// rendered in label order; a letter key jumps straight to its option.
type MultiChoice struct {
	Question string
	Labels   []string
	Options  map[string]string
	Selected int
	// Chosen is the submitted label, empty until Enter is pressed.
	Chosen string
	// Reveal is the label to highlight as correct after submission.
	// Empty keeps the answer hidden.
	Reveal string
}

// NewMultiChoice creates a new multiple-choice component. labels gives
// the display order of options.
func NewMultiChoice(question string, labels []string, options map[string]string) MultiChoice {
	return MultiChoice{
		Question: question,
		Labels:   labels,
		Options:  options,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Submitted reports whether an option has been chosen.
func (m MultiChoice) Submitted() bool {
	return m.Chosen != ""
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted() {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Labels)-1 {
			m.Selected++
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Labels) {
			m.Chosen = m.Labels[m.Selected]
		}
	default:
		for i, l := range m.Labels {
			if strings.EqualFold(key, l) {
				m.Selected = i
				break
			}
		}
	}

	return m, nil
}

// Highlighted returns the label under the cursor.
func (m MultiChoice) Highlighted() string {
	if m.Selected < 0 || m.Selected >= len(m.Labels) {
		return ""
	}
	return m.Labels[m.Selected]
}

// Select moves the cursor to label without submitting.
func (m *MultiChoice) Select(label string) {
	for i, l := range m.Labels {
		if l == label {
			m.Selected = i
			return
		}
	}
}

// View renders the multiple-choice component wrapped to width.
func (m MultiChoice) View(width int) string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, label := range m.Labels {
		prefix := "  "
		if i == m.Selected && !m.Submitted() {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, label, m.Options[label])
		style := lipgloss.NewStyle().Width(width)

		switch {
		case m.Submitted() && m.Reveal != "" && label == m.Reveal:
			style = style.Foreground(theme.Success).Bold(true)
		case m.Submitted() && label == m.Chosen:
			if m.Reveal != "" {
				style = style.Foreground(theme.Error).Bold(true)
			} else {
				style = style.Foreground(theme.Secondary).Bold(true)
			}
		case m.Submitted():
			style = style.Foreground(theme.TextDim)
		case i == m.Selected:
			style = style.Foreground(theme.Primary).Bold(true)
		default:
			style = style.Foreground(theme.Text)
		}
		s += style.Render(line) + "\n"
	}

	return s
}

// Package setup is the root screen: pick a difficulty and an optional exam
// date, then start a drill.
package setup

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/drillsergeant/internal/content"
	"github.com/abhisek/drillsergeant/internal/router"
	"github.com/abhisek/drillsergeant/internal/screen"
	"github.com/abhisek/drillsergeant/internal/screens/drill"
	sess "github.com/abhisek/drillsergeant/internal/session"
	"github.com/abhisek/drillsergeant/internal/ui/components"
	"github.com/abhisek/drillsergeant/internal/ui/layout"
	"github.com/abhisek/drillsergeant/internal/ui/theme"
)

const dateLayout = "2006-01-02"

type focus int

const (
	focusMenu focus = iota
	focusDate
)

// sessionCreatedMsg is sent when CreateSession returns.
type sessionCreatedMsg struct {
	Session sess.Session
	Err     error
}

// SetupScreen implements screen.Screen for drill setup.
type SetupScreen struct {
	svc     drill.Orchestrator
	menu    components.Menu
	date    components.TextInput
	focus   focus
	loading bool
	errMsg  string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

var difficultyNotes = map[content.Difficulty]string{
	content.Beginner:     "Short passage, explicit detail questions",
	content.Intermediate: "Standard passage, inference and purpose questions",
	content.Advanced:     "Dense argument, structure and weaken questions",
}

// New creates the setup screen. examDate pre-fills the date field and may
// be zero.
func New(svc drill.Orchestrator, examDate time.Time) *SetupScreen {
	s := &SetupScreen{
		svc:  svc,
		date: components.NewTextInput("YYYY-MM-DD (optional)", components.DateChars, len(dateLayout)),
	}
	if !examDate.IsZero() {
		s.date.Model.SetValue(examDate.Format(dateLayout))
	}
	s.date.Model.Blur()

	items := make([]components.MenuItem, 0, len(content.Difficulties))
	for _, d := range content.Difficulties {
		items = append(items, components.MenuItem{
			Label:       string(d),
			Description: difficultyNotes[d],
			Action:      func() tea.Cmd { return s.start(d) },
		})
	}
	s.menu = components.NewMenu(items)
	return s
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "New Drill"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.focus == focusDate {
		return []layout.KeyHint{
			{Key: "Enter/Tab", Description: "Done"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓/1-3", Description: "Difficulty"},
		{Key: "Enter", Description: "Start"},
		{Key: "Tab", Description: "Exam date"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionCreatedMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		next := drill.New(s.svc, msg.Session)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}
		return s.handleKey(msg)
	}

	if s.focus == focusDate {
		var cmd tea.Cmd
		s.date, cmd = s.date.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SetupScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if key == "tab" || (s.focus == focusDate && key == "enter") {
		return s, s.toggleFocus()
	}

	var cmd tea.Cmd
	if s.focus == focusDate {
		s.date, cmd = s.date.Update(msg)
		return s, cmd
	}
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SetupScreen) toggleFocus() tea.Cmd {
	if s.focus == focusMenu {
		s.focus = focusDate
		return s.date.Model.Focus()
	}
	s.focus = focusMenu
	s.date.Model.Blur()
	if _, err := s.examDate(); err != nil {
		s.date.Submit(false)
	}
	return nil
}

func (s *SetupScreen) examDate() (time.Time, error) {
	v := s.date.Value()
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("exam date must be YYYY-MM-DD")
	}
	return t, nil
}

func (s *SetupScreen) start(d content.Difficulty) tea.Cmd {
	exam, err := s.examDate()
	if err != nil {
		s.errMsg = err.Error()
		s.date.Submit(false)
		return nil
	}
	s.errMsg = ""
	s.loading = true
	svc := s.svc
	return func() tea.Msg {
		created, err := svc.CreateSession(context.Background(), d, exam)
		return sessionCreatedMsg{Session: created, Err: err}
	}
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("GRE Reading Drill"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render("One passage. No excuses."))
	b.WriteString("\n\n")

	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	if s.focus == focusMenu {
		label = label.Foreground(theme.Secondary)
	}
	form := label.Render("Difficulty") + "\n" + s.menu.View() + "\n"

	label = lipgloss.NewStyle().Foreground(theme.TextDim)
	if s.focus == focusDate {
		label = label.Foreground(theme.Secondary)
	}
	form += label.Render("Exam date") + "\n  " + s.date.View()

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Card.Render(form)))
	b.WriteString("\n\n")

	switch {
	case s.loading:
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).Render("Fetching a passage..."))
	case s.errMsg != "":
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.Error).Render("Error: " + s.errMsg))
	}

	return b.String()
}

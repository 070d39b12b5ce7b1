// Package drill is the screen that runs one session: the timed exam, the
// wait for diagnoses, and the redemption round.
package drill

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drillsergeant/internal/content"
	"github.com/abhisek/drillsergeant/internal/router"
	"github.com/abhisek/drillsergeant/internal/screen"
	"github.com/abhisek/drillsergeant/internal/screens/summary"
	sess "github.com/abhisek/drillsergeant/internal/session"
	"github.com/abhisek/drillsergeant/internal/ui/components"
	"github.com/abhisek/drillsergeant/internal/ui/layout"
)

// Orchestrator is the subset of the session service the TUI drives.
type Orchestrator interface {
	CreateSession(ctx context.Context, difficulty content.Difficulty, examDate time.Time) (sess.Session, error)
	AnalyzeAnswers(ctx context.Context, sessionID string, answers map[int]string) ([]sess.Result, error)
	ComposeSummary(ctx context.Context, req sess.SummaryRequest) sess.SummaryPayload
}

// DrillScreen implements screen.Screen for an active drill.
type DrillScreen struct {
	svc   Orchestrator
	drill *sess.Drill

	question    int // index into the session's questions during the exam
	choice      components.MultiChoice
	showPassage bool
	// retryDone is set once the current mistake's retry has been answered.
	retryDone bool
	errMsg    string
	now       func() time.Time
}

var _ screen.Screen = (*DrillScreen)(nil)
var _ screen.KeyHintProvider = (*DrillScreen)(nil)
var _ screen.StatusProvider = (*DrillScreen)(nil)

// New creates a DrillScreen for a freshly created session.
func New(svc Orchestrator, s sess.Session) *DrillScreen {
	d := &DrillScreen{
		svc:         svc,
		drill:       sess.NewDrill(s),
		showPassage: true,
		now:         time.Now,
	}
	d.loadQuestion()
	return d
}

func (d *DrillScreen) Init() tea.Cmd {
	return nil
}

func (d *DrillScreen) Title() string {
	switch d.drill.Phase {
	case sess.PhaseRedemption:
		return "Redemption"
	case sess.PhaseAnalysis, sess.PhaseSummary:
		return "Debrief"
	default:
		return fmt.Sprintf("%s Drill", d.drill.Session.Difficulty)
	}
}

func (d *DrillScreen) Status() string {
	exam := d.drill.Session.ExamDate
	if exam.IsZero() {
		return ""
	}
	days := int(truncateDay(exam).Sub(truncateDay(d.now())).Hours() / 24)
	switch {
	case days < 0:
		return "Exam passed"
	case days == 0:
		return "Exam today"
	default:
		return fmt.Sprintf("Exam in %dd", days)
	}
}

func (d *DrillScreen) KeyHints() []layout.KeyHint {
	if d.errMsg != "" {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	switch d.drill.Phase {
	case sess.PhaseExam:
		if d.showPassage {
			return []layout.KeyHint{
				{Key: "Tab", Description: "Questions"},
				{Key: "Esc", Description: "Abort"},
			}
		}
		return []layout.KeyHint{
			{Key: "A-E/↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Lock in"},
			{Key: "Tab", Description: "Passage"},
		}
	case sess.PhaseRedemption:
		if d.retryDone {
			return []layout.KeyHint{{Key: "Enter", Description: "Next"}}
		}
		return []layout.KeyHint{
			{Key: "A-E/↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Retry"},
		}
	}
	return nil
}

func (d *DrillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case analyzedMsg:
		return d.handleAnalyzed(msg)
	case summaryReadyMsg:
		return d.handleSummary(msg)
	case tea.KeyMsg:
		return d.handleKey(msg)
	}
	return d, nil
}

func (d *DrillScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if d.errMsg != "" {
		return d, nil
	}

	switch d.drill.Phase {
	case sess.PhaseExam:
		if msg.String() == "tab" {
			d.showPassage = !d.showPassage
			return d, nil
		}
		if d.showPassage {
			return d, nil
		}
		d.choice, _ = d.choice.Update(msg)
		if d.choice.Submitted() {
			return d.lockIn()
		}

	case sess.PhaseRedemption:
		if d.retryDone {
			if msg.String() == "enter" {
				return d.nextRetry()
			}
			return d, nil
		}
		d.choice, _ = d.choice.Update(msg)
		if d.choice.Submitted() {
			d.drill.RetryAnswer(d.choice.Chosen)
			d.choice.Reveal = d.currentQuestion().CorrectOption
			d.retryDone = true
		}
	}
	return d, nil
}

// lockIn records the exam answer and moves to the next question, submitting
// after the last one.
func (d *DrillScreen) lockIn() (screen.Screen, tea.Cmd) {
	q := d.drill.Session.Questions[d.question]
	d.drill.Answer(q.ID, d.choice.Chosen)
	d.question++
	if d.question < len(d.drill.Session.Questions) {
		d.loadQuestion()
		return d, nil
	}
	d.drill.Submit()
	return d, d.analyzeCmd()
}

func (d *DrillScreen) nextRetry() (screen.Screen, tea.Cmd) {
	d.drill.Next()
	if d.drill.Phase == sess.PhaseSummary {
		return d, d.summaryCmd()
	}
	d.retryDone = false
	d.loadRetry()
	return d, nil
}

func (d *DrillScreen) handleAnalyzed(msg analyzedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		d.errMsg = msg.Err.Error()
		return d, nil
	}
	d.drill.SetResults(msg.Results)
	if d.drill.Phase == sess.PhaseSummary {
		return d, d.summaryCmd()
	}
	d.loadRetry()
	return d, nil
}

func (d *DrillScreen) handleSummary(msg summaryReadyMsg) (screen.Screen, tea.Cmd) {
	req := d.drill.SummaryRequest()
	report := summary.Report{
		OriginalScore: req.OriginalScore,
		FinalMastery:  req.FinalMastery,
		Traps:         req.TrapsIdentified,
		Headline:      msg.Payload.Headline,
		Body:          msg.Payload.Body,
		Degraded:      msg.Payload.Degraded,
	}
	return d, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(report)}
	}
}

func (d *DrillScreen) analyzeCmd() tea.Cmd {
	id := d.drill.Session.ID
	answers := make(map[int]string, len(d.drill.Answers))
	for k, v := range d.drill.Answers {
		answers[k] = v
	}
	return func() tea.Msg {
		results, err := d.svc.AnalyzeAnswers(context.Background(), id, answers)
		return analyzedMsg{Results: results, Err: err}
	}
}

func (d *DrillScreen) summaryCmd() tea.Cmd {
	req := d.drill.SummaryRequest()
	return func() tea.Msg {
		return summaryReadyMsg{Payload: d.svc.ComposeSummary(context.Background(), req)}
	}
}

func (d *DrillScreen) loadQuestion() {
	qs := d.drill.Session.Questions
	if d.question >= len(qs) {
		return
	}
	q := qs[d.question]
	d.choice = components.NewMultiChoice(q.Stem, q.Labels(), q.Options)
}

func (d *DrillScreen) loadRetry() {
	q := d.currentQuestion()
	d.choice = components.NewMultiChoice(q.Stem, q.Labels(), q.Options)
}

// currentQuestion returns the question under the current retry.
func (d *DrillScreen) currentQuestion() content.Question {
	r := d.drill.CurrentRetry()
	if r == nil {
		return content.Question{}
	}
	for _, q := range d.drill.Session.Questions {
		if q.ID == r.QuestionID {
			return q
		}
	}
	return content.Question{}
}

func truncateDay(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

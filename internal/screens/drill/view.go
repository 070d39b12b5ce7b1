package drill

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/drillsergeant/internal/diagnosis"
	sess "github.com/abhisek/drillsergeant/internal/session"
	"github.com/abhisek/drillsergeant/internal/ui/components"
	"github.com/abhisek/drillsergeant/internal/ui/layout"
	"github.com/abhisek/drillsergeant/internal/ui/theme"
)

func (d *DrillScreen) View(width, height int) string {
	if d.errMsg != "" {
		return renderError(width, d.errMsg)
	}
	switch d.drill.Phase {
	case sess.PhaseExam:
		if d.showPassage {
			return d.renderPassage(width, height)
		}
		return d.renderExamQuestion(width)
	case sess.PhaseRedemption:
		return d.renderRedemption(width)
	case sess.PhaseAnalysis:
		return renderWaiting(width, "Reviewing your answers. Stand by...")
	default:
		return renderWaiting(width, "Writing your debrief...")
	}
}

func (d *DrillScreen) renderPassage(width, height int) string {
	cw := layout.ContentWidth(width)
	p := d.drill.Session.Passage

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render(p.Title))
	b.WriteString("\n\n")
	body := theme.Body.Width(cw - 4).Render(p.Body)
	b.WriteString(theme.Card.Width(cw).Render(body))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d questions. Read carefully, then press Tab.",
		len(d.drill.Session.Questions))))

	return center(width, b.String())
}

func (d *DrillScreen) renderExamQuestion(width int) string {
	cw := layout.ContentWidth(width)
	total := len(d.drill.Session.Questions)

	var b strings.Builder
	b.WriteString(theme.Subtitle.Width(cw).Render(
		fmt.Sprintf("Question %d of %d", d.question+1, total)))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar(fmt.Sprintf("%d/%d", d.question, total),
		components.QuestionSegments(total, d.question), cw).View())
	b.WriteString("\n\n")
	b.WriteString(d.choice.View(cw))

	return center(width, b.String())
}

func (d *DrillScreen) renderRedemption(width int) string {
	cw := layout.ContentWidth(width)
	r := d.drill.CurrentRetry()
	if r == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(theme.Subtitle.Width(cw).Render(
		fmt.Sprintf("Mistake %d of %d", d.retryIndex()+1, len(d.drill.Retries))))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar("", retrySegments(d.drill.Retries, r), cw).View())
	b.WriteString("\n\n")

	trap := r.Diagnosis.TrapType
	if trap == "" {
		trap = diagnosis.TrapUnknown
	}
	b.WriteString(theme.Trap.Render("Trap: " + string(trap)))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Width(cw).Render("Hint: " + r.Diagnosis.RetryHint))
	b.WriteString("\n\n")
	b.WriteString(d.choice.View(cw))

	if d.retryDone {
		b.WriteString("\n")
		if r.Fixed {
			b.WriteString(theme.Correct.Render("Corrected. Trap neutralized."))
		} else {
			b.WriteString(theme.Incorrect.Render("Still wrong."))
			b.WriteString("\n")
			b.WriteString(theme.Body.Width(cw).Render(r.Diagnosis.FullExplanation))
		}
	}

	return center(width, b.String())
}

func (d *DrillScreen) retryIndex() int {
	r := d.drill.CurrentRetry()
	for i := range d.drill.Retries {
		if &d.drill.Retries[i] == r {
			return i
		}
	}
	return 0
}

func center(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

func renderWaiting(width int, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  " + text)
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press Esc to go back.", errMsg))
}

func retrySegments(retries []sess.Retry, current *sess.Retry) []components.Segment {
	segs := make([]components.Segment, len(retries))
	for i := range retries {
		r := &retries[i]
		switch {
		case r.Fixed:
			segs[i] = components.SegmentFixed
		case r.Attempted:
			segs[i] = components.SegmentMissed
		case r == current:
			segs[i] = components.SegmentCurrent
		}
	}
	return segs
}

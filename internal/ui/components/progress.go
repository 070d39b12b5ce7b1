package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/drillsergeant/internal/ui/theme"
)

// Segment is the state of one question or mistake in a ProgressBar.
type Segment int

const (
	SegmentPending Segment = iota
	SegmentCurrent
	SegmentDone
	SegmentFixed
	SegmentMissed
)

func (s Segment) color() lipgloss.Style {
	st := lipgloss.NewStyle()
	switch s {
	case SegmentCurrent:
		return st.Background(theme.Secondary)
	case SegmentDone:
		return st.Background(theme.Primary)
	case SegmentFixed:
		return st.Background(theme.Success)
	case SegmentMissed:
		return st.Background(theme.Error)
	}
	return st.Background(theme.Border)
}

// ProgressBar is a segmented bar with one block per question or mistake,
// preceded by an optional label such as "3/5".
type ProgressBar struct {
	Label    string
	Segments []Segment
	Width    int
}

// NewProgressBar creates a bar that renders to exactly width cells.
func NewProgressBar(label string, segments []Segment, width int) ProgressBar {
	return ProgressBar{Label: label, Segments: segments, Width: width}
}

// QuestionSegments marks questions before current as done and current as
// in progress.
func QuestionSegments(total, current int) []Segment {
	segs := make([]Segment, total)
	for i := range segs {
		switch {
		case i < current:
			segs[i] = SegmentDone
		case i == current:
			segs[i] = SegmentCurrent
		}
	}
	return segs
}

// View renders the bar.
func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.Label + "  "))
	}
	avail := max(p.Width-lipgloss.Width(b.String()), 1)

	n := len(p.Segments)
	if n == 0 {
		b.WriteString(SegmentPending.color().Render(strings.Repeat(" ", avail)))
		return b.String()
	}

	if avail < n {
		// More segments than cells: each cell shows the segment under it.
		for c := 0; c < avail; c++ {
			b.WriteString(p.Segments[c*n/avail].color().Render(" "))
		}
		return b.String()
	}

	gap := 1
	if avail < 2*n-1 {
		gap = 0
	}
	cells := max(avail-gap*(n-1), n)
	per, extra := cells/n, cells%n
	for i, seg := range p.Segments {
		if i > 0 && gap > 0 {
			b.WriteString(" ")
		}
		w := per
		if i < extra {
			w++
		}
		b.WriteString(seg.color().Render(strings.Repeat(" ", w)))
	}
	return b.String()
}
